package entity

import "time"

type RefreshToken struct {
	Id        string     `bson:"_id" json:"id"`
	UserId    string     `bson:"userId" json:"userId"`
	Token     string     `bson:"token" json:"token"`
	ExpiresAt time.Time  `bson:"expiresAt" json:"expiresAt"`
	IsRevoked bool       `bson:"isRevoked" json:"isRevoked"`
	RevokedAt *time.Time `bson:"revokedAt" json:"revokedAt"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
}
