package entity

import "time"

type User struct {
	Id             string    `bson:"_id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Username       string    `bson:"username" json:"username"`
	Email          string    `bson:"email" json:"email"`
	Password       string    `bson:"password" json:"-"` // Don't expose password in JSON
	Bio            string    `bson:"bio" json:"bio"`
	AvatarUrl      *string   `bson:"avatarUrl" json:"avatarUrl"`
	CoverUrl       *string   `bson:"coverUrl" json:"coverUrl"`
	PostsCount     int       `bson:"postsCount" json:"postsCount"`
	FollowersCount int       `bson:"followersCount" json:"followersCount"`
	FollowingCount int       `bson:"followingCount" json:"followingCount"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the profile subset safe to embed in responses about other
// users, e.g. the counterpart in a conversation listing.
type PublicUser struct {
	Id        string  `bson:"_id" json:"id"`
	Name      string  `bson:"name" json:"name"`
	Username  string  `bson:"username" json:"username"`
	AvatarUrl *string `bson:"avatarUrl" json:"avatarUrl"`
}

// Public returns the embeddable profile subset of u.
func (u User) Public() PublicUser {
	return PublicUser{
		Id:        u.Id,
		Name:      u.Name,
		Username:  u.Username,
		AvatarUrl: u.AvatarUrl,
	}
}
