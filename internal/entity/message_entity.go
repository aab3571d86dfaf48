package entity

import "time"

// Message is a direct message between two users. Sender, recipient, text and
// createdAt are immutable after creation; only the read state ever changes,
// and only through the read transitions in the message usecase.
type Message struct {
	Id        string     `bson:"_id" json:"id"`
	From      string     `bson:"from" json:"from"`
	To        string     `bson:"to" json:"to"`
	Text      string     `bson:"text" json:"text"`
	IsRead    bool       `bson:"isRead" json:"isRead"`
	ReadAt    *time.Time `bson:"readAt" json:"readAt"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
}

// MessageView is a Message annotated with relative-time labels for delivery
// to clients. ReadAgo is nil until the message has been read.
type MessageView struct {
	Message
	SentAgo string  `json:"sentAgo"`
	ReadAgo *string `json:"readAgo"`
}
