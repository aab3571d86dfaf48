package entity

// Conversation is the derived per-counterpart view returned by the
// conversation listing: the counterpart's public profile, the most recent
// message between the pair, and how many of their messages the caller has
// not read yet. It is recomputed on every request and never stored.
type Conversation struct {
	User        PublicUser `bson:"user" json:"user"`
	LastMessage Message    `bson:"lastMessage" json:"lastMessage"`
	UnreadCount int        `bson:"unreadCount" json:"unreadCount"`
}

// ConversationView annotates the last message with relative-time labels.
type ConversationView struct {
	User        PublicUser  `json:"user"`
	LastMessage MessageView `json:"lastMessage"`
	UnreadCount int         `json:"unreadCount"`
}
