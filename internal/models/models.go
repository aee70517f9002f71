package models

import "time"

// ConversationMessage is one stored message in a conversation room.
// Exactly one message exists per (tweet, agent) pair; the ID is the
// deterministic hash of both, so creation is an idempotent upsert.
type ConversationMessage struct {
	ID             string    `json:"id"`
	AgentID        string    `json:"agent_id"`
	UserID         string    `json:"user_id"`
	RoomID         string    `json:"room_id"`
	Text           string    `json:"text"`
	AttachmentURLs []string  `json:"attachment_urls,omitempty"`
	InReplyTo      string    `json:"in_reply_to,omitempty"`
	Action         string    `json:"action,omitempty"`
	Source         string    `json:"source"`
	CreatedAt      time.Time `json:"created_at"`
}

// Reply is the model's generated response to a conversation.
type Reply struct {
	Text      string `json:"text"`
	Action    string `json:"action,omitempty"`
	InReplyTo string `json:"in_reply_to,omitempty"`
}

// ImageDescription is the result of describing one attached image.
type ImageDescription struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
