package model

import "time"

// Message is a direct message between two teachers.
type Message struct {
	ID         string     `json:"id"`
	SenderID   string     `json:"sender_id"`
	ReceiverID string     `json:"receiver_id"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
}

type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required,max=64"`
	Content    string `json:"content" binding:"required,max=2000"`
}

type MarkReadRequest struct {
	PartnerID string `json:"partner_id" binding:"required,max=64"`
}
