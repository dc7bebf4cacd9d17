package domain

import "time"

// ChatMessage is one message inside a relation's conversation.
// Messages are append-only: the only mutation after creation is the
// read flag flipping from false to true.
type ChatMessage struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	RelationID string    `gorm:"size:64;index" json:"relationId"`
	SenderID   string    `gorm:"size:64;index" json:"senderId"`
	Body       string    `gorm:"type:text" json:"message"`
	Read       bool      `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}
