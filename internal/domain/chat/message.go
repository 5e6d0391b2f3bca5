package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_message_user_created,priority:1" json:"user_id"`
	Role          string    `gorm:"column:role;not null" json:"role"`
	Text          string    `gorm:"column:text;not null" json:"text"`
	Track         Track     `gorm:"column:track;not null" json:"track,omitempty"`
	IsVoice       bool      `gorm:"column:is_voice;not null" json:"is_voice"`
	AudioDuration *float64  `gorm:"column:audio_duration" json:"audio_duration,omitempty"`

	CreatedAt time.Time `gorm:"not null;index:idx_chat_message_user_created,priority:2" json:"created_at"`
}

func (ChatMessage) TableName() string { return "chat_message" }

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
