package chat

import (
	"time"

	"github.com/google/uuid"
)

// Track is the conversation mode. The empty Track means none.
type Track string

const (
	TrackNone       Track = ""
	TrackCatMBA     Track = "cat_mba"
	TrackJobsCareer Track = "jobs_career"
	TrackRoastPlay  Track = "roast_play"
)

func (t Track) Valid() bool {
	switch t {
	case TrackCatMBA, TrackJobsCareer, TrackRoastPlay:
		return true
	}
	return false
}

// ConversationState tracks one user's conversation. MessageCount only grows.
type ConversationState struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CurrentTrack Track     `gorm:"column:current_track;not null;index" json:"current_track,omitempty"`
	MessageCount int64     `gorm:"column:message_count;not null" json:"message_count"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (ConversationState) TableName() string { return "conversation_state" }
