package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ModeVoice = "voice"
	ModeText  = "text"
)

// UserProfile is the matchable identity of a person talking to the companion.
type UserProfile struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string                      `gorm:"column:name;not null" json:"name"`
	City          string                      `gorm:"column:city;index" json:"city,omitempty"`
	CurrentRole   string                      `gorm:"column:role_title" json:"current_role,omitempty"`
	Industries    datatypes.JSONSlice[string] `gorm:"column:industries" json:"industries"`
	Intent        string                      `gorm:"column:intent" json:"intent,omitempty"`
	OpenToIntros  bool                        `gorm:"column:open_to_intros;not null;index" json:"open_to_intros"`
	PreferredMode string                      `gorm:"column:preferred_mode;not null" json:"preferred_mode"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profile" }

func (u *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.PreferredMode == "" {
		u.PreferredMode = ModeVoice
	}
	if u.Industries == nil {
		u.Industries = datatypes.JSONSlice[string]{}
	}
	return nil
}
