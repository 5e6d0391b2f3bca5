package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LearningProfile persists Learnings for one user. Version is bumped on every
// write and used as the compare-and-set token.
type LearningProfile struct {
	ID      uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID                     `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Data    datatypes.JSONType[Learnings] `gorm:"column:data;not null" json:"data"`
	Version int64                         `gorm:"column:version;not null" json:"version"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (LearningProfile) TableName() string { return "learning_profile" }

func (p *LearningProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
