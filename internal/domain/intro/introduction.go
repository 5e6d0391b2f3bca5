package intro

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// Action is what a recipient can do with a pending introduction.
type Action string

const (
	ActionAccept  Action = "accept"
	ActionDecline Action = "decline"
)

// Target returns the status an action moves a pending introduction to.
func (a Action) Target() (Status, bool) {
	switch a {
	case ActionAccept:
		return StatusAccepted, true
	case ActionDecline:
		return StatusDeclined, true
	}
	return "", false
}

// Introduction is a suggested connection from FromUserID to ToUserID.
// PairKey identifies the unordered pair; at most one non-declined record
// exists per PairKey.
type Introduction struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FromUserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"from_user_id"`
	ToUserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"to_user_id"`
	PairKey      string    `gorm:"column:pair_key;not null;index" json:"-"`
	Reason       string    `gorm:"column:reason;not null" json:"reason"`
	Score        float64   `gorm:"column:score;not null" json:"score"`
	Status       Status    `gorm:"column:status;not null;index" json:"status"`
	FromNotified bool      `gorm:"column:from_notified;not null" json:"from_notified"`
	ToNotified   bool      `gorm:"column:to_notified;not null" json:"to_notified"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Introduction) TableName() string { return "introduction" }

func (i *Introduction) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.PairKey == "" {
		i.PairKey = PairKey(i.FromUserID, i.ToUserID)
	}
	if i.Status == "" {
		i.Status = StatusPending
	}
	return nil
}

// PairKey is the same for (a, b) and (b, a).
func PairKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if y < x {
		x, y = y, x
	}
	return x + ":" + y
}

// Other returns the party that is not userID.
func (i *Introduction) Other(userID uuid.UUID) uuid.UUID {
	if i.FromUserID == userID {
		return i.ToUserID
	}
	return i.FromUserID
}
