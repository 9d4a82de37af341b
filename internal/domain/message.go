package domain

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    *uuid.UUID `gorm:"type:char(36);index" json:"user_id,omitempty"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	RoomID    uuid.UUID  `gorm:"type:char(36);not null;index" json:"room_id"`
	Room      *Room      `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"room,omitempty"`
	Body      string     `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) IsAuthoredBy(userID uuid.UUID) bool {
	return m.UserID != nil && *m.UserID == userID
}

// Preview is the first 50 characters of the body.
func (m *Message) Preview() string {
	runes := []rune(m.Body)
	if len(runes) > 50 {
		return string(runes[:50])
	}
	return m.Body
}
