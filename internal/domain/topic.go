package domain

import (
	"time"

	"github.com/google/uuid"
)

// Topic names are unique by convention only; lookups go by exact name.
type Topic struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null;index" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Topic) TableName() string {
	return "topics"
}

type TopicWithRooms struct {
	Topic
	RoomCount int64 `json:"room_count"`
}

const DefaultTopTopics = 5
