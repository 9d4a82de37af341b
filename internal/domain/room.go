package domain

import (
	"time"

	"github.com/google/uuid"
)

type Room struct {
	ID           uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	HostID       *uuid.UUID `gorm:"type:char(36);index" json:"host_id,omitempty"`
	Host         *User      `gorm:"foreignKey:HostID;constraint:OnDelete:SET NULL" json:"host,omitempty"`
	TopicID      *uuid.UUID `gorm:"type:char(36);index" json:"topic_id,omitempty"`
	Topic        *Topic     `gorm:"foreignKey:TopicID;constraint:OnDelete:SET NULL" json:"topic,omitempty"`
	Name         string     `gorm:"size:200;not null" json:"name"`
	Description  string     `gorm:"type:text" json:"description"`
	Participants []*User    `gorm:"many2many:room_participants" json:"participants,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Room) TableName() string {
	return "rooms"
}

// IsHostedBy reports whether userID is the room's host. A room whose host
// account was deleted is hosted by nobody.
func (r *Room) IsHostedBy(userID uuid.UUID) bool {
	return r.HostID != nil && *r.HostID == userID
}

// RoomParticipant is the join row between rooms and users.
type RoomParticipant struct {
	RoomID   uuid.UUID `gorm:"type:char(36);primaryKey" json:"room_id"`
	UserID   uuid.UUID `gorm:"type:char(36);primaryKey" json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

func (RoomParticipant) TableName() string {
	return "room_participants"
}

type RoomDetail struct {
	Room         *Room      `json:"room"`
	Messages     []*Message `json:"messages"`
	Participants []*User    `json:"participants"`
}

// Home is the landing page: the search result plus the sidebars.
type Home struct {
	Rooms      []*Room           `json:"rooms"`
	RoomCount  int               `json:"room_count"`
	Topics     []*TopicWithRooms `json:"topics"`
	TopicCount int64             `json:"topic_count"`
	Activity   []*Message        `json:"activity"`
}
