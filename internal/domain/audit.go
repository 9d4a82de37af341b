package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditLog struct {
	ID          int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	EventTime   time.Time         `gorm:"not null;index" json:"event_time"`
	ActorUserID *uuid.UUID        `gorm:"type:char(36)" json:"actor_user_id,omitempty"`
	ActorRole   string            `gorm:"size:20;not null" json:"actor_role"`
	RoomID      *uuid.UUID        `gorm:"type:char(36);index" json:"room_id,omitempty"`
	EventType   string            `gorm:"size:50;not null" json:"event_type"`
	Payload     datatypes.JSONMap `json:"payload"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

const (
	ActorRoleUser   = "user"
	ActorRoleHost   = "host"
	ActorRoleAuthor = "author"
	ActorRoleSystem = "system"
)

const (
	EventTypeRoomCreated    = "ROOM_CREATED"
	EventTypeRoomUpdated    = "ROOM_UPDATED"
	EventTypeRoomDeleted    = "ROOM_DELETED"
	EventTypeMessagePosted  = "MESSAGE_POSTED"
	EventTypeMessageUpdated = "MESSAGE_UPDATED"
	EventTypeMessageDeleted = "MESSAGE_DELETED"
	EventTypeUserRegistered = "USER_REGISTERED"
	EventTypeUserDeleted    = "USER_DELETED"
)
