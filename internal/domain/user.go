package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	Username     string     `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email        string     `gorm:"size:254;not null;default:'';index" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	DisplayName  string     `gorm:"size:200;not null;default:''" json:"display_name"`
	Bio          string     `gorm:"type:text" json:"bio"`
	AvatarURL    *string    `gorm:"size:500" json:"avatar_url,omitempty"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

type UserSession struct {
	ID               uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:char(36);not null;index" json:"user_id"`
	RefreshTokenHash string     `gorm:"size:64;not null;uniqueIndex" json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	ExpiresAt        time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt        *time.Time `json:"revoked_at,omitempty"`
	RevokedReason    *string    `gorm:"size:50" json:"revoked_reason,omitempty"`
	IPAddress        *string    `gorm:"size:64" json:"ip_address,omitempty"`
	UserAgent        *string    `gorm:"size:500" json:"user_agent,omitempty"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}

// UserProfile is the public view of a user with what they host and wrote.
type UserProfile struct {
	User     *User             `json:"user"`
	Rooms    []*Room           `json:"rooms"`
	Messages []*Message        `json:"messages"`
	Topics   []*TopicWithRooms `json:"topics"`
}

const (
	SessionRevokedLogout    = "logout"
	SessionRevokedRefreshed = "refreshed"
)
