package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/EmilyGongVL/ecommerce-v1/pkg/enums"
)

// User represents the canonical identity entity. The password hash is
// never serialized into API responses.
type User struct {
	ID                   uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name                 string         `gorm:"column:name;not null" json:"name"`
	Email                string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash         string         `gorm:"column:password_hash;not null" json:"-"`
	ImageURL             string         `gorm:"column:image_url;not null;default:'default.jpg'" json:"image"`
	Role                 enums.UserRole `gorm:"column:role;type:text;not null;default:'user'" json:"role"`
	PasswordChangedAt    *time.Time     `gorm:"column:password_changed_at" json:"-"`
	PasswordResetToken   *string        `gorm:"column:password_reset_token" json:"-"`
	PasswordResetExpires *time.Time     `gorm:"column:password_reset_expires" json:"-"`
	Active               bool           `gorm:"column:active;not null;default:true" json:"-"`
	CreatedAt            time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt            time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
