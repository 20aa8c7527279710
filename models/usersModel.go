package models

import (
	"fmt"
	"time"
)

// Role is the single role granted to an account through its profile.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Roles lists every accepted role value.
var Roles = []interface{}{RoleDoctor, RolePatient}

// User represents an account that can authenticate against the API.
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Username  string    `gorm:"size:150;not null;uniqueIndex;column:username" json:"username"`
	Password  string    `gorm:"size:255;not null;column:password" json:"-"`
	IsActive  bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
	Profile   *Profile  `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"profile"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// IsAuthenticated reports whether u is a persisted, active account.
func (u *User) IsAuthenticated() bool {
	return u != nil && u.ID != 0 && u.IsActive
}

func (u *User) String() string {
	if u.Profile == nil {
		return u.Username
	}
	return fmt.Sprintf("%s (%s)", u.Username, u.Profile.Role)
}

// Profile attaches a role to a user, one-to-one.
type Profile struct {
	ID     uint `gorm:"primaryKey;autoIncrement;column:id" json:"-"`
	UserID uint `gorm:"not null;uniqueIndex;column:user_id" json:"-"`
	Role   Role `gorm:"size:10;not null;check:role IN ('doctor', 'patient');column:role" json:"role"`
}

func (Profile) TableName() string {
	return "user_profiles"
}
