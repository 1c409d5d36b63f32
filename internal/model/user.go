package model

import (
	"strings"
	"time"
)

// ExperienceLevel classifies how far along a user is in their career.
type ExperienceLevel string

// Allowed experience levels.
const (
	ExperienceEntry     ExperienceLevel = "ENTRY"
	ExperienceMid       ExperienceLevel = "MID"
	ExperienceSenior    ExperienceLevel = "SENIOR"
	ExperienceLead      ExperienceLevel = "LEAD"
	ExperienceExecutive ExperienceLevel = "EXECUTIVE"
)

// Valid reports whether the level is one of the allowed values.
func (e ExperienceLevel) Valid() bool {
	switch e {
	case ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceLead, ExperienceExecutive:
		return true
	}
	return false
}

// User is the gorm model for a registered account. The password column holds
// a bcrypt hash and is never serialized.
type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement;->" json:"id"`
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Email    string `gorm:"type:varchar(150);uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Phone             string          `gorm:"type:varchar(15)" json:"phone"`
	Location          string          `gorm:"type:varchar(200)" json:"location"`
	CurrentRole       string          `gorm:"type:varchar(100)" json:"current_role"`
	ExperienceLevel   ExperienceLevel `gorm:"type:varchar(20);default:'ENTRY'" json:"experience_level"`
	SalaryExpectation string          `gorm:"type:varchar(50)" json:"salary_expectation"`

	EmailVerified    bool `json:"email_verified"`
	ProfileCompleted bool `json:"profile_completed"`

	Jobs []Job `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EditableUserInfo holds the profile fields a user may change after
// registration. Empty fields mean "leave unchanged".
type EditableUserInfo struct {
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Location          string `json:"location"`
	CurrentRole       string `json:"current_role"`
	ExperienceLevel   string `json:"experience_level"`
	SalaryExpectation string `json:"salary_expectation"`
}

// RecomputeProfileCompleted refreshes the derived profile_completed flag:
// true iff name, phone, location and current role are all non-blank. The flag
// is never taken from client input.
func (u *User) RecomputeProfileCompleted() {
	u.ProfileCompleted = strings.TrimSpace(u.Name) != "" &&
		strings.TrimSpace(u.Phone) != "" &&
		strings.TrimSpace(u.Location) != "" &&
		strings.TrimSpace(u.CurrentRole) != ""
}

// AuthResponse is the body returned by register and login: the bearer token
// plus the stored profile.
type AuthResponse struct {
	Token             string          `json:"token"`
	Type              string          `json:"type"`
	ID                uint            `json:"id"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
	Location          string          `json:"location"`
	CurrentRole       string          `json:"current_role"`
	ExperienceLevel   ExperienceLevel `json:"experience_level"`
	SalaryExpectation string          `json:"salary_expectation"`
	EmailVerified     bool            `json:"email_verified"`
	ProfileCompleted  bool            `json:"profile_completed"`
}

// NewAuthResponse flattens a user record into an AuthResponse carrying token.
func NewAuthResponse(token string, u User) AuthResponse {
	return AuthResponse{
		Token:             token,
		Type:              "Bearer",
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Phone:             u.Phone,
		Location:          u.Location,
		CurrentRole:       u.CurrentRole,
		ExperienceLevel:   u.ExperienceLevel,
		SalaryExpectation: u.SalaryExpectation,
		EmailVerified:     u.EmailVerified,
		ProfileCompleted:  u.ProfileCompleted,
	}
}
