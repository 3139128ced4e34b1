package model

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleAssistant Role = "assistant"
	RoleStudent   Role = "student"
)

// ParseRole разбирает строковое значение роли. Неизвестные роли отклоняются.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleAssistant, RoleStudent:
		return true
	default:
		return false
	}
}

// TenantScoped reports whether users with this role must belong to a learning center.
func (r Role) TenantScoped() bool {
	switch r {
	case RoleAdmin:
		return false
	case RoleManager, RoleAssistant, RoleStudent:
		return true
	default:
		return false
	}
}

// HasSubject reports whether the role carries a subject (assistants teach it, students study it).
func (r Role) HasSubject() bool {
	switch r {
	case RoleAssistant, RoleStudent:
		return true
	case RoleAdmin, RoleManager:
		return false
	default:
		return false
	}
}

type User struct {
	ID               int64     `json:"id"`
	Fullname         string    `json:"fullname"`
	Phone            string    `json:"phone"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	LearningCenterID *int64    `json:"learning_center_id"` // nil только у админа
	SubjectID        *int64    `json:"subject_id"`
	PhotoURL         *string   `json:"photo_url"`
	CreatedAt        time.Time `json:"created_at"`

	// Не из таблицы users: заполняется джойном
	SubjectName *string `json:"subject_name,omitempty"`
}

// InCenter reports whether the user belongs to the given learning center.
func (u *User) InCenter(centerID int64) bool {
	return u.LearningCenterID != nil && *u.LearningCenterID == centerID
}

// SameCenter reports whether both users belong to the same learning center.
func (u *User) SameCenter(other *User) bool {
	return u.LearningCenterID != nil && other.InCenter(*u.LearningCenterID)
}

// SameSubject reports whether both users have a subject and it is the same one.
func (u *User) SameSubject(other *User) bool {
	return u.SubjectID != nil && other.SubjectID != nil && *u.SubjectID == *other.SubjectID
}
