package datamodel

import (
	"github.com/google/uuid"
)

// User is the identity record. A user can be invited into many companies but
// points at exactly one active company context at a time.
type User struct {
	Base
	Email           string     `json:"email" gorm:"column:email;uniqueIndex;not null"`
	Username        string     `json:"username" gorm:"column:username"`
	FirstName       string     `json:"first_name" gorm:"column:first_name"`
	LastName        string     `json:"last_name" gorm:"column:last_name"`
	PasswordHash    string     `json:"-" gorm:"column:password_hash"`
	IsActive        bool       `json:"is_active" gorm:"column:is_active;default:false"`
	IsAdministrator bool       `json:"is_administrator" gorm:"column:is_administrator;default:false"`
	ActiveCompanyID *uuid.UUID `json:"active_company_id,omitempty" gorm:"column:active_company_id;type:uuid"`

	Permissions []*Permission `json:"permissions,omitempty" gorm:"many2many:user_permissions"`
	Groups      []*Group      `json:"groups,omitempty" gorm:"many2many:group_users"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}
