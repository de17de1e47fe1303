package datamodel

import (
	"github.com/google/uuid"
)

// Group is a named permission bundle scoped to exactly one company. The scope
// is an explicit column rather than a field injected onto a shared auth type.
type Group struct {
	Base
	Name      string    `json:"name" gorm:"column:name;not null"`
	CompanyID uuid.UUID `json:"company_id" gorm:"column:company_id;type:uuid;not null"`

	Permissions []*Permission `json:"permissions,omitempty" gorm:"many2many:group_permissions"`
	Users       []*User       `json:"users,omitempty" gorm:"many2many:group_users"`
}

func (Group) TableName() string {
	return "groups"
}

// Permission is a capability tag in app_label.codename form. CompanyID makes
// the same codename company-specific when set; a nil scope means the
// permission is global.
type Permission struct {
	Base
	Codename  string     `json:"codename" gorm:"column:codename;not null;index"`
	Name      string     `json:"name" gorm:"column:name"`
	CompanyID *uuid.UUID `json:"company_id,omitempty" gorm:"column:company_id;type:uuid"`
}

func (Permission) TableName() string {
	return "permissions"
}
