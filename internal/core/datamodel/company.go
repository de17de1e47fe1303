package datamodel

import (
	"github.com/google/uuid"
)

// Company is the tenant boundary. The administrator owns the company; invited
// users are weak membership references, not ownership.
type Company struct {
	Base
	Name            string     `json:"name" gorm:"column:name;not null"`
	Site            string     `json:"site" gorm:"column:site"`
	AdministratorID *uuid.UUID `json:"administrator_id,omitempty" gorm:"column:administrator_id;type:uuid"`

	Administrator *User   `json:"administrator,omitempty" gorm:"foreignKey:AdministratorID"`
	InvitedUsers  []*User `json:"invited_users,omitempty" gorm:"many2many:company_invited_users"`
}

func (Company) TableName() string {
	return "companies"
}

// IsAdministrator reports whether the given user owns this company. The
// administrator is implicitly authorized for all company-scoped operations
// regardless of invited_users membership.
func (c *Company) IsAdministrator(userID uuid.UUID) bool {
	return c.AdministratorID != nil && *c.AdministratorID == userID
}

// IsInvited reports whether the user is a member of invited_users. Requires
// the association to be preloaded.
func (c *Company) IsInvited(userID uuid.UUID) bool {
	for _, u := range c.InvitedUsers {
		if u.ID == userID {
			return true
		}
	}
	return false
}
