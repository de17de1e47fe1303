package group

import (
	"strings"

	"github.com/google/uuid"
)

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type CreateGroupDTO struct {
	CompanyID     uuid.UUID   `json:"company_id"`
	Name          string      `json:"name"`
	PermissionIDs []uuid.UUID `json:"permission_ids"`
}

func (d CreateGroupDTO) Validate() error {
	if d.CompanyID == uuid.Nil {
		return ValidationError{Msg: "company_id is required"}
	}
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Msg: "group name is required"}
	}
	return nil
}

type UpdateGroupDTO struct {
	Name          *string      `json:"name,omitempty"`
	PermissionIDs *[]uuid.UUID `json:"permission_ids,omitempty"`
}

func (d UpdateGroupDTO) Validate() error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return ValidationError{Msg: "group name cannot be empty"}
	}
	return nil
}
