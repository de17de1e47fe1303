package company

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type CreateCompanyDTO struct {
	Name string `json:"name"`
	Site string `json:"site"`
}

func (d CreateCompanyDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Msg: "company name is required"}
	}
	return nil
}

type UpdateCompanyDTO struct {
	Name *string `json:"name,omitempty"`
	Site *string `json:"site,omitempty"`
}

func (d UpdateCompanyDTO) Validate() error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return ValidationError{Msg: "company name cannot be empty"}
	}
	return nil
}

type InviteUserDTO struct {
	Email         string      `json:"email"`
	FirstName     string      `json:"first_name"`
	LastName      string      `json:"last_name"`
	PermissionIDs []uuid.UUID `json:"permission_ids"`
}

func (d InviteUserDTO) Validate() error {
	email := strings.TrimSpace(d.Email)
	if email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if !strings.Contains(email, "@") {
		return ValidationError{Msg: fmt.Sprintf("invalid email address: %s", email)}
	}
	return nil
}
