package contact

import (
	"strings"

	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

type RepositoryAPI interface {
	Create(contact *datamodel.Contact) error
	GetAll(limit, offset int) ([]*datamodel.Contact, error)
}

type ServiceAPI interface {
	CreateContact(dto CreateContactDTO) (*datamodel.Contact, error)
	GetContacts(limit, offset int) ([]*datamodel.Contact, error)
}

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type CreateContactDTO struct {
	Question string `json:"question"`
	Message  string `json:"message"`
	Email    string `json:"email"`
}

// Validate requires every field: a contact request without a question,
// message or reply address is useless.
func (d CreateContactDTO) Validate() error {
	if strings.TrimSpace(d.Question) == "" {
		return ValidationError{Msg: "question is required"}
	}
	if strings.TrimSpace(d.Message) == "" {
		return ValidationError{Msg: "message is required"}
	}
	email := strings.TrimSpace(d.Email)
	if email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if !strings.Contains(email, "@") {
		return ValidationError{Msg: "invalid email address"}
	}
	return nil
}
