package appconfig

import (
	"strings"

	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

type RepositoryAPI interface {
	GetByKey(keyName string) (*datamodel.Config, error)
	GetAll() ([]*datamodel.Config, error)
	Upsert(config *datamodel.Config) error
	Delete(keyName string) error

	GetEmailTemplateByKey(keyName string) (*datamodel.EmailTemplate, error)
	GetEmailTemplates() ([]*datamodel.EmailTemplate, error)
	UpsertEmailTemplate(template *datamodel.EmailTemplate) error

	GetUser(userID uuid.UUID) (*datamodel.User, error)
}

type ServiceAPI interface {
	GetValue(keyName string) (string, error)
	GetConfigs(actorID uuid.UUID) ([]*datamodel.Config, error)
	SetConfig(actorID uuid.UUID, dto SetConfigDTO) (*datamodel.Config, error)
	DeleteConfig(actorID uuid.UUID, keyName string) error

	GetEmailTemplates(actorID uuid.UUID) ([]*datamodel.EmailTemplate, error)
	SetEmailTemplate(actorID uuid.UUID, dto SetEmailTemplateDTO) (*datamodel.EmailTemplate, error)
}

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type SetConfigDTO struct {
	KeyName     string `json:"key_name"`
	Title       string `json:"title"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

func (d SetConfigDTO) Validate() error {
	if strings.TrimSpace(d.KeyName) == "" {
		return ValidationError{Msg: "key_name is required"}
	}
	return nil
}

type SetEmailTemplateDTO struct {
	KeyName  string `json:"key_name"`
	Title    string `json:"title"`
	Template string `json:"template"`
}

func (d SetEmailTemplateDTO) Validate() error {
	if strings.TrimSpace(d.KeyName) == "" {
		return ValidationError{Msg: "key_name is required"}
	}
	if strings.TrimSpace(d.Template) == "" {
		return ValidationError{Msg: "template body is required"}
	}
	return nil
}
