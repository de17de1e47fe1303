package template

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

type CreateTemplateDTO struct {
	CompanyID   uuid.UUID   `json:"company_id"`
	Name        string      `json:"name"`
	Summary     string      `json:"summary"`
	Screenshot  string      `json:"screenshot"`
	ContentHTML string      `json:"content_html"`
	ContentJSON string      `json:"content_json"`
	IsPublic    bool        `json:"is_public"`
	CategoryIDs []uuid.UUID `json:"category_ids"`
}

func (d CreateTemplateDTO) Validate() error {
	if d.CompanyID == uuid.Nil {
		return ValidationError{Msg: "company_id is required"}
	}
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Msg: "template name is required"}
	}
	return nil
}

type UpdateTemplateDTO struct {
	Name        *string      `json:"name,omitempty"`
	Summary     *string      `json:"summary,omitempty"`
	Screenshot  *string      `json:"screenshot,omitempty"`
	ContentJSON *string      `json:"content_json,omitempty"`
	CategoryIDs *[]uuid.UUID `json:"category_ids,omitempty"`
}

func (d UpdateTemplateDTO) Validate() error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return ValidationError{Msg: "template name cannot be empty"}
	}
	return nil
}

type UpdateTemplateHTMLDTO struct {
	ContentHTML string `json:"content_html"`
}

type CreateCategoryDTO struct {
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	Name      string     `json:"name"`
}

func (d CreateCategoryDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Msg: "category name is required"}
	}
	return nil
}

type UpdateCategoryDTO struct {
	Name string `json:"name"`
}

func (d UpdateCategoryDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Msg: "category name is required"}
	}
	return nil
}
