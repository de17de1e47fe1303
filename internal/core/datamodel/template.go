package datamodel

import (
	"github.com/google/uuid"
)

// Template visibility is governed by three independent flags rather than a
// single state machine; any combination is legal.
type Template struct {
	Base
	CompanyID   uuid.UUID `json:"company_id" gorm:"column:company_id;type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"column:name;not null"`
	Summary     string    `json:"summary" gorm:"column:summary"`
	Screenshot  string    `json:"screenshot" gorm:"column:screenshot"`
	ContentHTML string    `json:"content_html" gorm:"column:content_html"`
	ContentJSON string    `json:"content_json" gorm:"column:content_json"`
	IsActive    bool      `json:"is_active" gorm:"column:is_active;default:true"`
	IsPublic    bool      `json:"is_public" gorm:"column:is_public;default:false"`
	IsApproved  bool      `json:"is_approved" gorm:"column:is_approved;default:false"`

	Categories []*TemplateCategory `json:"categories,omitempty" gorm:"many2many:template_categories_assoc"`
}

func (Template) TableName() string {
	return "templates"
}

type TemplateCategory struct {
	Base
	Name      string     `json:"name" gorm:"column:name;not null"`
	CompanyID *uuid.UUID `json:"company_id,omitempty" gorm:"column:company_id;type:uuid"`
}

func (TemplateCategory) TableName() string {
	return "template_categories"
}
