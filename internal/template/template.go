package template

import (
	"context"

	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

// Export formats supported by the converter service.
const (
	ExportFormatPDF  = "pdf"
	ExportFormatPNG  = "png"
	ExportFormatDOCX = "docx"
	ExportFormatJPEG = "jpeg"
)

// TemplateFilter narrows template listings.
type TemplateFilter struct {
	CompanyID  *uuid.UUID
	CategoryID *uuid.UUID
	Name       string
	IsActive   *bool
	Limit      int
	Offset     int
}

// RepositoryAPI defines the data access methods for templates and their
// categories.
type RepositoryAPI interface {
	Create(template *datamodel.Template) error
	GetByID(id uuid.UUID) (*datamodel.Template, error)
	GetByCompany(companyID uuid.UUID, limit, offset int) ([]*datamodel.Template, error)
	GetPublic(limit, offset int) ([]*datamodel.Template, error)
	GetByAdministrator(userID uuid.UUID) ([]*datamodel.Template, error)
	Filter(filter TemplateFilter) ([]*datamodel.Template, error)
	Update(template *datamodel.Template) error
	SetActive(id uuid.UUID, active bool) error
	SetPublic(id uuid.UUID, public bool) error
	SetApproved(id uuid.UUID, approved bool) error
	Delete(id uuid.UUID) error
	BatchDelete(ids []uuid.UUID) error

	// ReplaceCategories swaps the template's category set transactionally.
	// Unknown category IDs are skipped.
	ReplaceCategories(templateID uuid.UUID, categoryIDs []uuid.UUID) error

	CreateCategory(category *datamodel.TemplateCategory) error
	GetCategory(id uuid.UUID) (*datamodel.TemplateCategory, error)
	GetCategories(companyID *uuid.UUID) ([]*datamodel.TemplateCategory, error)
	UpdateCategory(category *datamodel.TemplateCategory) error
	DeleteCategory(id uuid.UUID) error

	GetCompany(companyID uuid.UUID) (*datamodel.Company, error)
	GetUser(userID uuid.UUID) (*datamodel.User, error)
}

// ExportArtifact is the rendered output of a template export.
type ExportArtifact struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Converter renders template HTML into an export format.
type Converter interface {
	Convert(ctx context.Context, html, format string) (*ExportArtifact, error)
}

type ServiceAPI interface {
	CreateTemplate(actorID uuid.UUID, dto CreateTemplateDTO) (*datamodel.Template, error)
	UpdateTemplate(actorID uuid.UUID, templateID uuid.UUID, dto UpdateTemplateDTO) (*datamodel.Template, error)
	UpdateTemplateHTML(actorID uuid.UUID, templateID uuid.UUID, dto UpdateTemplateHTMLDTO) (*datamodel.Template, error)
	GetTemplate(actorID uuid.UUID, templateID uuid.UUID) (*datamodel.Template, error)
	GetCompanyTemplates(actorID uuid.UUID, companyID uuid.UUID, limit, offset int) ([]*datamodel.Template, error)
	GetPublicTemplates(limit, offset int) ([]*datamodel.Template, error)
	GetTemplatesByAdministrator(userID uuid.UUID) ([]*datamodel.Template, error)
	FilterTemplates(actorID uuid.UUID, filter TemplateFilter) ([]*datamodel.Template, error)
	CopyTemplate(actorID uuid.UUID, templateID uuid.UUID) (*datamodel.Template, error)
	DeleteTemplate(actorID uuid.UUID, templateID uuid.UUID) error
	BatchDeleteTemplates(actorID uuid.UUID, companyID uuid.UUID, templateIDs []uuid.UUID) error
	SetTemplateActive(actorID uuid.UUID, templateID uuid.UUID, active bool) error
	SetTemplatePublic(actorID uuid.UUID, templateID uuid.UUID, public bool) error
	ApproveTemplate(actorID uuid.UUID, templateID uuid.UUID, approved bool) error
	ExportTemplate(ctx context.Context, actorID uuid.UUID, templateID uuid.UUID, format string) (*ExportArtifact, error)

	CreateCategory(actorID uuid.UUID, dto CreateCategoryDTO) (*datamodel.TemplateCategory, error)
	GetCategories(companyID *uuid.UUID) ([]*datamodel.TemplateCategory, error)
	UpdateCategory(actorID uuid.UUID, categoryID uuid.UUID, dto UpdateCategoryDTO) (*datamodel.TemplateCategory, error)
	DeleteCategory(actorID uuid.UUID, categoryID uuid.UUID) error
}
