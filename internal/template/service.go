package template

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/company"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

// Service handles template and template category business logic.
type Service struct {
	repo      RepositoryAPI
	converter Converter
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, converter Converter, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		converter: converter,
		logger:    logger,
	}
}

func (s *Service) CreateTemplate(actorID uuid.UUID, dto CreateTemplateDTO) (*datamodel.Template, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireMember(actorID, dto.CompanyID); err != nil {
		return nil, err
	}

	template := &datamodel.Template{
		CompanyID:   dto.CompanyID,
		Name:        dto.Name,
		Summary:     dto.Summary,
		Screenshot:  dto.Screenshot,
		ContentHTML: dto.ContentHTML,
		ContentJSON: dto.ContentJSON,
		IsActive:    true,
		IsPublic:    dto.IsPublic,
	}
	if err := s.repo.Create(template); err != nil {
		s.logger.Error("failed to create template", "error", err, "company_id", dto.CompanyID)
		return nil, err
	}

	if len(dto.CategoryIDs) > 0 {
		if err := s.repo.ReplaceCategories(template.ID, dto.CategoryIDs); err != nil {
			s.logger.Error("failed to set template categories", "error", err, "template_id", template.ID)
			return nil, err
		}
	}

	s.logger.Info("template created", "template_id", template.ID, "company_id", dto.CompanyID)
	return s.repo.GetByID(template.ID)
}

func (s *Service) UpdateTemplate(actorID uuid.UUID, templateID uuid.UUID, dto UpdateTemplateDTO) (*datamodel.Template, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	template, err := s.memberTemplate(actorID, templateID)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		template.Name = *dto.Name
	}
	if dto.Summary != nil {
		template.Summary = *dto.Summary
	}
	if dto.Screenshot != nil {
		template.Screenshot = *dto.Screenshot
	}
	if dto.ContentJSON != nil {
		template.ContentJSON = *dto.ContentJSON
	}

	if err := s.repo.Update(template); err != nil {
		s.logger.Error("failed to update template", "error", err, "template_id", templateID)
		return nil, err
	}

	if dto.CategoryIDs != nil {
		if err := s.repo.ReplaceCategories(templateID, *dto.CategoryIDs); err != nil {
			s.logger.Error("failed to replace template categories", "error", err, "template_id", templateID)
			return nil, err
		}
	}

	return s.repo.GetByID(templateID)
}

func (s *Service) UpdateTemplateHTML(actorID uuid.UUID, templateID uuid.UUID, dto UpdateTemplateHTMLDTO) (*datamodel.Template, error) {
	template, err := s.memberTemplate(actorID, templateID)
	if err != nil {
		return nil, err
	}

	template.ContentHTML = dto.ContentHTML
	if err := s.repo.Update(template); err != nil {
		s.logger.Error("failed to update template html", "error", err, "template_id", templateID)
		return nil, err
	}
	return template, nil
}

func (s *Service) GetTemplate(actorID uuid.UUID, templateID uuid.UUID) (*datamodel.Template, error) {
	template, err := s.repo.GetByID(templateID)
	if err != nil {
		return nil, err
	}

	// public approved templates are readable by anyone
	if template.IsPublic && template.IsApproved {
		return template, nil
	}
	if err := s.requireMember(actorID, template.CompanyID); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *Service) GetCompanyTemplates(actorID uuid.UUID, companyID uuid.UUID, limit, offset int) ([]*datamodel.Template, error) {
	if err := s.requireMember(actorID, companyID); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)
	return s.repo.GetByCompany(companyID, limit, offset)
}

// GetPublicTemplates lists the gallery: templates that are both public and
// approved.
func (s *Service) GetPublicTemplates(limit, offset int) ([]*datamodel.Template, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.GetPublic(limit, offset)
}

func (s *Service) GetTemplatesByAdministrator(userID uuid.UUID) ([]*datamodel.Template, error) {
	return s.repo.GetByAdministrator(userID)
}

func (s *Service) FilterTemplates(actorID uuid.UUID, filter TemplateFilter) ([]*datamodel.Template, error) {
	if filter.CompanyID != nil {
		if err := s.requireMember(actorID, *filter.CompanyID); err != nil {
			return nil, err
		}
	}
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)
	return s.repo.Filter(filter)
}

// CopyTemplate duplicates a template into the same company with a fresh
// identity. The copy starts unapproved and private.
func (s *Service) CopyTemplate(actorID uuid.UUID, templateID uuid.UUID) (*datamodel.Template, error) {
	source, err := s.memberTemplate(actorID, templateID)
	if err != nil {
		return nil, err
	}

	duplicate := &datamodel.Template{
		CompanyID:   source.CompanyID,
		Name:        source.Name + " (copy)",
		Summary:     source.Summary,
		Screenshot:  source.Screenshot,
		ContentHTML: source.ContentHTML,
		ContentJSON: source.ContentJSON,
		IsActive:    true,
	}
	if err := s.repo.Create(duplicate); err != nil {
		s.logger.Error("failed to copy template", "error", err, "template_id", templateID)
		return nil, err
	}

	if len(source.Categories) > 0 {
		categoryIDs := make([]uuid.UUID, 0, len(source.Categories))
		for _, c := range source.Categories {
			categoryIDs = append(categoryIDs, c.ID)
		}
		if err := s.repo.ReplaceCategories(duplicate.ID, categoryIDs); err != nil {
			s.logger.Error("failed to copy template categories", "error", err, "template_id", duplicate.ID)
			return nil, err
		}
	}

	s.logger.Info("template copied", "source_id", templateID, "copy_id", duplicate.ID)
	return s.repo.GetByID(duplicate.ID)
}

func (s *Service) DeleteTemplate(actorID uuid.UUID, templateID uuid.UUID) error {
	if _, err := s.memberTemplate(actorID, templateID); err != nil {
		return err
	}

	if err := s.repo.Delete(templateID); err != nil {
		s.logger.Error("failed to delete template", "error", err, "template_id", templateID)
		return err
	}

	s.logger.Info("template deleted", "template_id", templateID)
	return nil
}

// BatchDeleteTemplates removes several templates at once. Every template
// must belong to the given company; templates of other companies in the list
// are rejected before anything is deleted.
func (s *Service) BatchDeleteTemplates(actorID uuid.UUID, companyID uuid.UUID, templateIDs []uuid.UUID) error {
	if len(templateIDs) == 0 {
		return nil
	}
	if err := s.requireMember(actorID, companyID); err != nil {
		return err
	}

	for _, id := range templateIDs {
		template, err := s.repo.GetByID(id)
		if err != nil {
			return err
		}
		if template.CompanyID != companyID {
			return internal.ErrTemplateNotFound
		}
	}

	if err := s.repo.BatchDelete(templateIDs); err != nil {
		s.logger.Error("failed to batch delete templates", "error", err, "company_id", companyID)
		return err
	}

	s.logger.Info("templates deleted", "company_id", companyID, "count", len(templateIDs))
	return nil
}

func (s *Service) SetTemplateActive(actorID uuid.UUID, templateID uuid.UUID, active bool) error {
	if _, err := s.memberTemplate(actorID, templateID); err != nil {
		return err
	}
	return s.repo.SetActive(templateID, active)
}

func (s *Service) SetTemplatePublic(actorID uuid.UUID, templateID uuid.UUID, public bool) error {
	if _, err := s.memberTemplate(actorID, templateID); err != nil {
		return err
	}
	return s.repo.SetPublic(templateID, public)
}

// ApproveTemplate is reserved for platform administrators; approval is what
// lets a public template into the shared gallery.
func (s *Service) ApproveTemplate(actorID uuid.UUID, templateID uuid.UUID, approved bool) error {
	actor, err := s.repo.GetUser(actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdministrator {
		return internal.ErrNotAdministrator
	}

	if _, err := s.repo.GetByID(templateID); err != nil {
		return err
	}
	return s.repo.SetApproved(templateID, approved)
}

// ExportTemplate renders the template into the requested format through the
// converter service.
func (s *Service) ExportTemplate(ctx context.Context, actorID uuid.UUID, templateID uuid.UUID, format string) (*ExportArtifact, error) {
	switch format {
	case ExportFormatPDF, ExportFormatPNG, ExportFormatDOCX, ExportFormatJPEG:
	default:
		return nil, internal.NewValidationError("unknown export format: "+format, internal.ErrCodeUnknownExportType)
	}

	template, err := s.memberTemplate(actorID, templateID)
	if err != nil {
		return nil, err
	}

	artifact, err := s.converter.Convert(ctx, template.ContentHTML, format)
	if err != nil {
		s.logger.Error("template export failed", "error", err, "template_id", templateID, "format", format)
		return nil, internal.NewExternalError("failed to export template", internal.ErrCodeConvertFailed, err)
	}

	s.logger.Info("template exported", "template_id", templateID, "format", format)
	return artifact, nil
}

func (s *Service) CreateCategory(actorID uuid.UUID, dto CreateCategoryDTO) (*datamodel.TemplateCategory, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.CompanyID != nil {
		if err := s.requireAdministrator(actorID, *dto.CompanyID); err != nil {
			return nil, err
		}
	} else {
		actor, err := s.repo.GetUser(actorID)
		if err != nil {
			return nil, err
		}
		if !actor.IsAdministrator {
			return nil, internal.ErrNotAdministrator
		}
	}

	category := &datamodel.TemplateCategory{
		Name:      dto.Name,
		CompanyID: dto.CompanyID,
	}
	if err := s.repo.CreateCategory(category); err != nil {
		s.logger.Error("failed to create category", "error", err)
		return nil, err
	}
	return category, nil
}

// GetCategories lists global categories plus, when a company is given, that
// company's own.
func (s *Service) GetCategories(companyID *uuid.UUID) ([]*datamodel.TemplateCategory, error) {
	return s.repo.GetCategories(companyID)
}

func (s *Service) UpdateCategory(actorID uuid.UUID, categoryID uuid.UUID, dto UpdateCategoryDTO) (*datamodel.TemplateCategory, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	category, err := s.repo.GetCategory(categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCategoryOwner(actorID, category); err != nil {
		return nil, err
	}

	category.Name = dto.Name
	if err := s.repo.UpdateCategory(category); err != nil {
		s.logger.Error("failed to update category", "error", err, "category_id", categoryID)
		return nil, err
	}
	return category, nil
}

func (s *Service) DeleteCategory(actorID uuid.UUID, categoryID uuid.UUID) error {
	category, err := s.repo.GetCategory(categoryID)
	if err != nil {
		return err
	}
	if err := s.requireCategoryOwner(actorID, category); err != nil {
		return err
	}
	return s.repo.DeleteCategory(categoryID)
}

func (s *Service) requireCategoryOwner(actorID uuid.UUID, category *datamodel.TemplateCategory) error {
	if category.CompanyID != nil {
		return s.requireAdministrator(actorID, *category.CompanyID)
	}
	actor, err := s.repo.GetUser(actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdministrator {
		return internal.ErrNotAdministrator
	}
	return nil
}

func (s *Service) memberTemplate(actorID, templateID uuid.UUID) (*datamodel.Template, error) {
	template, err := s.repo.GetByID(templateID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(actorID, template.CompanyID); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *Service) requireMember(actorID, companyID uuid.UUID) error {
	c, err := s.repo.GetCompany(companyID)
	if err != nil {
		return err
	}
	return company.IsCompanyAdministratorOrInvitedUser(c, actorID)
}

func (s *Service) requireAdministrator(actorID, companyID uuid.UUID) error {
	c, err := s.repo.GetCompany(companyID)
	if err != nil {
		return err
	}
	return company.IsCompanyAdministrator(c, actorID)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
