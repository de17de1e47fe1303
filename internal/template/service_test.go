package template_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
	"github.com/pagecraft/pagecraft/internal/template"
)

func TestTemplateService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Template Service Suite")
}

type mockTemplateRepository struct {
	templates          map[uuid.UUID]*datamodel.Template
	categories         map[uuid.UUID]*datamodel.TemplateCategory
	companies          map[uuid.UUID]*datamodel.Company
	users              map[uuid.UUID]*datamodel.User
	templateCategories map[uuid.UUID][]uuid.UUID
}

func newMockTemplateRepository() *mockTemplateRepository {
	return &mockTemplateRepository{
		templates:          make(map[uuid.UUID]*datamodel.Template),
		categories:         make(map[uuid.UUID]*datamodel.TemplateCategory),
		companies:          make(map[uuid.UUID]*datamodel.Company),
		users:              make(map[uuid.UUID]*datamodel.User),
		templateCategories: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *mockTemplateRepository) Create(t *datamodel.Template) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.templates[t.ID] = t
	return nil
}

func (m *mockTemplateRepository) GetByID(id uuid.UUID) (*datamodel.Template, error) {
	t, ok := m.templates[id]
	if !ok {
		return nil, internal.ErrTemplateNotFound
	}
	t.Categories = nil
	for _, cid := range m.templateCategories[id] {
		if c, ok := m.categories[cid]; ok {
			t.Categories = append(t.Categories, c)
		}
	}
	return t, nil
}

func (m *mockTemplateRepository) GetByCompany(companyID uuid.UUID, limit, offset int) ([]*datamodel.Template, error) {
	var result []*datamodel.Template
	for _, t := range m.templates {
		if t.CompanyID == companyID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockTemplateRepository) GetPublic(limit, offset int) ([]*datamodel.Template, error) {
	var result []*datamodel.Template
	for _, t := range m.templates {
		if t.IsPublic && t.IsApproved && t.IsActive {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockTemplateRepository) GetByAdministrator(userID uuid.UUID) ([]*datamodel.Template, error) {
	var result []*datamodel.Template
	for _, t := range m.templates {
		if c, ok := m.companies[t.CompanyID]; ok && c.IsAdministrator(userID) {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockTemplateRepository) Filter(filter template.TemplateFilter) ([]*datamodel.Template, error) {
	var result []*datamodel.Template
	for _, t := range m.templates {
		if filter.CompanyID != nil && t.CompanyID != *filter.CompanyID {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (m *mockTemplateRepository) Update(t *datamodel.Template) error {
	m.templates[t.ID] = t
	return nil
}

func (m *mockTemplateRepository) SetActive(id uuid.UUID, active bool) error {
	t, ok := m.templates[id]
	if !ok {
		return internal.ErrTemplateNotFound
	}
	t.IsActive = active
	return nil
}

func (m *mockTemplateRepository) SetPublic(id uuid.UUID, public bool) error {
	t, ok := m.templates[id]
	if !ok {
		return internal.ErrTemplateNotFound
	}
	t.IsPublic = public
	return nil
}

func (m *mockTemplateRepository) SetApproved(id uuid.UUID, approved bool) error {
	t, ok := m.templates[id]
	if !ok {
		return internal.ErrTemplateNotFound
	}
	t.IsApproved = approved
	return nil
}

func (m *mockTemplateRepository) Delete(id uuid.UUID) error {
	if _, ok := m.templates[id]; !ok {
		return internal.ErrTemplateNotFound
	}
	delete(m.templates, id)
	delete(m.templateCategories, id)
	return nil
}

func (m *mockTemplateRepository) BatchDelete(ids []uuid.UUID) error {
	for _, id := range ids {
		delete(m.templates, id)
		delete(m.templateCategories, id)
	}
	return nil
}

func (m *mockTemplateRepository) ReplaceCategories(templateID uuid.UUID, categoryIDs []uuid.UUID) error {
	var kept []uuid.UUID
	for _, cid := range categoryIDs {
		if _, ok := m.categories[cid]; ok {
			kept = append(kept, cid)
		}
	}
	m.templateCategories[templateID] = kept
	return nil
}

func (m *mockTemplateRepository) CreateCategory(c *datamodel.TemplateCategory) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.categories[c.ID] = c
	return nil
}

func (m *mockTemplateRepository) GetCategory(id uuid.UUID) (*datamodel.TemplateCategory, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, internal.ErrCategoryNotFound
	}
	return c, nil
}

func (m *mockTemplateRepository) GetCategories(companyID *uuid.UUID) ([]*datamodel.TemplateCategory, error) {
	var result []*datamodel.TemplateCategory
	for _, c := range m.categories {
		if c.CompanyID == nil {
			result = append(result, c)
			continue
		}
		if companyID != nil && *c.CompanyID == *companyID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockTemplateRepository) UpdateCategory(c *datamodel.TemplateCategory) error {
	m.categories[c.ID] = c
	return nil
}

func (m *mockTemplateRepository) DeleteCategory(id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return internal.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockTemplateRepository) GetCompany(companyID uuid.UUID) (*datamodel.Company, error) {
	c, ok := m.companies[companyID]
	if !ok {
		return nil, internal.ErrCompanyNotFound
	}
	return c, nil
}

func (m *mockTemplateRepository) GetUser(userID uuid.UUID) (*datamodel.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

type mockConverter struct {
	artifact   *template.ExportArtifact
	err        error
	lastFormat string
	lastHTML   string
}

func (m *mockConverter) Convert(ctx context.Context, html, format string) (*template.ExportArtifact, error) {
	m.lastFormat = format
	m.lastHTML = html
	if m.err != nil {
		return nil, m.err
	}
	return m.artifact, nil
}

var _ = Describe("TemplateService", func() {
	var (
		repo      *mockTemplateRepository
		converter *mockConverter
		service   *template.Service
		adminID   uuid.UUID
		companyID uuid.UUID
	)

	BeforeEach(func() {
		repo = newMockTemplateRepository()
		converter = &mockConverter{
			artifact: &template.ExportArtifact{
				Data:        []byte("%PDF-"),
				ContentType: "application/pdf",
				Extension:   "pdf",
			},
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = template.NewService(repo, converter, logger)

		adminID = uuid.New()
		companyID = uuid.New()
		repo.companies[companyID] = &datamodel.Company{
			Base:            datamodel.Base{ID: companyID},
			Name:            "Acme",
			AdministratorID: &adminID,
		}
		repo.users[adminID] = &datamodel.User{Base: datamodel.Base{ID: adminID}}
	})

	newTemplate := func() *datamodel.Template {
		t, err := service.CreateTemplate(adminID, template.CreateTemplateDTO{
			CompanyID:   companyID,
			Name:        "Landing Page",
			ContentHTML: "<html><body>Hello</body></html>",
		})
		Expect(err).NotTo(HaveOccurred())
		return t
	}

	Describe("CreateTemplate", func() {
		It("creates an active template for a member", func() {
			t := newTemplate()
			Expect(t.IsActive).To(BeTrue())
			Expect(t.IsApproved).To(BeFalse())
		})

		It("skips unknown category IDs", func() {
			known := &datamodel.TemplateCategory{Name: "Marketing"}
			Expect(repo.CreateCategory(known)).To(Succeed())

			t, err := service.CreateTemplate(adminID, template.CreateTemplateDTO{
				CompanyID:   companyID,
				Name:        "Landing Page",
				CategoryIDs: []uuid.UUID{known.ID, uuid.New()},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.templateCategories[t.ID]).To(ConsistOf([]uuid.UUID{known.ID}))
		})

		It("rejects non-members", func() {
			_, err := service.CreateTemplate(uuid.New(), template.CreateTemplateDTO{
				CompanyID: companyID,
				Name:      "Landing Page",
			})
			Expect(errors.Is(err, internal.ErrNotInvitedUser)).To(BeTrue())
		})
	})

	Describe("GetTemplate", func() {
		It("fails loudly for a missing template", func() {
			_, err := service.GetTemplate(adminID, uuid.New())
			Expect(errors.Is(err, internal.ErrTemplateNotFound)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("Template not found."))
		})

		It("exposes public approved templates to strangers", func() {
			t := newTemplate()
			Expect(service.SetTemplatePublic(adminID, t.ID, true)).To(Succeed())
			Expect(repo.SetApproved(t.ID, true)).To(Succeed())

			got, err := service.GetTemplate(uuid.New(), t.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(t.ID))
		})

		It("hides private templates from strangers", func() {
			t := newTemplate()
			_, err := service.GetTemplate(uuid.New(), t.ID)
			Expect(errors.Is(err, internal.ErrNotInvitedUser)).To(BeTrue())
		})
	})

	Describe("GetPublicTemplates", func() {
		It("lists only templates that are both public and approved", func() {
			visible := newTemplate()
			Expect(service.SetTemplatePublic(adminID, visible.ID, true)).To(Succeed())
			Expect(repo.SetApproved(visible.ID, true)).To(Succeed())

			publicOnly := newTemplate()
			Expect(service.SetTemplatePublic(adminID, publicOnly.ID, true)).To(Succeed())

			newTemplate()

			templates, err := service.GetPublicTemplates(0, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(templates).To(HaveLen(1))
			Expect(templates[0].ID).To(Equal(visible.ID))
		})
	})

	Describe("UpdateTemplate", func() {
		It("replaces the category set", func() {
			first := &datamodel.TemplateCategory{Name: "One"}
			second := &datamodel.TemplateCategory{Name: "Two"}
			Expect(repo.CreateCategory(first)).To(Succeed())
			Expect(repo.CreateCategory(second)).To(Succeed())

			t, err := service.CreateTemplate(adminID, template.CreateTemplateDTO{
				CompanyID:   companyID,
				Name:        "Landing Page",
				CategoryIDs: []uuid.UUID{first.ID},
			})
			Expect(err).NotTo(HaveOccurred())

			newSet := []uuid.UUID{second.ID}
			_, err = service.UpdateTemplate(adminID, t.ID, template.UpdateTemplateDTO{CategoryIDs: &newSet})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.templateCategories[t.ID]).To(ConsistOf([]uuid.UUID{second.ID}))
		})
	})

	Describe("CopyTemplate", func() {
		It("duplicates content under a fresh unapproved identity", func() {
			source := newTemplate()
			Expect(repo.SetApproved(source.ID, true)).To(Succeed())

			duplicate, err := service.CopyTemplate(adminID, source.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(duplicate.ID).NotTo(Equal(source.ID))
			Expect(duplicate.Name).To(Equal("Landing Page (copy)"))
			Expect(duplicate.ContentHTML).To(Equal(source.ContentHTML))
			Expect(duplicate.IsApproved).To(BeFalse())
			Expect(duplicate.IsPublic).To(BeFalse())
		})
	})

	Describe("BatchDeleteTemplates", func() {
		It("refuses when one template belongs to another company", func() {
			mine := newTemplate()

			otherCompany := uuid.New()
			otherAdmin := uuid.New()
			repo.companies[otherCompany] = &datamodel.Company{
				Base:            datamodel.Base{ID: otherCompany},
				AdministratorID: &otherAdmin,
			}
			foreign := &datamodel.Template{CompanyID: otherCompany, Name: "Foreign"}
			Expect(repo.Create(foreign)).To(Succeed())

			err := service.BatchDeleteTemplates(adminID, companyID, []uuid.UUID{mine.ID, foreign.ID})
			Expect(errors.Is(err, internal.ErrTemplateNotFound)).To(BeTrue())
			Expect(repo.templates).To(HaveKey(mine.ID))
		})

		It("deletes templates of the company", func() {
			first := newTemplate()
			second := newTemplate()

			Expect(service.BatchDeleteTemplates(adminID, companyID, []uuid.UUID{first.ID, second.ID})).To(Succeed())
			Expect(repo.templates).To(BeEmpty())
		})
	})

	Describe("ApproveTemplate", func() {
		It("requires a platform administrator", func() {
			t := newTemplate()
			err := service.ApproveTemplate(adminID, t.ID, true)
			Expect(errors.Is(err, internal.ErrNotAdministrator)).To(BeTrue())
		})

		It("lets a platform administrator approve", func() {
			t := newTemplate()
			platformAdmin := uuid.New()
			repo.users[platformAdmin] = &datamodel.User{
				Base:            datamodel.Base{ID: platformAdmin},
				IsAdministrator: true,
			}

			Expect(service.ApproveTemplate(platformAdmin, t.ID, true)).To(Succeed())
			Expect(repo.templates[t.ID].IsApproved).To(BeTrue())
		})
	})

	Describe("ExportTemplate", func() {
		It("renders through the converter", func() {
			t := newTemplate()
			artifact, err := service.ExportTemplate(context.Background(), adminID, t.ID, template.ExportFormatPDF)
			Expect(err).NotTo(HaveOccurred())
			Expect(artifact.ContentType).To(Equal("application/pdf"))
			Expect(converter.lastFormat).To(Equal("pdf"))
			Expect(converter.lastHTML).To(Equal(t.ContentHTML))
		})

		It("rejects unknown formats before touching the converter", func() {
			t := newTemplate()
			_, err := service.ExportTemplate(context.Background(), adminID, t.ID, "svg")
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeUnknownExportType))
			Expect(converter.lastFormat).To(BeEmpty())
		})

		It("wraps converter failures in a typed error", func() {
			t := newTemplate()
			converter.err = errors.New("service unavailable")

			_, err := service.ExportTemplate(context.Background(), adminID, t.ID, template.ExportFormatPNG)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeConvertFailed))
		})
	})

	Describe("categories", func() {
		It("scopes company categories while keeping global ones visible", func() {
			global := &datamodel.TemplateCategory{Name: "Global"}
			Expect(repo.CreateCategory(global)).To(Succeed())

			scoped, err := service.CreateCategory(adminID, template.CreateCategoryDTO{
				CompanyID: &companyID,
				Name:      "Internal",
			})
			Expect(err).NotTo(HaveOccurred())

			visible, err := service.GetCategories(&companyID)
			Expect(err).NotTo(HaveOccurred())
			Expect(visible).To(HaveLen(2))
			Expect([]uuid.UUID{visible[0].ID, visible[1].ID}).To(ContainElement(scoped.ID))

			anonymous, err := service.GetCategories(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(anonymous).To(HaveLen(1))
			Expect(anonymous[0].ID).To(Equal(global.ID))
		})
	})
})
