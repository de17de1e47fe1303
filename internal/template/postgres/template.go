package template

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
	"github.com/pagecraft/pagecraft/internal/template"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(t *datamodel.Template) error {
	return r.db.Create(t).Error
}

func (r *Repository) GetByID(id uuid.UUID) (*datamodel.Template, error) {
	var t datamodel.Template
	err := r.db.
		Preload("Categories").
		First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrTemplateNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repository) GetByCompany(companyID uuid.UUID, limit, offset int) ([]*datamodel.Template, error) {
	var templates []*datamodel.Template
	err := r.db.
		Preload("Categories").
		Where("company_id = ?", companyID).
		Order("date_created DESC").
		Limit(limit).Offset(offset).
		Find(&templates).Error
	return templates, err
}

func (r *Repository) GetPublic(limit, offset int) ([]*datamodel.Template, error) {
	var templates []*datamodel.Template
	err := r.db.
		Preload("Categories").
		Where("is_public = ? AND is_approved = ? AND is_active = ?", true, true, true).
		Order("date_created DESC").
		Limit(limit).Offset(offset).
		Find(&templates).Error
	return templates, err
}

func (r *Repository) GetByAdministrator(userID uuid.UUID) ([]*datamodel.Template, error) {
	var templates []*datamodel.Template
	err := r.db.
		Preload("Categories").
		Joins("JOIN companies ON companies.id = templates.company_id").
		Where("companies.administrator_id = ?", userID).
		Order("templates.date_created DESC").
		Find(&templates).Error
	return templates, err
}

func (r *Repository) Filter(filter template.TemplateFilter) ([]*datamodel.Template, error) {
	q := r.db.Preload("Categories").Model(&datamodel.Template{})
	if filter.CompanyID != nil {
		q = q.Where("templates.company_id = ?", *filter.CompanyID)
	}
	if filter.Name != "" {
		q = q.Where("templates.name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.IsActive != nil {
		q = q.Where("templates.is_active = ?", *filter.IsActive)
	}
	if filter.CategoryID != nil {
		q = q.
			Joins("JOIN template_categories_assoc tca ON tca.template_id = templates.id").
			Where("tca.template_category_id = ?", *filter.CategoryID)
	}

	var templates []*datamodel.Template
	err := q.
		Order("templates.date_created DESC").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&templates).Error
	return templates, err
}

func (r *Repository) Update(t *datamodel.Template) error {
	return r.db.Omit("Categories").Save(t).Error
}

func (r *Repository) SetActive(id uuid.UUID, active bool) error {
	return r.setFlag(id, "is_active", active)
}

func (r *Repository) SetPublic(id uuid.UUID, public bool) error {
	return r.setFlag(id, "is_public", public)
}

func (r *Repository) SetApproved(id uuid.UUID, approved bool) error {
	return r.setFlag(id, "is_approved", approved)
}

func (r *Repository) setFlag(id uuid.UUID, column string, value bool) error {
	result := r.db.Model(&datamodel.Template{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrTemplateNotFound
	}
	return nil
}

// Delete removes the template together with its category associations.
func (r *Repository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM template_categories_assoc WHERE template_id = ?`, id).Error; err != nil {
			return err
		}
		result := tx.Delete(&datamodel.Template{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrTemplateNotFound
		}
		return nil
	})
}

func (r *Repository) BatchDelete(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM template_categories_assoc WHERE template_id IN ?`, ids).Error; err != nil {
			return err
		}
		return tx.Delete(&datamodel.Template{}, "id IN ?", ids).Error
	})
}

func (r *Repository) ReplaceCategories(templateID uuid.UUID, categoryIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM template_categories_assoc WHERE template_id = ?`, templateID).Error; err != nil {
			return err
		}
		if len(categoryIDs) == 0 {
			return nil
		}

		var existing []uuid.UUID
		if err := tx.Model(&datamodel.TemplateCategory{}).
			Where("id IN ?", categoryIDs).
			Pluck("id", &existing).Error; err != nil {
			return err
		}

		for _, categoryID := range existing {
			err := tx.Exec(
				`INSERT INTO template_categories_assoc (template_id, template_category_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
				templateID, categoryID,
			).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) CreateCategory(c *datamodel.TemplateCategory) error {
	return r.db.Create(c).Error
}

func (r *Repository) GetCategory(id uuid.UUID) (*datamodel.TemplateCategory, error) {
	var c datamodel.TemplateCategory
	if err := r.db.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetCategories lists global categories and, when a company is given, that
// company's own ones.
func (r *Repository) GetCategories(companyID *uuid.UUID) ([]*datamodel.TemplateCategory, error) {
	q := r.db.Model(&datamodel.TemplateCategory{})
	if companyID != nil {
		q = q.Where("company_id IS NULL OR company_id = ?", *companyID)
	} else {
		q = q.Where("company_id IS NULL")
	}

	var categories []*datamodel.TemplateCategory
	err := q.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *Repository) UpdateCategory(c *datamodel.TemplateCategory) error {
	return r.db.Save(c).Error
}

func (r *Repository) DeleteCategory(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM template_categories_assoc WHERE template_category_id = ?`, id).Error; err != nil {
			return err
		}
		result := tx.Delete(&datamodel.TemplateCategory{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrCategoryNotFound
		}
		return nil
	})
}

func (r *Repository) GetCompany(companyID uuid.UUID) (*datamodel.Company, error) {
	var company datamodel.Company
	err := r.db.
		Preload("InvitedUsers").
		First(&company, "id = ? AND date_deleted IS NULL", companyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (r *Repository) GetUser(userID uuid.UUID) (*datamodel.User, error) {
	var user datamodel.User
	if err := r.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
