package appconfig

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByKey(keyName string) (*datamodel.Config, error) {
	var config datamodel.Config
	if err := r.db.First(&config, "key_name = ?", keyName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrConfigNotFound
		}
		return nil, err
	}
	return &config, nil
}

func (r *Repository) GetAll() ([]*datamodel.Config, error) {
	var configs []*datamodel.Config
	err := r.db.Order("key_name ASC").Find(&configs).Error
	return configs, err
}

func (r *Repository) Upsert(config *datamodel.Config) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "value", "description", "date_updated"}),
	}).Create(config).Error
}

func (r *Repository) Delete(keyName string) error {
	result := r.db.Delete(&datamodel.Config{}, "key_name = ?", keyName)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrConfigNotFound
	}
	return nil
}

func (r *Repository) GetEmailTemplateByKey(keyName string) (*datamodel.EmailTemplate, error) {
	var template datamodel.EmailTemplate
	if err := r.db.First(&template, "key_name = ?", keyName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmailTemplateMissing
		}
		return nil, err
	}
	return &template, nil
}

func (r *Repository) GetEmailTemplates() ([]*datamodel.EmailTemplate, error) {
	var templates []*datamodel.EmailTemplate
	err := r.db.Order("key_name ASC").Find(&templates).Error
	return templates, err
}

func (r *Repository) UpsertEmailTemplate(template *datamodel.EmailTemplate) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "template", "date_updated"}),
	}).Create(template).Error
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
