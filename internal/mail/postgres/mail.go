package mail

import (
	"errors"

	"gorm.io/gorm"

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

func (r *Repository) GetEmailTemplate(keyName string) (*datamodel.EmailTemplate, error) {
	var tmpl datamodel.EmailTemplate
	if err := r.db.First(&tmpl, "key_name = ?", keyName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmailTemplateMissing
		}
		return nil, err
	}
	return &tmpl, nil
}

// GetConfigValue returns the configured value for the key, or "" when it is
// not set.
func (r *Repository) GetConfigValue(keyName string) (string, error) {
	var config datamodel.Config
	if err := r.db.First(&config, "key_name = ?", keyName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return config.Value, nil
}
