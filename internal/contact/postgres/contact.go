package contact

import (
	"gorm.io/gorm"

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

func (r *Repository) Create(contact *datamodel.Contact) error {
	return r.db.Create(contact).Error
}

func (r *Repository) GetAll(limit, offset int) ([]*datamodel.Contact, error) {
	var contacts []*datamodel.Contact
	err := r.db.
		Order("date_created DESC").
		Limit(limit).Offset(offset).
		Find(&contacts).Error
	return contacts, err
}
