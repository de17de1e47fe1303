package storage

import (
	"errors"

	"github.com/google/uuid"
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

func (r *Repository) Create(storage *datamodel.Storage) error {
	return r.db.Create(storage).Error
}

func (r *Repository) GetByID(id uuid.UUID) (*datamodel.Storage, error) {
	var storage datamodel.Storage
	if err := r.db.First(&storage, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrStorageNotFound
		}
		return nil, err
	}
	return &storage, nil
}

func (r *Repository) GetByCompany(companyID uuid.UUID) ([]*datamodel.Storage, error) {
	var storages []*datamodel.Storage
	err := r.db.
		Where("company_id = ?", companyID).
		Order("date_created DESC").
		Find(&storages).Error
	return storages, err
}

func (r *Repository) GetSelected(companyID uuid.UUID) (*datamodel.Storage, error) {
	var storage datamodel.Storage
	err := r.db.First(&storage, "company_id = ? AND is_selected = ?", companyID, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrNoStorageSelected
		}
		return nil, err
	}
	return &storage, nil
}

func (r *Repository) Update(storage *datamodel.Storage) error {
	return r.db.Save(storage).Error
}

func (r *Repository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&datamodel.Storage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrStorageNotFound
	}
	return nil
}

// SelectExclusive clears the selection flag across the company and writes
// the given value on the target storage inside one transaction, so at most
// one backend is ever selected.
func (r *Repository) SelectExclusive(companyID, storageID uuid.UUID, selected bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&datamodel.Storage{}).
			Where("company_id = ?", companyID).
			Update("is_selected", false).Error
		if err != nil {
			return err
		}

		result := tx.Model(&datamodel.Storage{}).
			Where("id = ? AND company_id = ?", storageID, companyID).
			Update("is_selected", selected)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrStorageNotFound
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
