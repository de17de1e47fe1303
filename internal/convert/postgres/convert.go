package convert

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

func (r *Repository) CreateAction(action *datamodel.ConvertAction) error {
	return r.db.Create(action).Error
}

func (r *Repository) GetActions() ([]*datamodel.ConvertAction, error) {
	var actions []*datamodel.ConvertAction
	err := r.db.
		Order("from_action ASC, to_action ASC").
		Find(&actions).Error
	return actions, err
}

func (r *Repository) GetActionsByFrom(fromAction string) ([]*datamodel.ConvertAction, error) {
	var actions []*datamodel.ConvertAction
	err := r.db.
		Where("from_action = ?", fromAction).
		Order("to_action ASC").
		Find(&actions).Error
	return actions, err
}

func (r *Repository) DeleteAction(id uuid.UUID) error {
	result := r.db.Delete(&datamodel.ConvertAction{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrActionNotFound
	}
	return nil
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
