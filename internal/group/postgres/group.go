package group

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

func (r *Repository) Create(group *datamodel.Group) error {
	return r.db.Create(group).Error
}

func (r *Repository) GetByID(id uuid.UUID) (*datamodel.Group, error) {
	var group datamodel.Group
	err := r.db.
		Preload("Permissions").
		Preload("Users").
		First(&group, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *Repository) GetByCompany(companyID uuid.UUID) ([]*datamodel.Group, error) {
	var groups []*datamodel.Group
	err := r.db.
		Preload("Permissions").
		Where("company_id = ?", companyID).
		Order("date_created DESC").
		Find(&groups).Error
	return groups, err
}

func (r *Repository) Update(group *datamodel.Group) error {
	return r.db.Save(group).Error
}

func (r *Repository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM group_permissions WHERE group_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM group_users WHERE group_id = ?`, id).Error; err != nil {
			return err
		}
		result := tx.Delete(&datamodel.Group{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrGroupNotFound
		}
		return nil
	})
}

// ReplacePermissions swaps the group's permission set for the given IDs in
// one transaction. Unknown IDs are skipped.
func (r *Repository) ReplacePermissions(groupID uuid.UUID, permissionIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM group_permissions WHERE group_id = ?`, groupID).Error; err != nil {
			return err
		}
		if len(permissionIDs) == 0 {
			return nil
		}

		var existing []uuid.UUID
		if err := tx.Model(&datamodel.Permission{}).
			Where("id IN ?", permissionIDs).
			Pluck("id", &existing).Error; err != nil {
			return err
		}

		for _, permissionID := range existing {
			err := tx.Exec(
				`INSERT INTO group_permissions (group_id, permission_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
				groupID, permissionID,
			).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) AddUser(groupID, userID uuid.UUID) error {
	return r.db.Exec(
		`INSERT INTO group_users (group_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		groupID, userID,
	).Error
}

func (r *Repository) RemoveUser(groupID, userID uuid.UUID) error {
	return r.db.Exec(
		`DELETE FROM group_users WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	).Error
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
