package user

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

func (r *Repository) GetByID(userID uuid.UUID) (*datamodel.User, error) {
	var user datamodel.User
	err := r.db.
		Preload("Permissions").
		Preload("Groups").
		First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
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

func (r *Repository) GetInvitedUsers(companyID uuid.UUID) ([]*datamodel.User, error) {
	var users []*datamodel.User
	err := r.db.
		Joins("JOIN company_invited_users civ ON civ.user_id = users.id").
		Where("civ.company_id = ?", companyID).
		Order("users.email ASC").
		Find(&users).Error
	return users, err
}

func (r *Repository) GetGroups(companyID uuid.UUID) ([]*datamodel.Group, error) {
	var groups []*datamodel.Group
	err := r.db.
		Preload("Permissions").
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&groups).Error
	return groups, err
}

func (r *Repository) GetGroup(groupID uuid.UUID) (*datamodel.Group, error) {
	var group datamodel.Group
	if err := r.db.First(&group, "id = ?", groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *Repository) GetGroupUsers(groupID uuid.UUID) ([]*datamodel.User, error) {
	var users []*datamodel.User
	err := r.db.
		Joins("JOIN group_users gu ON gu.user_id = users.id").
		Where("gu.group_id = ?", groupID).
		Order("users.email ASC").
		Find(&users).Error
	return users, err
}

// GetPermissions returns the global permissions together with the ones scoped
// to the given company.
func (r *Repository) GetPermissions(companyID uuid.UUID) ([]*datamodel.Permission, error) {
	var permissions []*datamodel.Permission
	err := r.db.
		Where("company_id IS NULL OR company_id = ?", companyID).
		Order("codename ASC").
		Find(&permissions).Error
	return permissions, err
}
