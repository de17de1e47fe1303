package company

import (
	"errors"
	"time"

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

func (r *Repository) Create(company *datamodel.Company) error {
	return r.db.Create(company).Error
}

func (r *Repository) GetByID(id uuid.UUID) (*datamodel.Company, error) {
	var company datamodel.Company
	err := r.db.
		Preload("Administrator").
		Preload("InvitedUsers").
		First(&company, "id = ? AND date_deleted IS NULL", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (r *Repository) Search(query string, limit, offset int) ([]*datamodel.Company, error) {
	var companies []*datamodel.Company
	q := r.db.Where("date_deleted IS NULL")
	if query != "" {
		q = q.Where("name LIKE ?", "%"+query+"%")
	}
	err := q.Order("date_created DESC").Limit(limit).Offset(offset).Find(&companies).Error
	return companies, err
}

func (r *Repository) GetByAdministrator(userID uuid.UUID) ([]*datamodel.Company, error) {
	var companies []*datamodel.Company
	err := r.db.
		Where("administrator_id = ? AND date_deleted IS NULL", userID).
		Order("date_created DESC").
		Find(&companies).Error
	return companies, err
}

// GetByMember returns companies the user administers plus those they were
// invited to.
func (r *Repository) GetByMember(userID uuid.UUID) ([]*datamodel.Company, error) {
	var companies []*datamodel.Company
	err := r.db.
		Distinct("companies.*").
		Joins("LEFT JOIN company_invited_users ciu ON ciu.company_id = companies.id").
		Where("(companies.administrator_id = ? OR ciu.user_id = ?) AND companies.date_deleted IS NULL", userID, userID).
		Find(&companies).Error
	return companies, err
}

func (r *Repository) Update(company *datamodel.Company) error {
	return r.db.Save(company).Error
}

func (r *Repository) Delete(id uuid.UUID) error {
	result := r.db.Model(&datamodel.Company{}).
		Where("id = ? AND date_deleted IS NULL", id).
		Update("date_deleted", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrCompanyNotFound
	}
	return nil
}

func (r *Repository) AddInvitedUser(companyID, userID uuid.UUID) error {
	return r.db.Exec(
		`INSERT INTO company_invited_users (company_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		companyID, userID,
	).Error
}

func (r *Repository) SetActiveCompany(userID uuid.UUID, companyID *uuid.UUID) error {
	result := r.db.Model(&datamodel.User{}).Where("id = ?", userID).Update("active_company_id", companyID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *Repository) GetUserByEmail(email string) (*datamodel.User, error) {
	var user datamodel.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) CreateUser(user *datamodel.User) error {
	return r.db.Create(user).Error
}

// AttachUserPermissions grants the listed permissions to the user. IDs that
// do not match an existing permission are skipped; already granted ones stay
// granted.
func (r *Repository) AttachUserPermissions(userID uuid.UUID, permissionIDs []uuid.UUID) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	var existing []uuid.UUID
	if err := r.db.Model(&datamodel.Permission{}).
		Where("id IN ?", permissionIDs).
		Pluck("id", &existing).Error; err != nil {
		return err
	}

	for _, permissionID := range existing {
		err := r.db.Exec(
			`INSERT INTO user_permissions (user_id, permission_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			userID, permissionID,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}
