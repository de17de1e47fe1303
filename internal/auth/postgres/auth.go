package auth

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

func (r *Repository) Create(user *datamodel.User) error {
	return r.db.Create(user).Error
}

func (r *Repository) GetByID(id uuid.UUID) (*datamodel.User, error) {
	var user datamodel.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetByEmail(email string) (*datamodel.User, error) {
	var user datamodel.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) SetActive(id uuid.UUID, active bool) error {
	result := r.db.Model(&datamodel.User{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *Repository) UpdatePassword(id uuid.UUID, passwordHash string) error {
	result := r.db.Model(&datamodel.User{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

// PermissionCodenames resolves the codenames a user holds, combining direct
// grants with those inherited through group membership. Globally defined
// permissions (company_id IS NULL) always apply to direct grants;
// company-scoped ones only when they belong to the given company. Group
// grants only count for groups of the active company, so membership in
// another company's group never leaks into this one.
func (r *Repository) PermissionCodenames(userID uuid.UUID, companyID *uuid.UUID) ([]string, error) {
	type scopedQuery struct {
		sql  string
		args []interface{}
	}

	directQuery := `SELECT p.codename
	               FROM permissions p
	               JOIN user_permissions up ON p.id = up.permission_id
	               WHERE up.user_id = ?`

	var queries []scopedQuery
	if companyID != nil {
		queries = append(queries, scopedQuery{
			sql:  directQuery + ` AND (p.company_id IS NULL OR p.company_id = ?)`,
			args: []interface{}{userID, *companyID},
		})
		queries = append(queries, scopedQuery{
			sql: `SELECT p.codename
			     FROM permissions p
			     JOIN group_permissions gp ON p.id = gp.permission_id
			     JOIN group_users gu ON gp.group_id = gu.group_id
			     JOIN groups g ON g.id = gu.group_id
			     WHERE gu.user_id = ? AND g.company_id = ?
			       AND (p.company_id IS NULL OR p.company_id = ?)`,
			args: []interface{}{userID, *companyID, *companyID},
		})
	} else {
		queries = append(queries, scopedQuery{
			sql:  directQuery + ` AND p.company_id IS NULL`,
			args: []interface{}{userID},
		})
	}

	seen := make(map[string]struct{})
	var codenames []string
	for _, query := range queries {
		rows, err := r.db.Raw(query.sql, query.args...).Rows()
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var codename string
			if err := rows.Scan(&codename); err != nil {
				rows.Close()
				return nil, err
			}
			if _, ok := seen[codename]; ok {
				continue
			}
			seen[codename] = struct{}{}
			codenames = append(codenames, codename)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	return codenames, nil
}
