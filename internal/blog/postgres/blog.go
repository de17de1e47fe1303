package blog

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

func (r *Repository) Create(post *datamodel.Blog) error {
	return r.db.Create(post).Error
}

func (r *Repository) GetByID(id uuid.UUID) (*datamodel.Blog, error) {
	var post datamodel.Blog
	if err := r.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrBlogNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *Repository) GetAll(limit, offset int) ([]*datamodel.Blog, error) {
	var posts []*datamodel.Blog
	err := r.db.
		Order("date_created DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *Repository) Update(post *datamodel.Blog) error {
	return r.db.Save(post).Error
}

func (r *Repository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&datamodel.Blog{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrBlogNotFound
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
