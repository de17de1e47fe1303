package blog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

type RepositoryAPI interface {
	Create(post *datamodel.Blog) error
	GetByID(id uuid.UUID) (*datamodel.Blog, error)
	GetAll(limit, offset int) ([]*datamodel.Blog, error)
	Update(post *datamodel.Blog) error
	Delete(id uuid.UUID) error

	GetUser(userID uuid.UUID) (*datamodel.User, error)
}

type ServiceAPI interface {
	CreatePost(actorID uuid.UUID, dto PostDTO) (*datamodel.Blog, error)
	UpdatePost(actorID uuid.UUID, postID uuid.UUID, dto PostDTO) (*datamodel.Blog, error)
	DeletePost(actorID uuid.UUID, postID uuid.UUID) error
	GetPost(postID uuid.UUID) (*datamodel.Blog, error)
	GetPosts(limit, offset int) ([]*datamodel.Blog, error)
}

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type PostDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Keywords    string `json:"keywords"`
}

func (d PostDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Msg: "post name is required"}
	}
	return nil
}
