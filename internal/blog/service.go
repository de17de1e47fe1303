package blog

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

// Service handles blog post business logic. Posts are written by platform
// administrators and readable by everyone.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) CreatePost(actorID uuid.UUID, dto PostDTO) (*datamodel.Blog, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.requirePlatformAdministrator(actorID); err != nil {
		return nil, err
	}

	post := &datamodel.Blog{
		Name:        dto.Name,
		Description: dto.Description,
		Image:       dto.Image,
		Keywords:    dto.Keywords,
	}
	if err := s.repo.Create(post); err != nil {
		s.logger.Error("failed to create blog post", "error", err)
		return nil, err
	}

	s.logger.Info("blog post created", "post_id", post.ID)
	return post, nil
}

func (s *Service) UpdatePost(actorID uuid.UUID, postID uuid.UUID, dto PostDTO) (*datamodel.Blog, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.requirePlatformAdministrator(actorID); err != nil {
		return nil, err
	}

	post, err := s.repo.GetByID(postID)
	if err != nil {
		return nil, err
	}

	post.Name = dto.Name
	post.Description = dto.Description
	post.Image = dto.Image
	post.Keywords = dto.Keywords

	if err := s.repo.Update(post); err != nil {
		s.logger.Error("failed to update blog post", "error", err, "post_id", postID)
		return nil, err
	}
	return post, nil
}

func (s *Service) DeletePost(actorID uuid.UUID, postID uuid.UUID) error {
	if err := s.requirePlatformAdministrator(actorID); err != nil {
		return err
	}

	if err := s.repo.Delete(postID); err != nil {
		s.logger.Error("failed to delete blog post", "error", err, "post_id", postID)
		return err
	}

	s.logger.Info("blog post deleted", "post_id", postID)
	return nil
}

func (s *Service) GetPost(postID uuid.UUID) (*datamodel.Blog, error) {
	return s.repo.GetByID(postID)
}

func (s *Service) GetPosts(limit, offset int) ([]*datamodel.Blog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetAll(limit, offset)
}

func (s *Service) requirePlatformAdministrator(actorID uuid.UUID) error {
	actor, err := s.repo.GetUser(actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdministrator {
		return internal.ErrNotAdministrator
	}
	return nil
}
