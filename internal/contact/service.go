package contact

import (
	"log/slog"

	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

// Service records contact form submissions from the public site.
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

func (s *Service) CreateContact(dto CreateContactDTO) (*datamodel.Contact, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	contact := &datamodel.Contact{
		Question: dto.Question,
		Message:  dto.Message,
		Email:    dto.Email,
	}
	if err := s.repo.Create(contact); err != nil {
		s.logger.Error("failed to store contact request", "error", err)
		return nil, err
	}

	s.logger.Info("contact request received", "contact_id", contact.ID)
	return contact, nil
}

func (s *Service) GetContacts(limit, offset int) ([]*datamodel.Contact, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetAll(limit, offset)
}
