package appconfig

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

// Service manages the application-wide key/value configuration and the
// stored email templates. Writes are restricted to platform administrators.
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

// GetValue returns the configured value for the key, or "" when the key is
// not set. Missing keys are not an error.
func (s *Service) GetValue(keyName string) (string, error) {
	config, err := s.repo.GetByKey(keyName)
	if err != nil {
		if errors.Is(err, internal.ErrConfigNotFound) {
			return "", nil
		}
		return "", err
	}
	return config.Value, nil
}

func (s *Service) GetConfigs(actorID uuid.UUID) ([]*datamodel.Config, error) {
	if err := s.requirePlatformAdministrator(actorID); err != nil {
		return nil, err
	}
	return s.repo.GetAll()
}

func (s *Service) SetConfig(actorID uuid.UUID, dto SetConfigDTO) (*datamodel.Config, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.requirePlatformAdministrator(actorID); err != nil {
		return nil, err
	}

	config := &datamodel.Config{
		KeyName:     dto.KeyName,
		Title:       dto.Title,
		Value:       dto.Value,
		Description: dto.Description,
	}
	if err := s.repo.Upsert(config); err != nil {
		s.logger.Error("failed to store config", "error", err, "key_name", dto.KeyName)
		return nil, err
	}

	s.logger.Info("config updated", "key_name", dto.KeyName)
	return config, nil
}

func (s *Service) DeleteConfig(actorID uuid.UUID, keyName string) error {
	if err := s.requirePlatformAdministrator(actorID); err != nil {
		return err
	}
	return s.repo.Delete(keyName)
}

func (s *Service) GetEmailTemplates(actorID uuid.UUID) ([]*datamodel.EmailTemplate, error) {
	if err := s.requirePlatformAdministrator(actorID); err != nil {
		return nil, err
	}
	return s.repo.GetEmailTemplates()
}

func (s *Service) SetEmailTemplate(actorID uuid.UUID, dto SetEmailTemplateDTO) (*datamodel.EmailTemplate, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.requirePlatformAdministrator(actorID); err != nil {
		return nil, err
	}

	template := &datamodel.EmailTemplate{
		KeyName:  dto.KeyName,
		Title:    dto.Title,
		Template: dto.Template,
	}
	if err := s.repo.UpsertEmailTemplate(template); err != nil {
		s.logger.Error("failed to store email template", "error", err, "key_name", dto.KeyName)
		return nil, err
	}

	s.logger.Info("email template updated", "key_name", dto.KeyName)
	return template, nil
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
