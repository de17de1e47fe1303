package convert

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

// Service exposes the catalog of supported file conversions. The catalog is
// maintained by platform administrators and read by everyone.
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

func (s *Service) GetActions() ([]*datamodel.ConvertAction, error) {
	return s.repo.GetActions()
}

// GetOptions lists the conversions available from a given source format.
func (s *Service) GetOptions(fromAction string) ([]*datamodel.ConvertAction, error) {
	if fromAction == "" {
		return s.repo.GetActions()
	}
	return s.repo.GetActionsByFrom(fromAction)
}

func (s *Service) GetMediaTypes() []string {
	return []string{
		datamodel.MediaTypeDocument,
		datamodel.MediaTypeImage,
		datamodel.MediaTypeAudio,
		datamodel.MediaTypeVideo,
	}
}

func (s *Service) CreateAction(actorID uuid.UUID, dto CreateActionDTO) (*datamodel.ConvertAction, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.requirePlatformAdministrator(actorID); err != nil {
		return nil, err
	}

	action := &datamodel.ConvertAction{
		FromAction:   dto.FromAction,
		ToAction:     dto.ToAction,
		ToActionType: dto.ToActionType,
	}
	if action.ToActionType == "" {
		action.ToActionType = datamodel.MediaTypeDocument
	}

	if err := s.repo.CreateAction(action); err != nil {
		s.logger.Error("failed to create convert action", "error", err)
		return nil, err
	}

	s.logger.Info("convert action created", "action_id", action.ID, "from", action.FromAction, "to", action.ToAction)
	return action, nil
}

func (s *Service) DeleteAction(actorID uuid.UUID, actionID uuid.UUID) error {
	if err := s.requirePlatformAdministrator(actorID); err != nil {
		return err
	}
	return s.repo.DeleteAction(actionID)
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
