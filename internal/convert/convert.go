package convert

import (
	"strings"

	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

type RepositoryAPI interface {
	CreateAction(action *datamodel.ConvertAction) error
	GetActions() ([]*datamodel.ConvertAction, error)
	GetActionsByFrom(fromAction string) ([]*datamodel.ConvertAction, error)
	DeleteAction(id uuid.UUID) error

	GetUser(userID uuid.UUID) (*datamodel.User, error)
}

type ServiceAPI interface {
	GetActions() ([]*datamodel.ConvertAction, error)
	GetOptions(fromAction string) ([]*datamodel.ConvertAction, error)
	GetMediaTypes() []string
	CreateAction(actorID uuid.UUID, dto CreateActionDTO) (*datamodel.ConvertAction, error)
	DeleteAction(actorID uuid.UUID, actionID uuid.UUID) error
}

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type CreateActionDTO struct {
	FromAction   string `json:"from_action"`
	ToAction     string `json:"to_action"`
	ToActionType string `json:"to_action_type"`
}

func (d CreateActionDTO) Validate() error {
	if strings.TrimSpace(d.FromAction) == "" {
		return ValidationError{Msg: "from_action is required"}
	}
	if strings.TrimSpace(d.ToAction) == "" {
		return ValidationError{Msg: "to_action is required"}
	}
	switch d.ToActionType {
	case "", datamodel.MediaTypeDocument, datamodel.MediaTypeImage, datamodel.MediaTypeAudio, datamodel.MediaTypeVideo:
	default:
		return ValidationError{Msg: "unknown media type: " + d.ToActionType}
	}
	return nil
}
