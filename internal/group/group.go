package group

import (
	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

// RepositoryAPI defines the data access methods for permission groups.
type RepositoryAPI interface {
	Create(group *datamodel.Group) error
	GetByID(id uuid.UUID) (*datamodel.Group, error)
	GetByCompany(companyID uuid.UUID) ([]*datamodel.Group, error)
	Update(group *datamodel.Group) error
	Delete(id uuid.UUID) error

	ReplacePermissions(groupID uuid.UUID, permissionIDs []uuid.UUID) error
	AddUser(groupID, userID uuid.UUID) error
	RemoveUser(groupID, userID uuid.UUID) error

	GetCompany(companyID uuid.UUID) (*datamodel.Company, error)
	GetUser(userID uuid.UUID) (*datamodel.User, error)
}

type ServiceAPI interface {
	CreateGroup(actorID uuid.UUID, dto CreateGroupDTO) (*datamodel.Group, error)
	UpdateGroup(actorID uuid.UUID, groupID uuid.UUID, dto UpdateGroupDTO) (*datamodel.Group, error)
	DeleteGroup(actorID uuid.UUID, groupID uuid.UUID) error
	GetGroup(actorID uuid.UUID, groupID uuid.UUID) (*datamodel.Group, error)
	GetCompanyGroups(actorID uuid.UUID, companyID uuid.UUID) ([]*datamodel.Group, error)
	AddUserToGroup(actorID uuid.UUID, groupID, userID uuid.UUID) error
	RemoveUserFromGroup(actorID uuid.UUID, groupID, userID uuid.UUID) error
}
