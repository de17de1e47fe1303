package user

import (
	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

// RepositoryAPI reads users, memberships and permission data. The package is
// query-only: all mutation happens through the auth, company and group
// services.
type RepositoryAPI interface {
	GetByID(userID uuid.UUID) (*datamodel.User, error)
	GetCompany(companyID uuid.UUID) (*datamodel.Company, error)
	GetInvitedUsers(companyID uuid.UUID) ([]*datamodel.User, error)
	GetGroups(companyID uuid.UUID) ([]*datamodel.Group, error)
	GetGroup(groupID uuid.UUID) (*datamodel.Group, error)
	GetGroupUsers(groupID uuid.UUID) ([]*datamodel.User, error)
	GetPermissions(companyID uuid.UUID) ([]*datamodel.Permission, error)
}

type ServiceAPI interface {
	GetUserDetail(userID uuid.UUID) (*datamodel.User, error)
	GetInvitedUsers(actorID, companyID uuid.UUID) ([]*datamodel.User, error)
	GetCompanyPermissionGroups(actorID, companyID uuid.UUID) ([]*datamodel.Group, error)
	GetPermissionsForCompany(actorID, companyID uuid.UUID) ([]*datamodel.Permission, error)
	GetGroupUsers(actorID, groupID uuid.UUID) ([]*datamodel.User, error)
}
