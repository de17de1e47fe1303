package company

import (
	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

// RepositoryAPI defines the data access methods for companies and the
// membership bookkeeping that invitations need.
type RepositoryAPI interface {
	Create(company *datamodel.Company) error
	GetByID(id uuid.UUID) (*datamodel.Company, error)
	Search(query string, limit, offset int) ([]*datamodel.Company, error)
	GetByAdministrator(userID uuid.UUID) ([]*datamodel.Company, error)
	GetByMember(userID uuid.UUID) ([]*datamodel.Company, error)
	Update(company *datamodel.Company) error
	Delete(id uuid.UUID) error

	AddInvitedUser(companyID, userID uuid.UUID) error
	SetActiveCompany(userID uuid.UUID, companyID *uuid.UUID) error

	GetUserByEmail(email string) (*datamodel.User, error)
	CreateUser(user *datamodel.User) error
	AttachUserPermissions(userID uuid.UUID, permissionIDs []uuid.UUID) error
}

type ServiceAPI interface {
	CreateCompany(actorID uuid.UUID, dto CreateCompanyDTO) (*datamodel.Company, error)
	UpdateCompany(actorID uuid.UUID, companyID uuid.UUID, dto UpdateCompanyDTO) (*datamodel.Company, error)
	DeleteCompany(actorID uuid.UUID, companyID uuid.UUID) error
	GetCompany(actorID uuid.UUID, companyID uuid.UUID) (*datamodel.Company, error)
	SearchCompanies(query string, limit, offset int) ([]*datamodel.Company, error)
	GetCompaniesByAdministrator(userID uuid.UUID) ([]*datamodel.Company, error)
	GetCompaniesForUser(userID uuid.UUID) ([]*datamodel.Company, error)
	SelectCompany(actorID uuid.UUID, companyID uuid.UUID) error
	InviteUser(actorID uuid.UUID, companyID uuid.UUID, dto InviteUserDTO) (string, error)
}

// Mailer is the fire-and-forget email boundary used for invitations.
type Mailer interface {
	Send(keyName, toName, toEmail string, params map[string]string)
}

// LinkTokenGenerator mints signed single-purpose tokens for account setup
// links embedded in invitation emails.
type LinkTokenGenerator interface {
	GenerateLinkToken(userID, purpose string) (string, error)
}
