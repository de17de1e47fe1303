package company

import (
	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

// IsCompanyAdministrator returns a typed forbidden error unless the user is
// the company's administrator.
func IsCompanyAdministrator(company *datamodel.Company, userID uuid.UUID) error {
	if company == nil || !company.IsAdministrator(userID) {
		return internal.ErrNotAdministrator
	}
	return nil
}

// IsCompanyAdministratorOrInvitedUser returns a typed forbidden error unless
// the user is either the administrator or one of the invited members.
func IsCompanyAdministratorOrInvitedUser(company *datamodel.Company, userID uuid.UUID) error {
	if company == nil {
		return internal.ErrNotInvitedUser
	}
	if company.IsAdministrator(userID) || company.IsInvited(userID) {
		return nil
	}
	return internal.ErrNotInvitedUser
}
