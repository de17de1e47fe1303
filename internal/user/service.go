package user

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft/internal/company"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

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

func (s *Service) GetUserDetail(userID uuid.UUID) (*datamodel.User, error) {
	return s.repo.GetByID(userID)
}

// GetInvitedUsers lists the members of a company. Visible to the
// administrator and to the members themselves.
func (s *Service) GetInvitedUsers(actorID, companyID uuid.UUID) ([]*datamodel.User, error) {
	if err := s.requireMember(actorID, companyID); err != nil {
		return nil, err
	}
	return s.repo.GetInvitedUsers(companyID)
}

func (s *Service) GetCompanyPermissionGroups(actorID, companyID uuid.UUID) ([]*datamodel.Group, error) {
	if err := s.requireMember(actorID, companyID); err != nil {
		return nil, err
	}
	return s.repo.GetGroups(companyID)
}

// GetPermissionsForCompany returns the permissions assignable within a
// company: the global set plus the company-scoped ones.
func (s *Service) GetPermissionsForCompany(actorID, companyID uuid.UUID) ([]*datamodel.Permission, error) {
	if err := s.requireMember(actorID, companyID); err != nil {
		return nil, err
	}
	return s.repo.GetPermissions(companyID)
}

func (s *Service) GetGroupUsers(actorID, groupID uuid.UUID) ([]*datamodel.User, error) {
	group, err := s.repo.GetGroup(groupID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(actorID, group.CompanyID); err != nil {
		return nil, err
	}
	return s.repo.GetGroupUsers(groupID)
}

func (s *Service) requireMember(actorID, companyID uuid.UUID) error {
	comp, err := s.repo.GetCompany(companyID)
	if err != nil {
		return err
	}
	return company.IsCompanyAdministratorOrInvitedUser(comp, actorID)
}
