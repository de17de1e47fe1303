package group

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft/internal/company"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

// Service handles permission group business logic. Groups belong to a
// company and only its administrator may manage them.
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

func (s *Service) CreateGroup(actorID uuid.UUID, dto CreateGroupDTO) (*datamodel.Group, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.requireAdministrator(actorID, dto.CompanyID); err != nil {
		return nil, err
	}

	group := &datamodel.Group{
		Name:      dto.Name,
		CompanyID: dto.CompanyID,
	}
	if err := s.repo.Create(group); err != nil {
		s.logger.Error("failed to create group", "error", err, "company_id", dto.CompanyID)
		return nil, err
	}

	if len(dto.PermissionIDs) > 0 {
		if err := s.repo.ReplacePermissions(group.ID, dto.PermissionIDs); err != nil {
			s.logger.Error("failed to set group permissions", "error", err, "group_id", group.ID)
			return nil, err
		}
	}

	s.logger.Info("group created", "group_id", group.ID, "company_id", dto.CompanyID, "name", group.Name)
	return s.repo.GetByID(group.ID)
}

func (s *Service) UpdateGroup(actorID uuid.UUID, groupID uuid.UUID, dto UpdateGroupDTO) (*datamodel.Group, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	group, err := s.repo.GetByID(groupID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAdministrator(actorID, group.CompanyID); err != nil {
		return nil, err
	}

	if dto.Name != nil {
		group.Name = *dto.Name
		if err := s.repo.Update(group); err != nil {
			s.logger.Error("failed to update group", "error", err, "group_id", groupID)
			return nil, err
		}
	}
	if dto.PermissionIDs != nil {
		if err := s.repo.ReplacePermissions(groupID, *dto.PermissionIDs); err != nil {
			s.logger.Error("failed to replace group permissions", "error", err, "group_id", groupID)
			return nil, err
		}
	}

	return s.repo.GetByID(groupID)
}

func (s *Service) DeleteGroup(actorID uuid.UUID, groupID uuid.UUID) error {
	group, err := s.repo.GetByID(groupID)
	if err != nil {
		return err
	}
	if err := s.requireAdministrator(actorID, group.CompanyID); err != nil {
		return err
	}

	if err := s.repo.Delete(groupID); err != nil {
		s.logger.Error("failed to delete group", "error", err, "group_id", groupID)
		return err
	}

	s.logger.Info("group deleted", "group_id", groupID, "company_id", group.CompanyID)
	return nil
}

func (s *Service) GetGroup(actorID uuid.UUID, groupID uuid.UUID) (*datamodel.Group, error) {
	group, err := s.repo.GetByID(groupID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(actorID, group.CompanyID); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *Service) GetCompanyGroups(actorID uuid.UUID, companyID uuid.UUID) ([]*datamodel.Group, error) {
	if err := s.requireMember(actorID, companyID); err != nil {
		return nil, err
	}
	return s.repo.GetByCompany(companyID)
}

// AddUserToGroup puts the user into the group. The user must exist; adding a
// user who is already in the group is a no-op.
func (s *Service) AddUserToGroup(actorID uuid.UUID, groupID, userID uuid.UUID) error {
	group, err := s.repo.GetByID(groupID)
	if err != nil {
		return err
	}
	if err := s.requireAdministrator(actorID, group.CompanyID); err != nil {
		return err
	}

	if _, err := s.repo.GetUser(userID); err != nil {
		return err
	}

	if err := s.repo.AddUser(groupID, userID); err != nil {
		s.logger.Error("failed to add user to group", "error", err, "group_id", groupID, "user_id", userID)
		return err
	}
	return nil
}

func (s *Service) RemoveUserFromGroup(actorID uuid.UUID, groupID, userID uuid.UUID) error {
	group, err := s.repo.GetByID(groupID)
	if err != nil {
		return err
	}
	if err := s.requireAdministrator(actorID, group.CompanyID); err != nil {
		return err
	}

	if _, err := s.repo.GetUser(userID); err != nil {
		return err
	}

	if err := s.repo.RemoveUser(groupID, userID); err != nil {
		s.logger.Error("failed to remove user from group", "error", err, "group_id", groupID, "user_id", userID)
		return err
	}
	return nil
}

func (s *Service) requireAdministrator(actorID, companyID uuid.UUID) error {
	c, err := s.repo.GetCompany(companyID)
	if err != nil {
		return err
	}
	return company.IsCompanyAdministrator(c, actorID)
}

func (s *Service) requireMember(actorID, companyID uuid.UUID) error {
	c, err := s.repo.GetCompany(companyID)
	if err != nil {
		return err
	}
	return company.IsCompanyAdministratorOrInvitedUser(c, actorID)
}
