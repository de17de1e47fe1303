package company

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/auth"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

const (
	inviteEmailExistingUser = "old_user_invite_email"
	inviteEmailNewUser      = "new_user_invite_email"
)

// Service handles company business logic
type Service struct {
	repo   RepositoryAPI
	mailer Mailer
	tokens LinkTokenGenerator
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, mailer Mailer, tokens LinkTokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		mailer: mailer,
		tokens: tokens,
		logger: logger,
	}
}

// CreateCompany creates a company owned by the actor and makes it their
// active company.
func (s *Service) CreateCompany(actorID uuid.UUID, dto CreateCompanyDTO) (*datamodel.Company, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	company := &datamodel.Company{
		Name:            dto.Name,
		Site:            dto.Site,
		AdministratorID: &actorID,
	}

	if err := s.repo.Create(company); err != nil {
		s.logger.Error("failed to create company", "error", err, "user_id", actorID)
		return nil, err
	}

	if err := s.repo.SetActiveCompany(actorID, &company.ID); err != nil {
		s.logger.Error("failed to set active company", "error", err, "user_id", actorID, "company_id", company.ID)
	}

	s.logger.Info("company created", "company_id", company.ID, "name", company.Name, "administrator_id", actorID)
	return company, nil
}

func (s *Service) UpdateCompany(actorID uuid.UUID, companyID uuid.UUID, dto UpdateCompanyDTO) (*datamodel.Company, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	company, err := s.repo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if err := IsCompanyAdministrator(company, actorID); err != nil {
		return nil, err
	}

	if dto.Name != nil {
		company.Name = *dto.Name
	}
	if dto.Site != nil {
		company.Site = *dto.Site
	}

	if err := s.repo.Update(company); err != nil {
		s.logger.Error("failed to update company", "error", err, "company_id", companyID)
		return nil, err
	}

	return company, nil
}

func (s *Service) DeleteCompany(actorID uuid.UUID, companyID uuid.UUID) error {
	company, err := s.repo.GetByID(companyID)
	if err != nil {
		return err
	}
	if err := IsCompanyAdministrator(company, actorID); err != nil {
		return err
	}

	if err := s.repo.Delete(companyID); err != nil {
		s.logger.Error("failed to delete company", "error", err, "company_id", companyID)
		return err
	}

	s.logger.Info("company deleted", "company_id", companyID, "user_id", actorID)
	return nil
}

// GetCompany returns a company to its administrator or an invited member.
func (s *Service) GetCompany(actorID uuid.UUID, companyID uuid.UUID) (*datamodel.Company, error) {
	company, err := s.repo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if err := IsCompanyAdministratorOrInvitedUser(company, actorID); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *Service) SearchCompanies(query string, limit, offset int) ([]*datamodel.Company, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.Search(query, limit, offset)
}

func (s *Service) GetCompaniesByAdministrator(userID uuid.UUID) ([]*datamodel.Company, error) {
	return s.repo.GetByAdministrator(userID)
}

// GetCompaniesForUser returns every company the user administers or has been
// invited to.
func (s *Service) GetCompaniesForUser(userID uuid.UUID) ([]*datamodel.Company, error) {
	return s.repo.GetByMember(userID)
}

// SelectCompany makes the company the actor's active one. Only members may
// select a company.
func (s *Service) SelectCompany(actorID uuid.UUID, companyID uuid.UUID) error {
	company, err := s.repo.GetByID(companyID)
	if err != nil {
		return err
	}
	if err := IsCompanyAdministratorOrInvitedUser(company, actorID); err != nil {
		return err
	}
	return s.repo.SetActiveCompany(actorID, &companyID)
}

// InviteUser adds a user to the company. An existing account is attached
// directly and notified; an unknown email gets a fresh inactive account and
// an account setup link. Either way the invited user receives the selected
// permissions, and re-inviting an already invited user is a no-op on
// membership.
func (s *Service) InviteUser(actorID uuid.UUID, companyID uuid.UUID, dto InviteUserDTO) (string, error) {
	if err := dto.Validate(); err != nil {
		return "", err
	}

	company, err := s.repo.GetByID(companyID)
	if err != nil {
		return "", err
	}
	if err := IsCompanyAdministrator(company, actorID); err != nil {
		return "", err
	}

	user, err := s.repo.GetUserByEmail(dto.Email)
	switch {
	case err == nil:
		if err := s.inviteExistingUser(company, user, dto); err != nil {
			return "", err
		}
	case errors.Is(err, internal.ErrUserNotFound):
		if err := s.inviteNewUser(company, dto); err != nil {
			return "", err
		}
	default:
		return "", err
	}

	return fmt.Sprintf("User with %s has been invited to %s.", dto.Email, company.Name), nil
}

func (s *Service) inviteExistingUser(company *datamodel.Company, user *datamodel.User, dto InviteUserDTO) error {
	if err := s.repo.AddInvitedUser(company.ID, user.ID); err != nil {
		s.logger.Error("failed to add invited user", "error", err, "company_id", company.ID, "user_id", user.ID)
		return err
	}
	if len(dto.PermissionIDs) > 0 {
		if err := s.repo.AttachUserPermissions(user.ID, dto.PermissionIDs); err != nil {
			s.logger.Error("failed to attach invited user permissions", "error", err, "user_id", user.ID)
			return err
		}
	}

	s.mailer.Send(inviteEmailExistingUser, user.FullName(), user.Email, map[string]string{
		"{company_name}": company.Name,
	})

	s.logger.Info("existing user invited", "company_id", company.ID, "user_id", user.ID)
	return nil
}

func (s *Service) inviteNewUser(company *datamodel.Company, dto InviteUserDTO) error {
	user := &datamodel.User{
		Email:     dto.Email,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		IsActive:  false,
	}
	if err := s.repo.CreateUser(user); err != nil {
		s.logger.Error("failed to create invited user", "error", err, "email", dto.Email)
		return err
	}

	if len(dto.PermissionIDs) > 0 {
		if err := s.repo.AttachUserPermissions(user.ID, dto.PermissionIDs); err != nil {
			s.logger.Error("failed to attach invited user permissions", "error", err, "user_id", user.ID)
			return err
		}
	}
	if err := s.repo.AddInvitedUser(company.ID, user.ID); err != nil {
		s.logger.Error("failed to add invited user", "error", err, "company_id", company.ID, "user_id", user.ID)
		return err
	}

	token, err := s.tokens.GenerateLinkToken(user.ID.String(), auth.PurposePasswordReset)
	if err != nil {
		s.logger.Error("failed to generate invite token", "error", err, "user_id", user.ID)
		return internal.NewInternalError("failed to generate invitation link", err)
	}

	s.mailer.Send(inviteEmailNewUser, user.FullName(), user.Email, map[string]string{
		"{company_name}": company.Name,
		"{invite_link}":  fmt.Sprintf("/invite/%s", token),
	})

	s.logger.Info("new user invited", "company_id", company.ID, "user_id", user.ID)
	return nil
}
