package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

// Service is the main auth service with dependencies
type Service struct {
	repo       RepositoryAPI
	tokens     TokenGeneratorAPI
	mailer     Mailer
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo RepositoryAPI, tokens TokenGeneratorAPI, mailer Mailer, logger *slog.Logger, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		tokens:     tokens,
		mailer:     mailer,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

func NewJWTTokenGenerator(accessSecret, refreshSecret, linkSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL == 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL == 0 {
		refreshTTL = 24 * 7 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		LinkTokenSecret:    []byte(linkSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
		LinkTokenTTL:       48 * time.Hour,
	}
}

// Register creates a new administrator account, inactive until the emailed
// activation link is followed.
func (s *Service) Register(dto RegisterDTO) (*datamodel.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, internal.NewConflictError("A user with this email already exists.", internal.ErrCodeEmailTaken)
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	user := &datamodel.User{
		Email:           dto.Email,
		Username:        dto.Email,
		FirstName:       dto.FirstName,
		LastName:        dto.LastName,
		PasswordHash:    hash,
		IsActive:        false,
		IsAdministrator: true,
	}

	if err := s.repo.Create(user); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	token, err := s.tokens.GenerateLinkToken(user.ID.String(), PurposeActivate)
	if err != nil {
		s.logger.Error("failed to generate activation token", "error", err, "user_id", user.ID)
	} else {
		s.mailer.Send("send_activation_email", user.FullName(), user.Email, map[string]string{
			"{activation_link}": fmt.Sprintf("/activation/%s", token),
		})
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Activate flips the account active once the activation token checks out.
func (s *Service) Activate(token string) (*datamodel.User, error) {
	userID, err := s.tokens.ValidateLinkToken(token, PurposeActivate)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}

	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	if user.IsActive {
		return user, internal.NewConflictError("The user is already activated.", internal.ErrCodeUserInactive)
	}

	if err := s.repo.SetActive(user.ID, true); err != nil {
		return nil, internal.NewInternalError("failed to activate user", err)
	}
	user.IsActive = true

	s.logger.Info("user activated", "user_id", user.ID)
	return user, nil
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	user, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := VerifyPassword(user.PasswordHash, dto.Password); err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if !user.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID.String(), user.Email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to generate access token", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID.String(), user.Email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to generate refresh token", err)
	}

	return AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	accessToken, err := s.tokens.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to generate access token", err)
	}

	newRefreshToken, err := s.tokens.GenerateRefreshToken(claims.UserID, claims.Email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to generate refresh token", err)
	}

	return AuthTokens{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateToken(tokenString)
}

// ResetPassword emails a password reset link; the link is also returned so
// the handler can surface it in development environments.
func (s *Service) ResetPassword(email string) (string, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", internal.NewNotFoundError("User with the provided email was not found.", internal.ErrCodeUserNotFound)
	}

	token, err := s.tokens.GenerateLinkToken(user.ID.String(), PurposePasswordReset)
	if err != nil {
		return "", internal.NewInternalError("failed to generate reset token", err)
	}

	resetLink := fmt.Sprintf("/reset-password/%s", token)
	s.mailer.Send("reset_password_email", user.FullName(), user.Email, map[string]string{
		"{password_reset_link}": resetLink,
	})

	return resetLink, nil
}

func (s *Service) ResetPasswordConfirm(token, password string) error {
	userID, err := s.tokens.ValidateLinkToken(token, PurposePasswordReset)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return internal.ErrInvalidToken
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	if err := s.repo.UpdatePassword(id, hash); err != nil {
		return internal.NewInternalError("failed to update password", err)
	}

	s.logger.Info("password reset confirmed", "user_id", id)
	return nil
}

func (s *Service) ChangePassword(userID uuid.UUID, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	user, err := s.repo.GetByID(userID)
	if err != nil {
		return internal.ErrUserNotFound
	}

	if err := VerifyPassword(user.PasswordHash, dto.OldPassword); err != nil {
		return internal.ErrInvalidCredentials
	}

	hash, err := HashPassword(dto.NewPassword, s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	return s.repo.UpdatePassword(userID, hash)
}

// GetUserWithPermissions loads the user record and resolves permission
// codenames scoped to the user's active company.
func (s *Service) GetUserWithPermissions(userID uuid.UUID) (*User, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	codenames, err := s.repo.PermissionCodenames(user.ID, user.ActiveCompanyID)
	if err != nil {
		s.logger.Error("failed to load permissions", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to load permissions", err)
	}

	return &User{
		ID:              user.ID,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		IsActive:        user.IsActive,
		IsAdministrator: user.IsAdministrator,
		ActiveCompanyID: user.ActiveCompanyID,
		Permissions:     codenames,
	}, nil
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(userID, email string) (string, error) {
	return j.signed(userID, email, "", j.AccessTokenTTL, j.AccessTokenSecret)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(userID, email string) (string, error) {
	return j.signed(userID, email, "", j.RefreshTokenTTL, j.RefreshTokenSecret)
}

// GenerateLinkToken creates a single-purpose token for activation and
// password-reset links.
func (j *JWTTokenGenerator) GenerateLinkToken(userID, purpose string) (string, error) {
	return j.signed(userID, "", purpose, j.LinkTokenTTL, j.LinkTokenSecret)
}

func (j *JWTTokenGenerator) signed(userID, email, purpose string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:  userID,
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates a JWT token and returns claims. Access and refresh
// tokens are signed with different secrets; both are tried.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	var lastErr error
	for _, secret := range [][]byte{j.AccessTokenSecret, j.RefreshTokenSecret} {
		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil {
			lastErr = err
			continue
		}
		if claims, ok := token.Claims.(*Claims); ok && token.Valid {
			return claims, nil
		}
	}

	if lastErr != nil && errors.Is(lastErr, jwt.ErrTokenExpired) {
		return nil, internal.ErrTokenExpired
	}
	return nil, internal.ErrInvalidToken
}

// ValidateLinkToken checks a link token and its purpose, returning the user id.
func (j *JWTTokenGenerator) ValidateLinkToken(tokenString, purpose string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.LinkTokenSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", internal.ErrTokenExpired
		}
		return "", internal.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Purpose != purpose {
		return "", internal.ErrInvalidToken
	}
	return claims.UserID, nil
}
