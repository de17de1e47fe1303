package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

// User is the request-scoped identity: DB record plus resolved permission
// codenames (direct and via groups, scoped to the active company).
type User struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	IsActive        bool       `json:"is_active"`
	IsAdministrator bool       `json:"is_administrator"`
	ActiveCompanyID *uuid.UUID `json:"active_company_id,omitempty"`
	Permissions     []string   `json:"permissions,omitempty"`
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

func (u *User) HasPermission(codename string) bool {
	for _, p := range u.Permissions {
		if p == codename {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the user holds every required codename.
func (u *User) HasAllPermissions(codenames []string) bool {
	for _, required := range codenames {
		if !u.HasPermission(required) {
			return false
		}
	}
	return true
}

type ServiceAPI interface {
	Register(dto RegisterDTO) (*datamodel.User, error)
	Activate(token string) (*datamodel.User, error)
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ResetPassword(email string) (string, error)
	ResetPasswordConfirm(token, password string) error
	ChangePassword(userID uuid.UUID, dto ChangePasswordDTO) error
	GetUserWithPermissions(userID uuid.UUID) (*User, error)
}

type RepositoryAPI interface {
	Create(user *datamodel.User) error
	GetByID(id uuid.UUID) (*datamodel.User, error)
	GetByEmail(email string) (*datamodel.User, error)
	SetActive(id uuid.UUID, active bool) error
	UpdatePassword(id uuid.UUID, passwordHash string) error
	PermissionCodenames(userID uuid.UUID, companyID *uuid.UUID) ([]string, error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID, email string) (string, error)
	GenerateRefreshToken(userID, email string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	GenerateLinkToken(userID, purpose string) (string, error)
	ValidateLinkToken(tokenString, purpose string) (string, error)
}

// Mailer is the fire-and-forget email boundary; implementations queue the
// job and never report delivery back to the caller.
type Mailer interface {
	Send(keyName, toName, toEmail string, params map[string]string)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email,omitempty"`
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

const (
	PurposeActivate      = "activate"
	PurposePasswordReset = "password_reset"
)

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	LinkTokenSecret    []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	LinkTokenTTL       time.Duration
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
