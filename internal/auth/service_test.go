package auth_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/auth"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

type mockAuthRepository struct {
	users     map[uuid.UUID]*datamodel.User
	byEmail   map[string]*datamodel.User
	codenames map[uuid.UUID][]string
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		users:     make(map[uuid.UUID]*datamodel.User),
		byEmail:   make(map[string]*datamodel.User),
		codenames: make(map[uuid.UUID][]string),
	}
}

func (m *mockAuthRepository) Create(user *datamodel.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[user.ID] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *mockAuthRepository) GetByID(id uuid.UUID) (*datamodel.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return user, nil
}

func (m *mockAuthRepository) GetByEmail(email string) (*datamodel.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return user, nil
}

func (m *mockAuthRepository) SetActive(id uuid.UUID, active bool) error {
	user, ok := m.users[id]
	if !ok {
		return internal.ErrUserNotFound
	}
	user.IsActive = active
	return nil
}

func (m *mockAuthRepository) UpdatePassword(id uuid.UUID, passwordHash string) error {
	user, ok := m.users[id]
	if !ok {
		return internal.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (m *mockAuthRepository) PermissionCodenames(userID uuid.UUID, companyID *uuid.UUID) ([]string, error) {
	return m.codenames[userID], nil
}

type sentMail struct {
	keyName string
	toEmail string
	params  map[string]string
}

type mockMailer struct {
	sent []sentMail
}

func (m *mockMailer) Send(keyName, toName, toEmail string, params map[string]string) {
	m.sent = append(m.sent, sentMail{keyName: keyName, toEmail: toEmail, params: params})
}

var _ = Describe("AuthService", func() {
	var (
		repo    *mockAuthRepository
		mailer  *mockMailer
		tokens  *auth.JWTTokenGenerator
		service *auth.Service
	)

	newLogger := func() *slog.Logger {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}

	BeforeEach(func() {
		repo = newMockAuthRepository()
		mailer = &mockMailer{}
		tokens = auth.NewJWTTokenGenerator(
			"test-access-secret-0123456789abcdef",
			"test-refresh-secret-0123456789abcde",
			"test-link-secret-0123456789abcdefg",
			15*time.Minute,
			24*time.Hour,
		)
		service = auth.NewService(repo, tokens, mailer, newLogger(), 10)
	})

	registerUser := func(email string) *datamodel.User {
		user, err := service.Register(auth.RegisterDTO{
			FirstName: "Dian",
			LastName:  "Pratama",
			Email:     email,
			Password:  "correct-horse",
		})
		Expect(err).NotTo(HaveOccurred())
		return user
	}

	Describe("Register", func() {
		It("creates an inactive administrator and queues an activation email", func() {
			user := registerUser("dian@example.com")

			Expect(user.IsActive).To(BeFalse())
			Expect(user.IsAdministrator).To(BeTrue())
			Expect(mailer.sent).To(HaveLen(1))
			Expect(mailer.sent[0].keyName).To(Equal("send_activation_email"))
			Expect(mailer.sent[0].params).To(HaveKey("{activation_link}"))
		})

		It("rejects a duplicate email", func() {
			registerUser("dian@example.com")

			_, err := service.Register(auth.RegisterDTO{
				FirstName: "Other",
				LastName:  "Person",
				Email:     "dian@example.com",
				Password:  "another-pass",
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeEmailTaken))
		})

		It("rejects a short password before touching the repository", func() {
			_, err := service.Register(auth.RegisterDTO{
				FirstName: "Dian",
				LastName:  "Pratama",
				Email:     "dian@example.com",
				Password:  "short",
			})

			Expect(err).To(BeAssignableToTypeOf(auth.ValidationError{}))
			Expect(repo.byEmail).To(BeEmpty())
		})
	})

	Describe("Activate", func() {
		It("flips the account active through the emailed token", func() {
			user := registerUser("dian@example.com")

			token, err := tokens.GenerateLinkToken(user.ID.String(), auth.PurposeActivate)
			Expect(err).NotTo(HaveOccurred())

			activated, err := service.Activate(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(activated.IsActive).To(BeTrue())
			Expect(repo.users[user.ID].IsActive).To(BeTrue())
		})

		It("reports an already activated account as a conflict", func() {
			user := registerUser("dian@example.com")
			Expect(repo.SetActive(user.ID, true)).To(Succeed())

			token, _ := tokens.GenerateLinkToken(user.ID.String(), auth.PurposeActivate)
			_, err := service.Activate(token)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})

		It("refuses a token minted for another purpose", func() {
			user := registerUser("dian@example.com")

			token, _ := tokens.GenerateLinkToken(user.ID.String(), auth.PurposePasswordReset)
			_, err := service.Activate(token)

			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})
	})

	Describe("Authenticate", func() {
		var user *datamodel.User

		BeforeEach(func() {
			user = registerUser("dian@example.com")
			Expect(repo.SetActive(user.ID, true)).To(Succeed())
		})

		It("returns a token pair for valid credentials", func() {
			pair, err := service.Authenticate(auth.LoginDTO{Email: "dian@example.com", Password: "correct-horse"})

			Expect(err).NotTo(HaveOccurred())
			Expect(pair.AccessToken).NotTo(BeEmpty())
			Expect(pair.RefreshToken).NotTo(BeEmpty())

			claims, err := tokens.ValidateToken(pair.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(user.ID.String()))
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "dian@example.com", Password: "wrong"})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})

		It("rejects an unknown email with the same error as a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "nobody@example.com", Password: "whatever"})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})

		It("rejects an unactivated account", func() {
			Expect(repo.SetActive(user.ID, false)).To(Succeed())

			_, err := service.Authenticate(auth.LoginDTO{Email: "dian@example.com", Password: "correct-horse"})
			Expect(err).To(MatchError(internal.ErrUserInactive))
		})
	})

	Describe("RefreshTokens", func() {
		It("rotates the pair from a valid refresh token", func() {
			user := registerUser("dian@example.com")
			Expect(repo.SetActive(user.ID, true)).To(Succeed())

			pair, err := service.Authenticate(auth.LoginDTO{Email: "dian@example.com", Password: "correct-horse"})
			Expect(err).NotTo(HaveOccurred())

			rotated, err := service.RefreshTokens(pair.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(rotated.AccessToken).NotTo(BeEmpty())

			claims, err := tokens.ValidateToken(rotated.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(user.ID.String()))
		})

		It("rejects garbage", func() {
			_, err := service.RefreshTokens("not-a-token")
			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})
	})

	Describe("password reset", func() {
		It("queues a reset email and accepts the confirmed new password", func() {
			user := registerUser("dian@example.com")
			Expect(repo.SetActive(user.ID, true)).To(Succeed())
			mailer.sent = nil

			_, err := service.ResetPassword("dian@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(mailer.sent).To(HaveLen(1))
			Expect(mailer.sent[0].keyName).To(Equal("reset_password_email"))

			token, err := tokens.GenerateLinkToken(user.ID.String(), auth.PurposePasswordReset)
			Expect(err).NotTo(HaveOccurred())
			Expect(service.ResetPasswordConfirm(token, "brand-new-password")).To(Succeed())

			_, err = service.Authenticate(auth.LoginDTO{Email: "dian@example.com", Password: "brand-new-password"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("fails loudly for an unknown email", func() {
			_, err := service.ResetPassword("nobody@example.com")

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeUserNotFound))
		})
	})

	Describe("ChangePassword", func() {
		It("requires the current password", func() {
			user := registerUser("dian@example.com")

			err := service.ChangePassword(user.ID, auth.ChangePasswordDTO{
				OldPassword: "wrong",
				NewPassword: "brand-new-password",
			})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})

		It("swaps the hash on success", func() {
			user := registerUser("dian@example.com")
			Expect(repo.SetActive(user.ID, true)).To(Succeed())

			err := service.ChangePassword(user.ID, auth.ChangePasswordDTO{
				OldPassword: "correct-horse",
				NewPassword: "brand-new-password",
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Authenticate(auth.LoginDTO{Email: "dian@example.com", Password: "brand-new-password"})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("GetUserWithPermissions", func() {
		It("resolves codenames for the active company", func() {
			user := registerUser("dian@example.com")
			repo.codenames[user.ID] = []string{"storages.add_storage", "templates.change_template"}

			resolved, err := service.GetUserWithPermissions(user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resolved.Permissions).To(ContainElement("storages.add_storage"))
			Expect(resolved.HasAllPermissions([]string{"storages.add_storage", "templates.change_template"})).To(BeTrue())
			Expect(resolved.HasPermission("storages.delete_storage")).To(BeFalse())
		})
	})
})
