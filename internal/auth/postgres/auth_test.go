package auth_test

import (
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	authPostgres "github.com/pagecraft/pagecraft/internal/auth/postgres"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

func TestAuthPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Postgres Suite")
}

var _ = Describe("Auth Repository", func() {
	var (
		db   *gorm.DB
		repo *authPostgres.Repository
		user *datamodel.User
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&datamodel.User{}, &datamodel.Group{}, &datamodel.Permission{})
		Expect(err).NotTo(HaveOccurred())

		repo = authPostgres.NewRepository(db)

		user = &datamodel.User{
			Email:        "member@pagecraft.io",
			PasswordHash: "hash",
			IsActive:     true,
		}
		Expect(repo.Create(user)).To(Succeed())
	})

	newPermission := func(codename string, companyID *uuid.UUID) *datamodel.Permission {
		p := &datamodel.Permission{Codename: codename, Name: codename, CompanyID: companyID}
		Expect(db.Create(p).Error).To(Succeed())
		return p
	}

	newGroup := func(companyID uuid.UUID, permissions ...*datamodel.Permission) *datamodel.Group {
		g := &datamodel.Group{Name: "Editors", CompanyID: companyID, Permissions: permissions}
		Expect(db.Create(g).Error).To(Succeed())
		Expect(db.Model(g).Association("Users").Append(user)).To(Succeed())
		return g
	}

	Describe("PermissionCodenames", func() {
		It("combines direct and group grants for the active company", func() {
			companyID := uuid.New()
			direct := newPermission("templates.add_template", nil)
			viaGroup := newPermission("storages.add_storage", nil)

			Expect(db.Model(user).Association("Permissions").Append(direct)).To(Succeed())
			newGroup(companyID, viaGroup)

			codenames, err := repo.PermissionCodenames(user.ID, &companyID)
			Expect(err).NotTo(HaveOccurred())
			Expect(codenames).To(ConsistOf("templates.add_template", "storages.add_storage"))
		})

		It("ignores grants from another company's groups", func() {
			activeCompany := uuid.New()
			otherCompany := uuid.New()
			leaked := newPermission("storages.delete_storage", nil)
			newGroup(otherCompany, leaked)

			codenames, err := repo.PermissionCodenames(user.ID, &activeCompany)
			Expect(err).NotTo(HaveOccurred())
			Expect(codenames).To(BeEmpty())
		})

		It("keeps company-scoped permissions out of other companies", func() {
			companyID := uuid.New()
			foreignCompany := uuid.New()
			scoped := newPermission("templates.change_template", &foreignCompany)
			Expect(db.Model(user).Association("Permissions").Append(scoped)).To(Succeed())

			codenames, err := repo.PermissionCodenames(user.ID, &companyID)
			Expect(err).NotTo(HaveOccurred())
			Expect(codenames).To(BeEmpty())
		})

		It("resolves only global direct grants without an active company", func() {
			global := newPermission("companies.change_company", nil)
			viaGroup := newPermission("groups.add_group", nil)
			Expect(db.Model(user).Association("Permissions").Append(global)).To(Succeed())
			newGroup(uuid.New(), viaGroup)

			codenames, err := repo.PermissionCodenames(user.ID, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(codenames).To(ConsistOf("companies.change_company"))
		})
	})
})
