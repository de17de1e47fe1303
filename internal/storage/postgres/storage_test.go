package storage_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
	storagePostgres "github.com/pagecraft/pagecraft/internal/storage/postgres"
)

func TestStoragePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Storage Postgres Suite")
}

var _ = Describe("Storage Repository", func() {
	var (
		db        *gorm.DB
		repo      *storagePostgres.Repository
		companyID uuid.UUID
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&datamodel.Storage{})
		Expect(err).NotTo(HaveOccurred())

		repo = storagePostgres.NewRepository(db)
		companyID = uuid.New()
	})

	newStorage := func() *datamodel.Storage {
		s := &datamodel.Storage{
			CompanyID:   companyID,
			StorageType: datamodel.StorageTypeAWS,
			AccessKey:   "AKIA",
			SecretKey:   "secret",
			BucketName:  "bucket",
		}
		Expect(repo.Create(s)).To(Succeed())
		return s
	}

	Describe("Create", func() {
		It("assigns an ID and defaults", func() {
			s := newStorage()
			Expect(s.ID).NotTo(Equal(uuid.Nil))
			Expect(s.IsSelected).To(BeFalse())
		})
	})

	Describe("SelectExclusive", func() {
		It("leaves exactly one selected backend after repeated switches", func() {
			first := newStorage()
			second := newStorage()
			third := newStorage()

			Expect(repo.SelectExclusive(companyID, first.ID, true)).To(Succeed())
			Expect(repo.SelectExclusive(companyID, second.ID, true)).To(Succeed())
			Expect(repo.SelectExclusive(companyID, third.ID, true)).To(Succeed())

			var count int64
			err := db.Model(&datamodel.Storage{}).
				Where("company_id = ? AND is_selected = ?", companyID, true).
				Count(&count).Error
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))

			selected, err := repo.GetSelected(companyID)
			Expect(err).NotTo(HaveOccurred())
			Expect(selected.ID).To(Equal(third.ID))
		})

		It("leaves the company without a selection when passed false", func() {
			s := newStorage()

			Expect(repo.SelectExclusive(companyID, s.ID, true)).To(Succeed())
			Expect(repo.SelectExclusive(companyID, s.ID, false)).To(Succeed())

			reloaded, err := repo.GetByID(s.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.IsSelected).To(BeFalse())

			_, err = repo.GetSelected(companyID)
			Expect(errors.Is(err, internal.ErrNoStorageSelected)).To(BeTrue())
		})

		It("does not touch other companies", func() {
			mine := newStorage()
			other := &datamodel.Storage{
				CompanyID:   uuid.New(),
				StorageType: datamodel.StorageTypeAWS,
				BucketName:  "other-bucket",
				IsSelected:  true,
			}
			Expect(repo.Create(other)).To(Succeed())

			Expect(repo.SelectExclusive(companyID, mine.ID, true)).To(Succeed())

			reloaded, err := repo.GetByID(other.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.IsSelected).To(BeTrue())
		})

		It("fails for a storage from a different company", func() {
			foreign := &datamodel.Storage{
				CompanyID:   uuid.New(),
				StorageType: datamodel.StorageTypeAWS,
				BucketName:  "foreign",
			}
			Expect(repo.Create(foreign)).To(Succeed())

			err := repo.SelectExclusive(companyID, foreign.ID, true)
			Expect(errors.Is(err, internal.ErrStorageNotFound)).To(BeTrue())
		})
	})

	Describe("GetSelected", func() {
		It("returns a typed error when nothing is selected", func() {
			newStorage()
			_, err := repo.GetSelected(companyID)
			Expect(errors.Is(err, internal.ErrNoStorageSelected)).To(BeTrue())
		})
	})
})
