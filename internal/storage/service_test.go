package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
	"github.com/pagecraft/pagecraft/internal/storage"
)

func TestStorageService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Storage Service Suite")
}

type mockStorageRepository struct {
	storages  map[uuid.UUID]*datamodel.Storage
	companies map[uuid.UUID]*datamodel.Company
}

func newMockStorageRepository() *mockStorageRepository {
	return &mockStorageRepository{
		storages:  make(map[uuid.UUID]*datamodel.Storage),
		companies: make(map[uuid.UUID]*datamodel.Company),
	}
}

func (m *mockStorageRepository) Create(s *datamodel.Storage) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	m.storages[s.ID] = s
	return nil
}

func (m *mockStorageRepository) GetByID(id uuid.UUID) (*datamodel.Storage, error) {
	s, ok := m.storages[id]
	if !ok {
		return nil, internal.ErrStorageNotFound
	}
	return s, nil
}

func (m *mockStorageRepository) GetByCompany(companyID uuid.UUID) ([]*datamodel.Storage, error) {
	var result []*datamodel.Storage
	for _, s := range m.storages {
		if s.CompanyID == companyID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockStorageRepository) GetSelected(companyID uuid.UUID) (*datamodel.Storage, error) {
	for _, s := range m.storages {
		if s.CompanyID == companyID && s.IsSelected {
			return s, nil
		}
	}
	return nil, internal.ErrNoStorageSelected
}

func (m *mockStorageRepository) Update(s *datamodel.Storage) error {
	m.storages[s.ID] = s
	return nil
}

func (m *mockStorageRepository) Delete(id uuid.UUID) error {
	if _, ok := m.storages[id]; !ok {
		return internal.ErrStorageNotFound
	}
	delete(m.storages, id)
	return nil
}

func (m *mockStorageRepository) SelectExclusive(companyID, storageID uuid.UUID, selected bool) error {
	target, ok := m.storages[storageID]
	if !ok || target.CompanyID != companyID {
		return internal.ErrStorageNotFound
	}
	for _, s := range m.storages {
		if s.CompanyID == companyID {
			s.IsSelected = false
		}
	}
	target.IsSelected = selected
	return nil
}

func (m *mockStorageRepository) GetCompany(companyID uuid.UUID) (*datamodel.Company, error) {
	c, ok := m.companies[companyID]
	if !ok {
		return nil, internal.ErrCompanyNotFound
	}
	return c, nil
}

type mockUploader struct {
	url      string
	err      error
	lastKey  string
	lastBody []byte
}

func (m *mockUploader) Upload(ctx context.Context, s *datamodel.Storage, key, contentType string, body io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.lastKey = key
	m.lastBody, _ = io.ReadAll(body)
	return m.url, nil
}

var _ = Describe("StorageService", func() {
	var (
		repo      *mockStorageRepository
		awsUpload *mockUploader
		service   *storage.Service
		adminID   uuid.UUID
		companyID uuid.UUID
	)

	BeforeEach(func() {
		repo = newMockStorageRepository()
		awsUpload = &mockUploader{url: "https://bucket.s3.amazonaws.com/key"}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = storage.NewService(repo, storage.UploaderRegistry{
			datamodel.StorageTypeAWS: awsUpload,
		}, logger)

		adminID = uuid.New()
		companyID = uuid.New()
		repo.companies[companyID] = &datamodel.Company{
			Base:            datamodel.Base{ID: companyID},
			Name:            "Acme",
			AdministratorID: &adminID,
		}
	})

	newStorage := func() *datamodel.Storage {
		s, err := service.CreateStorage(adminID, storage.CreateStorageDTO{
			CompanyID:   companyID,
			StorageType: datamodel.StorageTypeAWS,
			AccessKey:   "AKIA",
			SecretKey:   "secret",
			BucketName:  "bucket",
			Region:      "eu-west-1",
		})
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	Describe("CreateStorage", func() {
		It("creates a backend for the administrator", func() {
			s := newStorage()
			Expect(s.CompanyID).To(Equal(companyID))
			Expect(s.IsSelected).To(BeFalse())
		})

		It("deselects siblings when created as selected", func() {
			first, err := service.CreateStorage(adminID, storage.CreateStorageDTO{
				CompanyID:   companyID,
				StorageType: datamodel.StorageTypeAWS,
				AccessKey:   "AKIA",
				SecretKey:   "secret",
				BucketName:  "bucket-a",
				IsSelected:  true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(first.IsSelected).To(BeTrue())

			second, err := service.CreateStorage(adminID, storage.CreateStorageDTO{
				CompanyID:   companyID,
				StorageType: datamodel.StorageTypeAWS,
				AccessKey:   "AKIA",
				SecretKey:   "secret",
				BucketName:  "bucket-b",
				IsSelected:  true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(second.IsSelected).To(BeTrue())
			Expect(repo.storages[first.ID].IsSelected).To(BeFalse())
		})

		It("rejects unknown storage types", func() {
			_, err := service.CreateStorage(adminID, storage.CreateStorageDTO{
				CompanyID:   companyID,
				StorageType: "ftp",
				BucketName:  "bucket",
			})
			Expect(err).To(BeAssignableToTypeOf(storage.ValidationError{}))
		})

		It("rejects non-administrators", func() {
			_, err := service.CreateStorage(uuid.New(), storage.CreateStorageDTO{
				CompanyID:   companyID,
				StorageType: datamodel.StorageTypeAWS,
				AccessKey:   "AKIA",
				SecretKey:   "secret",
				BucketName:  "bucket",
			})
			Expect(errors.Is(err, internal.ErrNotAdministrator)).To(BeTrue())
		})
	})

	Describe("UpdateStorage", func() {
		It("moves the selection when updated with is_selected", func() {
			first := newStorage()
			second := newStorage()
			Expect(service.SelectStorage(adminID, first.ID)).To(BeTrue())

			selected := true
			updated, err := service.UpdateStorage(adminID, second.ID, storage.UpdateStorageDTO{IsSelected: &selected})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.IsSelected).To(BeTrue())
			Expect(repo.storages[first.ID].IsSelected).To(BeFalse())
		})

		It("clears the flag when updated with is_selected false", func() {
			s := newStorage()
			Expect(service.SelectStorage(adminID, s.ID)).To(BeTrue())

			deselected := false
			updated, err := service.UpdateStorage(adminID, s.ID, storage.UpdateStorageDTO{IsSelected: &deselected})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.IsSelected).To(BeFalse())
			Expect(repo.storages[s.ID].IsSelected).To(BeFalse())
		})

		It("rejects non-administrators", func() {
			s := newStorage()
			bucket := "other-bucket"
			_, err := service.UpdateStorage(uuid.New(), s.ID, storage.UpdateStorageDTO{BucketName: &bucket})
			Expect(errors.Is(err, internal.ErrNotAdministrator)).To(BeTrue())
		})
	})

	Describe("SelectStorage", func() {
		It("keeps at most one backend selected per company", func() {
			first := newStorage()
			second := newStorage()

			Expect(service.SelectStorage(adminID, first.ID)).To(BeTrue())
			Expect(service.SelectStorage(adminID, second.ID)).To(BeTrue())

			selectedCount := 0
			for _, s := range repo.storages {
				if s.IsSelected {
					selectedCount++
					Expect(s.ID).To(Equal(second.ID))
				}
			}
			Expect(selectedCount).To(Equal(1))
		})

		It("deselects an already-selected backend", func() {
			s := newStorage()

			Expect(service.SelectStorage(adminID, s.ID)).To(BeTrue())
			Expect(service.SelectStorage(adminID, s.ID)).To(BeFalse())

			for _, stored := range repo.storages {
				Expect(stored.IsSelected).To(BeFalse())
			}
		})

		It("rejects non-administrators", func() {
			s := newStorage()
			_, err := service.SelectStorage(uuid.New(), s.ID)
			Expect(errors.Is(err, internal.ErrNotAdministrator)).To(BeTrue())
		})
	})

	Describe("UploadFile", func() {
		It("uploads through the selected backend", func() {
			s := newStorage()
			Expect(service.SelectStorage(adminID, s.ID)).To(BeTrue())

			url, err := service.UploadFile(context.Background(), adminID, companyID, storage.FileUpload{
				Filename:    "report.pdf",
				ContentType: "application/pdf",
				Body:        bytes.NewBufferString("content"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(url).To(Equal("https://bucket.s3.amazonaws.com/key"))
			Expect(awsUpload.lastKey).To(HaveSuffix(".pdf"))
			Expect(awsUpload.lastBody).To(Equal([]byte("content")))
		})

		It("fails with a typed error when no backend is selected", func() {
			newStorage()

			_, err := service.UploadFile(context.Background(), adminID, companyID, storage.FileUpload{
				Filename: "report.pdf",
				Body:     bytes.NewBufferString("content"),
			})
			Expect(errors.Is(err, internal.ErrNoStorageSelected)).To(BeTrue())
		})

		It("wraps backend failures in a typed error", func() {
			s := newStorage()
			Expect(service.SelectStorage(adminID, s.ID)).To(BeTrue())
			awsUpload.err = errors.New("connection reset")

			_, err := service.UploadFile(context.Background(), adminID, companyID, storage.FileUpload{
				Filename: "report.pdf",
				Body:     bytes.NewBufferString("content"),
			})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeUploadFailed))
		})

		It("is open to invited members, not only the administrator", func() {
			s := newStorage()
			Expect(service.SelectStorage(adminID, s.ID)).To(BeTrue())

			memberID := uuid.New()
			repo.companies[companyID].InvitedUsers = []*datamodel.User{{Base: datamodel.Base{ID: memberID}}}

			_, err := service.UploadFile(context.Background(), memberID, companyID, storage.FileUpload{
				Filename: "logo.png",
				Body:     bytes.NewBufferString("png"),
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("is closed to strangers", func() {
			s := newStorage()
			Expect(service.SelectStorage(adminID, s.ID)).To(BeTrue())

			_, err := service.UploadFile(context.Background(), uuid.New(), companyID, storage.FileUpload{
				Filename: "logo.png",
				Body:     bytes.NewBufferString("png"),
			})
			Expect(errors.Is(err, internal.ErrNotInvitedUser)).To(BeTrue())
		})
	})
})
