package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/company"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

// Service handles storage backend configuration and file uploads. Each
// company has at most one selected backend at a time.
type Service struct {
	repo      RepositoryAPI
	uploaders UploaderRegistry
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, uploaders UploaderRegistry, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		uploaders: uploaders,
		logger:    logger,
	}
}

func (s *Service) CreateStorage(actorID uuid.UUID, dto CreateStorageDTO) (*datamodel.Storage, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireAdministrator(actorID, dto.CompanyID); err != nil {
		return nil, err
	}

	storage := &datamodel.Storage{
		CompanyID:   dto.CompanyID,
		StorageType: dto.StorageType,
		AuthFile:    dto.AuthFile,
		ProjectID:   dto.ProjectID,
		AccessKey:   dto.AccessKey,
		SecretKey:   dto.SecretKey,
		BucketName:  dto.BucketName,
		Region:      dto.Region,
	}
	if err := s.repo.Create(storage); err != nil {
		s.logger.Error("failed to create storage", "error", err, "company_id", dto.CompanyID)
		return nil, err
	}

	if dto.IsSelected {
		if err := s.repo.SelectExclusive(dto.CompanyID, storage.ID, true); err != nil {
			s.logger.Error("failed to select created storage", "error", err, "storage_id", storage.ID)
			return nil, err
		}
		storage.IsSelected = true
	}

	s.logger.Info("storage created", "storage_id", storage.ID, "company_id", dto.CompanyID, "type", storage.StorageType)
	return storage, nil
}

func (s *Service) UpdateStorage(actorID uuid.UUID, storageID uuid.UUID, dto UpdateStorageDTO) (*datamodel.Storage, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	storage, err := s.repo.GetByID(storageID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAdministrator(actorID, storage.CompanyID); err != nil {
		return nil, err
	}

	if dto.AuthFile != nil {
		storage.AuthFile = *dto.AuthFile
	}
	if dto.ProjectID != nil {
		storage.ProjectID = *dto.ProjectID
	}
	if dto.AccessKey != nil {
		storage.AccessKey = *dto.AccessKey
	}
	if dto.SecretKey != nil {
		storage.SecretKey = *dto.SecretKey
	}
	if dto.BucketName != nil {
		storage.BucketName = *dto.BucketName
	}
	if dto.Region != nil {
		storage.Region = *dto.Region
	}
	if dto.IsSelected != nil && !*dto.IsSelected {
		storage.IsSelected = false
	}

	if err := s.repo.Update(storage); err != nil {
		s.logger.Error("failed to update storage", "error", err, "storage_id", storageID)
		return nil, err
	}

	if dto.IsSelected != nil && *dto.IsSelected {
		if err := s.repo.SelectExclusive(storage.CompanyID, storage.ID, true); err != nil {
			s.logger.Error("failed to select updated storage", "error", err, "storage_id", storageID)
			return nil, err
		}
		storage.IsSelected = true
	}
	return storage, nil
}

func (s *Service) DeleteStorage(actorID uuid.UUID, storageID uuid.UUID) error {
	storage, err := s.repo.GetByID(storageID)
	if err != nil {
		return err
	}
	if err := s.requireAdministrator(actorID, storage.CompanyID); err != nil {
		return err
	}

	if err := s.repo.Delete(storageID); err != nil {
		s.logger.Error("failed to delete storage", "error", err, "storage_id", storageID)
		return err
	}

	s.logger.Info("storage deleted", "storage_id", storageID, "company_id", storage.CompanyID)
	return nil
}

// SelectStorage toggles the storage's selection flag, deselecting all its
// siblings in the same transaction. Selecting an already-selected backend
// leaves the company with no selected backend.
func (s *Service) SelectStorage(actorID uuid.UUID, storageID uuid.UUID) (bool, error) {
	storage, err := s.repo.GetByID(storageID)
	if err != nil {
		return false, err
	}
	if err := s.requireAdministrator(actorID, storage.CompanyID); err != nil {
		return false, err
	}

	selected := !storage.IsSelected
	if err := s.repo.SelectExclusive(storage.CompanyID, storageID, selected); err != nil {
		s.logger.Error("failed to select storage", "error", err, "storage_id", storageID)
		return false, err
	}

	s.logger.Info("storage selection toggled", "storage_id", storageID, "company_id", storage.CompanyID, "selected", selected)
	return selected, nil
}

func (s *Service) GetCompanyStorages(actorID uuid.UUID, companyID uuid.UUID) ([]*datamodel.Storage, error) {
	if err := s.requireAdministrator(actorID, companyID); err != nil {
		return nil, err
	}
	return s.repo.GetByCompany(companyID)
}

// UploadFile stores the file in the company's selected backend and returns
// its public URL. Without a selected backend the upload fails with a typed
// error instead of silently succeeding.
func (s *Service) UploadFile(ctx context.Context, actorID uuid.UUID, companyID uuid.UUID, upload FileUpload) (string, error) {
	c, err := s.repo.GetCompany(companyID)
	if err != nil {
		return "", err
	}
	if err := company.IsCompanyAdministratorOrInvitedUser(c, actorID); err != nil {
		return "", err
	}

	selected, err := s.repo.GetSelected(companyID)
	if err != nil {
		return "", err
	}

	uploader, err := s.uploaders.ForType(selected.StorageType)
	if err != nil {
		return "", err
	}

	key := objectKey(companyID, upload.Filename)
	url, err := uploader.Upload(ctx, selected, key, upload.ContentType, upload.Body)
	if err != nil {
		s.logger.Error("file upload failed", "error", err, "company_id", companyID, "storage_id", selected.ID, "key", key)
		return "", internal.NewExternalError("failed to upload file", internal.ErrCodeUploadFailed, err)
	}

	s.logger.Info("file uploaded", "company_id", companyID, "storage_id", selected.ID, "key", key)
	return url, nil
}

func (s *Service) requireAdministrator(actorID, companyID uuid.UUID) error {
	c, err := s.repo.GetCompany(companyID)
	if err != nil {
		return err
	}
	return company.IsCompanyAdministrator(c, actorID)
}

// objectKey namespaces uploads per company and keeps names unique without
// trusting the client filename.
func objectKey(companyID uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("%s/%d-%s%s", companyID, time.Now().UnixNano(), uuid.NewString()[:8], ext)
}
