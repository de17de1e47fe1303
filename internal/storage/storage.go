package storage

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

// RepositoryAPI defines the data access methods for storage backends.
type RepositoryAPI interface {
	Create(storage *datamodel.Storage) error
	GetByID(id uuid.UUID) (*datamodel.Storage, error)
	GetByCompany(companyID uuid.UUID) ([]*datamodel.Storage, error)
	GetSelected(companyID uuid.UUID) (*datamodel.Storage, error)
	Update(storage *datamodel.Storage) error
	Delete(id uuid.UUID) error

	// SelectExclusive clears the selection flag on every storage of the
	// company and sets it to selected on the given one, all in the same
	// transaction.
	SelectExclusive(companyID, storageID uuid.UUID, selected bool) error

	GetCompany(companyID uuid.UUID) (*datamodel.Company, error)
}

type ServiceAPI interface {
	CreateStorage(actorID uuid.UUID, dto CreateStorageDTO) (*datamodel.Storage, error)
	UpdateStorage(actorID uuid.UUID, storageID uuid.UUID, dto UpdateStorageDTO) (*datamodel.Storage, error)
	DeleteStorage(actorID uuid.UUID, storageID uuid.UUID) error
	SelectStorage(actorID uuid.UUID, storageID uuid.UUID) (bool, error)
	GetCompanyStorages(actorID uuid.UUID, companyID uuid.UUID) ([]*datamodel.Storage, error)
	UploadFile(ctx context.Context, actorID uuid.UUID, companyID uuid.UUID, upload FileUpload) (string, error)
}

// Uploader pushes a file to one concrete storage backend and returns the
// public URL of the stored object.
type Uploader interface {
	Upload(ctx context.Context, storage *datamodel.Storage, key, contentType string, body io.Reader) (string, error)
}

type FileUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// UploaderRegistry maps storage types to their uploader implementations.
type UploaderRegistry map[string]Uploader

// ForType resolves the uploader for a storage type; an unregistered type is
// a validation error.
func (r UploaderRegistry) ForType(storageType string) (Uploader, error) {
	uploader, ok := r[storageType]
	if !ok {
		return nil, internal.NewValidationError("unknown storage type: "+storageType, internal.ErrCodeUnknownStorageType)
	}
	return uploader, nil
}
