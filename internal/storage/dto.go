package storage

import (
	"strings"

	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type CreateStorageDTO struct {
	CompanyID   uuid.UUID `json:"company_id"`
	StorageType string    `json:"storage_type"`
	IsSelected  bool      `json:"is_selected"`
	AuthFile    string    `json:"auth_file,omitempty"`
	ProjectID   string    `json:"project_id,omitempty"`
	AccessKey   string    `json:"access_key,omitempty"`
	SecretKey   string    `json:"secret_key,omitempty"`
	BucketName  string    `json:"bucket_name"`
	Region      string    `json:"region,omitempty"`
}

func (d CreateStorageDTO) Validate() error {
	if d.CompanyID == uuid.Nil {
		return ValidationError{Msg: "company_id is required"}
	}
	if strings.TrimSpace(d.BucketName) == "" {
		return ValidationError{Msg: "bucket_name is required"}
	}
	switch d.StorageType {
	case datamodel.StorageTypeAWS:
		if d.AccessKey == "" || d.SecretKey == "" {
			return ValidationError{Msg: "access_key and secret_key are required for aws storage"}
		}
	case datamodel.StorageTypeGoogle:
		if d.AuthFile == "" {
			return ValidationError{Msg: "auth_file is required for google storage"}
		}
	default:
		return ValidationError{Msg: "unknown storage type: " + d.StorageType}
	}
	return nil
}

type UpdateStorageDTO struct {
	IsSelected *bool   `json:"is_selected,omitempty"`
	AuthFile   *string `json:"auth_file,omitempty"`
	ProjectID  *string `json:"project_id,omitempty"`
	AccessKey  *string `json:"access_key,omitempty"`
	SecretKey  *string `json:"secret_key,omitempty"`
	BucketName *string `json:"bucket_name,omitempty"`
	Region     *string `json:"region,omitempty"`
}

func (d UpdateStorageDTO) Validate() error {
	if d.BucketName != nil && strings.TrimSpace(*d.BucketName) == "" {
		return ValidationError{Msg: "bucket_name cannot be empty"}
	}
	return nil
}
