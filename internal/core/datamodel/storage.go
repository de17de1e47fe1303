package datamodel

import (
	"github.com/google/uuid"
)

const (
	StorageTypeAWS    = "aws"
	StorageTypeGoogle = "google"
)

// Storage holds one cloud upload target for a company. At most one row per
// company is selected at a time; the exclusivity is enforced by the storage
// service inside a transaction, not by a database constraint.
type Storage struct {
	Base
	CompanyID   uuid.UUID `json:"company_id" gorm:"column:company_id;type:uuid;not null;index"`
	IsSelected  bool      `json:"is_selected" gorm:"column:is_selected;default:false"`
	StorageType string    `json:"storage_type" gorm:"column:storage_type;default:aws"`

	// Google storage
	AuthFile  string `json:"auth_file,omitempty" gorm:"column:auth_file"`
	ProjectID string `json:"project_id,omitempty" gorm:"column:project_id"`

	// AWS S3
	AccessKey  string `json:"access_key,omitempty" gorm:"column:access_key"`
	SecretKey  string `json:"-" gorm:"column:secret_key"`
	BucketName string `json:"bucket_name,omitempty" gorm:"column:bucket_name"`
	Region     string `json:"region,omitempty" gorm:"column:region"`
}

func (Storage) TableName() string {
	return "storages"
}
