package gcs

import (
	"context"
	"fmt"
	"io"

	gstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

// Uploader stores files in a Google Cloud Storage bucket using the service
// account JSON configured on the storage record.
type Uploader struct{}

func NewUploader() *Uploader {
	return &Uploader{}
}

func (u *Uploader) Upload(ctx context.Context, storage *datamodel.Storage, key, contentType string, body io.Reader) (string, error) {
	client, err := gstorage.NewClient(ctx, option.WithCredentialsJSON([]byte(storage.AuthFile)))
	if err != nil {
		return "", fmt.Errorf("gcs client: %w", err)
	}
	defer client.Close()

	writer := client.Bucket(storage.BucketName).Object(key).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, body); err != nil {
		writer.Close()
		return "", fmt.Errorf("gcs write: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("gcs close: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", storage.BucketName, key), nil
}
