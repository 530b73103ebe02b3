package service

import (
	"context"

	"artisanmart/internal/domain/entity"
)

type FileUploadService interface {
	GenerateSignedUploadURL(ctx context.Context, contentType, objectName string) (*entity.UploadTicket, error)
	DeleteObject(ctx context.Context, objectName string) error
	// ObjectName resolves a public URL back to its object name in the bucket.
	ObjectName(fileURL string) (string, error)
	Close() error
}
