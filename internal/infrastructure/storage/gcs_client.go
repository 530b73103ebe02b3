package storage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"artisanmart/internal/domain/entity"
	"artisanmart/pkg/logger"
)

const (
	publicHost      = "https://storage.googleapis.com/"
	signedURLExpiry = 15 * time.Minute
)

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName string, opts ...option.ClientOption) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	storageClient := &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}

	if err := storageClient.setBucketCORS(ctx); err != nil {
		logger.Warn("Failed to set CORS configuration on bucket %s: %v", bucketName, err)
	}

	return storageClient, nil
}

// setBucketCORS lets browsers PUT straight to signed URLs.
func (c *CloudStorageClient) setBucketCORS(ctx context.Context) error {
	bucket := c.client.Bucket(c.bucketName)

	attrs, err := bucket.Attrs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bucket attributes: %w", err)
	}
	if len(attrs.CORS) > 0 {
		return nil
	}

	_, err = bucket.Update(ctx, storage.BucketAttrsToUpdate{
		CORS: []storage.CORS{{
			MaxAge:          3600,
			Methods:         []string{"GET", "PUT", "OPTIONS"},
			Origins:         []string{"*"},
			ResponseHeaders: []string{"Content-Type"},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to update bucket CORS: %w", err)
	}
	return nil
}

func (c *CloudStorageClient) GenerateSignedUploadURL(ctx context.Context, contentType, objectName string) (*entity.UploadTicket, error) {
	expires := time.Now().Add(signedURLExpiry)

	url, err := c.client.Bucket(c.bucketName).SignedURL(objectName, &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		ContentType: contentType,
		Expires:     expires,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate signed URL: %w", err)
	}

	return &entity.UploadTicket{
		UploadURL:  url,
		PublicURL:  c.publicURL(objectName),
		ObjectName: objectName,
		ExpiresAt:  expires,
		Method:     http.MethodPut,
	}, nil
}

func (c *CloudStorageClient) DeleteObject(ctx context.Context, objectName string) error {
	if err := c.client.Bucket(c.bucketName).Object(objectName).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// ObjectName parses https://storage.googleapis.com/<bucket>/<object>.
func (c *CloudStorageClient) ObjectName(fileURL string) (string, error) {
	return ParseObjectName(c.bucketName, fileURL)
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}

func (c *CloudStorageClient) publicURL(objectName string) string {
	return publicHost + c.bucketName + "/" + objectName
}

func ParseObjectName(bucket, fileURL string) (string, error) {
	if !strings.HasPrefix(fileURL, publicHost) {
		return "", fmt.Errorf("invalid storage URL format")
	}

	parts := strings.SplitN(strings.TrimPrefix(fileURL, publicHost), "/", 2)
	if len(parts) != 2 || parts[0] != bucket || parts[1] == "" {
		return "", fmt.Errorf("invalid storage URL format or bucket mismatch")
	}
	return parts[1], nil
}
