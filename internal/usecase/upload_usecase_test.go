package usecase

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artisanmart/internal/domain/entity"
)

type fakeFileService struct {
	deleted []string
}

func (s *fakeFileService) GenerateSignedUploadURL(_ context.Context, contentType, objectName string) (*entity.UploadTicket, error) {
	return &entity.UploadTicket{
		UploadURL:  "https://storage.example/upload/" + objectName + "?sig=1",
		PublicURL:  "https://storage.example/bucket/" + objectName,
		ObjectName: objectName,
		ExpiresAt:  time.Now().Add(15 * time.Minute),
		Method:     http.MethodPut,
	}, nil
}

func (s *fakeFileService) DeleteObject(_ context.Context, objectName string) error {
	s.deleted = append(s.deleted, objectName)
	return nil
}

func (s *fakeFileService) ObjectName(fileURL string) (string, error) {
	return strings.TrimPrefix(fileURL, "https://storage.example/bucket/"), nil
}

func (s *fakeFileService) Close() error { return nil }

func TestUploadUseCase_SignUpload(t *testing.T) {
	uc := NewUploadUseCase(&fakeFileService{})

	ticket, err := uc.SignUpload(context.Background(), "u1", "image/PNG", "Shop Cards!")
	require.NoError(t, err)
	assert.Regexp(t, `^public/u1/shop-cards/[0-9a-f-]{36}\.png$`, ticket.ObjectName)

	_, err = uc.SignUpload(context.Background(), "u1", "application/pdf", "docs")
	requireAppError(t, err, http.StatusBadRequest)
}

func TestUploadUseCase_DeleteOnlyOwnObjects(t *testing.T) {
	files := &fakeFileService{}
	uc := NewUploadUseCase(files)
	ctx := context.Background()

	err := uc.DeleteUpload(ctx, "u1", "https://storage.example/bucket/public/u2/misc/a.png")
	requireAppError(t, err, http.StatusForbidden)

	err = uc.DeleteUpload(ctx, "u1", "https://storage.example/bucket/public/u1/../u2/a.png")
	requireAppError(t, err, http.StatusForbidden)

	require.NoError(t, uc.DeleteUpload(ctx, "u1", "https://storage.example/bucket/public/u1/misc/a.png"))
	assert.Equal(t, []string{"public/u1/misc/a.png"}, files.deleted)
}
