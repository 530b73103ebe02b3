package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/service"
	"artisanmart/pkg/errors"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var folderPattern = regexp.MustCompile(`[^a-z0-9_-]+`)

type UploadUseCase struct {
	files service.FileUploadService
}

func NewUploadUseCase(files service.FileUploadService) *UploadUseCase {
	return &UploadUseCase{files: files}
}

func sanitizeFolder(folder string) string {
	folder = folderPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(folder)), "-")
	folder = strings.Trim(folder, "-")
	if folder == "" {
		return "misc"
	}
	return folder
}

// SignUpload returns a short-lived URL the client PUTs the image to directly.
// Objects live under public/<uid>/<folder>/.
func (uc *UploadUseCase) SignUpload(ctx context.Context, uid, contentType, folder string) (*entity.UploadTicket, error) {
	ext, ok := allowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, errors.BadRequest("contentType must be one of: image/jpeg image/png image/gif image/webp", nil)
	}

	objectName := fmt.Sprintf("public/%s/%s/%s%s", uid, sanitizeFolder(folder), uuid.New().String(), ext)

	ticket, err := uc.files.GenerateSignedUploadURL(ctx, strings.ToLower(contentType), objectName)
	if err != nil {
		return nil, errors.Internal("Failed to sign upload", err)
	}
	return ticket, nil
}

func (uc *UploadUseCase) DeleteUpload(ctx context.Context, uid, fileURL string) error {
	objectName, err := uc.files.ObjectName(fileURL)
	if err != nil {
		return errors.BadRequest("Invalid file URL", err)
	}
	if strings.Contains(objectName, "..") || !strings.HasPrefix(objectName, "public/"+uid+"/") {
		return errors.Forbidden("You can only delete your own uploads", nil)
	}
	if err := uc.files.DeleteObject(ctx, objectName); err != nil {
		return errors.Internal("Failed to delete file", err)
	}
	return nil
}
