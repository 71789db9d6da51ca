package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ErrUnsupportedContentType is returned for uploads that are not videos.
var ErrUnsupportedContentType = errors.New("unsupported content type")

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

var videoExtensions = map[string]string{
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"video/webm":      ".webm",
}

// ExerciseVideoKey builds the object key of an exercise demo video:
// exercises/<user>/<exercise>/<uuid><ext>. A fresh uuid per upload keeps stale
// presigned URLs from overwriting newer videos.
func ExerciseVideoKey(userID, exerciseID primitive.ObjectID, contentType string) (string, error) {
	ext, ok := videoExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	return path.Join("exercises", userID.Hex(), exerciseID.Hex(), uuid.NewString()+ext), nil
}
