package storage

import (
	"context"
	"strings"
	"testing"

	"alcyxob/strength-planner/internal/config"
	"alcyxob/strength-planner/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestExerciseVideoKey(t *testing.T) {
	userID, exerciseID := primitive.NewObjectID(), primitive.NewObjectID()

	key, err := ExerciseVideoKey(userID, exerciseID, "video/MP4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "exercises/"+userID.Hex()+"/"+exerciseID.Hex()+"/"))
	assert.True(t, strings.HasSuffix(key, ".mp4"))

	other, err := ExerciseVideoKey(userID, exerciseID, "video/mp4")
	require.NoError(t, err)
	assert.NotEqual(t, key, other)

	_, err = ExerciseVideoKey(userID, exerciseID, "image/png")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000", endpointURL("localhost:9000", false))
	assert.Equal(t, "https://minio.internal", endpointURL("minio.internal", true))
	assert.Equal(t, "http://x:1", endpointURL("http://x:1", true))
}

func TestNewS3StorageDisabledWithoutBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), config.S3Config{}, logger.NewNop())
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestPresignedURLs(t *testing.T) {
	cfg := config.S3Config{
		Endpoint:        "localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		BucketName:      "videos",
	}
	fs, err := NewS3Storage(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)

	url, err := fs.GeneratePresignedUploadURL(context.Background(), "exercises/a/b/c.mp4", "video/mp4", 0)
	require.NoError(t, err)
	assert.Contains(t, url, "http://localhost:9000/videos/exercises/a/b/c.mp4")
	assert.Contains(t, url, "X-Amz-Signature=")

	url, err = fs.GeneratePresignedDownloadURL(context.Background(), "exercises/a/b/c.mp4", 0)
	require.NoError(t, err)
	assert.Contains(t, url, "/videos/exercises/a/b/c.mp4")
}
