package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraconfig "github.com/venuedesk/backend/internal/infrastructure/config"
)

func testStorageConfig() *infraconfig.StorageConfig {
	return &infraconfig.StorageConfig{
		Endpoint:        "http://localhost:9000",
		Region:          "ap-southeast-2",
		Bucket:          "venuedesk-documents",
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
		UsePathStyle:    true,
		PresignExpiry:   72 * time.Hour,
	}
}

func TestNewS3DocumentArchive(t *testing.T) {
	t.Run("creates archive from a complete config", func(t *testing.T) {
		archive, err := NewS3DocumentArchive(testStorageConfig())

		require.NoError(t, err)
		assert.Equal(t, "venuedesk-documents", archive.Bucket())
		assert.Equal(t, 72*time.Hour, archive.presignExpiry)
	})

	t.Run("rejects nil config", func(t *testing.T) {
		_, err := NewS3DocumentArchive(nil)
		assert.Error(t, err)
	})

	t.Run("rejects missing bucket", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.Bucket = ""
		_, err := NewS3DocumentArchive(cfg)
		assert.Error(t, err)
	})

	t.Run("rejects missing credentials", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.AccessKeyID = ""
		_, err := NewS3DocumentArchive(cfg)
		assert.Error(t, err)

		cfg = testStorageConfig()
		cfg.SecretAccessKey = ""
		_, err = NewS3DocumentArchive(cfg)
		assert.Error(t, err)
	})

	t.Run("defaults the presign expiry", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.PresignExpiry = 0

		archive, err := NewS3DocumentArchive(cfg)

		require.NoError(t, err)
		assert.Equal(t, 72*time.Hour, archive.presignExpiry)
	})

	t.Run("applies options", func(t *testing.T) {
		archive, err := NewS3DocumentArchive(testStorageConfig(),
			WithPresignExpiry(24*time.Hour))

		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, archive.presignExpiry)
	})
}
