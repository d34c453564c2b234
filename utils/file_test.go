package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImageContentType(t *testing.T) {
	assert.True(t, IsImageContentType("image/jpeg"))
	assert.True(t, IsImageContentType("image/png"))
	assert.True(t, IsImageContentType("IMAGE/JPEG"))
	assert.True(t, IsImageContentType(" image/webp "))

	assert.False(t, IsImageContentType("application/pdf"))
	assert.False(t, IsImageContentType("video/mp4"))
	assert.False(t, IsImageContentType("text/html"))
	assert.False(t, IsImageContentType(""))
}

func TestSanitizeStem(t *testing.T) {
	assert.Equal(t, "IMG_0001", SanitizeStem("IMG_0001.jpg"))
	assert.Equal(t, "wedding_shot_12", SanitizeStem("wedding shot 12.JPG"))
	assert.Equal(t, "secret", SanitizeStem("../../etc/secret.png"))
	assert.Equal(t, "caf_", SanitizeStem("café.jpg"))

	// degenerate names still produce a usable stem
	assert.Equal(t, "photo", SanitizeStem(".jpg"))
}

func TestGenerateStoredFilename(t *testing.T) {
	name, err := GenerateStoredFilename("IMG_0001.JPG")
	require.NoError(t, err)

	// {stem}_{millis}_{16 hex chars}{lowercased ext}
	pattern := regexp.MustCompile(`^IMG_0001_\d{13}_[0-9a-f]{16}\.jpg$`)
	assert.Regexp(t, pattern, name)

	other, err := GenerateStoredFilename("IMG_0001.JPG")
	require.NoError(t, err)
	assert.NotEqual(t, name, other, "re-ingesting the same file must mint a distinct name")
}

func TestStripExtension(t *testing.T) {
	assert.Equal(t, "IMG_0001_1714822301000_a1b2c3d4e5f60718", StripExtension("IMG_0001_1714822301000_a1b2c3d4e5f60718.jpg"))
	assert.Equal(t, "noext", StripExtension("noext"))
	assert.Equal(t, "archive.tar", StripExtension("archive.tar.gz"))
}
