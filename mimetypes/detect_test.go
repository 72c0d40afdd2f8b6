package mimetypes

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestDetect(t *testing.T) {
	r := Default()

	key, ok := r.Detect([]byte(`{"name":"gin"}`))
	assert.True(t, ok)
	assert.Equal(t, "json", key)

	key, ok = r.Detect(pngHeader)
	assert.True(t, ok)
	assert.Equal(t, "png", key)

	key, ok = r.Detect([]byte("plain words"))
	assert.True(t, ok)
	assert.Equal(t, "text", key)
}

func TestDetectFallsBackToParent(t *testing.T) {
	r := Default()
	r.Unregister("json")

	key, ok := r.Detect([]byte(`{"name":"gin"}`))
	assert.True(t, ok)
	assert.Equal(t, "text", key)
}

func TestDetectUnregistered(t *testing.T) {
	r := New()
	_, ok := r.Detect(pngHeader)
	assert.False(t, ok)

	_, err := r.DetectReader(bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, ErrUnknownMimeType)
}

func TestDetectReader(t *testing.T) {
	r := Default()
	key, err := r.DetectReader(bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "png", key)
}
