package ocr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	r := New("", "", false)
	assert.Equal(t, "ocrmypdf", r.binary)
	assert.Equal(t, "eng", r.language)

	r = New("/opt/bin/ocrmypdf", "eng+fra", true)
	assert.Equal(t, "/opt/bin/ocrmypdf", r.binary)
	assert.Equal(t, "eng+fra", r.language)
	assert.True(t, r.deskew)
}

func TestRunToolNotFound(t *testing.T) {
	r := New("definitely-not-installed-ocr-tool", "eng", false)
	_, err := r.Run(context.Background(), "in.pdf")
	require.ErrorIs(t, err, ErrToolNotFound)
}
