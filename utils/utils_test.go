package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueTrimmed(t *testing.T) {
	got := UniqueTrimmed([]string{" +15550001111", "", "mum@example.com", "+15550001111", "  "})
	assert.Equal(t, []string{"+15550001111", "mum@example.com"}, got)
}

func TestUniqueTrimmedEmpty(t *testing.T) {
	assert.Empty(t, UniqueTrimmed(nil))
}

func TestCreateDirIfNotExist(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	assert.False(t, FileExist(dir))
	assert.Nil(t, CreateDirIfNotExist(dir))
	assert.True(t, FileExist(dir))

	// Calling it again on an existing dir is a no-op
	assert.Nil(t, CreateDirIfNotExist(dir))
}
