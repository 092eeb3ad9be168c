package upkeep

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanSize(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, humanSize(tt.in), "input %d", tt.in)
	}
}

func TestFreeSpace(t *testing.T) {
	free, err := freeSpace(t.TempDir())
	assert.NoError(t, err)
	assert.Greater(t, free, uint64(0))
}

func TestHostBanner(t *testing.T) {
	b := hostBanner()
	assert.NotEmpty(t, b)
	assert.NotContains(t, b, "\x00")
}
