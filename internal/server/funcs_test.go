package server

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "la***@example.com", maskEmail("lan.nguyen@example.com"))
	assert.Equal(t, "ab***@x.vn", maskEmail("ab@x.vn"))
	assert.Equal(t, "***", maskEmail("not-an-email"))
	assert.Equal(t, "***", maskEmail("@example.com"))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "**** *** 567", maskPhone("0901 234 567"))
	assert.Equal(t, "*******567", maskPhone("0901234567"))
	assert.Equal(t, "***", maskPhone("123"))
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "10/05/2024", displayDate("2024-05-10"))
	assert.Equal(t, "10/05/2024", displayDate("2024-05-10T08:30:00Z"))
	assert.Equal(t, "soon", displayDate("soon"))
}

func TestSessionKeys(t *testing.T) {
	_, _, err := sessionKeys("short")
	assert.Error(t, err)

	hash, block, err := sessionKeys("test-secret-0123456789")
	require.NoError(t, err)
	assert.Len(t, hash, 64)
	assert.Len(t, block, 32)
	assert.False(t, bytes.Equal(hash[:32], block))

	hash2, block2, err := sessionKeys("test-secret-0123456789")
	require.NoError(t, err)
	assert.Equal(t, hash, hash2)
	assert.Equal(t, block, block2)
}
