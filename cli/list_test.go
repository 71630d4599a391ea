package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShortID(t *testing.T) {
	req := require.New(t)

	req.Equal("0a1b2c3d", shortID("0a1b2c3d-9e8f-7a6b-5c4d-3e2f1a0b9c8d"))

	// Legacy persisted ids can be arbitrarily short.
	req.Equal("abc", shortID("abc"))
	req.Equal("", shortID(""))
}
