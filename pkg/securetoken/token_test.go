package securetoken

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Format(t *testing.T) {
	token, err := New()
	require.NoError(t, err)

	assert.Len(t, token, TokenBytes*2)

	_, err = hex.DecodeString(token)
	assert.NoError(t, err, "token must be valid hex")
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 1000; i++ {
		token, err := New()
		require.NoError(t, err)

		_, dup := seen[token]
		require.False(t, dup, "token %q minted twice", token)
		seen[token] = struct{}{}
	}
}

func TestGenerator_ImplementsNew(t *testing.T) {
	token, err := Generator{}.New()
	require.NoError(t, err)
	assert.Len(t, token, TokenBytes*2)
}
