package util

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Run("64 lowercase hex characters", func(t *testing.T) {
		token, err := GenerateToken()
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), token)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			token, err := GenerateToken()
			require.NoError(t, err)
			assert.False(t, seen[token])
			seen[token] = true
		}
	})
}

func TestRandomSessionID(t *testing.T) {
	t.Run("fits in 32 unsigned bits", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			id, err := RandomSessionID()
			require.NoError(t, err)
			assert.GreaterOrEqual(t, id, int64(0))
			assert.LessOrEqual(t, id, int64(1<<32-1))
		}
	})
}

func TestGenerateCode(t *testing.T) {
	codePattern := regexp.MustCompile(`^[A-Z]{64}$`)

	t.Run("64 uppercase letters only", func(t *testing.T) {
		for _, username := range []string{"alice", "Bob-2", "x_y", ""} {
			code, err := GenerateCode(42, username)
			require.NoError(t, err)
			assert.Regexp(t, codePattern, code, "username %q", username)
		}
	})

	t.Run("no digits survive the remap", func(t *testing.T) {
		code, err := GenerateCode(0, "kenny")
		require.NoError(t, err)
		assert.NotRegexp(t, regexp.MustCompile(`[0-9]`), code)
	})

	t.Run("codes differ across calls for identical input", func(t *testing.T) {
		first, err := GenerateCode(7, "alice")
		require.NoError(t, err)
		second, err := GenerateCode(7, "alice")
		require.NoError(t, err)
		assert.NotEqual(t, first, second, "random salt must dominate")
	})
}
