package supabase

import (
	"testing"

	"sections/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadersPreferAuthToken(t *testing.T) {
	headers := Headers("anon", "user-jwt")

	assert.Equal(t, "anon", headers["apikey"])
	assert.Equal(t, "Bearer user-jwt", headers["Authorization"])
}

func TestHeadersFallBackToKey(t *testing.T) {
	headers := Headers(" anon ", "")

	assert.Equal(t, "anon", headers["apikey"])
	assert.Equal(t, "Bearer anon", headers["Authorization"])
}

func TestHeadersEmpty(t *testing.T) {
	assert.Empty(t, Headers("", ""))
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(config.Config{SupabaseURL: "  "})
	require.Error(t, err)
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(config.Config{
		SupabaseURL:    "http://localhost:54321/rest/v1/",
		SupabaseSchema: "public",
		SupabaseKey:    "anon",
	})
	require.NoError(t, err)
	assert.NotNil(t, client)
}
