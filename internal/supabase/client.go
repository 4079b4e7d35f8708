package supabase

import (
	"errors"
	"fmt"
	"strings"

	"sections/internal/config"

	"github.com/supabase-community/postgrest-go"
)

// NewClient builds a PostgREST client for the project's REST endpoint. The
// project key goes in the apikey header; requests are authorized with the
// auth token when one is configured and with the key otherwise.
func NewClient(cfg config.Config) (*postgrest.Client, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.SupabaseURL), "/")
	if endpoint == "" {
		return nil, errors.New("supabase url is required")
	}

	client := postgrest.NewClient(endpoint, cfg.SupabaseSchema, Headers(cfg.SupabaseKey, cfg.SupabaseAuthToken))
	if client.ClientError != nil {
		return nil, fmt.Errorf("create postgrest client: %w", client.ClientError)
	}

	return client, nil
}

func Headers(key string, authToken string) map[string]string {
	headers := make(map[string]string, 2)

	key = strings.TrimSpace(key)
	if key != "" {
		headers["apikey"] = key
	}

	bearer := strings.TrimSpace(authToken)
	if bearer == "" {
		bearer = key
	}
	if bearer != "" {
		headers["Authorization"] = "Bearer " + bearer
	}

	return headers
}
