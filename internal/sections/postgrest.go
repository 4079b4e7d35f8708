package sections

import (
	"context"

	"github.com/supabase-community/postgrest-go"
)

// PostgRESTStore reads sections through the hosted data service's REST API.
type PostgRESTStore struct {
	client *postgrest.Client
}

func NewPostgRESTStore(client *postgrest.Client) *PostgRESTStore {
	return &PostgRESTStore{client: client}
}

func (s *PostgRESTStore) SelectSections(ctx context.Context, query Query) ([]Section, error) {
	// The client has no per-request context, so cancellation is honoured
	// only up to the point the request is sent.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []Section
	_, err := s.client.
		From(query.Table).
		Select(query.Columns, "", false).
		Eq(query.Filter.Column, query.Filter.Value).
		ExecuteTo(&rows)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
