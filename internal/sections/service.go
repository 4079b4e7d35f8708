package sections

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sections/framework/router"
	"sections/internal/markdown"
)

// ParamSectionID is the route parameter holding the section's primary key.
const ParamSectionID = "sectionId"

// Lookups that do not yield exactly one row fail with one of these.
var (
	ErrNotFound  = errors.New("section not found")
	ErrAmbiguous = errors.New("section id matched more than one row")
)

// Eq is an equality filter on one column.
type Eq struct {
	Column string
	Value  string
}

// Query is a select on one table: Columns uses the embedded-relation syntax
// "*,relation(*)" and Filter narrows the rows.
type Query struct {
	Table   string
	Columns string
	Filter  Eq
}

// SectionQuery selects a section with every column plus both embedded relations.
func SectionQuery(sectionID string) Query {
	return Query{
		Table:   TableSections,
		Columns: "*," + RelationEmbeds + "(*)," + RelationCasts + "(*)",
		Filter:  Eq{Column: columnID, Value: sectionID},
	}
}

// Store is the data-access capability the loader needs: a filtered select
// with relation joins returning every matching row.
type Store interface {
	SelectSections(ctx context.Context, query Query) ([]Section, error)
}

// SingleSection turns a result set into exactly one section.
func SingleSection(rows []Section) (Section, error) {
	switch len(rows) {
	case 0:
		return Section{}, ErrNotFound
	case 1:
		return rows[0], nil
	default:
		return Section{}, fmt.Errorf("%w: %d rows", ErrAmbiguous, len(rows))
	}
}

// Service loads section pages. It holds no per-request state and is safe
// for concurrent use when its store and renderer are.
type Service struct {
	store    Store
	renderer markdown.Renderer
}

// NewService wires a store and the markdown renderer applied to every loaded section.
func NewService(store Store, renderer markdown.Renderer) *Service {
	return &Service{store: store, renderer: renderer}
}

// Load fetches the section named by the sectionId route parameter and
// renders its markdown. Nothing is rendered unless the fetch succeeded.
func (s *Service) Load(ctx context.Context, params router.Params) (PageData, error) {
	sectionID, ok := params.Get(ParamSectionID)
	if !ok || strings.TrimSpace(sectionID) == "" {
		return PageData{}, ErrNotFound
	}

	rows, err := s.store.SelectSections(ctx, SectionQuery(sectionID))
	if err != nil {
		return PageData{}, fmt.Errorf("select section %q: %w", sectionID, err)
	}

	section, err := SingleSection(rows)
	if err != nil {
		return PageData{}, fmt.Errorf("select section %q: %w", sectionID, err)
	}

	html, err := s.renderer.Render(ctx, section.Markdown)
	if err != nil {
		return PageData{}, fmt.Errorf("render section %q markdown: %w", sectionID, err)
	}

	return PageData{
		Section:  section,
		Markdown: html,
	}, nil
}
