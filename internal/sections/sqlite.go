package sections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"
)

const relationForeignKey = "section_id"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sections (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	markdown TEXT,
	position INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);
CREATE TABLE IF NOT EXISTS section_embeds (
	id TEXT PRIMARY KEY,
	section_id TEXT NOT NULL REFERENCES sections(id) ON DELETE CASCADE,
	kind TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	position INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_section_embeds_section ON section_embeds(section_id, position);
CREATE TABLE IF NOT EXISTS section_codecasts (
	id TEXT PRIMARY KEY,
	section_id TEXT NOT NULL REFERENCES sections(id) ON DELETE CASCADE,
	title TEXT NOT NULL DEFAULT '',
	cast_url TEXT NOT NULL DEFAULT '',
	duration_seconds INTEGER,
	position INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_section_codecasts_section ON section_codecasts(section_id, position);
`

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

var sqliteRelations = map[string]bool{
	RelationEmbeds: true,
	RelationCasts:  true,
}

// SQLiteStore serves the same section queries from a local database file,
// for development without the hosted service.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	store := &SQLiteStore{db: db}
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SelectSections(ctx context.Context, query Query) ([]Section, error) {
	if query.Table != TableSections {
		return nil, fmt.Errorf("sqlite store: unsupported table %q", query.Table)
	}
	relations, err := parseSelectColumns(query.Columns)
	if err != nil {
		return nil, err
	}
	if !identifierPattern.MatchString(query.Filter.Column) {
		return nil, fmt.Errorf("sqlite store: invalid filter column %q", query.Filter.Column)
	}

	records, err := s.queryRecords(ctx,
		fmt.Sprintf(`SELECT * FROM sections WHERE "%s" = ?`, query.Filter.Column),
		query.Filter.Value,
	)
	if err != nil {
		return nil, fmt.Errorf("select sections: %w", err)
	}

	out := make([]Section, 0, len(records))
	for _, record := range records {
		section := Section{
			ID:        record.String(columnID),
			Markdown:  record.String(columnMarkdown),
			Embeds:    []Record{},
			Codecasts: []Record{},
			Fields:    record,
		}

		for _, relation := range relations {
			related, err := s.queryRecords(ctx,
				fmt.Sprintf(`SELECT * FROM %s WHERE %s = ? ORDER BY position, id`, relation, relationForeignKey),
				section.ID,
			)
			if err != nil {
				return nil, fmt.Errorf("select %s: %w", relation, err)
			}

			switch relation {
			case RelationEmbeds:
				section.Embeds = related
			case RelationCasts:
				section.Codecasts = related
			}
		}

		out = append(out, section)
	}

	return out, nil
}

func (s *SQLiteStore) queryRecords(ctx context.Context, statement string, args ...interface{}) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	records := []Record{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		targets := make([]interface{}, len(columns))
		for idx := range values {
			targets[idx] = &values[idx]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		record, err := recordFromValues(columns, values)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// parseSelectColumns accepts the select list this store understands: every
// column of the base table plus any known relation written as name(*).
func parseSelectColumns(columns string) ([]string, error) {
	hasAll := false
	relations := []string{}
	for _, token := range strings.Split(columns, ",") {
		token = strings.TrimSpace(token)
		switch {
		case token == "*":
			hasAll = true
		case strings.HasSuffix(token, "(*)"):
			name := strings.TrimSuffix(token, "(*)")
			if !sqliteRelations[name] {
				return nil, fmt.Errorf("sqlite store: unknown relation %q", name)
			}
			relations = append(relations, name)
		default:
			return nil, fmt.Errorf("sqlite store: unsupported select item %q", token)
		}
	}
	if !hasAll {
		return nil, fmt.Errorf("sqlite store: select %q must include *", columns)
	}

	return relations, nil
}
