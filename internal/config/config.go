package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorePostgREST = "postgrest"
	StoreSQLite    = "sqlite"
)

type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	StaticDir  string `env:"STATIC_DIR"`

	RootURL string `env:"ROOT_URL"`

	CacheLiveNavigation string `env:"CACHE_LIVE_NAV"`

	Store string `env:"STORE" envDefault:"postgrest"`

	SupabaseURL       string `env:"SUPABASE_URL" envDefault:"http://localhost:54321/rest/v1"`
	SupabaseKey       string `env:"SUPABASE_KEY"`
	SupabaseAuthToken string `env:"SUPABASE_AUTH_TOKEN"`
	SupabaseSchema    string `env:"SUPABASE_SCHEMA" envDefault:"public"`

	SQLitePath string `env:"SQLITE_PATH" envDefault:"sections.db"`

	MarkdownEngine string `env:"MARKDOWN_ENGINE" envDefault:"gomarkdown"`
}

// Load reads an optional .env file from the working directory, then the
// SECTIONS_* environment variables. Variables already set win over .env.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	return Parse()
}

func Parse() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "SECTIONS_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.RootURL = strings.TrimRight(strings.TrimSpace(cfg.RootURL), "/")
	cfg.CacheLiveNavigation = strings.TrimSpace(cfg.CacheLiveNavigation)
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	cfg.MarkdownEngine = strings.ToLower(strings.TrimSpace(cfg.MarkdownEngine))

	switch cfg.Store {
	case StorePostgREST:
		if strings.TrimSpace(cfg.SupabaseURL) == "" {
			return Config{}, errors.New("SECTIONS_SUPABASE_URL is required for the postgrest store")
		}
	case StoreSQLite:
		if strings.TrimSpace(cfg.SQLitePath) == "" {
			return Config{}, errors.New("SECTIONS_SQLITE_PATH is required for the sqlite store")
		}
	default:
		return Config{}, fmt.Errorf("unknown store %q", cfg.Store)
	}

	return cfg, nil
}
