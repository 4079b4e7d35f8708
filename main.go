package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"sections/framework/httpserver"
	"sections/internal/config"
	"sections/internal/markdown"
	"sections/internal/sections"
	"sections/internal/supabase"
	"sections/internal/web"
	"sections/internal/web/appcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	renderer, err := markdown.NewRenderer(cfg.MarkdownEngine, markdown.Options{RootURL: cfg.RootURL})
	if err != nil {
		log.Fatalf("markdown renderer: %v", err)
	}

	store, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("section store: %v", err)
	}
	defer closeStore()

	sectionService := sections.NewService(store, renderer)
	cachePolicies := httpserver.DefaultCachePolicies()
	if cfg.CacheLiveNavigation != "" {
		cachePolicies.LiveNavigation = cfg.CacheLiveNavigation
	}
	handler, err := httpserver.New(httpserver.Config[*appcore.Context]{
		AppContext:      appcore.NewContext(sectionService),
		Handlers:        web.Handlers(),
		IsNotFoundError: appcore.IsNotFoundError,
		NotFoundPage:    web.NotFoundPage,
		Static: httpserver.StaticMount{
			URLPrefix: "/.static/",
			Dir:       cfg.StaticDir,
		},
		CachePolicies: cachePolicies,
		LogServerError: func(err error) {
			log.Printf("sections server error: %v", err)
		},
	})
	if err != nil {
		log.Fatalf("handler setup failed: %v", err)
	}

	log.Printf("sections server listening on %s (store=%s, markdown=%s)", cfg.ListenAddr, cfg.Store, cfg.MarkdownEngine)
	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		log.Printf("server stopped: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (sections.Store, func(), error) {
	switch cfg.Store {
	case config.StoreSQLite:
		store, err := sections.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Printf("close sqlite: %v", err)
			}
		}, nil
	case config.StorePostgREST:
		client, err := supabase.NewClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		return sections.NewPostgRESTStore(client), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
