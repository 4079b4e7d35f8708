package appcore

import (
	"html/template"
	"strings"

	"sections/internal/sections"
)

type RootLayoutView interface {
	LayoutPageTitle() string
	LayoutDescription() string
}

type EmbedView struct {
	ID    string
	Kind  string
	Title string
	URL   string
}

type CodecastView struct {
	ID              string
	Title           string
	CastURL         string
	DurationSeconds string
}

type SectionPageView struct {
	PageTitle   string
	Description string
	CourseID    string
	Data        sections.PageData
	Embeds      []EmbedView
	Codecasts   []CodecastView
	DataURL     string
}

func (v SectionPageView) LayoutPageTitle() string {
	return v.PageTitle
}

func (v SectionPageView) LayoutDescription() string {
	return v.Description
}

func (v SectionPageView) BodyHTML() template.HTML {
	return v.Data.Markdown
}

type notFoundLayoutView struct{}

func (notFoundLayoutView) LayoutPageTitle() string {
	return "404 Not Found"
}

func (notFoundLayoutView) LayoutDescription() string {
	return ""
}

func NewNotFoundLayoutView() RootLayoutView {
	return notFoundLayoutView{}
}

func mapEmbeds(records []sections.Record) []EmbedView {
	out := make([]EmbedView, 0, len(records))
	for _, record := range records {
		out = append(out, EmbedView{
			ID:    record.String("id"),
			Kind:  strOr(record.String("kind"), "link"),
			Title: strOr(record.String("title"), record.String("url")),
			URL:   record.String("url"),
		})
	}
	return out
}

func mapCodecasts(records []sections.Record) []CodecastView {
	out := make([]CodecastView, 0, len(records))
	for _, record := range records {
		out = append(out, CodecastView{
			ID:              record.String("id"),
			Title:           strOr(record.String("title"), record.String("id")),
			CastURL:         record.String("cast_url"),
			DurationSeconds: record.String("duration_seconds"),
		})
	}
	return out
}

func strOr(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
