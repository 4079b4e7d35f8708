package web

import (
	"strings"

	"sections/framework"
	"sections/framework/router"
	"sections/internal/sections"
	"sections/internal/web/appcore"
	"sections/internal/web/views"

	"github.com/a-h/templ"
)

const (
	SectionRoute     = "/[id]/[sectionId]"
	SectionDataRoute = SectionRoute + "/__data.json"
)

func Handlers() []framework.RouteHandler[*appcore.Context] {
	return []framework.RouteHandler[*appcore.Context]{
		framework.DataRouteHandler[*appcore.Context, router.Params, sections.PageData]{
			Data: framework.DataModule[*appcore.Context, router.Params, sections.PageData]{
				Pattern:     SectionDataRoute,
				ParseParams: framework.PatternParams(SectionDataRoute),
				Load:        appcore.LoadSectionData,
			},
		},
		framework.PageOnlyRouteHandler[*appcore.Context, router.Params, appcore.SectionPageView]{
			Page: framework.PageModule[*appcore.Context, router.Params, appcore.SectionPageView]{
				Pattern:     SectionRoute,
				ParseParams: framework.PatternParams(SectionRoute),
				Load:        appcore.LoadSectionPage,
				Render:      views.SectionPage,
				Layouts: []framework.LayoutRenderer[appcore.SectionPageView]{
					views.SectionLayout,
				},
			},
		},
	}
}

func NotFoundPage(notFoundContext framework.NotFoundContext) templ.Component {
	path := strings.TrimSpace(notFoundContext.RequestPath)
	if path == "" {
		path = "/"
	}

	return views.Layout(appcore.NewNotFoundLayoutView(), views.NotFound(path))
}
