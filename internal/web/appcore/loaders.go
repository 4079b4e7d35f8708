package appcore

import (
	"context"
	"net/http"
	"strings"

	"sections/framework/router"
	"sections/internal/markdown"
	"sections/internal/sections"
)

const (
	ParamCourseID = "id"

	descriptionMaxChars = 220
)

func LoadSectionPage(
	ctx context.Context,
	appCtx *Context,
	r *http.Request,
	params router.Params,
) (SectionPageView, error) {
	data, err := LoadSectionData(ctx, appCtx, r, params)
	if err != nil {
		return SectionPageView{}, err
	}

	return newSectionPageView(params, data), nil
}

func LoadSectionData(
	ctx context.Context,
	appCtx *Context,
	_ *http.Request,
	params router.Params,
) (sections.PageData, error) {
	service, err := sectionsService(appCtx)
	if err != nil {
		return sections.PageData{}, err
	}

	return service.Load(ctx, params)
}

func BuildSectionURL(courseID string, sectionID string) string {
	return "/" + strings.Trim(courseID, "/") + "/" + strings.Trim(sectionID, "/")
}

func BuildSectionDataURL(courseID string, sectionID string) string {
	return BuildSectionURL(courseID, sectionID) + "/__data.json"
}

func newSectionPageView(params router.Params, data sections.PageData) SectionPageView {
	courseID, _ := params.Get(ParamCourseID)
	sectionID, _ := params.Get(sections.ParamSectionID)
	section := data.Section

	title := strings.TrimSpace(section.Fields.String("title"))
	if title == "" {
		title = section.ID
	}

	return SectionPageView{
		PageTitle:   title,
		Description: markdown.Excerpt(section.Markdown, descriptionMaxChars),
		CourseID:    courseID,
		Data:        data,
		Embeds:      mapEmbeds(section.Embeds),
		Codecasts:   mapCodecasts(section.Codecasts),
		DataURL:     BuildSectionDataURL(courseID, sectionID),
	}
}

func sectionsService(appCtx *Context) (*sections.Service, error) {
	if appCtx == nil || appCtx.service == nil {
		return nil, errSectionsServiceUnavailable
	}
	return appCtx.service, nil
}
