package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sections/framework"
	"sections/framework/router"

	"github.com/a-h/templ"
)

type testAppContext struct{}

type componentFunc func(ctx context.Context, w io.Writer) error

func (f componentFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

func textComponent(value string) templ.Component {
	return componentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, value)
		return err
	})
}

func wrapComponent(tag string, child templ.Component) templ.Component {
	return componentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "["+tag+"]"); err != nil {
			return err
		}
		if err := child.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "[/"+tag+"]")
		return err
	})
}

func sectionPage(
	load framework.PageLoader[*testAppContext, router.Params, string],
	layouts ...framework.LayoutRenderer[string],
) framework.RouteHandler[*testAppContext] {
	return framework.PageOnlyRouteHandler[*testAppContext, router.Params, string]{
		Page: framework.PageModule[*testAppContext, router.Params, string]{
			Pattern:     "/[id]/[sectionId]",
			ParseParams: framework.PatternParams("/[id]/[sectionId]"),
			Load:        load,
			Render:      func(view string) templ.Component { return textComponent(view) },
			Layouts:     layouts,
		},
	}
}

func captureRender(rendered *string) func(*http.Request, http.ResponseWriter, templ.Component) error {
	return func(_ *http.Request, _ http.ResponseWriter, component templ.Component) error {
		var b bytes.Buffer
		if err := component.Render(context.Background(), &b); err != nil {
			return err
		}
		*rendered = b.String()
		return nil
	}
}

func TestServeRoutePageOnly(t *testing.T) {
	var rendered string

	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{},
		Handlers: []framework.RouteHandler[*testAppContext]{
			sectionPage(func(_ context.Context, _ *testAppContext, _ *http.Request, params router.Params) (string, error) {
				sectionID, _ := params.Get("sectionId")
				return "section " + sectionID, nil
			}),
		},
		RenderPage: captureRender(&rendered),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/course/s1", nil)) {
		t.Fatal("expected route to match")
	}
	if rendered != "section s1" {
		t.Fatalf("expected page content, got %q", rendered)
	}

	if routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil)) {
		t.Fatal("did not expect missing route to match")
	}
}

func TestNewRequiresRenderPage(t *testing.T) {
	if _, err := New(Config[*testAppContext]{}); err == nil {
		t.Fatal("expected error without render page callback")
	}
}

func TestServeRouteSkipsLayoutsForPartialRequests(t *testing.T) {
	var rendered string

	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{},
		Handlers: []framework.RouteHandler[*testAppContext]{
			sectionPage(
				func(context.Context, *testAppContext, *http.Request, router.Params) (string, error) {
					return "body", nil
				},
				func(_ string, child templ.Component) templ.Component {
					return wrapComponent("layout", child)
				},
			),
		},
		IsPartialRequest: func(_ *http.Request) bool { return true },
		RenderPage:       captureRender(&rendered),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/course/s1", nil)) {
		t.Fatal("expected route to match")
	}
	if rendered != "body" {
		t.Fatalf("expected partial body without layout, got %q", rendered)
	}
}

func TestNotFoundAndServerErrorClassification(t *testing.T) {
	errNotFound := errors.New("not found")
	errBoom := errors.New("boom")

	t.Run("not found", func(t *testing.T) {
		notFoundCalled := false
		serverErrorCalled := false
		var notFoundContext framework.NotFoundContext

		routeEngine, err := New(Config[*testAppContext]{
			AppContext: &testAppContext{},
			Handlers: []framework.RouteHandler[*testAppContext]{
				sectionPage(func(context.Context, *testAppContext, *http.Request, router.Params) (string, error) {
					return "", errNotFound
				}),
			},
			RenderPage:      func(*http.Request, http.ResponseWriter, templ.Component) error { return nil },
			IsNotFoundError: func(err error) bool { return errors.Is(err, errNotFound) },
			HandleNotFound: func(_ http.ResponseWriter, _ *http.Request, ctx framework.NotFoundContext) {
				notFoundCalled = true
				notFoundContext = ctx
			},
			HandleServerError: func(http.ResponseWriter, error) {
				serverErrorCalled = true
			},
		})
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}

		if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/course/s1", nil)) {
			t.Fatal("expected route to match")
		}
		if !notFoundCalled {
			t.Fatal("expected not found callback")
		}
		if notFoundContext.Source != framework.NotFoundSourcePageLoad {
			t.Fatalf("expected not-found source %q, got %q", framework.NotFoundSourcePageLoad, notFoundContext.Source)
		}
		if notFoundContext.MatchedRoutePattern != "/[id]/[sectionId]" {
			t.Fatalf("expected matched route pattern /[id]/[sectionId], got %q", notFoundContext.MatchedRoutePattern)
		}
		if notFoundContext.RequestPath != "/course/s1" {
			t.Fatalf("expected request path /course/s1, got %q", notFoundContext.RequestPath)
		}
		if serverErrorCalled {
			t.Fatal("did not expect server error callback")
		}
	})

	t.Run("server error", func(t *testing.T) {
		notFoundCalled := false
		var serverErr error

		routeEngine, err := New(Config[*testAppContext]{
			AppContext: &testAppContext{},
			Handlers: []framework.RouteHandler[*testAppContext]{
				sectionPage(func(context.Context, *testAppContext, *http.Request, router.Params) (string, error) {
					return "", errBoom
				}),
			},
			RenderPage:      func(*http.Request, http.ResponseWriter, templ.Component) error { return nil },
			IsNotFoundError: func(error) bool { return false },
			HandleNotFound: func(http.ResponseWriter, *http.Request, framework.NotFoundContext) {
				notFoundCalled = true
			},
			HandleServerError: func(_ http.ResponseWriter, err error) {
				serverErr = err
			},
		})
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}

		if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/course/s1", nil)) {
			t.Fatal("expected route to match")
		}
		if notFoundCalled {
			t.Fatal("did not expect not found callback")
		}
		if !errors.Is(serverErr, errBoom) {
			t.Fatalf("expected wrapped load error, got %v", serverErr)
		}
	})
}

func TestLayoutOrder(t *testing.T) {
	var rendered string

	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{},
		Handlers: []framework.RouteHandler[*testAppContext]{
			sectionPage(
				func(context.Context, *testAppContext, *http.Request, router.Params) (string, error) {
					return "body", nil
				},
				func(_ string, child templ.Component) templ.Component {
					return wrapComponent("outer", child)
				},
				func(_ string, child templ.Component) templ.Component {
					return wrapComponent("inner", child)
				},
			),
		},
		RenderPage: captureRender(&rendered),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/course/s1", nil)) {
		t.Fatal("expected route to match")
	}
	if rendered != "[outer][inner]body[/inner][/outer]" {
		t.Fatalf("unexpected render output: %q", rendered)
	}
}

func TestServeRouteDataModuleWritesJSON(t *testing.T) {
	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{},
		Handlers: []framework.RouteHandler[*testAppContext]{
			framework.DataRouteHandler[*testAppContext, router.Params, map[string]string]{
				Data: framework.DataModule[*testAppContext, router.Params, map[string]string]{
					Pattern:     "/[id]/[sectionId]/__data.json",
					ParseParams: framework.PatternParams("/[id]/[sectionId]/__data.json"),
					Load: func(_ context.Context, _ *testAppContext, _ *http.Request, params router.Params) (map[string]string, error) {
						sectionID, _ := params.Get("sectionId")
						return map[string]string{"section": sectionID}, nil
					},
				},
			},
		},
		RenderPage: func(*http.Request, http.ResponseWriter, templ.Component) error { return nil },
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	rec := httptest.NewRecorder()
	if !routeEngine.ServeRoute(rec, httptest.NewRequest(http.MethodGet, "/course/s1/__data.json", nil)) {
		t.Fatal("expected data route to match")
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
		t.Fatalf("expected json content type, got %q", got)
	}
	if body := rec.Body.String(); body != `{"section":"s1"}` {
		t.Fatalf("unexpected json body: %q", body)
	}
}

func staticPage(pattern string, body string) framework.RouteHandler[*testAppContext] {
	return framework.PageOnlyRouteHandler[*testAppContext, framework.EmptyParams, string]{
		Page: framework.PageModule[*testAppContext, framework.EmptyParams, string]{
			Pattern: pattern,
			ParseParams: func(path string) (framework.EmptyParams, bool) {
				_, ok := router.MustCompile(pattern).Match(path)
				return framework.EmptyParams{}, ok
			},
			Load: func(context.Context, *testAppContext, *http.Request, framework.EmptyParams) (string, error) {
				return body, nil
			},
			Render: func(view string) templ.Component { return textComponent(view) },
		},
	}
}

func TestServeRoutePrefersStaticSegments(t *testing.T) {
	var rendered string

	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{},
		Handlers: []framework.RouteHandler[*testAppContext]{
			sectionPage(func(_ context.Context, _ *testAppContext, _ *http.Request, params router.Params) (string, error) {
				sectionID, _ := params.Get("sectionId")
				return "section " + sectionID, nil
			}),
			staticPage("/[id]/settings", "settings"),
		},
		RenderPage: captureRender(&rendered),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/course/settings", nil)) {
		t.Fatal("expected route to match")
	}
	if rendered != "settings" {
		t.Fatalf("expected static route to win, got %q", rendered)
	}

	if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/course/s1", nil)) {
		t.Fatal("expected route to match")
	}
	if rendered != "section s1" {
		t.Fatalf("expected section route, got %q", rendered)
	}
}

func TestNewRejectsConflictingRoutes(t *testing.T) {
	_, err := New(Config[*testAppContext]{
		Handlers: []framework.RouteHandler[*testAppContext]{
			staticPage("/[id]/[sectionId]", "a"),
			staticPage("/[course]/[section]", "b"),
		},
		RenderPage: func(*http.Request, http.ResponseWriter, templ.Component) error { return nil },
	})
	if err == nil {
		t.Fatal("expected conflicting patterns to be rejected")
	}
}

func TestServeRouteWithoutHandlers(t *testing.T) {
	routeEngine, err := New(Config[*testAppContext]{
		RenderPage: func(*http.Request, http.ResponseWriter, templ.Component) error { return nil },
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/course/s1", nil)) {
		t.Fatal("did not expect a match without handlers")
	}
}
