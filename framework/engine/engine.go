package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"sections/framework"
	"sections/framework/router"

	"github.com/a-h/templ"
)

type Config[C interface{}] struct {
	AppContext C
	Handlers   []framework.RouteHandler[C]

	RenderPage       func(r *http.Request, w http.ResponseWriter, component templ.Component) error
	RenderJSON       func(r *http.Request, w http.ResponseWriter, value interface{}) error
	IsPartialRequest func(r *http.Request) bool

	IsNotFoundError   func(err error) bool
	HandleNotFound    func(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext)
	HandleServerError func(w http.ResponseWriter, err error)
}

type Engine[C interface{}] struct {
	appContext C
	handlers   []framework.RouteHandler[C]
	routes     *router.Router

	renderPage func(r *http.Request, w http.ResponseWriter, component templ.Component) error
	renderJSON func(r *http.Request, w http.ResponseWriter, value interface{}) error
	isPartial  func(r *http.Request) bool

	isNotFound  func(err error) bool
	notFound    func(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext)
	serverError func(w http.ResponseWriter, err error)
}

func New[C interface{}](cfg Config[C]) (*Engine[C], error) {
	if cfg.RenderPage == nil {
		return nil, errors.New("render page callback is required")
	}

	var routes *router.Router
	if len(cfg.Handlers) > 0 {
		patterns := make([]string, 0, len(cfg.Handlers))
		for _, handler := range cfg.Handlers {
			patterns = append(patterns, handler.RoutePattern())
		}

		compiled, err := router.New(patterns...)
		if err != nil {
			return nil, fmt.Errorf("compile routes: %w", err)
		}
		routes = compiled
	}

	renderJSON := cfg.RenderJSON
	if renderJSON == nil {
		renderJSON = writeJSON
	}

	isPartial := cfg.IsPartialRequest
	if isPartial == nil {
		isPartial = func(*http.Request) bool { return false }
	}

	isNotFound := cfg.IsNotFoundError
	if isNotFound == nil {
		isNotFound = func(error) bool { return false }
	}

	notFound := cfg.HandleNotFound
	if notFound == nil {
		notFound = func(w http.ResponseWriter, r *http.Request, _ framework.NotFoundContext) {
			http.NotFound(w, r)
		}
	}

	serverError := cfg.HandleServerError
	if serverError == nil {
		serverError = func(w http.ResponseWriter, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	return &Engine[C]{
		appContext:  cfg.AppContext,
		handlers:    cfg.Handlers,
		routes:      routes,
		renderPage:  cfg.RenderPage,
		renderJSON:  renderJSON,
		isPartial:   isPartial,
		isNotFound:  isNotFound,
		notFound:    notFound,
		serverError: serverError,
	}, nil
}

// ServeRoute dispatches to the handler whose pattern best matches the path.
func (engine *Engine[C]) ServeRoute(w http.ResponseWriter, r *http.Request) bool {
	if engine.routes == nil {
		return false
	}

	match, ok := engine.routes.Match(r.URL.Path)
	if !ok {
		return false
	}

	return engine.handlers[match.Index].TryServe(engine, w, r)
}

func (engine *Engine[C]) AppContext() C {
	return engine.appContext
}

func (engine *Engine[C]) IsPartialRequest(r *http.Request) bool {
	return engine.isPartial(r)
}

func (engine *Engine[C]) RenderPage(
	r *http.Request,
	w http.ResponseWriter,
	component templ.Component,
) error {
	return engine.renderPage(r, w, component)
}

func (engine *Engine[C]) RenderJSON(r *http.Request, w http.ResponseWriter, value interface{}) error {
	return engine.renderJSON(r, w, value)
}

func (engine *Engine[C]) IsNotFound(err error) bool {
	return engine.isNotFound(err)
}

func (engine *Engine[C]) RespondNotFound(
	w http.ResponseWriter,
	r *http.Request,
	notFoundContext framework.NotFoundContext,
) {
	engine.notFound(w, r, notFoundContext)
}

func (engine *Engine[C]) RespondServerError(w http.ResponseWriter, err error) {
	engine.serverError(w, err)
}

func writeJSON(_ *http.Request, w http.ResponseWriter, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, err = w.Write(payload)
	return err
}
