// Package demo holds the sample controllers served by the locator command.
package demo

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xraph/go-utils/errs"
	"go.uber.org/zap"

	"github.com/xraph/locator"
	"github.com/xraph/locator/web"
)

// Controller keys.
const (
	HelloController  = "hello"
	StatusController = "status"
)

// Greeter produces a greeting for a name.
type Greeter interface {
	Language() string
	Greet(name string) string
}

type greeter struct {
	language string
	format   string
}

func (g *greeter) Language() string {
	return g.language
}

func (g *greeter) Greet(name string) string {
	return fmt.Sprintf(g.format, name)
}

// Hello greets the {name} route parameter with the injected Greeter.
type Hello struct {
	Logger  *zap.Logger
	Greeter Greeter
}

func (h *Hello) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		name = "world"
	}

	h.Logger.Debug("greeting", zap.String("name", name), zap.String("language", h.Greeter.Language()))

	fmt.Fprintln(w, h.Greeter.Greet(name))
}

// Status lists the languages of every registered Greeter.
type Status struct {
	Logger *zap.Logger
}

func (s *Status) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l, err := locator.FromContext(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	greeters, err := locator.ResolveServices[Greeter](l)
	if err != nil {
		s.Logger.Warn("failed to list greeters", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	languages := make([]string, 0, len(greeters))
	for _, g := range greeters {
		languages = append(languages, g.Language())
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"languages": languages,
	})
	if err != nil {
		s.Logger.Warn("failed to write status", zap.Error(err))
	}
}

// Register adds the greeters and controllers to r. Controllers are transient
// where the container supports it and singletons otherwise.
func Register(r locator.Registrar) error {
	err := locator.RegisterServices(r,
		locator.Service(func() Greeter { return &greeter{language: "en", format: "hello, %s!"} }),
		locator.Service(func() Greeter { return &greeter{language: "fr", format: "bonjour, %s !"} }, locator.Named("fr")),
	)
	if err != nil {
		return err
	}

	controllers := map[string]func() http.Handler{
		HelloController:  func() http.Handler { return &Hello{} },
		StatusController: func() http.Handler { return &Status{} },
	}

	for key, constructor := range controllers {
		err := r.Register(constructor, locator.Named(key), locator.Transient())
		if errs.Is(err, locator.ErrUnsupportedLifetime) {
			err = r.Register(constructor, locator.Named(key))
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// Routes returns the routes of the demo controllers.
func Routes() []web.Route {
	return []web.Route{
		{Method: http.MethodGet, Pattern: "/hello", Controller: HelloController},
		{Method: http.MethodGet, Pattern: "/hello/{name}", Controller: HelloController},
		{Method: http.MethodGet, Pattern: "/status", Controller: StatusController},
	}
}
