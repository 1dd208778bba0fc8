// Package web hosts controllers resolved from a locator behind a chi router.
package web

import (
	"net/http"
	"reflect"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/xraph/go-utils/errs"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/xraph/locator"
)

// Route maps a method and pattern to the controller registered under Controller.
type Route struct {
	Method     string
	Pattern    string
	Controller string
}

// Middleware stores l in every request context.
func Middleware(l locator.Locator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(locator.WithLocator(r.Context(), l)))
		})
	}
}

// NewRouter returns a chi router with recovery, request IDs and l in the
// request context.
func NewRouter(l locator.Locator) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Middleware(l))

	return r
}

// ControllerFactory builds a controller per request from the request's locator.
type ControllerFactory struct {
	logger *zap.Logger
}

// NewControllerFactory creates a controller factory.
func NewControllerFactory(logger *zap.Logger) *ControllerFactory {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ControllerFactory{logger: logger.Named("web")}
}

// Mount registers every route on r.
func (f *ControllerFactory) Mount(r chi.Router, routes ...Route) {
	for _, route := range routes {
		r.Method(route.Method, route.Pattern, f.Handler(route.Controller))
	}
}

// Handler returns a handler that resolves the http.Handler registered under
// key, injects its properties, serves the request and then tears it down and
// releases it. Any failure before serving answers 500.
//
// A controller that is a pointer to a struct is shallow-copied per request and
// only the copy is injected and torn down, so a singleton registration is
// never written to by concurrent requests.
func (f *ControllerFactory) Handler(key string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l, err := locator.FromContext(r.Context())
		if err != nil {
			f.fail(w, r, key, err)
			return
		}

		controller, err := locator.ResolveNamed[http.Handler](l, key)
		if err != nil {
			f.fail(w, r, key, err)
			return
		}

		handler := perRequest(controller)

		defer f.release(r, l, key, controller, handler)

		if err := l.Inject(handler); err != nil && !errs.Is(err, locator.ErrNotInjectable) {
			f.fail(w, r, key, err)
			return
		}

		handler.ServeHTTP(w, r)
	})
}

// perRequest returns a shallow copy of a struct pointer controller, or the
// controller itself for any other kind.
func perRequest(controller http.Handler) http.Handler {
	v := reflect.ValueOf(controller)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return controller
	}

	clone := reflect.New(v.Elem().Type())
	clone.Elem().Set(v.Elem())

	handler, ok := clone.Interface().(http.Handler)
	if !ok {
		return controller
	}

	return handler
}

func (f *ControllerFactory) release(r *http.Request, l locator.Locator, key string, controller, handler http.Handler) {
	err := multierr.Append(l.TearDown(handler), l.Release(controller))
	if err == nil {
		return
	}

	f.logger.Warn("failed to release controller",
		zap.String("controller", key),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
}

func (f *ControllerFactory) fail(w http.ResponseWriter, r *http.Request, key string, err error) {
	f.logger.Error("failed to create controller",
		zap.String("controller", key),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)

	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
