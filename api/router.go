package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	appMiddleware "github.com/prasetyowira/starter/api/middleware"
	"github.com/prasetyowira/starter/api/response"
	"github.com/prasetyowira/starter/constant"
	"github.com/prasetyowira/starter/domain/apperror"
	appLogger "github.com/prasetyowira/starter/infrastructure/logger"
)

const authRealm = "starter"

// BookmarkHandler is the set of bookmark endpoints the router exposes
type BookmarkHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	QRCode(w http.ResponseWriter, r *http.Request)
}

// Router represents the application router
type Router struct {
	handler  BookmarkHandler
	mapper   *response.Mapper
	router   *chi.Mux
	username string
	password string
}

// NewRouter creates a new router
func NewRouter(handler BookmarkHandler, mapper *response.Mapper, username, password string) *Router {
	r := chi.NewRouter()

	// Middleware setup
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appMiddleware.RequestLogger())
	r.Use(appMiddleware.RequestContext())
	r.Use(appMiddleware.Recoverer(response.WriteEnvelope[any]))

	// Unmatched requests are answered with envelopes too
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		mapper.Write(w, req, &apperror.RouteError{Method: req.Method, Path: req.URL.Path})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		mapper.Write(w, req, &apperror.RouteError{Method: req.Method, Path: req.URL.Path, MethodNotAllowed: true})
	})

	return &Router{
		handler:  handler,
		mapper:   mapper,
		router:   r,
		username: username,
		password: password,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() {
	appLogger.Info(constant.MsgSettingUpRoutes, appLogger.LoggerInfo{
		ContextFunction: constant.CtxRouter,
	})

	auth := middleware.BasicAuth(authRealm, map[string]string{
		r.username: r.password,
	})

	// Writes require Basic Auth
	r.router.With(auth).Post(constant.RouteBookmarks, r.handler.Create)
	r.router.With(auth).Put(constant.RouteBookmark, r.handler.Update)
	r.router.With(auth).Delete(constant.RouteBookmark, r.handler.Delete)

	// Public routes
	r.router.Get(constant.RouteBookmarks, r.handler.List)
	r.router.Get(constant.RouteBookmark, r.handler.Get)
	r.router.Get(constant.RouteBookmarkQRCode, r.handler.QRCode)

	// Healthcheck
	r.router.Get(constant.RouteHealthcheck, func(w http.ResponseWriter, req *http.Request) {
		appLogger.CtxDebug(req.Context(), constant.MsgHealthcheckRequest, appLogger.LoggerInfo{
			ContextFunction: constant.CtxRouter,
		})

		response.OK(w, constant.MsgHealthy)
	})
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
