package api

import (
	"database/sql"
	"net/http"
	"time"

	"profiledash/internal/api/handler"
	"profiledash/internal/api/middleware"
	"profiledash/internal/app/service"
	"profiledash/internal/platform/blob"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	cardService *service.CardService,
	blobStore blob.Store,
	db *sql.DB,
	cookieSecure bool,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(middleware.Metrics)

	// Session resolution runs on every request; it attaches the user to the
	// context when the cookie resolves and lets route groups enforce access.
	r.Use(middleware.SessionResolver(authService))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(apiRouter chi.Router) {
		// Auth routes: login is public, logout/me/check read the cookie themselves.
		authHandler := handler.NewAuthHandler(authService, cookieSecure)
		apiRouter.Route("/auth", authHandler.RegisterRoutes)

		// Operator-facing setup/status view (public).
		statusHandler := handler.NewStatusHandler(db)
		apiRouter.Route("/status", statusHandler.RegisterRoutes)

		// User management (admin only; deletion is superadmin, checked in the service).
		userHandler := handler.NewUserHandler(userService)
		apiRouter.Route("/users", func(userRouter chi.Router) {
			userRouter.Use(middleware.RequireAuth)
			userRouter.Use(middleware.RequireAdmin)
			userHandler.RegisterRoutes(userRouter)
		})

		// Cards (authenticated; the service filters reads by role).
		cardHandler := handler.NewCardHandler(cardService)
		apiRouter.Route("/cards", func(cardRouter chi.Router) {
			cardRouter.Use(middleware.RequireAuth)
			cardHandler.RegisterRoutes(cardRouter)
		})

		// Uploads (authenticated; per-card ownership enforced in the handler).
		uploadHandler := handler.NewUploadHandler(blobStore, cardService)
		apiRouter.Route("/upload", func(uploadRouter chi.Router) {
			uploadRouter.Use(middleware.RequireAuth)
			uploadHandler.RegisterRoutes(uploadRouter)
		})
	})

	return r
}
