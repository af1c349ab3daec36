package routes

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Алиас, чтобы не конфликтовать с нашим middleware
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Dosada05/livescore/handlers"
	"github.com/Dosada05/livescore/middleware"
)

//go:embed openapi.json
var openAPIDoc []byte

type Handlers struct {
	Games     *handlers.GameHandler
	Matches   *handlers.MatchHandler
	WebSocket *handlers.WebSocketHandler
	Health    *handlers.HealthHandler
}

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	// Limiter ограничивает частоту изменяющих запросов; nil отключает ограничение.
	Limiter *middleware.RateLimiter
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/healthz", h.Health.Healthz)
	router.Get("/ws/live", h.WebSocket.ServeWs)

	router.Get("/swagger/doc.json", serveOpenAPI)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/api", func(r chi.Router) {
		// Публичные маршруты для зрителей
		r.Get("/matches", h.Matches.ListMatches)
		r.Get("/matches/{gameID}", h.Matches.GetMatch)
		r.Get("/basketball/{gameID}/live", h.Matches.LiveUpdate)
		r.Get("/basketball/player-stats", h.Matches.PlayerLeaderboard)
		r.Get("/standings", h.Matches.Standings)
		r.Get("/games/{gameID}/players/{playerID}/active", h.Games.IsActive)

		// Защищенные маршруты только для операторов
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireOperator(opts.JWTSecret))
			if opts.Limiter != nil {
				r.Use(opts.Limiter.Middleware)
			}

			r.Post("/games", h.Games.CreateGame)
			r.Post("/games/round-robin", h.Games.ScheduleRoundRobin)
			r.Delete("/games/{gameID}", h.Games.DeleteGame)
			r.Put("/games/{gameID}/status", h.Games.SetStatus)
			r.Post("/games/{gameID}/actions", h.Games.Action)
		})
	})
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(openAPIDoc)
}
