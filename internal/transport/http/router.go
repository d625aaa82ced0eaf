package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	appauthn "pizza-service/internal/app/authn"
	appfranchise "pizza-service/internal/app/franchise"
	apporder "pizza-service/internal/app/order"
	"pizza-service/internal/auth"
	"pizza-service/internal/config"
	"pizza-service/internal/metrics"
	"pizza-service/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// NewRouter wires the pizza API. agg may be nil, in which case no metrics are
// recorded; fulfiller may be nil to skip the factory call.
func NewRouter(st *store.Store, cfg config.AppConfig, agg *metrics.Aggregator, fulfiller apporder.Fulfiller) *chi.Mux {
	authSvc := appauthn.NewService(st, auth.NewIssuer(cfg.Server.JWTSecret, cfg.Server.JWTTTL), agg)
	franchiseSvc := appfranchise.NewService(st)
	orderSvc := apporder.NewService(st, fulfiller, agg)

	authHandlers := NewAuthHandlers(authSvc)
	franchiseHandlers := NewFranchiseHandlers(franchiseSvc)
	orderHandlers := NewOrderHandlers(orderSvc)
	adminHandlers := NewAdminHandlers(st, cfg.Server.Version, cfg.Server.FactoryURL)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: allowCORSCredentials(cfg.Server),
		MaxAge:           300,
	}))
	r.Use(APILogMiddleware())
	if cfg.Log.CaptureBodies {
		r.Use(BodyCaptureMiddleware(cfg.Log.MaxBodyBytes))
	}
	r.Use(OptionalAuthMiddleware(authSvc))
	r.Use(MetricsMiddleware(agg))

	r.NotFound(adminHandlers.NotFound())
	r.Get("/", adminHandlers.Welcome())
	r.Get("/healthz", adminHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Get("/docs", adminHandlers.Docs())

		r.Route("/auth", func(r chi.Router) {
			r.Post("/", authHandlers.Register())
			r.Put("/", authHandlers.Login())
			r.With(RequireUser).Delete("/", authHandlers.Logout())
			r.With(RequireUser).Put("/{userID}", authHandlers.UpdateUser())
		})

		r.Route("/order", func(r chi.Router) {
			r.Get("/menu", orderHandlers.Menu())
			r.With(RequireUser).Put("/menu", orderHandlers.AddMenuItem())
			r.With(RequireUser).Get("/", orderHandlers.Orders())
			r.With(RequireUser, PizzaLatencyMiddleware(agg)).Post("/", orderHandlers.Create())
		})

		r.Route("/franchise", func(r chi.Router) {
			r.Get("/", franchiseHandlers.List())
			r.Group(func(r chi.Router) {
				r.Use(RequireUser)
				r.Get("/{userID}", franchiseHandlers.ListForUser())
				r.Post("/", franchiseHandlers.Create())
				r.Delete("/{franchiseID}", franchiseHandlers.Delete())
				r.Post("/{franchiseID}/store", franchiseHandlers.CreateStore())
				r.Delete("/{franchiseID}/store/{storeID}", franchiseHandlers.DeleteStore())
			})
		})

		r.With(RequireAdmin).Get("/debug/vars", expvar.Handler().ServeHTTP)
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 32)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}

// allowCORSCredentials never pairs credentials with a wildcard origin.
func allowCORSCredentials(cfg config.ServerConfig) bool {
	if !cfg.CORSAllowCredentials {
		return false
	}
	for _, o := range cfg.CORSOrigins {
		if strings.Contains(o, "*") {
			return false
		}
	}
	return true
}
