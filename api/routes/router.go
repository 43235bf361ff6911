package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agroconnect/agroconnect-backend/api/controllers"
	"github.com/agroconnect/agroconnect-backend/api/middleware"
	"github.com/agroconnect/agroconnect-backend/internal/auth"
	"github.com/agroconnect/agroconnect-backend/internal/calendar"
	"github.com/agroconnect/agroconnect-backend/internal/cart"
	"github.com/agroconnect/agroconnect-backend/internal/chat"
	"github.com/agroconnect/agroconnect-backend/internal/equipment"
	"github.com/agroconnect/agroconnect-backend/internal/presence"
	"github.com/agroconnect/agroconnect-backend/internal/products"
	"github.com/agroconnect/agroconnect-backend/pkg/auth/session"
	"github.com/agroconnect/agroconnect-backend/pkg/config"
	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	"github.com/agroconnect/agroconnect-backend/pkg/logger"
	"github.com/agroconnect/agroconnect-backend/pkg/metrics"
	"github.com/agroconnect/agroconnect-backend/pkg/realtime"
	"github.com/agroconnect/agroconnect-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(ctx context.Context, oldAccessID, userID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type userDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type presenceTracker interface {
	MarkOnline(ctx context.Context, user presence.User) error
	MarkOffline(ctx context.Context, email string) error
	LoadOnline(ctx context.Context) ([]presence.Entry, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the router hands to controllers.
type Deps struct {
	DB          pinger
	Redis       *redis.Client
	Sessions    sessionManager
	Auth        auth.Service
	Register    auth.RegisterService
	Users       userDirectory
	Products    products.Service
	Cart        cart.Service
	Equipment   equipment.Service
	Calendar    calendar.Service
	Chat        chat.Service
	Presence    presenceTracker
	Hub         *realtime.Hub
	Publisher   realtime.Publisher
	RateLimiter *middleware.RateLimiter
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Logging(logg, deps.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	var idempotencyStore redis.IdempotencyStore
	if deps.Redis != nil {
		idempotencyStore = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, redisPinger(deps.Redis), logg))
	})
	r.Handle("/metrics", metrics.Handler(deps.Gatherer))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, rateLimitStore(deps.Redis), logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, rateLimitStore(deps.Redis), logg)).Post("/register", controllers.AuthRegister(deps.Register, deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Sessions, deps.Cart, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Sessions, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Handler)
		}
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Get("/session", controllers.SessionCurrent(deps.Users, logg))
		r.Get("/users", controllers.UsersList(deps.Users, logg))
		r.Get("/products", controllers.ProductsList(deps.Products, logg))

		r.Route("/seller/products", func(r chi.Router) {
			r.Use(middleware.RequireUserType(enums.UserTypeSeller, logg))
			r.Get("/", controllers.SellerProductsList(deps.Products, logg))
			r.Post("/", controllers.SellerCreateProduct(deps.Products, logg))
			r.Delete("/{productId}", controllers.SellerDeleteProduct(deps.Products, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.RequireUserType(enums.UserTypeBuyer, logg))
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(deps.Cart, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.Cart, logg))
		})

		r.Route("/equipment", func(r chi.Router) {
			r.Use(middleware.RequireUserType(enums.UserTypeSeller, logg))
			r.Get("/", controllers.EquipmentList(deps.Equipment, logg))
			r.Post("/", controllers.EquipmentCreate(deps.Equipment, logg))
			r.Patch("/{equipmentId}/availability", controllers.EquipmentSetAvailability(deps.Equipment, logg))
			r.Get("/{equipmentId}/contact", controllers.EquipmentContact(deps.Equipment, logg))
			r.Delete("/{equipmentId}", controllers.EquipmentDelete(deps.Equipment, logg))
		})

		r.Route("/calendar", func(r chi.Router) {
			r.Get("/event-types", controllers.CalendarEventTypes())
			r.Get("/events", controllers.CalendarListEvents(deps.Calendar, logg))
			r.Post("/events", controllers.CalendarCreateEvent(deps.Calendar, logg))
			r.Delete("/events/{eventId}", controllers.CalendarDeleteEvent(deps.Calendar, logg))
			r.Get("/grid", controllers.CalendarGrid(deps.Calendar, logg))
			r.Get("/upcoming", controllers.CalendarUpcoming(deps.Calendar, logg))
		})

		r.Route("/chat/messages", func(r chi.Router) {
			r.Get("/", controllers.ChatListMessages(deps.Chat, logg))
			r.Post("/", controllers.ChatSendMessage(deps.Chat, logg))
			r.Delete("/", controllers.ChatClear(deps.Chat, logg))
			r.Delete("/{messageId}", controllers.ChatDeleteMessage(deps.Chat, logg))
		})

		r.Route("/presence", func(r chi.Router) {
			r.Get("/", controllers.PresenceList(deps.Presence, cfg.Presence.PollInterval, logg))
			r.Post("/heartbeat", controllers.PresenceHeartbeat(deps.Presence, deps.Publisher, cfg.Presence.PollInterval, logg))
			r.Delete("/", controllers.PresenceLeave(deps.Presence, deps.Publisher, logg))
		})

		r.Get("/realtime/ws", controllers.RealtimeSocket(controllers.RealtimeParams{
			Hub:            deps.Hub,
			Publisher:      deps.Publisher,
			Presence:       deps.Presence,
			Config:         cfg.Realtime,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			Logger:         logg,
		}))
	})

	return r
}

// A nil *redis.Client must not become a non-nil interface.
func redisPinger(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}

type counterStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

func rateLimitStore(client *redis.Client) counterStore {
	if client == nil {
		return nil
	}
	return client
}
