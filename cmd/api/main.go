package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
	"github.com/abdulrazikehab/Dawah-sub000/internal/handlers"
	"github.com/abdulrazikehab/Dawah-sub000/internal/mailer"
	"github.com/abdulrazikehab/Dawah-sub000/internal/repository"
	"github.com/abdulrazikehab/Dawah-sub000/internal/service"
	"github.com/abdulrazikehab/Dawah-sub000/internal/token"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/cache"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/config"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/database"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/events"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/logger"
	mw "github.com/abdulrazikehab/Dawah-sub000/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store, err := cache.NewStore(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	var mail mailer.Service
	if cfg.Email.DevMode || cfg.Email.MailerSendKey == "" {
		mail = mailer.NewDevMailer()
	} else {
		mail = mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}

	codec := token.NewCodec(cfg.Auth.CredentialSecret)

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	guestRepo := repository.NewGuestRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)

	// Services
	accessService := service.NewAccessService(eventRepo, userRepo, assignmentRepo, eventBus)
	authService := service.NewAuthService(userRepo, cfg)
	eventService := service.NewEventService(eventRepo, accessService, eventBus)
	registryService := service.NewRegistryService(guestRepo, eventRepo, accessService, eventBus)
	rsvpService := service.NewRSVPService(guestRepo, eventRepo, userRepo, codec, mail, eventBus)
	checkInService := service.NewCheckInService(guestRepo, eventRepo, accessService, codec, eventBus)

	// Hosts get a confirmation email with their event's public RSVP link.
	if err := subscribeEventCreated(eventBus, userRepo, mail, cfg.App.PublicBaseURL); err != nil {
		logger.Error("Failed to subscribe to event.created", "error", err)
		os.Exit(1)
	}

	h := handlers.New(authService, eventService, registryService, rsvpService, checkInService, accessService, cfg)

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("api"))
	r.Use(mw.Logging)
	r.Use(mw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000", "*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.Health)

	// Staff authentication
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.With(h.OptionalJWT).Post("/register", h.Register)
	})
	r.With(h.RequireJWT(domain.RoleAdmin)).Get("/users", h.ListStaff)

	// Public RSVP surface. Link knowledge is the only credential here.
	r.With(mw.Idempotency(store)).Post("/events/{id}/rsvp", h.SubmitRSVP)
	r.Get("/rsvp/{slug}", h.GetEventBySlug)
	r.Route("/guests/{guestID}", func(r chi.Router) {
		r.Patch("/rsvp", h.UpdateRSVP)
		r.Get("/credential", h.GetCredential)
		r.With(h.RequireJWT(domain.RoleAdmin)).Post("/checkin/undo", h.UndoCheckIn)
	})

	// Host registry management
	r.Route("/events", func(r chi.Router) {
		r.With(h.RequireJWT(domain.RoleHost)).Post("/", h.CreateEvent)
		r.With(h.RequireJWT(domain.RoleHost)).Get("/", h.ListEvents)

		r.Route("/{id}", func(r chi.Router) {
			r.With(h.RequireJWT("")).Get("/", h.GetEvent)

			r.Route("/guests", func(r chi.Router) {
				r.With(h.RequireJWT(domain.RoleHost)).Post("/", h.AddGuest)
				r.With(h.RequireJWT(domain.RoleHost)).Post("/bulk", h.BulkAddGuests)
				r.With(h.RequireJWT("")).Get("/", h.ListGuests)
				r.With(h.RequireJWT("")).Get("/stats", h.GuestStats)
			})

			r.With(h.RequireJWT(domain.RoleAdmin)).Post("/assign", h.AssignEmployee)
			r.With(h.RequireJWT("")).Get("/employees", h.ListAssignedEmployees)
		})
	})

	// Venue-side scanning. Any authenticated staff may POST; per-event
	// authorization happens in the service.
	r.With(h.RequireJWT("")).Post("/checkin", h.CheckIn)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down api service...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Api service shutdown error", "error", err)
		}
	}()

	logger.Info("Starting api service", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Api service error", "error", err)
		os.Exit(1)
	}
}

func subscribeEventCreated(bus events.Subscriber, userRepo repository.UserRepository, mail mailer.Service, baseURL string) error {
	return bus.Subscribe(events.EventCreated, func(msg *events.Message) {
		var evt events.EventCreatedEvent
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			logger.Error("Failed to decode event.created payload", "error", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		host, err := userRepo.FindByID(ctx, evt.HostID)
		if err != nil || host == nil {
			logger.Error("Host lookup failed for event.created email", "error", err, "host_id", evt.HostID)
			return
		}

		link := fmt.Sprintf("%s/rsvp/%s", baseURL, evt.PublicSlug)
		if err := mail.SendEventCreatedEmail(host.Email, host.Name, evt.Title, link); err != nil {
			logger.Error("Failed to send event created email", "error", err, "event_id", evt.EventID)
		}
	})
}
