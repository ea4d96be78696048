package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"ziorum/docs" //this is required to generate swagger docs
	"ziorum/internal/auth"
	"ziorum/internal/catalog"
	"ziorum/internal/mailer"
	"ziorum/internal/notifications"
	"ziorum/internal/ratelimiter"
	"ziorum/internal/realtime"
	"ziorum/internal/store"
)

type application struct {
	config        config
	store         store.Storage
	catalog       *catalog.Service
	logger        *zap.SugaredLogger
	cld           *cloudinary.Cloudinary
	mailer        mailer.Client
	push          notifications.PushSender
	authenticator auth.Authenticator
	rateLimiter   *ratelimiter.FixedWindowRateLimiter
	hub           *realtime.Hub

	// remote is false when the service runs without a database; handlers
	// that need one answer 503 through requireRemote.
	remote bool
}

type config struct {
	addr         string
	db           dbConfig
	env          string
	apiURL       string
	mail         mailConfig
	frontendURL  string
	submitAPIURL string
	auth         authConfig
	rateLimiter  ratelimiter.Config
	backends     catalog.Backends
	localSalt    string
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}
type tokenConfig struct {
	refreshSecret   string
	secret          string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}
type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	fromEmail string
	smtp      smtpConfig
}

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
}

type dbConfig struct {
	addr        string
	maxConns    int
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// The live venue feed carries inserts/updates/deletes of approved
		// venues; everything else refreshes over REST.
		r.Get("/ws", app.venueFeedHandler)

		r.Route("/venues", func(r chi.Router) {
			r.Get("/", app.listVenuesHandler)
			r.Get("/{venueID}", app.getVenueHandler)
			r.Get("/{venueID}/reviews", app.getVenueReviewsHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.With(app.RateLimiterMiddleware).Post("/", app.createVenueHandler)
				r.Patch("/{venueID}", app.updateVenueHandler)
				r.Post("/{venueID}/photos", app.uploadVenuePhotoHandler)
				r.Post("/{venueID}/reviews", app.createReviewHandler)
				r.Patch("/{venueID}/reviews/{reviewID}", app.updateReviewHandler)
				r.Delete("/{venueID}/reviews/{reviewID}", app.deleteReviewHandler)
			})
		})

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", app.listArticlesHandler)
		})

		r.Route("/drinks", func(r chi.Router) {
			r.Get("/", app.listDrinksHandler)
		})

		r.Route("/bartenders", func(r chi.Router) {
			r.Get("/", app.listBartendersHandler)
			r.With(app.AuthTokenMiddleware).Post("/", app.createBartenderHandler)
		})

		r.Route("/community", func(r chi.Router) {
			r.Get("/posts", app.listCommunityPostsHandler)
			r.Get("/events", app.listCommunityEventsHandler)
			r.Get("/messages", app.listOwnerMessagesHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.With(app.RateLimiterMiddleware).Post("/posts", app.createCommunityPostHandler)
				r.With(app.RateLimiterMiddleware).Post("/events", app.createCommunityEventHandler)
				r.With(app.RateLimiterMiddleware).Post("/messages", app.createOwnerMessageHandler)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/me", app.currentUserHandler)
			r.Post("/logout", app.logoutHandler)
			r.Post("/push-tokens", app.registerPushTokenHandler)
			r.Post("/avatar", app.uploadAvatarHandler)
		})

		r.Route("/backup", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/export", app.exportBackupHandler)
			r.Post("/import", app.importBackupHandler)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Use(app.RequireAdmin)

			r.Get("/pending/venues", app.pendingVenuesHandler)
			r.Get("/pending/bartenders", app.pendingBartendersHandler)
			r.Get("/pending/community", app.pendingCommunityHandler)

			r.Post("/venues/{venueID}/approve", app.approveVenueHandler)
			r.Post("/venues/{venueID}/reject", app.rejectVenueHandler)
			r.Delete("/venues/{venueID}", app.deleteVenueHandler)

			r.Post("/bartenders/{bartenderID}/status", app.setBartenderStatusHandler)
			r.Delete("/bartenders/{bartenderID}", app.deleteBartenderHandler)

			r.Post("/articles", app.createArticleHandler)
			r.Patch("/articles/{articleID}", app.updateArticleHandler)
			r.Delete("/articles/{articleID}", app.deleteArticleHandler)

			r.Post("/drinks", app.createDrinkHandler)
			r.Patch("/drinks/{drinkID}", app.updateDrinkHandler)
			r.Delete("/drinks/{drinkID}", app.deleteDrinkHandler)

			r.Post("/community/{kind}/{itemID}/approved", app.setCommunityApprovedHandler)
			r.Delete("/community/{kind}/{itemID}", app.deleteCommunityItemHandler)

			r.Post("/sync", app.syncVenuesHandler)

			r.Get("/users", app.listUsersHandler)
			r.Patch("/users/{userID}/role", app.setUserRoleHandler)
		})

		// Public routes
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/user", app.registerUserHandler)
			r.Post("/token", app.createTokenHandler)
			r.Post("/refresh", app.refreshTokenHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
