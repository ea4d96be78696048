package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/9ssi7/exponent"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ziorum/internal/auth"
	"ziorum/internal/catalog"
	"ziorum/internal/db"
	"ziorum/internal/mailer"
	"ziorum/internal/notifications"
	"ziorum/internal/ratelimiter"
	"ziorum/internal/realtime"
	"ziorum/internal/seed"
	"ziorum/internal/store"
	"ziorum/internal/submit"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	// Default values
	defaultRequests := 30
	defaultEnabled := true

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            time.Minute,
		Enabled:              enabled,
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	level := zapcore.InfoLevel

	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	logger := zap.New(core)

	return logger.Sugar(), nil
}

func contentBackend(envKey string) catalog.Backend {
	if os.Getenv(envKey) == string(catalog.BackendDB) {
		return catalog.BackendDB
	}
	return catalog.BackendMemory
}

var version = "2.0.0"

//	@title			Lo Zio del Rum API
//	@description	Bar and cocktail reviews: venues, drinks, bartenders and community content with moderation.

//	@contact.name	API Support

//	@BasePath					/v1
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	maxConns := 25
	if val := os.Getenv("DB_MAX_CONNS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("Invalid value for DB_MAX_CONNS: %v", err)
		}
		maxConns = parsed
	}

	cfg := config{
		addr:         os.Getenv("ADDR"),
		env:          os.Getenv("ENV"),
		frontendURL:  os.Getenv("FRONTEND_URL"),
		apiURL:       os.Getenv("EXTERNAL_URL"),
		submitAPIURL: os.Getenv("SUBMIT_API_URL"),
		localSalt:    os.Getenv("LOCAL_ID_SALT"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    maxConns,
			maxIdleTime: envOr("DB_MAX_IDLE_TIME", "15m"),
		},
		mail: mailConfig{
			fromEmail: os.Getenv("SMTP_FROM_EMAIL"),
			smtp: smtpConfig{
				host:     os.Getenv("SMTP_HOST"),
				port:     envInt("SMTP_PORT", 587),
				username: os.Getenv("SMTP_USERNAME"),
				password: os.Getenv("SMTP_PASSWORD"),
			},
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				refreshSecret:   os.Getenv("AUTH_TOKEN_REFRESH_SECRET"),
				secret:          os.Getenv("AUTH_TOKEN_SECRET"),
				accessTokenExp:  time.Hour * 24 * 3, // 3 days
				refreshTokenExp: time.Hour * 24 * 9, // 9 days
				iss:             "ziorum",
			},
		},
		rateLimiter: LoadRateLimiterConfig(),
		backends: catalog.Backends{
			Articles: contentBackend("ARTICLES_BACKEND"),
			Drinks:   contentBackend("DRINKS_BACKEND"),
		},
	}

	// Logger
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// Database is optional: without DB_ADDR the service runs in demo mode
	// on the seed dataset, with the submission API as the venue intake.
	var storage store.Storage
	var catalogStore *store.Storage
	remote := false

	if cfg.db.addr != "" {
		pool, err := db.New(cfg.db.addr, int32(cfg.db.maxConns), cfg.db.maxIdleTime)
		if err != nil {
			logger.Fatal(err)
		}
		defer pool.Close()
		logger.Info("database connection pool established")

		storage = store.NewStorage(pool)
		catalogStore = &storage
		remote = true

		expvar.Publish("database", expvar.Func(func() any {
			return pool.Stat()
		}))
	} else {
		logger.Warn("DB_ADDR not set, running in demo mode on seed data")
	}

	// Venue intake fallback
	var submitter catalog.Submitter
	if cfg.submitAPIURL != "" {
		submitter = submit.NewClient(cfg.submitAPIURL)
	}

	// Catalog
	cat, err := catalog.New(catalog.Options{
		Store:     catalogStore,
		Submit:    submitter,
		Logger:    logger,
		Backends:  cfg.backends,
		Seed:      seed.Demo(),
		LocalSalt: cfg.localSalt,
	})
	if err != nil {
		logger.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := cat.Load(ctx); err != nil {
		logger.Fatal(err)
	}

	//cloudinary
	var cld *cloudinary.Cloudinary
	if cloudinaryURL := os.Getenv("CLOUDINARY_URL"); cloudinaryURL != "" {
		cld, err = cloudinary.NewFromURL(cloudinaryURL)
		if err != nil {
			logger.Fatal(err)
		}
	}

	// client to email moderation outcomes to submitters
	var mailClient mailer.Client
	if cfg.mail.smtp.host != "" {
		mailClient, err = mailer.NewSMTP(
			cfg.mail.smtp.host,
			cfg.mail.smtp.port,
			cfg.mail.smtp.username,
			cfg.mail.smtp.password,
			cfg.mail.fromEmail,
		)
		if err != nil {
			logger.Fatal(err)
		}
	}

	// expo push for admin moderation alerts
	var push notifications.PushSender
	if os.Getenv("EXPO_PUSH_ENABLED") == "true" {
		push = notifications.NewExpoAdapter(exponent.NewClient())
	}

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	// Authenticator
	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.refreshSecret,
		cfg.auth.token.iss,
		cfg.auth.token.iss,
	)

	// Realtime venue feed
	hub := realtime.NewHub(logger)
	go hub.Run(ctx)

	if remote {
		listener := realtime.NewListener(cfg.db.addr, cat, storage, hub, logger)
		go func() {
			if err := listener.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Errorw("venue change listener stopped", "error", err)
			}
		}()
	}

	app := &application{
		config:        cfg,
		logger:        logger,
		store:         storage,
		catalog:       cat,
		cld:           cld,
		mailer:        mailClient,
		push:          push,
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
		hub:           hub,
		remote:        remote,
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
