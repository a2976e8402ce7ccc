package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echolog "github.com/labstack/gommon/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/iliyamo/workforce-portal/internal/config"
	"github.com/iliyamo/workforce-portal/internal/database"
	"github.com/iliyamo/workforce-portal/internal/handler"
	"github.com/iliyamo/workforce-portal/internal/jobs"
	"github.com/iliyamo/workforce-portal/internal/middleware"
	"github.com/iliyamo/workforce-portal/internal/model"
	"github.com/iliyamo/workforce-portal/internal/queue"
	"github.com/iliyamo/workforce-portal/internal/repository"
	"github.com/iliyamo/workforce-portal/internal/router"
	"github.com/iliyamo/workforce-portal/internal/schema"
	"github.com/iliyamo/workforce-portal/internal/service"
	"github.com/iliyamo/workforce-portal/internal/telemetry"
)

const serviceName = "workforce-portal"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.Load() // Load environment config

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry := telemetry.Setup(serviceName)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db, cfg.DBDriver); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	attendance := repository.NewAttendanceRepo(db, cfg.Location)
	logins := repository.NewLoginLogRepo(db)
	actions := repository.NewAdminActionRepo(db)
	reviews := repository.NewReviewRepo(db)
	schedules := repository.NewScheduleRepo(db)
	disciplinary := repository.NewDisciplinaryRepo(db)
	stats := repository.NewStatsRepo(db, cfg.Location)

	if err := bootstrapAdmin(ctx, users, cfg); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}

	rdb := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if rdb == nil {
		log.Printf("redis unavailable: caching and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	qcfg := config.LoadQueueConfig()
	var events service.Publisher = service.NopPublisher{}
	if qcfg.PublishEnabled {
		events = service.RabbitPublisher{URL: qcfg.URL, Queue: qcfg.Queue}
	}
	if qcfg.ConsumerEnabled {
		consumer := queue.Consumer{URL: qcfg.URL, Queue: qcfg.Queue, LogDir: qcfg.LogDir}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("notification consumer stopped: %v", err)
			}
		}()
	}

	jobs.StartDisciplineSweep(ctx, config.LoadJobsConfig(), disciplinary)

	e := echo.New()
	e.HideBanner = true
	e.Validator = schema.NewValidator()
	if cfg.Env == "prod" {
		e.Logger.SetLevel(echolog.INFO)
	} else {
		e.Logger.SetLevel(echolog.DEBUG)
	}
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echo.WrapMiddleware(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serviceName)
	}))
	e.Use(middleware.Metrics())

	cacheCfg := config.LoadCacheConfig().WithPrefix("schedules")
	apiLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	authLimit := middleware.NewTokenBucket(config.LoadAuthRateLimitConfig(), rdb)

	router.RegisterRoutes(e, db, rdb)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, logins), users, cfg.JWTSecret, authLimit)
	router.RegisterAPI(e, router.API{
		Attendance: handler.NewAttendanceHandler(attendance, logins, disciplinary,
			service.NewStats(stats, logins, cfg.Location), cfg.Location),
		Reviews:      handler.NewReviewHandler(reviews, actions, events),
		Schedules:    handler.NewScheduleHandler(schedules, users, actions, rdb, cacheCfg),
		Disciplinary: handler.NewDisciplinaryHandler(disciplinary, users, actions, events),
		Admin:        handler.NewAdminHandler(users, attendance, logins, stats, actions),
		Users:        users,
	}, cfg.JWTSecret, apiLimit, middleware.NewRedisCache(cacheCfg, rdb))

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s, db=%s, tz=%s)", addr, cfg.Env, cfg.DBDriver, cfg.Location)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
}

// bootstrapAdmin creates the configured admin account when it does not
// exist yet.  Without ADMIN_BOOTSTRAP_EMAIL it does nothing.
func bootstrapAdmin(ctx context.Context, users *repository.UserRepo, cfg config.Config) error {
	if cfg.AdminEmail == "" {
		return nil
	}
	if _, err := users.GetByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if len(cfg.AdminPassword) < 6 {
		return errors.New("ADMIN_BOOTSTRAP_PASSWORD must be at least 6 characters")
	}
	u, err := users.Create(ctx, repository.NewUser{
		Email:     cfg.AdminEmail,
		Password:  cfg.AdminPassword,
		FirstName: "Admin",
		Role:      model.RoleAdmin,
	}, cfg.BcryptCost)
	if err != nil {
		return err
	}
	log.Printf("created admin account %s (id=%d)", u.Email, u.ID)
	return nil
}
