// Command server runs the reference-checking API. Stores, mail and the
// event stream degrade to in-memory implementations when their backing
// services are not configured, so a bare `go run ./cmd/server` works.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	authhandler "ndoors/internal/auth/handler"
	authjwt "ndoors/internal/auth/jwt"
	authservice "ndoors/internal/auth/service"
	companystore "ndoors/internal/auth/store/company"
	"ndoors/internal/auth/store/revocation"
	userstore "ndoors/internal/auth/store/user"
	jobhandler "ndoors/internal/job/handler"
	jobservice "ndoors/internal/job/service"
	jobstore "ndoors/internal/job/store/job"
	"ndoors/internal/notify"
	"ndoors/internal/notify/events"
	"ndoors/internal/platform/config"
	"ndoors/internal/platform/httpserver"
	"ndoors/internal/platform/logger"
	"ndoors/internal/platform/metrics"
	platformredis "ndoors/internal/platform/redis"
	referenthandler "ndoors/internal/referent/handler"
	referentservice "ndoors/internal/referent/service"
	referentstore "ndoors/internal/referent/store/referent"
	"ndoors/internal/referent/store/throttle"
	requesthandler "ndoors/internal/request/handler"
	requestservice "ndoors/internal/request/service"
	requeststore "ndoors/internal/request/store/request"
	httptransport "ndoors/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()
	ctx := context.Background()

	// Persistence: postgres when configured, in-memory otherwise.
	var (
		db        *sql.DB
		referents referentservice.Store
		requests  requestservice.Store
		jobs      jobservice.Store
		users     authservice.UserStore
		companies authservice.CompanyStore
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		if err := db.PingContext(ctx); err != nil {
			log.Error("ping database", "error", err)
			os.Exit(1)
		}
		referents = referentstore.NewPostgres(db)
		requests = requeststore.NewPostgres(db)
		jobs = jobstore.NewPostgres(db)
		users = userstore.NewPostgres(db)
		companies = companystore.NewPostgres(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		referents = referentstore.NewInMemory()
		requests = requeststore.NewInMemory()
		jobs = jobstore.NewInMemory()
		users = userstore.NewInMemory()
		companies = companystore.NewInMemory()
	}

	// Redis backs the session revocation list and the reminder throttle.
	var (
		trl         authservice.RevocationList
		remindGuard referentservice.RemindThrottle
	)
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		trl = revocation.NewRedis(redisClient.Client)
		remindGuard = throttle.NewRedis(redisClient.Client)
	} else {
		log.Warn("REDIS_URL not set, using in-memory session revocation and reminder throttle")
		trl = revocation.NewInMemory()
		remindGuard = throttle.NewInMemory()
	}

	// Lifecycle events go to Kafka when brokers are configured.
	var publisher events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		publisher = kafkaPublisher
	} else {
		log.Warn("KAFKA_BROKERS not set, lifecycle events stay in memory")
		publisher = events.NewMemoryPublisher()
	}
	defer publisher.Close()

	var mailer notify.Mailer
	if cfg.Mail.APIKey != "" {
		mailer = notify.NewHTTPMailer(cfg.Mail)
	} else {
		log.Warn("MAIL_API_KEY not set, emails are recorded in memory only")
		mailer = notify.NewMemoryMailer()
	}
	dispatcher := notify.NewDispatcher(log, m)

	// Services.
	auth := authservice.New(users, companies, trl, authjwt.NewManager(cfg.JWTSigningKey), cfg.SessionTTL,
		authservice.WithLogger(log))
	jobSvc := jobservice.New(jobs, auth, jobservice.WithLogger(log))
	mailInfo := requestservice.NewMailInfoResolver(requests, jobSvc)
	referentSvc := referentservice.New(referents, mailInfo, mailer, dispatcher, cfg.BaseURL,
		referentservice.WithLogger(log),
		referentservice.WithMetrics(m),
		referentservice.WithPublisher(publisher),
		referentservice.WithRemindThrottle(remindGuard, cfg.RemindInterval),
	)
	requestSvc := requestservice.New(requests, jobSvc, referentSvc, requestservice.WithLogger(log))

	health := func() error {
		if db != nil {
			if err := db.Ping(); err != nil {
				return err
			}
		}
		if redisClient != nil {
			return redisClient.Health(context.Background())
		}
		return nil
	}

	router := httptransport.NewRouter(log, m, health,
		authhandler.New(auth, log, auth),
		jobhandler.New(jobSvc, requestSvc, log, auth),
		requesthandler.New(requestSvc, jobSvc, referentSvc, log),
		referenthandler.New(referentSvc, mailInfo, log, auth),
	)
	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		select {
		case sig := <-quit:
			log.Info("shutting down", "signal", sig.String())
		case <-groupCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		// Let in-flight emails finish before the process exits.
		dispatcher.Wait()
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
