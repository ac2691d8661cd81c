package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	_ "github.com/jackc/pgx/v5/stdlib" // Postgres stdlib driver, used for migrations.
	"github.com/joho/godotenv"
	"github.com/rschio/pawnshop/internal/core/client"
	"github.com/rschio/pawnshop/internal/core/client/store/clientdb"
	"github.com/rschio/pawnshop/internal/core/dashboard"
	"github.com/rschio/pawnshop/internal/core/item"
	"github.com/rschio/pawnshop/internal/core/item/store/itemdb"
	"github.com/rschio/pawnshop/internal/core/onboarding"
	"github.com/rschio/pawnshop/internal/core/onboarding/stores/onboardingredis"
	"github.com/rschio/pawnshop/internal/core/payment"
	"github.com/rschio/pawnshop/internal/core/payment/store/paymentdb"
	"github.com/rschio/pawnshop/internal/core/plan"
	"github.com/rschio/pawnshop/internal/core/plan/store/plandb"
	"github.com/rschio/pawnshop/internal/core/profile"
	"github.com/rschio/pawnshop/internal/core/profile/store/profiledb"
	"github.com/rschio/pawnshop/internal/core/subscription"
	"github.com/rschio/pawnshop/internal/core/subscription/store/subscriptiondb"
	"github.com/rschio/pawnshop/internal/core/transaction"
	"github.com/rschio/pawnshop/internal/core/transaction/store/transactiondb"
	"github.com/rschio/pawnshop/internal/core/user"
	"github.com/rschio/pawnshop/internal/core/user/store/userdb"
	"github.com/rschio/pawnshop/internal/core/verify"
	"github.com/rschio/pawnshop/internal/core/verify/stores/coderedis"
	"github.com/rschio/pawnshop/internal/data/dbschema"
	db "github.com/rschio/pawnshop/internal/data/dbsql/pgx"
	"github.com/rschio/pawnshop/internal/data/kvstore"
	"github.com/rschio/pawnshop/internal/handlers"
	"github.com/rschio/pawnshop/internal/logger"
	"github.com/rschio/pawnshop/internal/metrics"
	"github.com/rschio/pawnshop/internal/trace"
	"golang.org/x/time/rate"
)

var build = "develop"

func main() {
	// A missing .env file is fine, the environment wins anyway.
	_ = godotenv.Load()

	log := logger.New("PAWNSHOP", os.Getenv("PAWNSHOP_ENV"))

	if err := run(log); err != nil {
		log.Error("startup", "ERROR", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx := context.Background()

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Env string `conf:"default:DEV"`
		Web struct {
			Port            int           `conf:"default:8080"`
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			RateLimit       float64       `conf:"default:20"`
			RateBurst       int           `conf:"default:40"`
			RateIdle        time.Duration `conf:"default:10m"`
		}
		DB struct {
			User         string `conf:"default:postgres"`
			Password     string `conf:"default:postgres,mask"`
			Host         string `conf:"default:0.0.0.0:5432"`
			Name         string `conf:"default:postgres"`
			Schema       string
			MaxOpenConns int  `conf:"default:10"`
			DisableTLS   bool `conf:"default:true"`
		}
		Tables struct {
			Clients       string `conf:"default:clients"`
			Items         string `conf:"default:items"`
			Transactions  string `conf:"default:transactions"`
			Payments      string `conf:"default:payments"`
			Plans         string `conf:"default:subscription_plans"`
			Subscriptions string `conf:"default:subscriptions"`
			Users         string `conf:"default:users"`
			Profiles      string `conf:"default:profiles"`
		}
		Redis struct {
			Addr     string `conf:"default:0.0.0.0:6379"`
			Password string `conf:"mask"`
			DB       int    `conf:"default:0"`
		}
		Tempo struct {
			Host        string  `conf:"default:tempo:4317"`
			Probability float64 `conf:"default:0.05"`
			Discard     bool    `conf:"default:true"`
		}
		Onboarding struct {
			StateTTL time.Duration `conf:"default:720h"`
			CodeTTL  time.Duration `conf:"default:10m"`
			SeedLock time.Duration `conf:"default:30s"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "pawnshop back-office API",
		},
	}

	const prefix = "PAWNSHOP"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Info("starting service", "version", build)
	defer log.Info("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Info("startup", "config", out)

	// =========================================================================
	// Database Support

	log.Info("startup", "status", "initializing database support", "host", cfg.DB.Host)

	dbCfg := db.Config{
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Host:         cfg.DB.Host,
		Name:         cfg.DB.Name,
		Schema:       cfg.DB.Schema,
		MaxOpenConns: cfg.DB.MaxOpenConns,
		DisableTLS:   cfg.DB.DisableTLS,
	}
	database, err := db.Open(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer func() {
		log.Info("shutdown", "status", "stopping database support", "host", cfg.DB.Host)
		database.Close()
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.StatusCheck(ctxWithTimeout, database); err != nil {
		return fmt.Errorf("database not health: %w", err)
	}

	tables := dbschema.Tables(cfg.Tables).WithDefaults()

	stdDB, err := sql.Open("pgx", db.ConnString(dbCfg))
	if err != nil {
		return fmt.Errorf("failed to open DB for migration: %w", err)
	}
	if err := dbschema.MigrateTables(stdDB, tables); err != nil {
		stdDB.Close()
		return fmt.Errorf("migrating error: %w", err)
	}
	stdDB.Close()

	// =========================================================================
	// Redis Support

	log.Info("startup", "status", "initializing redis support", "addr", cfg.Redis.Addr)

	kv := kvstore.Open(kvstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		log.Info("shutdown", "status", "stopping redis support", "addr", cfg.Redis.Addr)
		kv.Close()
	}()

	ctxWithTimeout, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := kvstore.StatusCheck(ctxWithTimeout, kv); err != nil {
		return fmt.Errorf("redis not health: %w", err)
	}

	// =========================================================================
	// Start Tracing Support

	log.Info("startup", "status", "initializing tracing support", "host", cfg.Tempo.Host)

	provider, err := trace.NewProvider(ctx, trace.Config{
		Env:            cfg.Env,
		Endpoint:       cfg.Tempo.Host,
		Service:        "pawnshop",
		SampleFraction: cfg.Tempo.Probability,
		DiscardTraces:  cfg.Tempo.Discard,
	})
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	defer provider.Shutdown(context.Background())

	tracer := provider.Tracer("pawnshop")

	// =========================================================================
	// Start API Service

	log.Info("startup", "status", "initializing PAWNSHOP API support")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	clients := client.NewCore(log, clientdb.NewStore(log, database, tables))
	items := item.NewCore(log, itemdb.NewStore(log, database, tables))
	txs := transaction.NewCore(log, transactiondb.NewStore(log, database, tables))
	pays := payment.NewCore(log, paymentdb.NewStore(log, database, tables))
	users := user.NewCore(log, userdb.NewStore(log, database, tables))
	profiles := profile.NewCore(log, profiledb.NewStore(log, database, tables))
	subs := subscription.NewCore(log, subscriptiondb.NewStore(log, database, tables))

	seedLock := kvstore.NewMutex(kv, "pawnshop:plans:seed", cfg.Onboarding.SeedLock)
	plans := plan.NewCore(log, plandb.NewStore(log, database, tables), seedLock)

	verifier := verify.NewCore(log, coderedis.NewStore(kv), verify.LogSender{Log: log}, users, cfg.Onboarding.CodeTTL)
	machine := onboarding.NewMachine(log, onboardingredis.NewStore(kv, cfg.Onboarding.StateTTL))
	flow := onboarding.NewFlow(log, machine, plans, subs, profiles, verifier)

	srv := handlers.NewServer(handlers.Config{
		Log:       log,
		Metrics:   metrics.New(),
		RateLimit: rate.Limit(cfg.Web.RateLimit),
		RateBurst: cfg.Web.RateBurst,
		Ready: func(ctx context.Context) error {
			if err := database.Ping(ctx); err != nil {
				return fmt.Errorf("db: %w", err)
			}
			if err := kv.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			return nil
		},
		Clients:       clients,
		Items:         items,
		Transactions:  txs,
		Payments:      pays,
		Users:         users,
		Profiles:      profiles,
		Plans:         plans,
		Subscriptions: subs,
		Onboarding:    flow,
		Dashboard:     dashboard.NewCore(log, clients, items, txs, pays),
	})

	limiterCtx, stopLimiter := context.WithCancel(ctx)
	defer stopLimiter()
	srv.StartLimiterCleanup(limiterCtx, time.Minute, cfg.Web.RateIdle)

	api := http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Web.Port),
		Handler:      handlers.APIMux(srv, tracer),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(log.Handler(), slog.LevelInfo),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("startup", "status", "api router started", "host", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Info("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Info("shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}
