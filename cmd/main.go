package main

import (
	"ClinicRecords/cache"
	"ClinicRecords/config"
	"ClinicRecords/database"
	"ClinicRecords/dtos"
	"ClinicRecords/logger"
	"ClinicRecords/models"
	"ClinicRecords/repositories"
	"ClinicRecords/routes"
	"ClinicRecords/services"
	"ClinicRecords/utils"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "clinicrecords",
		Short:         "Clinic records API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createUserCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the clients every command starts from.
type app struct {
	config *config.AppConfig
	db     *gorm.DB
	redis  *redis.Client
	cache  *cache.Cache
}

func bootstrap(ctx context.Context, withRedis bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := logger.Init(&logger.Config{Level: cfg.LogLevel, Env: cfg.Env, ServiceName: "clinicrecords"}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.InitDB(ctx, database.PostgresConfig{
		DSN:          cfg.DBURL,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		Debug:        cfg.IsDev(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	a := &app{config: cfg, db: db}
	if !withRedis {
		return a, nil
	}

	a.redis, err = database.NewRedisClient(ctx, database.LoadRedisConfig(cfg.RedisAddress))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	a.cache, err = cache.NewCache(a.redis, cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return a, nil
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Sync()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.close()
			return a.serve()
		},
	}
}

func (a *app) serve() error {
	var notifier utils.Notifier = utils.NoopNotifier{}
	if a.config.MailEnabled() {
		notifier = utils.NewMailer(utils.SMTPSettings{
			Host:     a.config.SMTP.Host,
			Port:     a.config.SMTP.Port,
			User:     a.config.SMTP.User,
			Password: a.config.SMTP.Password,
			From:     a.config.SMTP.From,
		})
	}

	handler, err := routes.SetupRoutes(routes.Dependencies{
		Config:   a.config,
		DB:       a.db,
		Redis:    a.redis,
		Cache:    a.cache,
		Notifier: notifier,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + a.config.Port,
		Handler:        handler,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
		IdleTimeout:    30 * time.Second,
	}

	serverErr := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		logger.LogInfo("starting server", zap.String("addr", srv.Addr), zap.Bool("mail_enabled", a.config.MailEnabled()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("listen and serve: %w", err)
	case sig := <-quit:
		logger.LogInfo("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	wg.Wait()
	logger.LogInfo("server exited gracefully")
	return nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.close()

			if err := database.Migrate(a.db); err != nil {
				return err
			}
			logger.LogInfo("migrations applied")
			return nil
		},
	}
}

func createUserCmd() *cobra.Command {
	var username, password, role string

	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Provision an account with a doctor or patient role",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.close()

			tokens, err := utils.NewTokenMaker(a.config.SymmetricKey, a.config.AccessTokenTTL, a.config.RefreshTokenTTL)
			if err != nil {
				return err
			}
			auth := services.NewAuthService(repositories.NewUserRepository(a.db, a.cache), tokens, a.cache)

			user, err := auth.Register(cmd.Context(), dtos.RegisterRequest{
				Username: username,
				Password: password,
				Role:     models.Role(role),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", user)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "account name")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&role, "role", string(models.RolePatient), "doctor or patient")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
