package routes

import (
	"ClinicRecords/cache"
	"ClinicRecords/config"
	"ClinicRecords/controllers"
	"ClinicRecords/database"
	"ClinicRecords/handlers"
	"ClinicRecords/middlewares"
	"ClinicRecords/repositories"
	"ClinicRecords/services"
	"ClinicRecords/utils"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Dependencies are the long-lived clients the router is built on.
type Dependencies struct {
	Config   *config.AppConfig
	DB       *gorm.DB
	Redis    *redis.Client
	Cache    *cache.Cache
	Notifier utils.Notifier
}

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(deps Dependencies) (http.Handler, error) {
	cfg := deps.Config
	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middlewares.RequestID(),
		middlewares.Recovery(),
		middlewares.LoggingMiddleware(),
		middlewares.CorsMiddleware(cfg.CORSOrigins),
		middlewares.SecurityHeaders(),
		middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		}),
	)

	tokens, err := utils.NewTokenMaker(cfg.SymmetricKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create token maker")
	}

	// Initialize repositories, services, and handlers
	patientRepo := repositories.NewPatientRepository(deps.DB, deps.Cache)
	doctorRepo := repositories.NewDoctorRepository(deps.DB, deps.Cache)
	appointmentRepo := repositories.NewAppointmentRepository(deps.DB, deps.Cache)
	prescriptionRepo := repositories.NewPrescriptionRepository(deps.DB, deps.Cache)
	healthRecordRepo := repositories.NewHealthRecordRepository(deps.DB, deps.Cache)
	userRepo := repositories.NewUserRepository(deps.DB, deps.Cache)

	authService := services.NewAuthService(userRepo, tokens, deps.Cache)
	auth := middlewares.TokenAuthMiddleware(authService)

	controllers.SetupRecordRoutes(router, auth, controllers.RecordHandlers{
		Patients:      handlers.NewPatientHandler(services.NewPatientService(patientRepo)),
		Doctors:       handlers.NewDoctorHandler(services.NewDoctorService(doctorRepo)),
		Appointments:  handlers.NewAppointmentHandler(services.NewAppointmentService(appointmentRepo, patientRepo, doctorRepo, deps.Notifier)),
		Prescriptions: handlers.NewPrescriptionHandler(services.NewPrescriptionService(prescriptionRepo, appointmentRepo)),
		HealthRecords: handlers.NewHealthRecordHandler(services.NewHealthRecordService(healthRecordRepo, patientRepo, doctorRepo)),
	})

	authController := controllers.NewAuthController(handlers.NewAuthHandler(authService))
	authController.RegisterRoutes(router, auth)

	controllers.SetupRootRoute(router, handlers.NewHealthHandler(map[string]handlers.Pinger{
		"database": func(ctx context.Context) error { return database.Ping(ctx, deps.DB) },
		"redis":    func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() },
	}))

	return router, nil
}
