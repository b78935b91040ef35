package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/fieldforce-crm/internal/api/http"
	"github.com/spec-kit/fieldforce-crm/internal/api/http/handlers"
	"github.com/spec-kit/fieldforce-crm/internal/auth"
	"github.com/spec-kit/fieldforce-crm/internal/config"
	"github.com/spec-kit/fieldforce-crm/internal/events"
	"github.com/spec-kit/fieldforce-crm/internal/geocode"
	"github.com/spec-kit/fieldforce-crm/internal/observability"
	"github.com/spec-kit/fieldforce-crm/internal/persistence"
	"github.com/spec-kit/fieldforce-crm/internal/repository"
	"github.com/spec-kit/fieldforce-crm/internal/service"
	"github.com/spec-kit/fieldforce-crm/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	orgRepo := repository.NewOrganizationRepository(pool)
	superAdminRepo := repository.NewSuperAdminRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)
	facilityRepo := repository.NewFacilityRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	saleRepo := repository.NewSaleRepository(pool)
	meetingRepo := repository.NewMeetingRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	wfhRepo := repository.NewWFHRepository(pool)

	dispatcher := events.NewMemoryDispatcher()
	otpStore := auth.NewOTPStore(redis.Client, cfg.Auth.OTPTTLMinutes)
	geocoder := geocode.NewClient(cfg.Geocoding, logger)

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		SuperAdminRepo:   superAdminRepo,
		AdminRepo:        adminRepo,
		EmployeeRepo:     employeeRepo,
		OrganizationRepo: orgRepo,
		OTPStore:         otpStore,
		Dispatcher:       dispatcher,
	}, logger)
	superAdminService := service.NewSuperAdminService(adminRepo, orgRepo)
	employeeService := service.NewEmployeeService(service.EmployeeDependencies{
		Employees:  employeeRepo,
		Orgs:       orgRepo,
		Sales:      saleRepo,
		Attendance: attendanceRepo,
		Orders:     orderRepo,
		Meetings:   meetingRepo,
		Clients:    clientRepo,
		Dispatcher: dispatcher,
	})
	facilityService := service.NewFacilityService(facilityRepo, meetingRepo, geocoder, logger)
	clientService := service.NewClientService(clientRepo, facilityRepo)
	productService := service.NewProductService(productRepo, saleRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, facilityRepo, saleRepo, dispatcher)
	meetingService := service.NewMeetingService(meetingRepo, facilityRepo, clientRepo, orderService)
	attendanceService := service.NewAttendanceService(attendanceRepo, wfhRepo, dispatcher)
	reportService := service.NewReportService(saleRepo, meetingRepo)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	if cfg.SuperAdmin.Password != "" {
		if err := authService.EnsureSuperAdmin(ctx, cfg.SuperAdmin.Email, cfg.SuperAdmin.Password); err != nil {
			logger.Fatal("failed to ensure superadmin", zap.Error(err))
		}
	} else {
		logger.Warn("SUPERADMIN_PASSWORD not set, skipping superadmin bootstrap")
	}

	metrics := observability.NewMetrics()
	guards := auth.NewGuards(authService.TokenManager())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:       handlers.NewAuthHandler(authService),
		SuperAdmin: handlers.NewSuperAdminHandler(authService, superAdminService),
		Employees:  handlers.NewEmployeesHandler(authService, employeeService),
		Facilities: handlers.NewFacilitiesHandler(facilityService),
		Clients:    handlers.NewClientsHandler(clientService),
		Products:   handlers.NewProductsHandler(productService),
		Orders:     handlers.NewOrdersHandler(authService, orderService),
		Meetings:   handlers.NewMeetingsHandler(authService, meetingService),
		Attendance: handlers.NewAttendanceHandler(authService, attendanceService),
		Reports:    handlers.NewReportsHandler(reportService),
		Guards:     guards,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
