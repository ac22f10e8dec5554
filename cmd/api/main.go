package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/edu-platform/internal/api/http"
	"github.com/spec-kit/edu-platform/internal/api/http/handlers"
	"github.com/spec-kit/edu-platform/internal/auth"
	"github.com/spec-kit/edu-platform/internal/config"
	"github.com/spec-kit/edu-platform/internal/events"
	"github.com/spec-kit/edu-platform/internal/observability"
	"github.com/spec-kit/edu-platform/internal/persistence"
	"github.com/spec-kit/edu-platform/internal/repository"
	"github.com/spec-kit/edu-platform/internal/service"
	"github.com/spec-kit/edu-platform/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	schoolRepo := repository.NewSchoolRepository(pool)
	branchRepo := repository.NewBranchRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	permissionRepo := repository.NewPermissionRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, userRepo)
	userService := service.NewUserService(cfg.Auth.BcryptCost, service.UserDependencies{
		UserRepo:       userRepo,
		AssignmentRepo: assignmentRepo,
		ProfileRepo:    profileRepo,
		Dispatcher:     dispatcher,
	})
	schoolService := service.NewSchoolService(schoolRepo, branchRepo, dispatcher)
	roleService := service.NewRoleService(service.RoleDependencies{
		RoleRepo:       roleRepo,
		PermissionRepo: permissionRepo,
		AssignmentRepo: assignmentRepo,
		Dispatcher:     dispatcher,
	})
	auditService := service.NewAuditService(dispatcher, logger)
	worker.StartAuditWorker(auditService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Root:           handlers.NewRootHandler(),
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, userService),
		Users:          handlers.NewUsersHandler(userService),
		Schools:        handlers.NewSchoolsHandler(schoolService),
		Roles:          handlers.NewRolesHandler(roleService),
		AuthMiddleware: authMiddleware,
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
