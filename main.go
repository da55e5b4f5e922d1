package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/HSouheill/shop_backend/config"
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/HSouheill/shop_backend/lock"
	"github.com/HSouheill/shop_backend/metrics"
	"github.com/HSouheill/shop_backend/middleware"
	"github.com/HSouheill/shop_backend/repositories"
	"github.com/HSouheill/shop_backend/repositories/memory"
	"github.com/HSouheill/shop_backend/routes"
	"github.com/HSouheill/shop_backend/services"
	"github.com/HSouheill/shop_backend/utils"
	"github.com/HSouheill/shop_backend/websocket"
)

// stores is the persistence layer selected by STORE_DRIVER.
type stores struct {
	users      services.UserStore
	categories services.CategoryStore
	products   services.ProductStore
	carts      services.CartStore
	orders     services.OrderStore
	expenses   services.ExpenseStore
	ping       controllers.Pinger
	close      func(ctx context.Context)
}

func openStores(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*stores, error) {
	if cfg.StoreDriver == "memory" {
		log.Warn("Using in-memory store, data is lost on restart")
		return &stores{
			users:      memory.NewUserRepository(),
			categories: memory.NewCategoryRepository(),
			products:   memory.NewProductRepository(),
			carts:      memory.NewCartRepository(),
			orders:     memory.NewOrderRepository(),
			expenses:   memory.NewExpenseRepository(),
			close:      func(context.Context) {},
		}, nil
	}

	client, err := config.ConnectDB(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Mongo.DBName)
	if err := repositories.EnsureIndexes(ctx, db, log); err != nil {
		disconnect(ctx, client, log)
		return nil, err
	}
	return &stores{
		users:      repositories.NewUserRepository(db),
		categories: repositories.NewCategoryRepository(db),
		products:   repositories.NewProductRepository(db),
		carts:      repositories.NewCartRepository(db),
		orders:     repositories.NewOrderRepository(db),
		expenses:   repositories.NewExpenseRepository(db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: func(ctx context.Context) {
			disconnect(ctx, client, log)
		},
	}, nil
}

func disconnect(ctx context.Context, client *mongo.Client, log logrus.FieldLogger) {
	if err := client.Disconnect(ctx); err != nil {
		log.WithError(err).Warn("MongoDB disconnect failed")
	}
}

func main() {
	cfg := config.MustLoad()
	log := config.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to open store")
	}

	// Cart locks are shared across instances through Redis when it is
	// reachable.
	var locker lock.Locker = lock.NewLocal()
	redisClient := config.ConnectRedis(ctx, cfg, log)
	if redisClient != nil {
		locker = lock.NewRedis(redisClient, log)
	}

	storage := utils.NewStorage(cfg.UploadDir, cfg.PrivateDir)
	if err := storage.InitializeStorage(); err != nil {
		log.WithError(err).Fatal("Failed to initialize upload storage")
	}

	// Create WebSocket hub
	hub := websocket.NewHub(log)
	go hub.Run(ctx)

	var mailer services.Mailer
	if cfg.SMTP.Host != "" {
		mailer = utils.NewMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.From)
	} else {
		log.Info("SMTP_HOST not set, order emails disabled")
	}

	userService := services.NewUserService(st.users, log)
	categoryService := services.NewCategoryService(st.categories, log)
	productService := services.NewProductService(st.products, st.categories, log)
	cartService := services.NewCartService(st.carts, st.products, locker, log)
	notificationService := services.NewNotificationService(hub, mailer, st.users, log)
	orderService := services.NewOrderService(st.orders, st.users, st.products, cartService, notificationService, log)
	expenseService := services.NewExpenseService(st.expenses, log)
	dashboardService := services.NewDashboardService(userService, productService, orderService)

	jwt := middleware.NewJWT(cfg.JWTSecret, cfg.JWTTTL, log)
	authService := services.NewAuthService(userService, jwt, log)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if _, err := userService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.WithError(err).Fatal("Failed to seed admin account")
		}
	}

	// Create a new Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = controllers.NewValidator()
	e.HTTPErrorHandler = controllers.HTTPErrorHandler(log)

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(log)
	go rateLimiter.RunCleanup(ctx, time.Minute)

	// Middleware
	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestLogger(log))
	e.Use(metrics.Middleware())
	e.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	e.Use(echoMiddleware.Secure())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		ConnectSources: cfg.CSPConnectSources,
	}))
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.ContentTypeGuard())
	if !cfg.IsDevelopment() {
		e.Use(httpsRedirect())
	}

	ctrl := routes.Controllers{
		Health:       controllers.NewHealthController(st.ping, log),
		Auth:         controllers.NewAuthController(authService, log),
		User:         controllers.NewUserController(userService, log),
		Category:     controllers.NewCategoryController(categoryService, log),
		Product:      controllers.NewProductController(productService, storage, log),
		Cart:         controllers.NewCartController(cartService, log),
		Order:        controllers.NewOrderController(orderService, log),
		Expense:      controllers.NewExpenseController(expenseService, storage, log),
		Admin:        controllers.NewAdminController(dashboardService, log),
		Notification: controllers.NewNotificationController(hub, log),
	}
	routes.SetupRoutes(e, ctrl, routes.NewGates(jwt, userService.IsActive), storage.BaseDir())

	go func() {
		log.WithField("port", cfg.Port).Info("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP shutdown incomplete")
	}
	notificationService.Wait()
	if redisClient != nil {
		redisClient.Close()
	}
	st.close(shutdownCtx)
}

func httpsRedirect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Forwarded-Proto") == "http" {
				return c.Redirect(http.StatusMovedPermanently, "https://"+c.Request().Host+c.Request().RequestURI)
			}
			return next(c)
		}
	}
}
