package router

import (
	"net/http"

	feedbacksvc "estatebook-backend/internal/application/feedback"
	projectsvc "estatebook-backend/internal/application/projects"
	reportsvc "estatebook-backend/internal/application/reports"
	"estatebook-backend/internal/config"
	"estatebook-backend/internal/infrastructure/database"
	authhandler "estatebook-backend/internal/interfaces/handlers/auth"
	feedbackhandler "estatebook-backend/internal/interfaces/handlers/feedback"
	healthhandler "estatebook-backend/internal/interfaces/handlers/health"
	projecthandler "estatebook-backend/internal/interfaces/handlers/projects"
	reporthandler "estatebook-backend/internal/interfaces/handlers/reports"
	"estatebook-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionHandler, redisClient, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	rdb := redisClient
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             nil,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.JSON)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	ah := &authhandler.Handlers{Rdb: rdb, Config: sessionCfg}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/anonymous", ah.Anonymous)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db != nil && rdb != nil {
		// Projects
		ps := &projectsvc.Service{DB: db, Rdb: rdb}
		ph := &projecthandler.Handlers{Service: ps}
		pg := app.Group("/api/v1/projects", middleware.RequireAuth())
		pg.Post("/create-project", ph.CreateProject)
		pg.Get("/list-projects", ph.ListProjects)
		pg.Get("/view-project/:id", ph.ViewProject)
		pg.Put("/save-project/:id", ph.SaveProject)
		pg.Delete("/delete-project/:id", ph.DeleteProject)
		pg.Get("/subscribe", ph.Subscribe)

		// Reports
		rs := &reportsvc.Service{DB: db}
		rh := &reporthandler.Handlers{Service: rs}
		rg := app.Group("/api/v1/reports", middleware.RequireAuth())
		rg.Post("/summary", rh.Summary)
		rg.Get("/export-project/:id", rh.ExportProject)

		// Feedback
		fs := &feedbacksvc.Service{DB: db}
		fh := &feedbackhandler.Handlers{Service: fs}
		fg := app.Group("/api/v1/feedback", middleware.RequireAuth())
		fg.Post("/create-feedback", fh.CreateFeedback)
		fg.Get("/list-feedbacks", fh.ListFeedbacks)
		fg.Delete("/delete-feedback/:id", fh.DeleteFeedback)
	}

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
