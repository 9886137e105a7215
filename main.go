// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cinema-pegasus/cmd"
	"cinema-pegasus/internal/data/repository"
	"cinema-pegasus/internal/usecase"
	"cinema-pegasus/internal/wire"
	"cinema-pegasus/pkg/cache"
	"cinema-pegasus/pkg/database"
	"cinema-pegasus/pkg/events"
	"cinema-pegasus/pkg/mailer"
	"cinema-pegasus/pkg/scheduler"
	"cinema-pegasus/pkg/storage"
	"cinema-pegasus/pkg/ticketpdf"
	"cinema-pegasus/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	location, err := time.LoadLocation(config.Ticket.Timezone)
	if err != nil {
		logger.Warn("Unknown ticket timezone, using UTC", zap.String("timezone", config.Ticket.Timezone), zap.Error(err))
		location = time.UTC
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// PDF storage
	var uploader storage.Uploader
	var filesDir string
	if config.Cloudinary.Enabled() {
		uploader, err = storage.NewCloudinaryUploader(
			config.Cloudinary.CloudName,
			config.Cloudinary.APIKey,
			config.Cloudinary.APISecret,
			config.Cloudinary.Folder,
			logger,
		)
		if err != nil {
			logger.Fatal("Failed to init Cloudinary", zap.Error(err))
		}
	} else {
		local, err := storage.NewLocalUploader(config.Storage.LocalDir, config.Storage.PublicURL, logger)
		if err != nil {
			logger.Fatal("Failed to init local storage", zap.Error(err))
		}
		logger.Warn("Cloudinary not configured, storing PDFs on local disk", zap.String("dir", local.Dir()))
		uploader = local
		filesDir = local.Dir()
	}

	// Film catalog cache
	var filmCache cache.Cache = cache.Noop{}
	if config.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, config.Redis.Addr, config.Redis.Password, config.Redis.DB)
		if err != nil {
			logger.Warn("Redis unavailable, cache disabled", zap.Error(err))
		} else {
			defer func() { _ = client.Close() }()
			ttl := time.Duration(config.Redis.TTLSeconds) * time.Second
			filmCache = cache.NewRedisCache(client, config.App.Name+":", ttl, logger)
		}
	}

	// Order side effects
	var mail mailer.Mailer = mailer.Noop{}
	if config.Email.Host != "" {
		mail = mailer.NewSMTPMailer(config.Email.Host, config.Email.Port, config.Email.User,
			config.Email.Password, config.Email.From, logger)
	}

	var publisher events.Publisher = events.Noop{}
	if config.Broker.URL != "" {
		publisher = events.NewAMQPPublisher(config.Broker.URL, config.Broker.Queue, logger)
	}
	defer func() { _ = publisher.Close() }()

	fetchTimeout := time.Duration(config.Ticket.ImageFetchTimeoutSeconds) * time.Second
	renderer := ticketpdf.NewRenderer(ticketpdf.NewHTTPImageFetcher(fetchTimeout), config.Ticket.LogoURL, location, logger)

	background := usecase.NewBackground()

	// Wire all dependencies
	app := wire.Wiring(repos, config, wire.Options{
		Deps: usecase.Deps{
			Cache: filmCache,
			Order: usecase.OrderDeps{
				Renderer:   renderer,
				Uploader:   uploader,
				Mailer:     mail,
				Publisher:  publisher,
				Background: background,
				Location:   location,
			},
		},
		FilesDir: filesDir,
	}, logger)

	// Background jobs
	jobs, err := scheduler.New(config.Scheduler.SessionCleanupCron, location, repos.Session, logger)
	if err != nil {
		logger.Fatal("Failed to init scheduler", zap.Error(err))
	}
	jobs.Start()
	defer func() { _ = jobs.Shutdown() }()

	// Start server
	timeout := time.Duration(config.App.RequestTimeoutSeconds) * time.Second
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, timeout, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}

	// Let pending confirmation mails finish before the pool closes
	drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := background.Wait(drainCtx); err != nil {
		logger.Warn("Background jobs still running at shutdown", zap.Error(err))
	}
}
