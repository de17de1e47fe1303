package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/appconfig"
	appconfigpg "github.com/pagecraft/pagecraft/internal/appconfig/postgres"
	"github.com/pagecraft/pagecraft/internal/auth"
	authpg "github.com/pagecraft/pagecraft/internal/auth/postgres"
	"github.com/pagecraft/pagecraft/internal/blog"
	blogpg "github.com/pagecraft/pagecraft/internal/blog/postgres"
	"github.com/pagecraft/pagecraft/internal/company"
	companypg "github.com/pagecraft/pagecraft/internal/company/postgres"
	"github.com/pagecraft/pagecraft/internal/contact"
	contactpg "github.com/pagecraft/pagecraft/internal/contact/postgres"
	"github.com/pagecraft/pagecraft/internal/convert"
	convertpg "github.com/pagecraft/pagecraft/internal/convert/postgres"
	"github.com/pagecraft/pagecraft/internal/converter"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
	"github.com/pagecraft/pagecraft/internal/group"
	grouppg "github.com/pagecraft/pagecraft/internal/group/postgres"
	"github.com/pagecraft/pagecraft/internal/mail"
	mailpg "github.com/pagecraft/pagecraft/internal/mail/postgres"
	"github.com/pagecraft/pagecraft/internal/storage"
	"github.com/pagecraft/pagecraft/internal/storage/gcs"
	storagepg "github.com/pagecraft/pagecraft/internal/storage/postgres"
	"github.com/pagecraft/pagecraft/internal/storage/s3"
	"github.com/pagecraft/pagecraft/internal/template"
	templatepg "github.com/pagecraft/pagecraft/internal/template/postgres"
	"github.com/pagecraft/pagecraft/internal/transport/rest"
	"github.com/pagecraft/pagecraft/internal/user"
	userpg "github.com/pagecraft/pagecraft/internal/user/postgres"
	"github.com/pagecraft/pagecraft/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	DB         *sqlx.DB
	Router     *chi.Mux
	Dispatcher *mail.Dispatcher
	Logger     *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		deps.Dispatcher.Shutdown()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	dispatcher := mail.NewDispatcher(mail.DispatcherConfig{
		MaxWorkers:   config.Mail.MaxWorkers,
		JobQueueSize: config.Mail.JobQueueSize,
		MaxRetries:   config.Mail.MaxRetries,
		RetryBackoff: config.Mail.RetryBackoff,
	}, mailpg.NewRepository(gormDB), mail.NewSMTPSender(mail.SMTPConfig{
		Host:     config.Mail.SMTPHost,
		Port:     config.Mail.SMTPPort,
		Username: config.Mail.SMTPUser,
		Password: config.Mail.SMTPPassword,
	}), log)

	tokens := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.ActivationSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	authService := auth.NewService(authpg.NewRepository(gormDB), tokens, dispatcher, log, config.Security.BCryptCost)
	companyService := company.NewService(companypg.NewRepository(gormDB), dispatcher, tokens, log)
	userService := user.NewService(userpg.NewRepository(gormDB), log)
	groupService := group.NewService(grouppg.NewRepository(gormDB), log)

	uploaders := storage.UploaderRegistry{
		datamodel.StorageTypeAWS:    s3.NewUploader(),
		datamodel.StorageTypeGoogle: gcs.NewUploader(),
	}
	storageService := storage.NewService(storagepg.NewRepository(gormDB), uploaders, log)

	converterClient := converter.NewClient(converter.Config{
		ServiceURL: config.Converter.ServiceURL,
		APIKey:     config.Converter.APIKey,
		Timeout:    config.Converter.Timeout,
	}, log)
	templateService := template.NewService(templatepg.NewRepository(gormDB), converterClient, log)

	blogService := blog.NewService(blogpg.NewRepository(gormDB), log)
	contactService := contact.NewService(contactpg.NewRepository(gormDB), log)
	appconfigService := appconfig.NewService(appconfigpg.NewRepository(gormDB), log)
	convertService := convert.NewService(convertpg.NewRepository(gormDB), log)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, rest.Handlers{
		Auth:      auth.NewHandler(authService),
		User:      user.NewHandler(userService),
		Company:   company.NewHandler(companyService),
		Group:     group.NewHandler(groupService),
		Storage:   storage.NewHandler(storageService),
		Template:  template.NewHandler(templateService),
		Blog:      blog.NewHandler(blogService),
		Contact:   contact.NewHandler(contactService),
		AppConfig: appconfig.NewHandler(appconfigService),
		Convert:   convert.NewHandler(convertService),
	}, config.Server.AllowedOrigins, log)

	return &Dependencies{
		Config:     config,
		DB:         db,
		Router:     router,
		Dispatcher: dispatcher,
		Logger:     log,
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers the ORM over the already-pooled *sql.DB so both query
// paths share one connection pool.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpostgres.New(gormpostgres.Config{
		Conn: db.DB,
	}), &gorm.Config{})
}
