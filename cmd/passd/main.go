package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/walletpass/passd/internal/blob"
	"github.com/walletpass/passd/internal/config"
	"github.com/walletpass/passd/internal/database"
	"github.com/walletpass/passd/internal/dispatch"
	"github.com/walletpass/passd/internal/logger"
	"github.com/walletpass/passd/internal/mailer"
	"github.com/walletpass/passd/internal/passkit"
	"github.com/walletpass/passd/internal/secrets"
	"github.com/walletpass/passd/internal/server"
	"github.com/walletpass/passd/internal/server/handlers"
	"github.com/walletpass/passd/internal/signing"
	"github.com/walletpass/passd/internal/version"
	"github.com/walletpass/passd/internal/webservice"
)

//	@title			passd
//	@description	passd serves wallet passes to devices: registration, conditional
//	@description	retrieval of signed pass bundles, and update propagation via
//	@description	background push hints.
//	@description
//	@description	## Common Error Responses
//	@description	All endpoints may return:
//	@description	- `413` Request body exceeds size limit
//	@description	- `429` Rate limit exceeded
//	@description	- `500` Internal server error
//	@description
//	@description	## Authentication
//	@description	The device-facing /v1 endpoints authenticate with the per-pass
//	@description	credential issued at creation time, sent as
//	@description	`Authorization: ApplePass <token>`. Authorization failures are
//	@description	always an identical bare 401.
//	@description
//	@description	The /admin endpoints carry no authentication and must only be
//	@description	exposed on a trusted network.
//	@description
//	@license.name	MIT

//	@tag.name			Passes
//	@tag.description	Device-facing pass retrieval and update polling

//	@tag.name			Registrations
//	@tag.description	Device registration lifecycle

//	@tag.name			Admin
//	@tag.description	Operator endpoints for issuing and updating passes

//	@tag.name			Health
//	@tag.description	Liveness, readiness and build information

func main() {
	cmd := &cobra.Command{
		Use:   "passd",
		Short: "Wallet pass distribution server",
		Long:  `passd issues wallet passes, serves them to registered devices, and propagates updates`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	v := version.Get()
	cmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewServerConfig()
	if err != nil {
		log.Printf("failed to load configuration: %v", err.Error())
		os.Exit(1)
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	appLogger.Info("Configuration loaded",
		slog.String("ENVIRONMENT", cfg.Environment),
		slog.String("HOST", cfg.Host),
		slog.Int("PORT", cfg.Port),
		slog.String("LOG_LEVEL", cfg.LogLevel),
		slog.String("PASS_TYPE_IDENTIFIER", cfg.PassTypeIdentifier),
		slog.String("WEB_SERVICE_URL", cfg.WebServiceURL),
		slog.Bool("PUSH_ENABLED", cfg.PushEnabled),
	)

	dbCtx, dbCancel := context.WithTimeout(context.Background(), cfg.DatabasePingTimeout)
	defer dbCancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		appLogger.Error("Failed to parse database URL", slog.String("error", err.Error()))
		os.Exit(1)
	}

	poolConfig.MaxConns = cfg.DBMaxConnections
	poolConfig.MinConns = cfg.DBMinConnections
	poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = cfg.DBConnectTimeout

	pool, err := pgxpool.NewWithConfig(dbCtx, poolConfig)
	if err != nil {
		appLogger.Error("Unable to create connection pool", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err = pool.Ping(dbCtx); err != nil {
		appLogger.Error("Error pinging database via pool", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appLogger.Info("connected to PostgreSQL")

	if err := database.Migrate(dbCtx, pool); err != nil {
		appLogger.Error("Database migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	queries := database.New(pool)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var awsCfg *awsConfigHolder
	loadAWS := func() (*awsConfigHolder, error) {
		if awsCfg != nil {
			return awsCfg, nil
		}
		loaded, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		awsCfg = &awsConfigHolder{cfg: loaded}
		return awsCfg, nil
	}

	// Blob storage backs the signed bundles and the template assets.
	var passBlobs, templateBlobs blob.Store
	if cfg.LocalBlobDir != "" {
		passBlobs, err = blob.NewFSStore(filepath.Join(cfg.LocalBlobDir, "passes"))
		if err == nil {
			templateBlobs, err = blob.NewFSStore(filepath.Join(cfg.LocalBlobDir, "templates"))
		}
		if err != nil {
			appLogger.Error("Failed to open local blob storage", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		holder, err := loadAWS()
		if err != nil {
			appLogger.Error("AWS configuration error", slog.String("error", err.Error()))
			os.Exit(1)
		}
		s3Client := s3.NewFromConfig(holder.cfg)
		passBlobs = blob.NewS3Store(s3Client, cfg.PassBucket)
		templateBlobs = blob.NewS3Store(s3Client, cfg.TemplateBucket)
	}

	var secretStore secrets.Store
	if cfg.LocalSecretsDir != "" {
		secretStore = secrets.NewDirStore(cfg.LocalSecretsDir)
	} else {
		holder, err := loadAWS()
		if err != nil {
			appLogger.Error("AWS configuration error", slog.String("error", err.Error()))
			os.Exit(1)
		}
		secretStore = secrets.NewSSMStore(ssm.NewFromConfig(holder.cfg))
	}

	gateway, err := signing.LoadGateway(ctx, secretStore, signing.MaterialNames{
		Cert:         cfg.SigningCertSecretName,
		Password:     cfg.SigningPassSecretName,
		Intermediate: cfg.WWDRCertSecretName,
	})
	if err != nil {
		appLogger.Error("Failed to load signing material", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var dispatcher passkit.Dispatcher
	if cfg.PushEnabled {
		apnsKey, err := secretStore.Get(ctx, cfg.APNSKeySecretName)
		if err != nil {
			appLogger.Error("Failed to load APNs provider key", slog.String("error", err.Error()))
			os.Exit(1)
		}
		dispatcher, err = dispatch.NewAPNSDispatcher(dispatch.APNSConfig{
			Host:   cfg.APNSHost,
			KeyID:  cfg.APNSKeyID,
			TeamID: cfg.APNSTeamID,
			Key:    apnsKey,
		})
		if err != nil {
			appLogger.Error("Failed to create APNs dispatcher", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		dispatcher = dispatch.NewLogDispatcher(appLogger)
	}

	var mailQueue mailer.Queue
	if cfg.MailQueueURL != "" {
		holder, err := loadAWS()
		if err != nil {
			appLogger.Error("AWS configuration error", slog.String("error", err.Error()))
			os.Exit(1)
		}
		mailQueue = mailer.NewSQSQueue(sqs.NewFromConfig(holder.cfg), cfg.MailQueueURL, cfg.MailPollWaitSeconds)
	} else {
		appLogger.Warn("MAIL_QUEUE_URL not set, mail jobs are queued in memory")
		mailQueue = mailer.NewMemoryQueue()
	}

	templates := blob.NewTemplateLibrary(templateBlobs, cfg.TemplatePrefix, cfg.TemplateZipKey)
	bundles := blob.NewBundleArchive(passBlobs)

	coordinator := passkit.NewCoordinator(passkit.CoordinatorConfig{
		Passes:        queries,
		Registrations: queries,
		Bundles:       bundles,
		Templates:     templates,
		Signer:        gateway,
		Dispatcher:    dispatcher,
		PassTypeID:    cfg.PassTypeIdentifier,
		WebServiceURL: cfg.WebServiceURL,
		Concurrency:   cfg.PushConcurrency,
		Logger:        appLogger,
	})

	appLogger.Info("Starting server", slog.String("version", version.Get().Version))

	srv := server.NewServer(pool, cfg, appLogger, server.Deps{
		Protocol:  webservice.NewService(queries, queries, bundles),
		Admin:     handlers.NewAdminHandler(coordinator, queries, mailQueue),
		Templates: handlers.NewTemplateHandler(templates),
		Queries:   queries,
	})

	defer srv.DatabaseShutdown()

	if err := srv.Start(ctx); err != nil {
		appLogger.Error("Server error", slog.String("error", err.Error()))
		return err
	}

	appLogger.Info("server shutdown complete")
	return nil
}

type awsConfigHolder struct {
	cfg aws.Config
}
