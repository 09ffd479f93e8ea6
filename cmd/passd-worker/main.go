package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/walletpass/passd/internal/blob"
	"github.com/walletpass/passd/internal/config"
	"github.com/walletpass/passd/internal/database"
	"github.com/walletpass/passd/internal/logger"
	"github.com/walletpass/passd/internal/mailer"
	"github.com/walletpass/passd/internal/version"
)

func main() {
	cmd := &cobra.Command{
		Use:   "passd-worker",
		Short: "Pass download mail worker",
		Long:  `passd-worker consumes queued mail jobs and sends pass download mails with presigned bundle links`,
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

	if cfg.MailQueueURL == "" {
		appLogger.Error("MAIL_QUEUE_URL is required")
		os.Exit(1)
	}
	if cfg.MailFromAddress == "" {
		appLogger.Error("FROM_EMAIL is required")
		os.Exit(1)
	}
	if cfg.PassBucket == "" {
		appLogger.Error("BUCKET_PASSES is required, presigned links need S3 storage")
		os.Exit(1)
	}

	dbCtx, dbCancel := context.WithTimeout(context.Background(), cfg.DatabasePingTimeout)
	defer dbCancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		appLogger.Error("Failed to parse database URL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	poolConfig.MaxConns = cfg.DBMaxConnections
	poolConfig.ConnConfig.ConnectTimeout = cfg.DBConnectTimeout

	pool, err := pgxpool.NewWithConfig(dbCtx, poolConfig)
	if err != nil {
		appLogger.Error("Unable to create connection pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err = pool.Ping(dbCtx); err != nil {
		appLogger.Error("Error pinging database via pool", slog.String("error", err.Error()))
		os.Exit(1)
	}

	queries := database.New(pool)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		appLogger.Error("AWS configuration error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	bundles := blob.NewBundleArchive(blob.NewS3Store(s3.NewFromConfig(awsCfg), cfg.PassBucket))
	queue := mailer.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.MailQueueURL, cfg.MailPollWaitSeconds)
	sender := mailer.NewSESSender(sesv2.NewFromConfig(awsCfg), cfg.MailFromAddress)

	worker := mailer.NewWorker(queue, sender, bundles, queries, cfg.MailLinkTTL, appLogger)

	appLogger.Info("mail worker started",
		slog.String("version", version.Get().Version),
		slog.String("queue", cfg.MailQueueURL))

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("mail worker error", slog.String("error", err.Error()))
		return err
	}

	appLogger.Info("mail worker shutdown complete")
	return nil
}
