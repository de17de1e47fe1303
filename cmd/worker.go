package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagecraft/pagecraft/internal/mail"
	mailpg "github.com/pagecraft/pagecraft/internal/mail/postgres"
	"github.com/pagecraft/pagecraft/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker pools",
	Long:  `Start and manage background worker pools.`,
}

var mailWorkerCmd = &cobra.Command{
	Use:   "mail",
	Short: "Start mail worker pool",
	Long:  `Start the email dispatcher worker pool for delivering queued mail`,
	Run: func(cmd *cobra.Command, args []string) {
		startMailWorker()
	},
}

var (
	maxWorkers   int
	jobQueueSize int
)

func startMailWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	sqlxDB, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init db: %v\n", err)
		os.Exit(1)
	}
	gormDB, err := initGorm(sqlxDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init orm: %v\n", err)
		os.Exit(1)
	}

	dispatcherConfig := mail.DispatcherConfig{
		MaxWorkers:   getIntFlag(maxWorkers, config.Mail.MaxWorkers),
		JobQueueSize: getIntFlag(jobQueueSize, config.Mail.JobQueueSize),
		MaxRetries:   config.Mail.MaxRetries,
		RetryBackoff: config.Mail.RetryBackoff,
	}

	log.Info("starting mail worker",
		"max_workers", dispatcherConfig.MaxWorkers,
		"job_queue_size", dispatcherConfig.JobQueueSize)

	dispatcher := mail.NewDispatcher(dispatcherConfig, mailpg.NewRepository(gormDB), mail.NewSMTPSender(mail.SMTPConfig{
		Host:     config.Mail.SMTPHost,
		Port:     config.Mail.SMTPPort,
		Username: config.Mail.SMTPUser,
		Password: config.Mail.SMTPPassword,
	}), log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info("mail worker is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	log.Info("received signal, shutting down mail worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		dispatcher.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		log.Info("mail worker pool shutdown complete")
	case <-ctx.Done():
		log.Warn("shutdown timeout reached, forcing exit")
	}

	_ = sqlxDB.Close()
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	mailWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	mailWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")

	workerCmd.AddCommand(mailWorkerCmd)
}
