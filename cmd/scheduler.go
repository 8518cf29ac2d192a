package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/contractor-management/internal/core/events"
	"github.com/frahmantamala/contractor-management/internal/notification"
	notificationPostgres "github.com/frahmantamala/contractor-management/internal/notification/postgres"
	"github.com/frahmantamala/contractor-management/internal/payroll"
	payrollPostgres "github.com/frahmantamala/contractor-management/internal/payroll/postgres"
	"github.com/frahmantamala/contractor-management/pkg/logger"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run scheduled jobs",
	Long:  `Run recurring jobs like the daily salary sweep.`,
}

var salarySweepCmd = &cobra.Command{
	Use:   "salary",
	Short: "Run the daily salary sweep",
	Long: `Create pending salary payment requests for every artisan whose
configured payment day falls due today. Safe to re-run; at most one
request is created per artisan per calendar month.`,
	Run: func(cmd *cobra.Command, args []string) {
		runSalarySweep()
	},
}

var (
	sweepDate string
	sweepLoop bool
)

func runSalarySweep() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	gormDB, err := initGorm(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize gorm: %v\n", err)
		os.Exit(1)
	}

	eventBus := events.NewEventBus(lg)
	notificationRepo := notificationPostgres.NewNotificationRepository(gormDB)
	notificationService := notification.NewService(notificationRepo, lg)
	notificationService.RegisterSubscribers(eventBus)

	clock := payroll.SystemClock()
	if sweepDate != "" {
		pinned, err := time.Parse("2006-01-02", sweepDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid --date value %q, expected YYYY-MM-DD\n", sweepDate)
			os.Exit(1)
		}
		clock = payroll.FixedClock(pinned)
	}

	repo := payrollPostgres.NewPayrollRepository(gormDB)
	scheduler := payroll.NewScheduler(repo, eventBus, clock, lg)

	ctx := context.Background()

	if !sweepLoop {
		if _, err := scheduler.RunDailySweep(ctx); err != nil {
			lg.Error("salary sweep failed", "error", err)
			os.Exit(1)
		}
		// let async notification handlers finish before the process exits
		eventBus.Drain()
		return
	}

	// loop mode: first run at the configured hour, then once per interval
	interval := config.Scheduler.SweepInterval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	firstRun := payroll.NextSweepTime(clock.Now(), config.Scheduler.SweepHour)
	lg.Info("salary sweep loop started",
		"first_run", firstRun,
		"interval", interval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	timer := time.NewTimer(time.Until(firstRun))
	defer timer.Stop()

	select {
	case <-timer.C:
		if _, err := scheduler.RunDailySweep(ctx); err != nil {
			lg.Error("salary sweep failed", "error", err)
		}
	case sig := <-sigChan:
		lg.Info("received signal, stopping salary sweep loop", "signal", sig)
		eventBus.Drain()
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := scheduler.RunDailySweep(ctx); err != nil {
				lg.Error("salary sweep failed", "error", err)
			}
		case sig := <-sigChan:
			lg.Info("received signal, stopping salary sweep loop", "signal", sig)
			eventBus.Drain()
			return
		}
	}
}

func init() {
	salarySweepCmd.Flags().StringVar(&sweepDate, "date", "", "Run the sweep as if today were this date (YYYY-MM-DD)")
	salarySweepCmd.Flags().BoolVar(&sweepLoop, "loop", false, "Keep running, sweeping once per configured interval")

	schedulerCmd.AddCommand(salarySweepCmd)

	rootCmd.AddCommand(schedulerCmd)
}
