package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmhodges/clock"

	"notekeeper/internal/api"
	"notekeeper/internal/config"
	"notekeeper/internal/mailer"
	"notekeeper/internal/repository"
	"notekeeper/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	noteRepo := repository.NewNoteRepository(db)
	jobRepo := repository.NewJobRepository(db)

	var notifier mailer.Notifier = mailer.LogNotifier{}
	if cfg.Mail.Server != "" {
		notifier = mailer.NewSMTPMailer(cfg.Mail.Server, cfg.Mail.Port,
			cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.UseTLS, cfg.Mail.Sender)
	} else {
		log.Println("MAIL_SERVER not set, reminders will be logged instead of emailed")
	}

	reminderSvc := service.NewReminderService(noteRepo, notifier, cfg.Lookback)
	scheduler := service.NewSchedulerService(jobRepo, reminderSvc.Dispatch, cfg.Lookback, clock.New())
	noteSvc := service.NewNoteService(noteRepo, scheduler)

	// Catch up on reminders that matured while the process was down,
	// before accepting any traffic.
	if err := reminderSvc.SweepMissed(ctx, time.Now().UTC()); err != nil {
		log.Printf("recovery sweep: %v", err)
	}

	if err := scheduler.Start(cfg.PollInterval); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	defer scheduler.Stop()

	router := api.NewRouter(api.NewHandler(noteSvc))
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Printf("Notekeeper listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("Shutdown complete.")
}
