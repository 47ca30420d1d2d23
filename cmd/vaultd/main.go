package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PodVault/internal/api"
	"PodVault/internal/config"
	"PodVault/internal/factory"
	"PodVault/internal/faucet"
	"PodVault/internal/model"
	"PodVault/internal/notifier"
	"PodVault/internal/pod"
	"PodVault/internal/recorder"
	"PodVault/internal/scheduler"
	"PodVault/internal/token"
	"PodVault/internal/tokendrop"
	"PodVault/internal/yieldsource"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] PodVault starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Token books
	decimals := cfg.Pod.Decimals
	underlying := token.NewBook(model.Asset(cfg.Assets.Underlying), decimals)
	ticket := token.NewBook(model.Asset(cfg.Assets.Ticket), decimals)
	reward := token.NewBook(model.Asset(cfg.Assets.Reward), decimals)
	shares := token.NewBook(model.Asset(cfg.Assets.Share), decimals)

	// Yield source
	var source yieldsource.Source
	if cfg.YieldSource.Mode == "http" {
		source = yieldsource.NewHTTPSource(cfg.YieldSource.BaseURL, cfg.YieldSource.APIKey, cfg.Proxy,
			underlying, ticket, "yield-source")
	} else {
		source = yieldsource.NewLocal(underlying, ticket, "yield-source", cfg.YieldSource.ExitFeeBps)
	}
	log.Printf("[INFO] yield source: %s", source.Name())

	// Reward faucet
	var fct faucet.Faucet
	if cfg.Faucet.Mode == "http" {
		fct = faucet.NewHTTPFaucet(cfg.Faucet.BaseURL, cfg.Faucet.APIKey, cfg.Proxy, reward, "faucet")
	} else {
		fct = faucet.NewLocal(reward, "faucet")
	}
	log.Printf("[INFO] faucet: %s", fct.Name())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Create the pod + token drop pair
	fac, err := factory.New(tokendrop.New)
	if err != nil {
		log.Fatalf("[FATAL] init factory: %v", err)
	}
	p, drop, err := fac.CreatePod(pod.Config{
		Account:    cfg.Pod.Account,
		Owner:      cfg.Pod.Owner,
		Manager:    cfg.Pod.Manager,
		Shares:     shares,
		Underlying: underlying,
		Ticket:     ticket,
		Reward:     reward,
		Source:     source,
		Faucet:     fct,
		Recorder:   rec,
	})
	if err != nil {
		log.Fatalf("[FATAL] create pod: %v", err)
	}
	if drop != nil {
		log.Printf("[INFO] token drop attached: measure=%s asset=%s", cfg.Assets.Share, cfg.Assets.Reward)
	}

	// Webhook notifier
	wn := notifier.NewWebhookNotifier(cfg.Notifier.WebhookURL, cfg.Proxy)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, p, wn)
	if err := sched.RegisterAll(cfg.Schedule.BatchCron, cfg.Schedule.DropCron, cfg.Schedule.StatusCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// HTTP API
	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           api.NewServer(p).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[INFO] HTTP API listening on %s", cfg.Server.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	// Optional: commit float immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing batch task now")
		go sched.RunBatchNow()
	}

	log.Println("[INFO] PodVault is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] PodVault stopped")
}
