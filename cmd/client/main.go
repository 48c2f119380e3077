package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"peleadepeluches/client/internal/net/ws"
	"peleadepeluches/client/internal/sim"
	"peleadepeluches/client/internal/telemetry"
)

func main() {
	var (
		configPath string
		serverURL  string
		stageMode  string
		localID    string
		verbose    bool
	)
	flag.StringVar(&configPath, "config", "", "path to client.ini")
	flag.StringVar(&serverURL, "url", "", "authority websocket URL (overrides config)")
	flag.StringVar(&stageMode, "stage", "", "stage geometry: side-view or arena (overrides config)")
	flag.StringVar(&localID, "id", "local-test", "locally predicted character id")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := sim.LoadConfig(configPath)
	if err != nil {
		log.WithError(err).Warn("config load failed, using defaults")
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if stageMode != "" {
		cfg.StageMode = stageMode
	}

	logger := telemetry.WrapLogrus(log)
	metrics := telemetry.NewCounters()

	world := sim.NewWorld(cfg, sim.Deps{Logger: logger, Metrics: metrics})
	world.AddCharacter(sim.NewCharacter(localID, 1, "#e63946", 0))
	world.SetLocalCharacter(localID)

	reconciler := sim.NewReconciler(world)

	var messages <-chan any
	var sender sim.IntentSender
	session, err := ws.Dial(cfg.ServerURL, logger, metrics)
	if err != nil {
		// Offline local-test mode: prediction runs alone, nothing to
		// reconcile against.
		log.WithError(err).Warn("authority unreachable, running local-only")
	} else {
		defer session.Close()
		messages = session.Messages()
		sender = session
	}

	loop := sim.NewLoop(world, reconciler, messages, sender, sim.LoopConfig{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(logrus.Fields{
		"stage":  cfg.StageMode,
		"server": cfg.ServerURL,
	}).Info("client core running")

	loop.Run(ctx)

	for key, value := range metrics.Snapshot() {
		log.WithField(key, value).Debug("counter")
	}
}
