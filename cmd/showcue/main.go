// showcue is a show playback node.
//
// It loads a cue list, accepts triggers over OSC, plain-text UDP, Art-Net,
// MIDI, MQTT and HTTP, and drives MQTT renderers for each configured screen.
// Two nodes can run as a failover pair that mirror cue-live, stop-all and
// overlay events over authenticated UDP.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
	"golang.org/x/sync/errgroup"

	_ "github.com/nerrad567/showcue-core/migrations"

	"github.com/nerrad567/showcue-core/internal/api"
	"github.com/nerrad567/showcue-core/internal/backup"
	"github.com/nerrad567/showcue-core/internal/control/artnet"
	"github.com/nerrad567/showcue-core/internal/control/midi"
	"github.com/nerrad567/showcue-core/internal/control/osc"
	"github.com/nerrad567/showcue-core/internal/cue"
	"github.com/nerrad567/showcue-core/internal/failover"
	"github.com/nerrad567/showcue-core/internal/infrastructure/config"
	"github.com/nerrad567/showcue-core/internal/infrastructure/database"
	"github.com/nerrad567/showcue-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/showcue-core/internal/infrastructure/logging"
	"github.com/nerrad567/showcue-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/showcue-core/internal/output"
	"github.com/nerrad567/showcue-core/internal/outputbridge"
	"github.com/nerrad567/showcue-core/internal/render"
	"github.com/nerrad567/showcue-core/internal/show"
	"github.com/nerrad567/showcue-core/internal/showlog"
	"github.com/nerrad567/showcue-core/internal/trigger"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	// defaultConfigPath is used when SHOWCUE_CONFIG is unset.
	defaultConfigPath = "configs/showcue.yaml"

	loopQueueSize     = 256
	journalQueueSize  = 512
	retentionInterval = time.Hour
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the node together and blocks until ctx is cancelled.
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // startup wiring: one branch per optional component
	log := logging.Default()
	log.Info("starting showcue",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version, cfg.Node.ID)
	log.Info("configuration loaded", "path", configPath, "node", cfg.Node.Name)

	// Database and show journal
	db, err := database.Open(database.FromConfig(cfg.Database))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database ready", "path", db.Path())

	journal := showlog.NewJournal(db.DB)
	writer := showlog.NewWriter(journal, journalQueueSize, log.Component("showlog"))

	cues, err := loadCues(cfg.Show.CueFile)
	if err != nil {
		return fmt.Errorf("loading cues: %w", err)
	}
	log.Info("cue list loaded", "path", cfg.Show.CueFile, "cues", cues.Len())

	// MQTT (renderers, program status, trigger ingress, bridges)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log.Component("mqtt"))
		mqttClient.SetOnConnect(func() { log.Info("MQTT reconnected") })
		mqttClient.SetOnDisconnect(func(err error) { log.Warn("MQTT disconnected", "error", err) })
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Warn("MQTT disabled, renderer commands will fail")
	}

	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB, cfg.Node.ID)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	}

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	// Output
	loop := show.NewLoop(loopQueueSize, log.Component("loop"))
	hub := api.NewHub(log.Component("websocket"))
	hub.Retain(show.EventCueLive, show.EventStopAll, show.EventOverlayText)

	var pub render.Publisher = offlinePublisher{}
	if mqttClient != nil {
		pub = mqttClient
	}
	outLog := log.Component("output")
	router, err := output.New(output.Options{
		Directory: render.NewDirectory(pub, byte(cfg.MQTT.QoS), cfg.Output.Screens), // #nosec G115 -- QoS validated 0..2
		Scheduler: loop,
		Logger:    outLog,
		OnError: func(screen int, err error) {
			outLog.Warn("screen output failed", "screen", screen, "error", err)
		},
	})
	if err != nil {
		return fmt.Errorf("creating output router: %w", err)
	}
	router.SetCalibrations(cfg.Output.Calibration)
	router.SetFallbackSlate(cfg.Show.FallbackSlate)
	router.SetFilterPresets(cfg.Show.FilterPresets)
	router.OpenAll()

	bridges := newBridgeSet(mqttClient)
	if failed, applyErr := bridges.Apply(cfg.Output.Bridges); applyErr != nil {
		for _, name := range failed {
			cfg.Output.Bridges[name] = false
		}
		log.Warn("output bridges unavailable, disabled", "bridges", failed, "error", applyErr)
	}
	defer bridges.DisableAll()

	// Show engine
	style, ms := cfg.DefaultTransition()
	opts := show.Options{
		Loop:         loop,
		Cues:         cues,
		Output:       router,
		NodeID:       cfg.Node.ID,
		Transition:   style,
		TransitionMs: ms,
		Journal:      writer,
		Hub:          hub,
		Logger:       log.Component("show"),
	}
	if mqttClient != nil {
		opts.Publisher = mqttClient
	}
	if influxClient != nil {
		opts.Metrics = influxClient
	}
	if cfg.Backup.Enabled {
		bt, backupErr := backup.New(backup.Config{
			URL:       cfg.Backup.URL,
			Token:     cfg.Backup.Token,
			TimeoutMs: cfg.Backup.TimeoutMs,
		})
		if backupErr != nil {
			return fmt.Errorf("configuring backup trigger: %w", backupErr)
		}
		opts.Backup = bt
		log.Info("backup trigger enabled", "url", cfg.Backup.URL, "timeout", bt.Timeout())
	}

	// The replicator needs its handler before the engine exists; peer
	// events only arrive after Start, by which time eng is set.
	var eng *show.Engine
	var repl *failover.Replicator
	if cfg.Failover.Enabled {
		repl = failover.New(failover.Options{
			Logger:  log.Component("failover"),
			Handler: func(ev failover.RemoteEvent) { eng.RemoteHandler()(ev) },
		})
		opts.Replicator = repl
	}

	eng, err = show.New(opts)
	if err != nil {
		return fmt.Errorf("creating show engine: %w", err)
	}

	if repl != nil {
		// A node that cannot bind its sync port still runs the show;
		// publishing on a stopped replicator is a no-op.
		if err := repl.Start(ctx, cfg.Failover.ListenPort, cfg.Failover.SharedKey); err != nil {
			log.Warn("failover sync disabled", "port", cfg.Failover.ListenPort, "error", err)
		} else {
			defer repl.Stop()
		}
		if repl.IsRunning() && cfg.Failover.PeerHost != "" {
			if err := repl.SetPeer(ctx, cfg.Failover.PeerHost, cfg.Failover.PeerPort); err != nil {
				log.Warn("failover peer not resolved, replication paused", "peer", cfg.Failover.PeerHost, "error", err)
			}
		}
	}

	// Control ingress
	sink := eng.Sink()

	oscServer := osc.NewServer(sink, log.Component("osc"))
	if cfg.Control.OSC.Enabled {
		if err := oscServer.Start(ctx, cfg.Control.OSC.Port); err != nil {
			return fmt.Errorf("starting OSC listener: %w", err)
		}
		defer oscServer.Stop()
	}

	var artnetServer *artnet.Server
	if cfg.Control.Artnet.Enabled {
		artnetServer = artnet.NewServer(sink, log.Component("artnet"))
		if err := artnetServer.Start(ctx, cfg.Control.Artnet.Port, cfg.Control.Artnet.Universe); err != nil {
			return fmt.Errorf("starting Art-Net listener: %w", err)
		}
		defer artnetServer.Stop()
	}

	if cfg.Control.MIDI.Enabled {
		midiListener := midi.NewListener(sink, log.Component("midi"))
		if err := midiListener.Start(cfg.Control.MIDI.Port); err != nil {
			log.Warn("MIDI input unavailable", "port", cfg.Control.MIDI.Port, "error", err)
		}
		defer midiListener.Close()
	}

	if mqttClient != nil {
		topic := mqtt.Topics{}.Trigger()
		if err := mqttClient.Subscribe(topic, byte(cfg.MQTT.QoS), func(_ string, payload []byte) error { // #nosec G115 -- QoS validated 0..2
			oscServer.HandleText(payload, trigger.SourceMQTT)
			return nil
		}); err != nil {
			return fmt.Errorf("subscribing to %s: %w", topic, err)
		}
	}

	// HTTP API
	deps := api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  log.Component("api"),
		Show:    eng,
		Hub:     hub,
		Events:  journal,
		Journal: writer,
		DB:      db.DB,
		Bridges: bridges,
		OSC:     oscServer,
		Version: version,
	}
	if artnetServer != nil {
		deps.Artnet = artnetServer
	}
	if repl != nil {
		deps.Failover = repl
	}
	if mqttClient != nil {
		deps.MQTT = mqttClient
	}
	if influxClient != nil {
		deps.Influx = influxClient
	}
	server, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(gctx) })
	g.Go(func() error { return writer.Run(gctx) })
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return showlog.Retention{
			Pruner:     journal,
			Keep:       time.Duration(cfg.Database.RetentionDays) * 24 * time.Hour,
			Interval:   retentionInterval,
			AfterPrune: db.Checkpoint,
			Logger:     log.Component("showlog"),
		}.Run(gctx)
	})
	g.Go(func() error { return reloadOnHangup(gctx, cfg.Show.CueFile, eng, log) })

	log.Info("initialisation complete",
		"screens", cfg.Output.Screens,
		"failover", cfg.Failover.Enabled,
		"api", server.Addr(),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("showcue stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SHOWCUE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SHOWCUE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// loadCues reads the cue file. No file means an empty show.
func loadCues(path string) (*cue.List, error) {
	if path == "" {
		return cue.NewList(nil), nil
	}
	return cue.LoadList(path)
}

// reloadOnHangup re-reads the cue file on SIGHUP. A file that fails to
// load leaves the running list untouched.
func reloadOnHangup(ctx context.Context, path string, eng *show.Engine, log *logging.Logger) error {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hup:
		}

		list, err := loadCues(path)
		if err != nil {
			log.Error("cue reload failed", "path", path, "error", err)
			continue
		}
		if err := eng.ReloadCues(ctx, list.All()); err != nil {
			log.Error("cue reload failed", "error", err)
			continue
		}
		log.Info("cue list reloaded", "path", path, "cues", list.Len())
	}
}

// healthCheck verifies the infrastructure connections. Clients left nil
// are disabled and skipped.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}

// newBridgeSet builds the output bridges this node can drive. NDI and SDI
// run in companion processes controlled over MQTT; Syphon exists only on
// macOS.
func newBridgeSet(mqttClient *mqtt.Client) *outputbridge.Set {
	if mqttClient == nil {
		return outputbridge.NewSet(
			outputbridge.Unavailable(outputbridge.NDI),
			outputbridge.Unavailable(outputbridge.Syphon),
			outputbridge.Unavailable(outputbridge.SDI),
		)
	}

	topics := mqtt.Topics{}
	syphon := outputbridge.Unavailable(outputbridge.Syphon)
	if runtime.GOOS == "darwin" {
		syphon = outputbridge.NewRemote(outputbridge.Syphon, topics.BridgeCommand(outputbridge.Syphon), mqttClient)
	}
	return outputbridge.NewSet(
		outputbridge.NewRemote(outputbridge.NDI, topics.BridgeCommand(outputbridge.NDI), mqttClient),
		syphon,
		outputbridge.NewRemote(outputbridge.SDI, topics.BridgeCommand(outputbridge.SDI), mqttClient),
	)
}

// offlinePublisher stands in for MQTT when it is disabled so renderer
// commands fail with a status instead of a nil dereference.
type offlinePublisher struct{}

func (offlinePublisher) Publish(string, []byte, byte, bool) error {
	return mqtt.ErrNotConnected
}
