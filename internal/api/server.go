package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nerrad567/showcue-core/internal/control/artnet"
	"github.com/nerrad567/showcue-core/internal/control/osc"
	"github.com/nerrad567/showcue-core/internal/cue"
	"github.com/nerrad567/showcue-core/internal/infrastructure/config"
	"github.com/nerrad567/showcue-core/internal/infrastructure/logging"
	"github.com/nerrad567/showcue-core/internal/outputbridge"
	"github.com/nerrad567/showcue-core/internal/show"
	"github.com/nerrad567/showcue-core/internal/showlog"
	"github.com/nerrad567/showcue-core/internal/trigger"
)

// gracefulShutdownTimeout bounds how long Close waits for in-flight requests.
const gracefulShutdownTimeout = 10 * time.Second

// Show is the engine surface the API drives.
type Show interface {
	Submit(ctx context.Context, ev trigger.Event) error
	StopRow(ctx context.Context, row int) error
	TriggerHotkey(ctx context.Context, key string) error
	Status(ctx context.Context) (show.Status, error)
	Cues() []cue.Cue
}

// EventLog serves recent show journal entries.
type EventLog interface {
	Recent(ctx context.Context, limit int) ([]showlog.Entry, error)
}

// ConnectionState reports whether a broker or database client is connected.
type ConnectionState interface {
	IsConnected() bool
}

// QueueStats reports journal writer losses.
type QueueStats interface {
	Dropped() uint64
	Failed() uint64
}

// PoolStats reports database connection pool statistics.
type PoolStats interface {
	Stats() sql.DBStats
}

// BridgeStatus reports output bridge state.
type BridgeStatus interface {
	Statuses() []outputbridge.Status
}

// OSCStats reports OSC listener counters.
type OSCStats interface {
	Stats() osc.Stats
}

// ArtnetStats reports Art-Net listener counters.
type ArtnetStats interface {
	Stats() artnet.Stats
}

// FailoverState reports the failover replicator link.
type FailoverState interface {
	IsRunning() bool
	Port() int
	Peer() net.Addr
}

// Deps holds the dependencies of the API server. Optional ones may be nil.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Logger   *logging.Logger // required
	Show     Show            // required
	Hub      *Hub            // created when nil
	Events   EventLog
	MQTT     ConnectionState
	Influx   ConnectionState
	Journal  QueueStats
	DB       PoolStats
	Bridges  BridgeStatus
	OSC      OSCStats
	Artnet   ArtnetStats
	Failover FailoverState
	Version  string
}

// Server is the HTTP API server.
type Server struct {
	cfg       config.APIConfig
	wsCfg     config.WebSocketConfig
	logger    *logging.Logger
	show      Show
	events    EventLog
	mqtt      ConnectionState
	influx    ConnectionState
	journal   QueueStats
	db        PoolStats
	bridges   BridgeStatus
	osc       OSCStats
	artnet    ArtnetStats
	failover  FailoverState
	version   string
	startTime time.Time

	hub         *Hub
	externalHub bool

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	cancel   context.CancelFunc
}

// New creates a server. It does not listen until Start.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Show == nil {
		return nil, fmt.Errorf("show engine is required")
	}
	if deps.WS.Path == "" {
		deps.WS.Path = "/ws"
	}

	s := &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		logger:    deps.Logger,
		show:      deps.Show,
		events:    deps.Events,
		mqtt:      deps.MQTT,
		influx:    deps.Influx,
		journal:   deps.Journal,
		db:        deps.DB,
		bridges:   deps.Bridges,
		osc:       deps.OSC,
		artnet:    deps.Artnet,
		failover:  deps.Failover,
		version:   deps.Version,
		startTime: time.Now(),
		hub:       deps.Hub,
	}
	if s.hub != nil {
		s.externalHub = true
	} else {
		s.hub = NewHub(deps.Logger)
	}
	return s, nil
}

// Hub returns the WebSocket hub the server broadcasts on.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start binds the listener and serves in the background. A port that
// cannot be bound is reported here rather than from the serve goroutine.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return fmt.Errorf("api server already started")
	}

	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("binding API listener %s: %w", addr, err)
	}

	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)
	if !s.externalHub {
		go s.hub.Run(srvCtx)
	}

	s.listener = ln
	s.server = &http.Server{
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	srv := s.server
	go func() {
		s.logger.Info("API server listening", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	s.mu.Lock()
	srv := s.server
	cancel := s.cancel
	s.server, s.listener, s.cancel = nil, nil, nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if cancel != nil {
		cancel()
	}

	ctx, done := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer done()

	s.logger.Info("API server shutting down")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck reports whether the server has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("api health check: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
