package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/showcue-core/internal/cue"
)

// Config is the root configuration for a showcue node.
type Config struct {
	Node      NodeConfig      `yaml:"node"`
	Database  DatabaseConfig  `yaml:"database"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
	Show      ShowConfig      `yaml:"show"`
	Control   ControlConfig   `yaml:"control"`
	Failover  FailoverConfig  `yaml:"failover"`
	Backup    BackupConfig    `yaml:"backup"`
	Output    OutputConfig    `yaml:"output"`
}

// NodeConfig identifies this node (primary or backup).
type NodeConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig contains SQLite settings for the show journal.
type DatabaseConfig struct {
	Path          string `yaml:"path"`
	WALMode       bool   `yaml:"wal_mode"`
	BusyTimeout   int    `yaml:"busy_timeout"`
	RetentionDays int    `yaml:"retention_days"` // 0 keeps the journal forever
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains reconnect backoff bounds in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Token    string           `yaml:"token"` // optional bearer token for control routes
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeouts in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig lists origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// WebSocketConfig contains WebSocket hub settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// ShowConfig contains cue list and playback defaults.
type ShowConfig struct {
	CueFile       string            `yaml:"cue_file"`
	Transition    string            `yaml:"transition"`
	TransitionMs  int               `yaml:"transition_ms"`
	FallbackSlate string            `yaml:"fallback_slate"`
	FilterPresets map[string]string `yaml:"filter_presets"`
}

// ControlConfig groups the control ingresses.
type ControlConfig struct {
	OSC    OSCConfig    `yaml:"osc"`
	Artnet ArtnetConfig `yaml:"artnet"`
	MIDI   MIDIConfig   `yaml:"midi"`
}

// OSCConfig configures the OSC / plain-text UDP listener.
type OSCConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// ArtnetConfig configures the Art-Net DMX listener.
type ArtnetConfig struct {
	Enabled  bool `yaml:"enabled"`
	Port     int  `yaml:"port"`
	Universe int  `yaml:"universe"`
}

// MIDIConfig configures MIDI note and MTC input.
type MIDIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port"` // substring of the input port name; empty picks the first
}

// FailoverConfig configures peer replication.
type FailoverConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenPort int    `yaml:"listen_port"`
	PeerHost   string `yaml:"peer_host"`
	PeerPort   int    `yaml:"peer_port"`
	SharedKey  string `yaml:"shared_key"`
}

// BackupConfig configures the HTTP backup trigger.
type BackupConfig struct {
	Enabled   bool   `yaml:"enabled"`
	URL       string `yaml:"url"`
	Token     string `yaml:"token"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// OutputConfig describes the displays and output bridges.
type OutputConfig struct {
	Screens     []int                   `yaml:"screens"`
	Bridges     map[string]bool         `yaml:"bridges"`
	Calibration map[int]cue.Calibration `yaml:"calibration"`
}

// Load reads path, applies SHOWCUE_* overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Node: NodeConfig{
			ID:   "showcue-primary",
			Name: "Primary",
		},
		Database: DatabaseConfig{
			Path:        "./data/showcue.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "showcue-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     30,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  10,
				Write: 10,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Show: ShowConfig{
			Transition:   cue.Fade.String(),
			TransitionMs: cue.DefaultTransitionMs,
		},
		Control: ControlConfig{
			OSC:    OSCConfig{Enabled: true, Port: 9000},
			Artnet: ArtnetConfig{Port: 6454, Universe: 0},
			MIDI:   MIDIConfig{Enabled: true},
		},
		Failover: FailoverConfig{
			ListenPort: 9101,
			PeerPort:   9101,
		},
		Backup: BackupConfig{
			TimeoutMs: 1500,
		},
		Output: OutputConfig{
			Screens: []int{0},
		},
	}
}

// applyEnvOverrides applies SHOWCUE_SECTION_KEY variables.
func applyEnvOverrides(cfg *Config) {
	setString := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	setInt := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setBool := func(name string, dst *bool) {
		if v := os.Getenv(name); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	setString("SHOWCUE_NODE_ID", &cfg.Node.ID)
	setString("SHOWCUE_DATABASE_PATH", &cfg.Database.Path)

	setBool("SHOWCUE_MQTT_ENABLED", &cfg.MQTT.Enabled)
	setString("SHOWCUE_MQTT_HOST", &cfg.MQTT.Broker.Host)
	setString("SHOWCUE_MQTT_USERNAME", &cfg.MQTT.Auth.Username)
	setString("SHOWCUE_MQTT_PASSWORD", &cfg.MQTT.Auth.Password)

	setString("SHOWCUE_API_HOST", &cfg.API.Host)
	setInt("SHOWCUE_API_PORT", &cfg.API.Port)
	setString("SHOWCUE_API_TOKEN", &cfg.API.Token)

	setString("SHOWCUE_INFLUXDB_TOKEN", &cfg.InfluxDB.Token)
	setString("SHOWCUE_LOG_LEVEL", &cfg.Logging.Level)
	setString("SHOWCUE_SHOW_CUE_FILE", &cfg.Show.CueFile)

	setBool("SHOWCUE_FAILOVER_ENABLED", &cfg.Failover.Enabled)
	setString("SHOWCUE_FAILOVER_PEER_HOST", &cfg.Failover.PeerHost)
	setInt("SHOWCUE_FAILOVER_PEER_PORT", &cfg.Failover.PeerPort)
	setString("SHOWCUE_FAILOVER_KEY", &cfg.Failover.SharedKey)

	setString("SHOWCUE_BACKUP_URL", &cfg.Backup.URL)
	setString("SHOWCUE_BACKUP_TOKEN", &cfg.Backup.Token)
}

// Validate collects every configuration problem into one error.
func (c *Config) Validate() error {
	var errs []string
	controlPort := func(name string, port int) {
		if port < 1024 || port > 65535 {
			errs = append(errs, fmt.Sprintf("%s must be between 1024 and 65535", name))
		}
	}

	if strings.TrimSpace(c.Node.ID) == "" {
		errs = append(errs, "node.id is required")
	}
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if _, ok := cue.LookupTransitionStyle(c.Show.Transition); !ok {
		errs = append(errs, fmt.Sprintf("show.transition %q is not a known style", c.Show.Transition))
	}
	if c.Show.TransitionMs < 0 || c.Show.TransitionMs > cue.MaxTransitionMs {
		errs = append(errs, fmt.Sprintf("show.transition_ms must be between 0 and %d", cue.MaxTransitionMs))
	}

	if c.Control.OSC.Enabled {
		controlPort("control.osc.port", c.Control.OSC.Port)
	}
	if c.Control.Artnet.Enabled {
		controlPort("control.artnet.port", c.Control.Artnet.Port)
		if c.Control.Artnet.Universe < 0 || c.Control.Artnet.Universe > 32767 {
			errs = append(errs, "control.artnet.universe must be between 0 and 32767")
		}
	}

	if c.Failover.Enabled {
		controlPort("failover.listen_port", c.Failover.ListenPort)
		if strings.TrimSpace(c.Failover.PeerHost) != "" {
			controlPort("failover.peer_port", c.Failover.PeerPort)
		}
		if strings.TrimSpace(c.Failover.SharedKey) == "" {
			errs = append(errs, "failover.shared_key is required when failover is enabled (set SHOWCUE_FAILOVER_KEY)")
		}
	}

	if c.Backup.Enabled && strings.TrimSpace(c.Backup.URL) == "" {
		errs = append(errs, "backup.url is required when the backup trigger is enabled")
	}
	if c.Backup.TimeoutMs < 0 {
		errs = append(errs, "backup.timeout_ms must not be negative")
	}

	for _, screen := range c.Output.Screens {
		if screen < 0 {
			errs = append(errs, fmt.Sprintf("output.screens contains negative screen %d", screen))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// DefaultTransition returns the configured default transition.
func (c *Config) DefaultTransition() (cue.TransitionStyle, int) {
	return cue.ParseTransitionStyle(c.Show.Transition), cue.ClampDuration(c.Show.TransitionMs)
}

// GetReadTimeout returns the API read timeout.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
