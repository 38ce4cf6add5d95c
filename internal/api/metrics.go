package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/nerrad567/showcue-core/internal/control/artnet"
	"github.com/nerrad567/showcue-core/internal/control/osc"
)

// SystemMetrics represents the complete system metrics response.
type SystemMetrics struct {
	Timestamp     string          `json:"timestamp"`
	Version       string          `json:"version"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	Runtime       RuntimeMetrics  `json:"runtime"`
	Show          ShowMetrics     `json:"show"`
	Ingress       IngressMetrics  `json:"ingress"`
	Failover      FailoverMetrics `json:"failover"`
	WebSocket     WSMetrics       `json:"websocket"`
	MQTT          MQTTMetrics     `json:"mqtt"`
	InfluxDB      InfluxMetrics   `json:"influxdb"`
	Journal       JournalMetrics  `json:"journal"`
	Database      DatabaseMetrics `json:"database"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// ShowMetrics summarises the engine; Available is false when the loop
// did not answer.
type ShowMetrics struct {
	Available       bool   `json:"available"`
	Cues            int    `json:"cues"`
	LiveCueID       string `json:"live_cue_id,omitempty"`
	FailoverEnabled bool   `json:"failover_enabled"`
}

// IngressMetrics holds control listener counters. A listener that is not
// configured is omitted.
type IngressMetrics struct {
	OSC    *osc.Stats    `json:"osc,omitempty"`
	Artnet *artnet.Stats `json:"artnet,omitempty"`
}

// FailoverMetrics describes the replication link to the peer node.
type FailoverMetrics struct {
	Running bool   `json:"running"`
	Port    int    `json:"port,omitempty"`
	Peer    string `json:"peer,omitempty"`
}

// WSMetrics contains WebSocket hub statistics.
type WSMetrics struct {
	ConnectedClients int    `json:"connected_clients"`
	DroppedFrames    uint64 `json:"dropped_frames"`
}

// MQTTMetrics contains MQTT client statistics.
type MQTTMetrics struct {
	Connected bool `json:"connected"`
}

// InfluxMetrics contains InfluxDB client statistics.
type InfluxMetrics struct {
	Connected bool `json:"connected"`
}

// JournalMetrics counts show journal entries that never reached the database.
type JournalMetrics struct {
	Dropped uint64 `json:"dropped"`
	Failed  uint64 `json:"failed"`
}

// DatabaseMetrics contains database connection pool statistics.
type DatabaseMetrics struct {
	OpenConnections int   `json:"open_connections"`
	InUse           int   `json:"in_use"`
	Idle            int   `json:"idle"`
	WaitCount       int64 `json:"wait_count"`
}

// handleMetrics returns comprehensive system metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		WebSocket: WSMetrics{
			ConnectedClients: s.hub.ClientCount(),
			DroppedFrames:    s.hub.Dropped(),
		},
	}

	if st, err := s.show.Status(r.Context()); err == nil {
		metrics.Show = ShowMetrics{
			Available:       true,
			Cues:            st.Cues,
			FailoverEnabled: st.FailoverEnabled,
		}
		if st.Live != nil {
			metrics.Show.LiveCueID = st.Live.CueID
		}
	}

	if s.osc != nil {
		st := s.osc.Stats()
		metrics.Ingress.OSC = &st
	}
	if s.artnet != nil {
		st := s.artnet.Stats()
		metrics.Ingress.Artnet = &st
	}
	if s.failover != nil {
		metrics.Failover = FailoverMetrics{
			Running: s.failover.IsRunning(),
			Port:    s.failover.Port(),
		}
		if peer := s.failover.Peer(); peer != nil {
			metrics.Failover.Peer = peer.String()
		}
	}

	if s.mqtt != nil {
		metrics.MQTT.Connected = s.mqtt.IsConnected()
	}
	if s.influx != nil {
		metrics.InfluxDB.Connected = s.influx.IsConnected()
	}
	if s.journal != nil {
		metrics.Journal = JournalMetrics{
			Dropped: s.journal.Dropped(),
			Failed:  s.journal.Failed(),
		}
	}

	if s.db != nil {
		dbStats := s.db.Stats()
		metrics.Database = DatabaseMetrics{
			OpenConnections: dbStats.OpenConnections,
			InUse:           dbStats.InUse,
			Idle:            dbStats.Idle,
			WaitCount:       dbStats.WaitCount,
		}
	}

	writeJSON(w, http.StatusOK, metrics)
}
