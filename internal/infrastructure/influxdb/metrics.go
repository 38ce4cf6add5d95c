package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementCueLive = "cue_live"
	MeasurementTrigger = "trigger_events"
)

// CueLive describes one cue going live.
type CueLive struct {
	CueID   string
	CueName string
	Source  string // ingress that caused it (osc, api, failover, ...)
	Reason  string // play, take, timecode, follow, playlist
	Screen  int
	Layer   int
}

// WriteCueLive records a cue going live.
func (c *Client) WriteCueLive(e CueLive) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(cueLivePoint(c.node, e, time.Now()))
}

// WriteTrigger records one control trigger.
func (c *Client) WriteTrigger(kind, source string) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(triggerPoint(c.node, kind, source, time.Now()))
}

func cueLivePoint(node string, e CueLive, at time.Time) *write.Point {
	return write.NewPoint(
		MeasurementCueLive,
		withNode(node, map[string]string{
			"cue_id": e.CueID,
			"source": e.Source,
			"reason": e.Reason,
			"screen": strconv.Itoa(e.Screen),
		}),
		map[string]any{
			"cue_name": e.CueName,
			"layer":    e.Layer,
		},
		at,
	)
}

func triggerPoint(node, kind, source string, at time.Time) *write.Point {
	return write.NewPoint(
		MeasurementTrigger,
		withNode(node, map[string]string{"kind": kind, "source": source}),
		map[string]any{"count": 1},
		at,
	)
}

func withNode(node string, tags map[string]string) map[string]string {
	if node != "" {
		tags["node"] = node
	}
	return tags
}
