// Package render drives headless renderer processes over MQTT.
//
// Each screen's renderer subscribes to showcue/render/{screen}/command (the
// preview monitor to showcue/render/preview/command) and executes JSON
// commands in order:
//
//	{"seq":12,"op":"load","layer":0,"source":"/media/intro.mp4","loop":true}
//	{"seq":13,"op":"overlay_opacity","value":0.5}
//	{"seq":14,"op":"play","layer":0}
//
// Publishing is fire-and-forget at the configured QoS; the control loop
// never waits for a renderer to decode media.
package render

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/nerrad567/showcue-core/internal/cue"
	"github.com/nerrad567/showcue-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/showcue-core/internal/output"
)

// Command operations.
const (
	OpLoad           = "load"
	OpPlay           = "play"
	OpStopLayer      = "stop_layer"
	OpStopAll        = "stop_all"
	OpOverlayColor   = "overlay_color"
	OpOverlayOpacity = "overlay_opacity"
	OpOverlayOffset  = "overlay_offset"
	OpOverlayText    = "overlay_text"
	OpFallbackSlate  = "fallback_slate"
	OpCalibration    = "calibration"
)

// Publisher is the MQTT capability the renderer needs.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Command is one renderer instruction.
type Command struct {
	Seq         uint64           `json:"seq"`
	Op          string           `json:"op"`
	Layer       *int             `json:"layer,omitempty"`
	Source      string           `json:"source,omitempty"`
	Loop        bool             `json:"loop,omitempty"`
	Filter      string           `json:"filter,omitempty"`
	Value       *float64         `json:"value,omitempty"`
	Text        *string          `json:"text,omitempty"`
	Calibration *cue.Calibration `json:"calibration,omitempty"`
}

// Renderer publishes output.Renderer calls for one screen.
type Renderer struct {
	pub   Publisher
	topic string
	qos   byte
	seq   *atomic.Uint64
}

var _ output.Renderer = (*Renderer)(nil)

func (r *Renderer) send(cmd Command) error {
	cmd.Seq = r.seq.Add(1)
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("render: encoding %s: %w", cmd.Op, err)
	}
	if err := r.pub.Publish(r.topic, payload, r.qos, false); err != nil {
		return fmt.Errorf("render: publish %s to %s: %w", cmd.Op, r.topic, err)
	}
	return nil
}

// Topic returns the command topic.
func (r *Renderer) Topic() string { return r.topic }

// Load implements output.Renderer.
func (r *Renderer) Load(layer int, media output.Media) error {
	return r.send(Command{Op: OpLoad, Layer: &layer, Source: media.Source, Loop: media.Loop, Filter: media.Filter})
}

// Play implements output.Renderer.
func (r *Renderer) Play(layer int) error {
	return r.send(Command{Op: OpPlay, Layer: &layer})
}

// StopLayer implements output.Renderer.
func (r *Renderer) StopLayer(layer int) error {
	return r.send(Command{Op: OpStopLayer, Layer: &layer})
}

// StopAll implements output.Renderer.
func (r *Renderer) StopAll() error {
	return r.send(Command{Op: OpStopAll})
}

// SetOverlayColor implements output.Renderer.
func (r *Renderer) SetOverlayColor(c output.OverlayColor) error {
	text := c.String()
	return r.send(Command{Op: OpOverlayColor, Text: &text})
}

// SetOverlayOpacity implements output.Renderer.
func (r *Renderer) SetOverlayOpacity(opacity float64) error {
	return r.send(Command{Op: OpOverlayOpacity, Value: &opacity})
}

// SetOverlayOffset implements output.Renderer.
func (r *Renderer) SetOverlayOffset(offset float64) error {
	return r.send(Command{Op: OpOverlayOffset, Value: &offset})
}

// SetOverlayText implements output.Renderer.
func (r *Renderer) SetOverlayText(text string) error {
	return r.send(Command{Op: OpOverlayText, Text: &text})
}

// SetFallbackSlate implements output.Renderer.
func (r *Renderer) SetFallbackSlate(path string) error {
	return r.send(Command{Op: OpFallbackSlate, Source: path})
}

// SetCalibration implements output.Renderer.
func (r *Renderer) SetCalibration(c cue.Calibration) error {
	return r.send(Command{Op: OpCalibration, Calibration: &c})
}

// Directory is an output.DisplayDirectory backed by MQTT renderers for a
// configured set of screens.
type Directory struct {
	pub     Publisher
	qos     byte
	screens []int
	seq     atomic.Uint64
}

var _ output.DisplayDirectory = (*Directory)(nil)

// NewDirectory creates a directory for the given screen indices.
func NewDirectory(pub Publisher, qos byte, screens []int) *Directory {
	return &Directory{pub: pub, qos: qos, screens: slices.Clone(screens)}
}

// Screens implements output.DisplayDirectory.
func (d *Directory) Screens() []int {
	return slices.Clone(d.screens)
}

// Open implements output.DisplayDirectory.
func (d *Directory) Open(screen int) (output.Renderer, error) {
	if !slices.Contains(d.screens, screen) {
		return nil, fmt.Errorf("%w: %d", output.ErrScreenNotFound, screen)
	}
	return d.renderer(screen), nil
}

// OpenPreview implements output.DisplayDirectory.
func (d *Directory) OpenPreview() (output.Renderer, error) {
	return d.renderer(output.PreviewScreen), nil
}

func (d *Directory) renderer(screen int) *Renderer {
	return &Renderer{
		pub:   d.pub,
		topic: mqtt.Topics{}.RenderCommand(screen),
		qos:   d.qos,
		seq:   &d.seq,
	}
}
