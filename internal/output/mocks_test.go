package output

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nerrad567/showcue-core/internal/cue"
)

// ─── Mock Dependencies ──────────────────────────────────────────────────────

// manualScheduler is a virtual clock. Callbacks run only inside Advance.
type manualScheduler struct {
	now     time.Duration
	seq     int
	pending []scheduled
}

type scheduled struct {
	at  time.Duration
	seq int
	fn  func()
}

func (m *manualScheduler) AfterFunc(d time.Duration, fn func()) {
	m.pending = append(m.pending, scheduled{at: m.now + d, seq: m.seq, fn: fn})
	m.seq++
}

// Advance moves the clock forward by d, running due callbacks in order.
func (m *manualScheduler) Advance(d time.Duration) {
	end := m.now + d
	for {
		sort.Slice(m.pending, func(i, j int) bool {
			if m.pending[i].at != m.pending[j].at {
				return m.pending[i].at < m.pending[j].at
			}
			return m.pending[i].seq < m.pending[j].seq
		})
		if len(m.pending) == 0 || m.pending[0].at > end {
			break
		}
		next := m.pending[0]
		m.pending = m.pending[1:]
		m.now = next.at
		next.fn()
	}
	m.now = end
}

type loadCall struct {
	layer int
	media Media
}

type fakeRenderer struct {
	loads     []loadCall
	plays     []int
	stops     []int
	stopAlls  int
	colors    []OverlayColor
	opacities []float64
	offsets   []float64
	text      string
	slate     string
	cal       cue.Calibration
	calSet    bool

	loadErr error
	playErr error
}

func (f *fakeRenderer) Load(layer int, media Media) error {
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loads = append(f.loads, loadCall{layer: layer, media: media})
	return nil
}

func (f *fakeRenderer) Play(layer int) error {
	if f.playErr != nil {
		return f.playErr
	}
	f.plays = append(f.plays, layer)
	return nil
}

func (f *fakeRenderer) StopLayer(layer int) error {
	f.stops = append(f.stops, layer)
	return nil
}

func (f *fakeRenderer) StopAll() error {
	f.stopAlls++
	return nil
}

func (f *fakeRenderer) SetOverlayColor(c OverlayColor) error {
	f.colors = append(f.colors, c)
	return nil
}

func (f *fakeRenderer) SetOverlayOpacity(o float64) error {
	f.opacities = append(f.opacities, o)
	return nil
}

func (f *fakeRenderer) SetOverlayOffset(o float64) error {
	f.offsets = append(f.offsets, o)
	return nil
}

func (f *fakeRenderer) SetOverlayText(text string) error {
	f.text = text
	return nil
}

func (f *fakeRenderer) SetFallbackSlate(path string) error {
	f.slate = path
	return nil
}

func (f *fakeRenderer) SetCalibration(c cue.Calibration) error {
	f.cal = c
	f.calSet = true
	return nil
}

func (f *fakeRenderer) lastOpacity() float64 {
	if len(f.opacities) == 0 {
		return -1
	}
	return f.opacities[len(f.opacities)-1]
}

func (f *fakeRenderer) maxOpacity() float64 {
	highest := 0.0
	for _, o := range f.opacities {
		highest = max(highest, o)
	}
	return highest
}

type fakeDirectory struct {
	screens   []int
	renderers map[int]*fakeRenderer
	preview   *fakeRenderer
	openErr   map[int]error
	opened    []int
}

func newFakeDirectory(screens ...int) *fakeDirectory {
	return &fakeDirectory{
		screens:   screens,
		renderers: make(map[int]*fakeRenderer),
		openErr:   make(map[int]error),
		preview:   &fakeRenderer{},
	}
}

func (d *fakeDirectory) Screens() []int { return d.screens }

func (d *fakeDirectory) Open(screen int) (Renderer, error) {
	d.opened = append(d.opened, screen)
	if err, ok := d.openErr[screen]; ok {
		return nil, err
	}
	known := false
	for _, s := range d.screens {
		known = known || s == screen
	}
	if !known {
		return nil, fmt.Errorf("%w: %d", ErrScreenNotFound, screen)
	}
	r, ok := d.renderers[screen]
	if !ok {
		r = &fakeRenderer{}
		d.renderers[screen] = r
	}
	return r, nil
}

func (d *fakeDirectory) OpenPreview() (Renderer, error) {
	if d.preview == nil {
		return nil, errors.New("no preview monitor")
	}
	return d.preview, nil
}

type errorRecorder struct {
	screens []int
	errs    []error
}

func (e *errorRecorder) record(screen int, err error) {
	e.screens = append(e.screens, screen)
	e.errs = append(e.errs, err)
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func testCue(name string) cue.Cue {
	c := cue.New(name)
	c.FilePath = "/media/" + name + ".mp4"
	return c
}
