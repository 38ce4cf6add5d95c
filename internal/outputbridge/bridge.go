// Package outputbridge manages optional program-output bridges such as NDI,
// Syphon and SDI.
//
// A bridge mirrors program output to another video transport. Bridges may
// be unavailable on a given build or host; enabling one that is not
// available fails and the caller turns its config flag back off.
package outputbridge

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Well-known bridge names.
const (
	NDI    = "ndi"
	Syphon = "syphon"
	SDI    = "sdi"
)

// ErrUnavailable is returned when enabling a bridge that cannot run here.
var ErrUnavailable = errors.New("outputbridge: bridge unavailable")

// Bridge is one output bridge.
type Bridge interface {
	Name() string
	IsAvailable() bool
	Enable() error
	Disable()
	Enabled() bool
}

// unavailable is a bridge compiled without its transport.
type unavailable struct {
	name string
}

// Unavailable returns a bridge that always refuses to enable.
func Unavailable(name string) Bridge {
	return unavailable{name: name}
}

func (u unavailable) Name() string      { return u.name }
func (u unavailable) IsAvailable() bool { return false }
func (u unavailable) Disable()          {}
func (u unavailable) Enabled() bool     { return false }

func (u unavailable) Enable() error {
	return fmt.Errorf("%w: %s", ErrUnavailable, u.name)
}

// Status is one bridge's state for the status API.
type Status struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Enabled   bool   `json:"enabled"`
}

// Set holds the bridges known to this node, keyed by name.
//
// Thread Safety: all methods are safe for concurrent use.
type Set struct {
	mu      sync.Mutex
	bridges map[string]Bridge
}

// NewSet creates a set from bridges. Later bridges replace earlier ones
// with the same name.
func NewSet(bridges ...Bridge) *Set {
	s := &Set{bridges: make(map[string]Bridge, len(bridges))}
	for _, b := range bridges {
		s.bridges[b.Name()] = b
	}
	return s
}

// Apply enables every bridge requested true and disables the rest. It
// returns the requested names that could not be enabled, sorted, along with
// the joined errors. Unknown names count as unavailable.
func (s *Set) Apply(requested map[string]bool) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var failed []string
	var errs []error
	for name, want := range requested {
		if !want {
			continue
		}
		b, ok := s.bridges[name]
		if !ok {
			failed = append(failed, name)
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnavailable, name))
			continue
		}
		if b.Enabled() {
			continue
		}
		if err := b.Enable(); err != nil {
			failed = append(failed, name)
			errs = append(errs, err)
		}
	}

	for name, b := range s.bridges {
		if !requested[name] || slices.Contains(failed, name) {
			b.Disable()
		}
	}

	slices.Sort(failed)
	return failed, errors.Join(errs...)
}

// DisableAll turns every bridge off.
func (s *Set) DisableAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bridges {
		b.Disable()
	}
}

// Statuses reports every bridge, sorted by name.
func (s *Set) Statuses() []Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Status, 0, len(s.bridges))
	for _, b := range s.bridges {
		out = append(out, Status{Name: b.Name(), Available: b.IsAvailable(), Enabled: b.Enabled()})
	}
	slices.SortFunc(out, func(a, b Status) int { return strings.Compare(a.Name, b.Name) })
	return out
}
