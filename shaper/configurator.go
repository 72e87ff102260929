package shaper

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Caribou3d/motionshaper/logging"
)

// MoveUpdatedFunc is the signal a Configurator emits after every
// successful configuration change (spec §9, "Global reprap.MoveUpdated()").
// The move subsystem is expected to drain any in-flight planning before
// accepting the new ShaperParams; this module only emits the signal, it
// does not implement the drain itself (spec §1 — the move queue is an
// external collaborator).
type MoveUpdatedFunc func()

// Configurator owns the process-wide active ShaperParams. Configure is
// the only writer; planners only ever read the *ShaperParams snapshot
// returned by Current, so configuration and planning are never
// concurrent on the same table (spec §5).
type Configurator struct {
	current atomic.Pointer[ShaperParams]

	// mu serializes Configure calls against each other; it plays no
	// part in the read path.
	mu sync.Mutex

	StepRate    float32
	DAACapable  bool
	Logger      logging.Logger
	MoveUpdated MoveUpdatedFunc
}

// NewConfigurator returns a Configurator defaulting to an unshaped
// (Type==None) table until the first Configure call.
func NewConfigurator(stepRate float32, daaCapable bool, logger logging.Logger) *Configurator {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	c := &Configurator{StepRate: stepRate, DAACapable: daaCapable, Logger: logger}
	c.current.Store(&ShaperParams{Type: None, StepRate: stepRate})
	return c
}

// Current returns the active ShaperParams snapshot. Safe to call
// concurrently with Configure.
func (c *Configurator) Current() *ShaperParams {
	return c.current.Load()
}

// Configure validates cfg, synthesizes a new ShaperParams, and — unless
// the change is rejected outright (OutOfRange) — publishes it as the
// final write of the call and emits MoveUpdated (spec §5: publication
// must be the last write, for release ordering on weak-memory
// platforms; atomic.Pointer.Store gives us that for free in Go).
func (c *Configurator) Configure(cfg Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	params, err := synthesize(cfg, c.StepRate, c.DAACapable)
	if err != nil {
		if params == nil {
			// Out-of-range F/S: rejected outright, prior table untouched.
			c.Logger.Warnw("rejected input shaper configuration", "error", err)
			return err
		}
		// UnknownType / ArityMismatch / malformed custom amplitudes:
		// params still holds the reverted none-type table; publish it
		// so a bad command disables shaping rather than silently
		// keeping the old one.
		c.current.Store(params)
		if c.MoveUpdated != nil {
			c.MoveUpdated()
		}
		c.Logger.Warnw("input shaper configuration rejected, reverting to none", "error", err)
		return err
	}

	c.Logger.Infow("input shaper configured",
		"type", params.Type.String(),
		"frequency", params.Frequency,
		"damping", params.Damping,
	)
	c.current.Store(params)
	if c.MoveUpdated != nil {
		c.MoveUpdated()
	}
	return nil
}

// Report formats the textual query response spec §6 defines.
func (c *Configurator) Report() string {
	p := c.Current()
	if p.Type == None {
		return "Input shaping is disabled"
	}

	coeffs := make([]string, len(p.Coefficients))
	for i, v := range p.Coefficients {
		coeffs[i] = fmt.Sprintf("%g", v)
	}
	durationsMS := make([]string, len(p.Durations))
	for i, v := range p.Durations {
		durationsMS[i] = fmt.Sprintf("%g", v*1000)
	}

	return fmt.Sprintf(
		"Input shaping '%s' at %gHz damping factor %g, min. acceleration %g, impulses %s with durations (ms) %s",
		p.Type.String(), p.Frequency, p.Damping, p.MinAcceleration,
		strings.Join(coeffs, " "), strings.Join(durationsMS, " "),
	)
}
