package wizard

import (
	"errors"
	"sync"

	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

var (
	ErrFinalStep = errors.New("wizard: already at final step")
	ErrWrongStep = errors.New("wizard: action not available at current step")
	ErrBusy      = errors.New("wizard: a request is already in flight")
	ErrStale     = errors.New("wizard: response belongs to an abandoned run")
)

// State is a snapshot of a wizard run.
type State struct {
	Flow        Flow
	Step        int
	Owner       *vignette.Owner
	Asset       *vignette.Asset
	Transaction *vignette.Transaction
	Quote       *vignette.Quote
	Modal       *Modal
	Busy        bool
}

// Output is what a step hands to Advance once validated. Nil fields are left untouched.
type Output struct {
	Owner       *vignette.Owner
	Asset       *vignette.Asset
	Transaction *vignette.Transaction
	Quote       *vignette.Quote
}

// Guard is a step's exit condition, checked against the current state and the proposed output.
type Guard func(s State, out Output) error

type field int

const (
	fieldOwner field = iota
	fieldAsset
	fieldTransaction
	fieldQuote
	numFields
)

// Controller owns the state of one wizard run.
// Network calls are tagged with the run generation; Retreat and Reset bump it
// so late responses are discarded instead of applied.
type Controller struct {
	mu sync.Mutex

	flow   Flow
	guards []Guard
	state  State

	// producedBy records which step populated each entity (0 when unset).
	producedBy [numFields]int
	generation uint64
}

// NewController creates a controller at step 1. guards[i] is the exit guard of step i+1;
// a nil guard always passes.
func NewController(flow Flow, guards ...Guard) *Controller {
	return &Controller{
		flow:   flow,
		guards: guards,
		state:  State{Flow: flow, Step: StepFirst},
	}
}

// Flow returns the wizard's flow.
func (c *Controller) Flow() Flow {
	return c.flow
}

// State returns a snapshot of the current run.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Generation identifies the current run; it changes on Retreat and Reset.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.generation
}

// Advance moves to the next step if the active step's guard accepts out.
// On failure the step index and entities are unchanged.
func (c *Controller) Advance(out Output) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.advanceLocked(out)
}

func (c *Controller) advanceLocked(out Output) error {
	step := c.state.Step
	if step >= c.flow.Len() {
		return ErrFinalStep
	}

	if g := c.guard(step); g != nil {
		if err := g(c.state, out); err != nil {
			return err
		}
	}

	c.clearProducedFrom(step)

	if out.Owner != nil {
		c.state.Owner = out.Owner
		c.producedBy[fieldOwner] = step
	}

	if out.Asset != nil {
		c.state.Asset = out.Asset
		c.producedBy[fieldAsset] = step
	}

	if out.Transaction != nil {
		c.state.Transaction = out.Transaction
		c.producedBy[fieldTransaction] = step
	}

	if out.Quote != nil {
		c.state.Quote = out.Quote
		c.producedBy[fieldQuote] = step
	}

	c.state.Step++
	c.state.Modal = nil

	return nil
}

// Retreat goes back one step, dropping entities populated by steps after the new one.
// Any in-flight response is abandoned.
func (c *Controller) Retreat() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.abandonLocked()

	if c.state.Step <= StepFirst {
		return
	}

	c.state.Step--
	c.clearProducedFrom(c.state.Step + 1)
}

// Reset discards the run and returns to step 1.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.abandonLocked()
	c.state = State{Flow: c.flow, Step: StepFirst}
	c.producedBy = [numFields]int{}
}

// Fail shows a dialog without touching the step or the entities.
func (c *Controller) Fail(m Modal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Modal = &m
}

// Dismiss closes the pending dialog. Only a success dialog runs its confirm
// action: it ends the run, so dismissing it acknowledges it.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	m := c.state.Modal
	c.state.Modal = nil
	c.mu.Unlock()

	if m != nil && m.Kind == ModalSuccess && m.OnConfirm != nil {
		m.OnConfirm()
	}
}

// ConfirmModal closes the pending dialog and runs its confirm action, if any.
func (c *Controller) ConfirmModal() {
	c.mu.Lock()
	m := c.state.Modal
	c.state.Modal = nil
	c.mu.Unlock()

	if m != nil && m.OnConfirm != nil {
		m.OnConfirm()
	}
}

func (c *Controller) guard(step int) Guard {
	if step-1 < len(c.guards) {
		return c.guards[step-1]
	}

	return nil
}

func (c *Controller) clearProducedFrom(step int) {
	for f := range numFields {
		if c.producedBy[f] < step {
			continue
		}

		c.producedBy[f] = 0

		switch f {
		case fieldOwner:
			c.state.Owner = nil
		case fieldAsset:
			c.state.Asset = nil
		case fieldTransaction:
			c.state.Transaction = nil
		case fieldQuote:
			c.state.Quote = nil
		}
	}
}

func (c *Controller) abandonLocked() {
	c.generation++
	c.state.Busy = false
	c.state.Modal = nil
}

// begin marks a request in flight and returns its generation.
func (c *Controller) begin() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Busy {
		return 0, ErrBusy
	}

	c.state.Busy = true

	return c.generation, nil
}

// finish clears the in-flight flag if gen is still the current run.
func (c *Controller) finish(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen == c.generation {
		c.state.Busy = false
	}
}

// advanceAt is Advance for a response tagged with gen.
func (c *Controller) advanceAt(gen uint64, out Output) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return ErrStale
	}

	return c.advanceLocked(out)
}

// showAt is Fail for a response tagged with gen.
func (c *Controller) showAt(gen uint64, m Modal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return ErrStale
	}

	c.state.Modal = &m

	return nil
}
