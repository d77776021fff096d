package commands

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition reports a verb applied in a state that does not accept it.
var ErrInvalidTransition = errors.New("invalid state transition")

// Verb is a run-control command.
type Verb string

// The fixed command set, in emission order.
const (
	Init   Verb = "init"
	Conf   Verb = "conf"
	Start  Verb = "start"
	Stop   Verb = "stop"
	Pause  Verb = "pause"
	Resume Verb = "resume"
	Scrap  Verb = "scrap"
)

// Verbs lists every verb in emission order.
var Verbs = []Verb{Init, Conf, Start, Stop, Pause, Resume, Scrap}

// State is an application run-control state.
type State string

// Application states.
const (
	Uninitialized State = "NONE"
	Initialized   State = "INITIAL"
	Configured    State = "CONFIGURED"
	Running       State = "RUNNING"
	Paused        State = "PAUSED"
	Scrapped      State = "SCRAPPED"
	Terminated    State = "TERMINATED"
)

// Transition is the entry and exit state of a verb.
type Transition struct {
	From State
	To   State
}

var transitions = map[Verb]Transition{
	Init:   {From: Uninitialized, To: Initialized},
	Conf:   {From: Initialized, To: Configured},
	Start:  {From: Configured, To: Running},
	Stop:   {From: Running, To: Configured},
	Pause:  {From: Running, To: Paused},
	Resume: {From: Paused, To: Running},
	Scrap:  {From: Configured, To: Initialized},
}

// TransitionOf returns the transition a verb performs.
func TransitionOf(v Verb) (Transition, bool) {
	t, ok := transitions[v]
	return t, ok
}

// Lifecycle tracks the state of one application.
type Lifecycle struct {
	state State
}

// NewLifecycle returns a lifecycle in the Uninitialized state.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: Uninitialized}
}

// State returns the current state.
func (l *Lifecycle) State() State { return l.state }

// Apply moves the lifecycle along v. A verb that does not start from the
// current state fails with ErrInvalidTransition and leaves the state alone.
func (l *Lifecycle) Apply(v Verb) error {
	t, ok := transitions[v]
	if !ok {
		return fmt.Errorf("%w: unknown verb %q", ErrInvalidTransition, v)
	}
	if t.From != l.state {
		return fmt.Errorf("%w: %s requires %s, current state is %s", ErrInvalidTransition, v, t.From, l.state)
	}
	l.state = t.To
	return nil
}
