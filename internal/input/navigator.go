// Package input interprets raw joystick events into navigation commands.
// The navigator is a pure state machine over timestamped events so tests
// can drive it with synthetic timelines; the SDL poller adapts real
// hardware onto the same event type.
package input

import (
	"time"

	"github.com/xxxsen/retronav/internal/config"
)

// State is the navigator's current mode.
type State int

const (
	Idle State = iota
	Navigating
	RapidScroll
	SystemSwitch
)

func (s State) String() string {
	switch s {
	case Navigating:
		return "navigating"
	case RapidScroll:
		return "rapid-scroll"
	case SystemSwitch:
		return "system-switch"
	default:
		return "idle"
	}
}

// EventKind distinguishes raw input sources.
type EventKind int

const (
	// AxisVertical is the list axis: one entry per step.
	AxisVertical EventKind = iota
	// AxisHorizontal is the paging axis: rapid-step sized jumps.
	AxisHorizontal
	// ButtonEvent is a press or release of a numbered button.
	ButtonEvent
)

// Event is one timestamped raw input transition.
type Event struct {
	Kind    EventKind
	Value   int // axis direction: -1, 0, +1
	Button  int
	Pressed bool
	At      time.Time
}

// CommandKind is the high-level action produced by the navigator.
type CommandKind int

const (
	CmdMove CommandKind = iota
	CmdSelect
	CmdSystemPrev
	CmdSystemNext
	CmdFavorites
)

// Command is the navigator output applied by the orchestrator.
type Command struct {
	Kind CommandKind
	// Steps is the signed cursor delta for CmdMove.
	Steps int
}

// ButtonMap assigns raw button numbers to actions.
type ButtonMap struct {
	Up         int
	Down       int
	Select     int
	Favorites  int
	PrevSystem int
	NextSystem int
}

// Params carries the navigation timing configuration.
type Params struct {
	// ScrollCooldown is the repeat interval while a direction is held,
	// before rapid scroll engages.
	ScrollCooldown time.Duration
	// RapidHold is how long a direction must be held continuously to enter
	// RapidScroll.
	RapidHold time.Duration
	// RapidDelay is the repeat interval inside RapidScroll.
	RapidDelay time.Duration
	// RapidSteps is the cursor step size for rapid and horizontal movement.
	RapidSteps int
	// Debounce coalesces repeated identical transitions from noisy
	// hardware.
	Debounce time.Duration
	Buttons  ButtonMap
}

// ParamsFromConfig converts the config document's joystick section.
func ParamsFromConfig(jc config.JoystickConfig) Params {
	return Params{
		ScrollCooldown: time.Duration(jc.ScrollCooldownMS) * time.Millisecond,
		RapidHold:      time.Duration(jc.RapidHoldMS) * time.Millisecond,
		RapidDelay:     time.Duration(jc.RapidDelayMS) * time.Millisecond,
		RapidSteps:     jc.RapidSteps,
		Debounce:       time.Duration(jc.DebounceMS) * time.Millisecond,
		Buttons: ButtonMap{
			Up:         jc.ButtonUp,
			Down:       jc.ButtonDown,
			Select:     jc.ButtonSelect,
			Favorites:  jc.ButtonFavorites,
			PrevSystem: jc.ButtonPrevSystem,
			NextSystem: jc.ButtonNextSystem,
		},
	}
}

type axisState struct {
	dir       int
	lastDir   int
	since     time.Time
	lastStep  time.Time
	lastPress time.Time
	rapid     bool

	normStep  int
	rapidStep int
}

// Navigator turns raw events plus poll ticks into commands.
type Navigator struct {
	params Params

	vert axisState
	horz axisState

	lastButtonPress map[int]time.Time
	buttonDown      map[int]bool
}

// NewNavigator builds a navigator with the given timing parameters.
func NewNavigator(params Params) *Navigator {
	if params.RapidSteps <= 0 {
		params.RapidSteps = 1
	}
	return &Navigator{
		params:          params,
		vert:            axisState{normStep: 1, rapidStep: params.RapidSteps},
		horz:            axisState{normStep: params.RapidSteps, rapidStep: params.RapidSteps},
		lastButtonPress: make(map[int]time.Time),
		buttonDown:      make(map[int]bool),
	}
}

// State derives the current machine state. SystemSwitch is transient by
// construction: a switch completes within the event that triggers it and
// the machine settles back to Idle, so it never surfaces here.
func (n *Navigator) State() State {
	if n.vert.rapid || n.horz.rapid {
		return RapidScroll
	}
	if n.vert.dir != 0 || n.horz.dir != 0 {
		return Navigating
	}
	return Idle
}

// HandleEvent consumes one raw transition and returns the commands it
// produced. Repeats while a direction stays held come from Tick.
func (n *Navigator) HandleEvent(ev Event) []Command {
	switch ev.Kind {
	case AxisVertical:
		return n.handleAxis(&n.vert, ev)
	case AxisHorizontal:
		return n.handleAxis(&n.horz, ev)
	case ButtonEvent:
		return n.handleButton(ev)
	}
	return nil
}

func (n *Navigator) handleAxis(st *axisState, ev Event) []Command {
	if ev.Value == st.dir {
		// Identical transition: no state change, nothing to emit.
		return nil
	}
	if ev.Value == 0 {
		st.dir = 0
		st.rapid = false
		return nil
	}
	if ev.Value == st.lastDir && ev.At.Sub(st.lastPress) < n.params.Debounce {
		// Bounce: re-press of the same direction inside the debounce
		// window resumes the hold without a second step.
		st.dir = ev.Value
		return nil
	}
	st.dir = ev.Value
	st.since = ev.At
	st.lastStep = ev.At
	st.lastPress = ev.At
	st.lastDir = ev.Value
	return []Command{{Kind: CmdMove, Steps: ev.Value * st.normStep}}
}

func (n *Navigator) handleButton(ev Event) []Command {
	if !ev.Pressed {
		n.buttonDown[ev.Button] = false
		return nil
	}
	if n.buttonDown[ev.Button] {
		return nil
	}
	n.buttonDown[ev.Button] = true
	if last, ok := n.lastButtonPress[ev.Button]; ok && ev.At.Sub(last) < n.params.Debounce {
		return nil
	}
	n.lastButtonPress[ev.Button] = ev.At

	b := n.params.Buttons
	switch ev.Button {
	case b.Up:
		return []Command{{Kind: CmdMove, Steps: -1}}
	case b.Down:
		return []Command{{Kind: CmdMove, Steps: 1}}
	case b.Select:
		// Transition-free action: the machine state is untouched.
		return []Command{{Kind: CmdSelect}}
	case b.Favorites:
		return []Command{{Kind: CmdFavorites}}
	case b.PrevSystem:
		n.enterSystemSwitch()
		return []Command{{Kind: CmdSystemPrev}}
	case b.NextSystem:
		n.enterSystemSwitch()
		return []Command{{Kind: CmdSystemNext}}
	}
	return nil
}

// enterSystemSwitch drops any held direction; the switch completes within
// the event and the machine settles back to Idle.
func (n *Navigator) enterSystemSwitch() {
	n.vert.dir = 0
	n.vert.rapid = false
	n.horz.dir = 0
	n.horz.rapid = false
}

// Tick advances held directions. Call it on every poll interval; the
// interval bounds input latency and the acceleration curve.
func (n *Navigator) Tick(now time.Time) []Command {
	var cmds []Command
	cmds = append(cmds, n.tickAxis(&n.vert, now)...)
	cmds = append(cmds, n.tickAxis(&n.horz, now)...)
	return cmds
}

func (n *Navigator) tickAxis(st *axisState, now time.Time) []Command {
	if st.dir == 0 {
		return nil
	}
	if !st.rapid && now.Sub(st.since) >= n.params.RapidHold {
		st.rapid = true
	}
	interval := n.params.ScrollCooldown
	step := st.normStep
	if st.rapid {
		interval = n.params.RapidDelay
		step = st.rapidStep
	}
	if now.Sub(st.lastStep) < interval {
		return nil
	}
	st.lastStep = now
	return []Command{{Kind: CmdMove, Steps: st.dir * step}}
}
