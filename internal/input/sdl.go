package input

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
)

// SDLPoller reads joystick hat and button state through SDL on a fixed
// interval and converts transitions into navigator events.
type SDLPoller struct {
	js *sdl.Joystick

	lastVert    int
	lastHorz    int
	lastButtons []bool
}

// NewSDLPoller initialises the SDL joystick subsystem and opens the
// joystick at index.
func NewSDLPoller(index int) (*SDLPoller, error) {
	if err := sdl.Init(sdl.INIT_JOYSTICK); err != nil {
		return nil, fmt.Errorf("init sdl joystick subsystem: %w", err)
	}
	if n := sdl.NumJoysticks(); index < 0 || index >= n {
		return nil, fmt.Errorf("joystick %d not present (%d attached)", index, n)
	}
	js := sdl.JoystickOpen(index)
	if js == nil {
		return nil, fmt.Errorf("open joystick %d: %w", index, sdl.GetError())
	}
	return &SDLPoller{
		js:          js,
		lastButtons: make([]bool, js.NumButtons()),
	}, nil
}

// Close releases the joystick handle.
func (p *SDLPoller) Close() {
	if p.js != nil {
		p.js.Close()
		p.js = nil
	}
}

// Poll samples the device and returns the transitions since the previous
// poll, stamped with now. Unchanged state produces no events.
func (p *SDLPoller) Poll(now time.Time) []Event {
	if p.js == nil {
		return nil
	}
	sdl.JoystickUpdate()

	var events []Event

	vert, horz := 0, 0
	if p.js.NumHats() > 0 {
		hat := p.js.Hat(0)
		if hat&sdl.HAT_UP != 0 {
			vert = -1
		} else if hat&sdl.HAT_DOWN != 0 {
			vert = 1
		}
		if hat&sdl.HAT_LEFT != 0 {
			horz = -1
		} else if hat&sdl.HAT_RIGHT != 0 {
			horz = 1
		}
	}
	if vert != p.lastVert {
		p.lastVert = vert
		events = append(events, Event{Kind: AxisVertical, Value: vert, At: now})
	}
	if horz != p.lastHorz {
		p.lastHorz = horz
		events = append(events, Event{Kind: AxisHorizontal, Value: horz, At: now})
	}

	for i := range p.lastButtons {
		pressed := p.js.Button(i) != 0
		if pressed == p.lastButtons[i] {
			continue
		}
		p.lastButtons[i] = pressed
		events = append(events, Event{Kind: ButtonEvent, Button: i, Pressed: pressed, At: now})
	}
	return events
}
