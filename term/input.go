package term

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/skyisle"
)

// Terminals report key presses and autorepeats but never releases, so a key
// counts as held until HoldFor has passed since its last event.
const DefaultHoldFor = 250 * time.Millisecond

// Camera keys nudge the orbit by these many virtual mouse pixels per event.
const (
	turnStep  = 40
	pitchStep = 20
	// cellPixels converts mouse drags in cells into pixel-like deltas.
	cellPixels = 8
)

// InputSource turns tcell events into input frames.
type InputSource struct {
	events  <-chan tcell.Event
	HoldFor time.Duration
	now     func() time.Time

	lastSeen map[int]time.Time
	dx, dy   float64
	scroll   float64
	closing  bool

	dragging     bool
	lastX, lastY int
}

func NewInputSource(events <-chan tcell.Event) *InputSource {
	return &InputSource{
		events:   events,
		HoldFor:  DefaultHoldFor,
		now:      time.Now,
		lastSeen: make(map[int]time.Time),
	}
}

func (s *InputSource) Poll(frame *skyisle.InputFrame) {
drain:
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				s.closing = true
				break drain
			}
			s.handle(ev)
		default:
			break drain
		}
	}

	now := s.now()
	for key, at := range s.lastSeen {
		if now.Sub(at) < s.HoldFor {
			frame.Held[key] = true
		} else {
			delete(s.lastSeen, key)
		}
	}
	frame.MouseDeltaX += s.dx
	frame.MouseDeltaY += s.dy
	frame.ScrollDelta += s.scroll
	frame.CloseRequested = frame.CloseRequested || s.closing
	s.dx, s.dy, s.scroll = 0, 0, 0
}

func (s *InputSource) press(keys ...int) {
	now := s.now()
	for _, k := range keys {
		s.lastSeen[k] = now
	}
}

func (s *InputSource) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		s.handleKey(ev)
	case *tcell.EventMouse:
		s.handleMouse(ev)
	}
}

func (s *InputSource) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		s.closing = true
	case tcell.KeyEscape:
		s.press(skyisle.KeyEscape)
	case tcell.KeyTab:
		s.press(skyisle.KeyTab)
	case tcell.KeyUp:
		s.press(skyisle.KeyUp)
	case tcell.KeyDown:
		s.press(skyisle.KeyDown)
	case tcell.KeyLeft:
		s.press(skyisle.KeyLeft)
	case tcell.KeyRight:
		s.press(skyisle.KeyRight)
	case tcell.KeyRune:
		s.handleRune(ev.Rune())
	}
}

func (s *InputSource) handleRune(r rune) {
	switch r {
	case 'w', 'a', 's', 'd':
		s.press(runeKey(r))
	case 'W', 'A', 'S', 'D':
		// shifted letters are the only way a terminal reports Shift
		s.press(runeKey(r+('a'-'A')), skyisle.KeyShift)
	case ' ':
		s.press(skyisle.KeySpace)
	case 'p', 'P':
		s.press(skyisle.KeyP)
	case 'q':
		s.press(skyisle.MouseButtonRight)
		s.dx -= turnStep
	case 'e':
		s.press(skyisle.MouseButtonRight)
		s.dx += turnStep
	case 'r':
		s.press(skyisle.MouseButtonRight)
		s.dy += pitchStep
	case 'f':
		s.press(skyisle.MouseButtonRight)
		s.dy -= pitchStep
	case '+', '=':
		s.scroll++
	case '-':
		s.scroll--
	}
}

func runeKey(r rune) int {
	return skyisle.KeyA + int(r-'a')
}

func (s *InputSource) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	if buttons&tcell.WheelUp != 0 {
		s.scroll++
	}
	if buttons&tcell.WheelDown != 0 {
		s.scroll--
	}

	x, y := ev.Position()
	if buttons&tcell.Button2 == 0 {
		s.dragging = false
		return
	}
	s.press(skyisle.MouseButtonRight)
	if s.dragging {
		s.dx += float64(x-s.lastX) * cellPixels
		s.dy += float64(y-s.lastY) * cellPixels * cellAspect
	}
	s.dragging = true
	s.lastX, s.lastY = x, y
}
