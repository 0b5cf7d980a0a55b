// Package tui provides a full-screen terminal driver for a board.
package tui

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	// EventInterrupt wakes PollEvent without user input, used for shutdown.
	EventInterrupt
)

// Key represents a keyboard key.
type Key int

// Key constants for the keys the editor understands.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyCtrlC
	KeyCtrlQ
	KeyCtrlZ
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune

	// Resize event fields
	Width, Height int
}

// KeyEvent returns a key event for a special key.
func KeyEvent(k Key) Event {
	return Event{Type: EventKey, Key: k}
}

// RuneEvent returns a key event for a printable character.
func RuneEvent(r rune) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: r}
}

// Cell is one screen position.
type Cell struct {
	Rune    rune
	Reverse bool
	Bold    bool
}

// Backend defines the interface for terminal/display backends.
type Backend interface {
	// Init initializes the backend for use.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetCell sets a single cell. Positions outside the terminal are ignored.
	SetCell(x, y int, cell Cell)

	// Clear clears the entire screen.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	// PollEvent waits for and returns the next terminal event.
	PollEvent() Event

	// Interrupt makes a pending or future PollEvent return an
	// EventInterrupt. It is safe to call from any goroutine.
	Interrupt()
}

// NullBackend is an in-memory backend for testing.
type NullBackend struct {
	width, height int
	cells         [][]Cell
	shows         int
	events        chan Event
	interrupts    chan struct{}
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:      width,
		height:     height,
		events:     make(chan Event, 100),
		interrupts: make(chan struct{}, 1),
	}
}

func (b *NullBackend) Init() error {
	b.cells = make([][]Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]Cell, b.width)
	}
	b.Clear()
	return nil
}

func (b *NullBackend) Shutdown() {}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell Cell) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

// GetCell returns the cell at the given position for testing.
func (b *NullBackend) GetCell(x, y int) Cell {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return Cell{Rune: ' '}
}

// Line returns row y as text for testing.
func (b *NullBackend) Line(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	runes := make([]rune, b.width)
	for x, c := range b.cells[y] {
		runes[x] = c.Rune
	}
	return string(runes)
}

func (b *NullBackend) Clear() {
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = Cell{Rune: ' '}
		}
	}
}

func (b *NullBackend) Show() {
	b.shows++
}

// Shows returns how many times Show was called.
func (b *NullBackend) Shows() int {
	return b.shows
}

// PollEvent returns the next event. A pending interrupt is returned before
// queued key events.
func (b *NullBackend) PollEvent() Event {
	select {
	case <-b.interrupts:
		return Event{Type: EventInterrupt}
	default:
	}

	select {
	case <-b.interrupts:
		return Event{Type: EventInterrupt}
	case ev := <-b.events:
		return ev
	}
}

// Interrupt queues an interrupt. Interrupts never wait on or share the
// event queue; repeated calls before a PollEvent collapse into one.
func (b *NullBackend) Interrupt() {
	select {
	case b.interrupts <- struct{}{}:
	default:
	}
}

// PostEvent queues a synthetic event for testing. Interrupt events go
// through Interrupt; other events are dropped once 100 are queued.
func (b *NullBackend) PostEvent(event Event) {
	if event.Type == EventInterrupt {
		b.Interrupt()
		return
	}
	select {
	case b.events <- event:
	default:
	}
}
