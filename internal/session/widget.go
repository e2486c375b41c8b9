package session

// WidgetState is the open/closed state of the chat widget.
type WidgetState string

const (
	WidgetClosed WidgetState = "closed"
	WidgetOpen   WidgetState = "open"
)

// Widget tracks the chat widget's state machine: closed ⇄ open, plus a
// one-shot attention badge that is armed at creation and cleared for
// good the first time the widget opens.
type Widget struct {
	state  WidgetState
	opened bool
}

// NewWidget returns a widget in the closed state with the badge armed.
func NewWidget() Widget {
	return Widget{state: WidgetClosed}
}

// Toggle flips between closed and open and returns the new state.
func (w *Widget) Toggle() WidgetState {
	if w.state == WidgetClosed {
		w.open()
	} else {
		w.state = WidgetClosed
	}
	return w.state
}

// Close moves the widget to closed regardless of current state.
func (w *Widget) Close() {
	w.state = WidgetClosed
}

func (w *Widget) open() {
	w.state = WidgetOpen
	w.opened = true
}

// State returns the current open/closed state.
func (w *Widget) State() WidgetState {
	return w.state
}

// Badge reports whether the attention badge should show. Once the
// widget has been opened the badge never re-arms.
func (w *Widget) Badge() bool {
	return !w.opened
}
