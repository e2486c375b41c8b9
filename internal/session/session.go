// Package session owns the per-visitor chat state: the append-only
// transcript, the widget state machine, and the submit path that turns
// user input into responder replies. Sessions live in memory and are
// swept by the Manager when idle.
package session

import (
	"crypto/rand"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/siba2623/portfolio-assistant/internal/responder"
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// Sleeper abstracts the simulated typing delay so tests run instantly.
type Sleeper interface {
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type realSleeper struct{}

func (realSleeper) Sleep(d time.Duration) { time.Sleep(d) }

// Exchange is the user/bot message pair one successful Submit appends.
type Exchange struct {
	User Message
	Bot  Message
}

// Session is one visitor's conversation. All methods are safe for
// concurrent use; the mutex is held across a full exchange so the
// user/bot pair stays adjacent in the transcript.
type Session struct {
	id        string
	responder *responder.Responder

	clock       Clock
	sleeper     Sleeper
	typingDelay time.Duration

	mu         sync.Mutex
	transcript Transcript
	widget     Widget
	entropy    io.Reader
	lastActive time.Time
}

func newSession(id string, r *responder.Responder, clock Clock, sleeper Sleeper, typingDelay time.Duration) *Session {
	s := &Session{
		id:          id,
		responder:   r,
		clock:       clock,
		sleeper:     sleeper,
		typingDelay: typingDelay,
		widget:      NewWidget(),
		entropy:     ulid.Monotonic(rand.Reader, 0),
	}
	s.lastActive = clock.Now()

	// Seed the transcript with the greeting so a fresh widget has
	// something to show.
	greeting := r.Greeting()
	s.transcript.Append(Message{
		ID:           newMessageID(s.lastActive, s.entropy),
		Sender:       SenderBot,
		Text:         greeting.Text,
		QuickReplies: greeting.QuickReplies,
		CreatedAt:    s.lastActive,
	})
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Submit appends the raw input as a user message, waits the simulated
// typing delay, then appends exactly one bot reply. Blank input (after
// trimming) is a no-op and returns ok=false with the transcript
// untouched. The delay is unconditional and not cancellable.
func (s *Session) Submit(raw string) (Exchange, bool) {
	if strings.TrimSpace(raw) == "" {
		return Exchange{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.lastActive = now

	user := Message{
		ID:        newMessageID(now, s.entropy),
		Sender:    SenderUser,
		Text:      raw,
		CreatedAt: now,
	}
	s.transcript.Append(user)

	s.sleeper.Sleep(s.typingDelay)

	reply := s.responder.Respond(raw)
	now = s.clock.Now()
	bot := Message{
		ID:           newMessageID(now, s.entropy),
		Sender:       SenderBot,
		Text:         reply.Text,
		QuickReplies: reply.QuickReplies,
		CreatedAt:    now,
	}
	s.transcript.Append(bot)

	return Exchange{User: user, Bot: bot}, true
}

// QuickReply expands the action tag into its canned phrase and pushes
// it through the normal submit path, typing delay included. A synthetic
// quick-reply click also opens the widget if it was closed.
func (s *Session) QuickReply(action string) Exchange {
	s.mu.Lock()
	if s.widget.State() == WidgetClosed {
		s.widget.Toggle()
	}
	s.mu.Unlock()

	// Phrases are never blank, so the submit cannot no-op.
	ex, _ := s.Submit(responder.Phrase(action))
	return ex
}

// Transcript returns a copy of the message log in append order.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Messages()
}

// ToggleWidget flips the widget state and returns the new state plus
// whether the attention badge is still armed.
func (s *Session) ToggleWidget() (WidgetState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.clock.Now()
	state := s.widget.Toggle()
	return state, s.widget.Badge()
}

// CloseWidget forces the widget closed.
func (s *Session) CloseWidget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.widget.Close()
}

// Widget returns the current widget state and badge flag.
func (s *Session) Widget() (WidgetState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.widget.State(), s.widget.Badge()
}

// LastActive returns the time of the most recent visitor activity.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
