package session

import (
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/siba2623/portfolio-assistant/internal/kb"
	"github.com/siba2623/portfolio-assistant/internal/responder"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// recordingSleeper records requested delays instead of sleeping.
type recordingSleeper struct {
	slept []time.Duration
}

func (s *recordingSleeper) Sleep(d time.Duration) { s.slept = append(s.slept, d) }

func newTestManager(t *testing.T) (*Manager, *fakeClock, *recordingSleeper) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)}
	sleeper := &recordingSleeper{}
	r := responder.New(kb.Default())
	m := NewManager(r,
		WithClock(clock),
		WithSleeper(sleeper),
		WithTypingDelay(100*time.Millisecond),
		WithTTL(30*time.Minute),
	)
	return m, clock, sleeper
}

func TestCreateSeedsGreeting(t *testing.T) {
	m, _, _ := newTestManager(t)
	s := m.Create()

	msgs := s.Transcript()
	if len(msgs) != 1 {
		t.Fatalf("new session transcript has %d messages, want 1", len(msgs))
	}
	if msgs[0].Sender != SenderBot {
		t.Errorf("greeting sender = %q, want bot", msgs[0].Sender)
	}
	if len(msgs[0].QuickReplies) == 0 {
		t.Error("greeting has no quick replies")
	}

	state, badge := s.Widget()
	if state != WidgetClosed {
		t.Errorf("new session widget state = %q, want closed", state)
	}
	if !badge {
		t.Error("new session badge not armed")
	}
}

func TestSubmitAppendsPair(t *testing.T) {
	m, _, sleeper := newTestManager(t)
	s := m.Create()

	ex, ok := s.Submit("show me your projects")
	if !ok {
		t.Fatal("Submit returned ok=false for non-empty input")
	}
	if ex.User.Sender != SenderUser || ex.User.Text != "show me your projects" {
		t.Errorf("user message = %+v, want verbatim input", ex.User)
	}
	if ex.Bot.Sender != SenderBot || ex.Bot.Text == "" {
		t.Errorf("bot message = %+v, want non-empty bot reply", ex.Bot)
	}

	msgs := s.Transcript()
	if len(msgs) != 3 { // greeting + user + bot
		t.Fatalf("transcript has %d messages, want 3", len(msgs))
	}
	if msgs[1].Sender != SenderUser || msgs[2].Sender != SenderBot {
		t.Error("user/bot pair is not adjacent in the transcript")
	}

	if !reflect.DeepEqual(sleeper.slept, []time.Duration{100 * time.Millisecond}) {
		t.Errorf("typing delay slept = %v, want one 100ms sleep", sleeper.slept)
	}
}

func TestSubmitBlankIsNoOp(t *testing.T) {
	m, _, sleeper := newTestManager(t)
	s := m.Create()

	for _, in := range []string{"", "   ", "\t\n"} {
		if _, ok := s.Submit(in); ok {
			t.Errorf("Submit(%q) ok = true, want no-op", in)
		}
	}

	if got := len(s.Transcript()); got != 1 {
		t.Errorf("transcript length = %d after blank submits, want 1", got)
	}
	if len(sleeper.slept) != 0 {
		t.Error("blank submit triggered the typing delay")
	}
}

func TestQuickReplyRoundTrip(t *testing.T) {
	m, _, _ := newTestManager(t)

	viaQuick := m.Create()
	ex := viaQuick.QuickReply(responder.ActionSkills)

	viaText := m.Create()
	direct, _ := viaText.Submit("skills and experience")

	if ex.Bot.Text != direct.Bot.Text {
		t.Errorf("quick-reply bot text %q != direct submit bot text %q", ex.Bot.Text, direct.Bot.Text)
	}
	if !reflect.DeepEqual(ex.Bot.QuickReplies, direct.Bot.QuickReplies) {
		t.Error("quick-reply and direct submit produced different follow-ups")
	}

	// The canned phrase lands in the transcript as a user message.
	msgs := viaQuick.Transcript()
	if msgs[1].Text != responder.Phrase(responder.ActionSkills) {
		t.Errorf("re-injected phrase = %q, want %q", msgs[1].Text, responder.Phrase(responder.ActionSkills))
	}

	// A synthetic quick-reply click opens a closed widget.
	state, _ := viaQuick.Widget()
	if state != WidgetOpen {
		t.Errorf("widget state after quick reply = %q, want open", state)
	}
}

func TestBadgeSuppressedAfterFirstOpen(t *testing.T) {
	m, _, _ := newTestManager(t)
	s := m.Create()

	state, badge := s.ToggleWidget()
	if state != WidgetOpen {
		t.Fatalf("first toggle state = %q, want open", state)
	}
	if badge {
		t.Error("badge still armed after first open")
	}

	// closed → open again: badge must not re-arm.
	s.ToggleWidget()
	state, badge = s.ToggleWidget()
	if state != WidgetOpen || badge {
		t.Errorf("second open: state=%q badge=%v, want open with badge cleared", state, badge)
	}
}

func TestCloseWidget(t *testing.T) {
	m, _, _ := newTestManager(t)
	s := m.Create()

	s.ToggleWidget()
	s.CloseWidget()
	if state, _ := s.Widget(); state != WidgetClosed {
		t.Errorf("state after CloseWidget = %q, want closed", state)
	}

	// Closing a closed widget stays closed.
	s.CloseWidget()
	if state, _ := s.Widget(); state != WidgetClosed {
		t.Error("closed widget did not stay closed")
	}
}

func TestMessageIDsSortInAppendOrder(t *testing.T) {
	m, _, _ := newTestManager(t)
	s := m.Create()

	s.Submit("hello")
	s.Submit("projects")
	s.Submit("contact")

	msgs := s.Transcript()
	ids := make([]string, len(msgs))
	for i, msg := range msgs {
		ids[i] = msg.ID
	}
	if !sort.StringsAreSorted(ids) {
		t.Errorf("message IDs are not sorted in append order: %v", ids)
	}
}

func TestManagerGetAndSweep(t *testing.T) {
	m, clock, _ := newTestManager(t)

	idle := m.Create()
	clock.Advance(31 * time.Minute)
	active := m.Create()

	if _, ok := m.Get(idle.ID()); !ok {
		t.Fatal("Get did not find a live session")
	}
	if _, ok := m.Get("nope"); ok {
		t.Error("Get found a session that does not exist")
	}

	if removed := m.Sweep(); removed != 1 {
		t.Errorf("Sweep removed %d sessions, want 1", removed)
	}
	if _, ok := m.Get(idle.ID()); ok {
		t.Error("idle session survived the sweep")
	}
	if _, ok := m.Get(active.ID()); !ok {
		t.Error("active session was swept")
	}
}

func TestSubmitTouchesLastActive(t *testing.T) {
	m, clock, _ := newTestManager(t)
	s := m.Create()

	clock.Advance(29 * time.Minute)
	s.Submit("still here")
	clock.Advance(2 * time.Minute)

	if removed := m.Sweep(); removed != 0 {
		t.Errorf("Sweep removed %d sessions, want 0 — activity should reset the TTL", removed)
	}
}
