package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/siba2623/portfolio-assistant/internal/contact"
	"github.com/siba2623/portfolio-assistant/internal/kb"
	"github.com/siba2623/portfolio-assistant/internal/prefs"
	"github.com/siba2623/portfolio-assistant/internal/responder"
	"github.com/siba2623/portfolio-assistant/internal/session"
)

type instantSleeper struct{}

func (instantSleeper) Sleep(time.Duration) {}

func newTestHandler(t *testing.T, formEndpoint string) http.Handler {
	t.Helper()

	base := kb.Default()
	store, err := prefs.Open(":memory:")
	if err != nil {
		t.Fatalf("opening prefs store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	r := responder.New(base)
	return NewHandler(Deps{
		Sessions:  session.NewManager(r, session.WithSleeper(instantSleeper{})),
		Prefs:     store,
		Forwarder: contact.NewForwarder(formEndpoint, nil),
		KB:        base,
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doJSON(t, h, "POST", "/sessions", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /sessions = %d, want 201", rec.Code)
	}
	var resp struct {
		ID     string `json:"id"`
		Widget struct {
			State string `json:"state"`
			Badge bool   `json:"badge"`
		} `json:"widget"`
		Greeting struct {
			Sender string `json:"sender"`
			HTML   string `json:"html"`
		} `json:"greeting"`
	}
	decode(t, rec, &resp)
	if resp.ID == "" {
		t.Fatal("session created without an ID")
	}
	if resp.Widget.State != "closed" || !resp.Widget.Badge {
		t.Errorf("new session widget = %+v, want closed with badge", resp.Widget)
	}
	if resp.Greeting.Sender != "bot" || resp.Greeting.HTML == "" {
		t.Errorf("greeting = %+v, want rendered bot message", resp.Greeting)
	}
	return resp.ID
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, "")
	rec := doJSON(t, h, "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /health = %d, want 200", rec.Code)
	}
}

func TestChatFlow(t *testing.T) {
	h := newTestHandler(t, "")
	id := createSession(t, h)

	rec := doJSON(t, h, "POST", "/sessions/"+id+"/messages", map[string]string{"text": "show me your projects"})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST message = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		User struct {
			Sender string `json:"sender"`
			Text   string `json:"text"`
			HTML   string `json:"html"`
		} `json:"user"`
		Bot struct {
			Sender       string `json:"sender"`
			HTML         string `json:"html"`
			QuickReplies []struct {
				Label  string `json:"label"`
				Action string `json:"action"`
			} `json:"quick_replies"`
		} `json:"bot"`
	}
	decode(t, rec, &resp)

	if resp.User.Sender != "user" || resp.User.Text != "show me your projects" {
		t.Errorf("user message = %+v, want verbatim echo", resp.User)
	}
	if !strings.Contains(resp.Bot.HTML, "<strong>") {
		t.Errorf("bot HTML %q lacks rendered markup", resp.Bot.HTML)
	}
	if len(resp.Bot.QuickReplies) == 0 {
		t.Error("bot reply has no quick replies")
	}

	// The transcript now holds greeting + user + bot.
	rec = doJSON(t, h, "GET", "/sessions/"+id+"/transcript", nil)
	var msgs []json.RawMessage
	decode(t, rec, &msgs)
	if len(msgs) != 3 {
		t.Errorf("transcript length = %d, want 3", len(msgs))
	}
}

func TestUserMessageHTMLEscaped(t *testing.T) {
	h := newTestHandler(t, "")
	id := createSession(t, h)

	rec := doJSON(t, h, "POST", "/sessions/"+id+"/messages", map[string]string{"text": "<img onerror=x>"})
	var resp struct {
		User struct {
			HTML string `json:"html"`
		} `json:"user"`
	}
	decode(t, rec, &resp)
	if strings.Contains(resp.User.HTML, "<img") {
		t.Errorf("user HTML %q is not escaped", resp.User.HTML)
	}
}

func TestBlankMessageIsNoContent(t *testing.T) {
	h := newTestHandler(t, "")
	id := createSession(t, h)

	for _, text := range []string{"", "   "} {
		rec := doJSON(t, h, "POST", "/sessions/"+id+"/messages", map[string]string{"text": text})
		if rec.Code != http.StatusNoContent {
			t.Errorf("blank message = %d, want 204", rec.Code)
		}
	}

	rec := doJSON(t, h, "GET", "/sessions/"+id+"/transcript", nil)
	var msgs []json.RawMessage
	decode(t, rec, &msgs)
	if len(msgs) != 1 {
		t.Errorf("transcript length = %d after blank submits, want 1", len(msgs))
	}
}

func TestQuickReply(t *testing.T) {
	h := newTestHandler(t, "")
	id := createSession(t, h)

	rec := doJSON(t, h, "POST", "/sessions/"+id+"/quick-replies", map[string]string{"action": "skills"})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST quick-reply = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		User struct {
			Text string `json:"text"`
		} `json:"user"`
		Bot struct {
			HTML string `json:"html"`
		} `json:"bot"`
	}
	decode(t, rec, &resp)
	if resp.User.Text != responder.Phrase(responder.ActionSkills) {
		t.Errorf("re-injected text = %q, want the canned skills phrase", resp.User.Text)
	}
	if !strings.Contains(resp.Bot.HTML, "Skills") {
		t.Errorf("bot HTML %q is not the skills reply", resp.Bot.HTML)
	}

	rec = doJSON(t, h, "POST", "/sessions/"+id+"/quick-replies", map[string]string{"action": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty action = %d, want 400", rec.Code)
	}
}

func TestUnknownSession(t *testing.T) {
	h := newTestHandler(t, "")
	rec := doJSON(t, h, "POST", "/sessions/nope/messages", map[string]string{"text": "hi"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown session = %d, want 404", rec.Code)
	}
}

func TestWidgetToggleAndBadge(t *testing.T) {
	h := newTestHandler(t, "")
	id := createSession(t, h)

	var widget struct {
		State string `json:"state"`
		Badge bool   `json:"badge"`
	}

	rec := doJSON(t, h, "POST", "/sessions/"+id+"/widget/toggle", nil)
	decode(t, rec, &widget)
	if widget.State != "open" || widget.Badge {
		t.Errorf("first toggle = %+v, want open with badge cleared", widget)
	}

	rec = doJSON(t, h, "POST", "/sessions/"+id+"/widget/close", nil)
	decode(t, rec, &widget)
	if widget.State != "closed" {
		t.Errorf("close = %+v, want closed", widget)
	}

	// Badge must not re-arm on the second open.
	rec = doJSON(t, h, "POST", "/sessions/"+id+"/widget/toggle", nil)
	decode(t, rec, &widget)
	if widget.State != "open" || widget.Badge {
		t.Errorf("second toggle = %+v, want open without badge", widget)
	}
}

func TestThemeRoundTrip(t *testing.T) {
	h := newTestHandler(t, "")

	var resp map[string]string
	rec := doJSON(t, h, "GET", "/prefs/theme", nil)
	decode(t, rec, &resp)
	if resp["theme"] != "light" {
		t.Errorf("default theme = %q, want light", resp["theme"])
	}

	rec = doJSON(t, h, "PUT", "/prefs/theme", map[string]string{"theme": "dark"})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT theme = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, "GET", "/prefs/theme", nil)
	decode(t, rec, &resp)
	if resp["theme"] != "dark" {
		t.Errorf("theme after update = %q, want dark", resp["theme"])
	}

	rec = doJSON(t, h, "PUT", "/prefs/theme", map[string]string{"theme": "neon"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid theme = %d, want 400", rec.Code)
	}
}

func TestContactForwarding(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	h := newTestHandler(t, upstream.URL)

	rec := doJSON(t, h, "POST", "/contact", map[string]string{
		"name": "Ada", "email": "ada@example.com", "message": "hello",
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("POST /contact = %d, want 202: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	decode(t, rec, &resp)
	if resp["id"] == "" || resp["status"] != "forwarded" {
		t.Errorf("contact response = %v, want id and forwarded status", resp)
	}

	rec = doJSON(t, h, "POST", "/contact", map[string]string{
		"name": "Ada", "email": "nope", "message": "hello",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid email = %d, want 400", rec.Code)
	}
}

func TestContactDisabled(t *testing.T) {
	h := newTestHandler(t, "")
	rec := doJSON(t, h, "POST", "/contact", map[string]string{
		"name": "Ada", "email": "ada@example.com", "message": "hello",
	})
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("contact with no endpoint = %d, want 503", rec.Code)
	}
}

func TestResume(t *testing.T) {
	base := kb.Default()
	base.ResumeText = "Sibasish Behera\nSoftware Engineer"
	store, err := prefs.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	h := NewHandler(Deps{
		Sessions:  session.NewManager(responder.New(base), session.WithSleeper(instantSleeper{})),
		Prefs:     store,
		Forwarder: contact.NewForwarder("", nil),
		KB:        base,
	})

	rec := doJSON(t, h, "GET", "/resume", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /resume = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Software Engineer") {
		t.Errorf("resume body = %q, want the attached text", rec.Body.String())
	}

	// Without a resume the route 404s.
	h = newTestHandler(t, "")
	rec = doJSON(t, h, "GET", "/resume", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /resume without attachment = %d, want 404", rec.Code)
	}
}
