// Package api exposes the assistant over HTTP (the widget's backend)
// and over MCP (for agent clients).
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/siba2623/portfolio-assistant/internal/contact"
	"github.com/siba2623/portfolio-assistant/internal/kb"
	"github.com/siba2623/portfolio-assistant/internal/prefs"
	"github.com/siba2623/portfolio-assistant/internal/render"
	"github.com/siba2623/portfolio-assistant/internal/responder"
	"github.com/siba2623/portfolio-assistant/internal/session"
)

const maxRequestBodySize = 64 << 10 // 64KB; chat inputs are single lines

// Deps holds the handler dependencies.
type Deps struct {
	Sessions  *session.Manager
	Prefs     *prefs.Store
	Forwarder *contact.Forwarder
	KB        *kb.KnowledgeBase
}

// NewHandler returns the HTTP handler for the widget API.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Post("/sessions", handleCreateSession(deps))
	r.Get("/sessions/{id}", handleGetSession(deps))
	r.Get("/sessions/{id}/transcript", handleTranscript(deps))
	r.Post("/sessions/{id}/messages", handlePostMessage(deps))
	r.Post("/sessions/{id}/quick-replies", handleQuickReply(deps))
	r.Post("/sessions/{id}/widget/toggle", handleWidgetToggle(deps))
	r.Post("/sessions/{id}/widget/close", handleWidgetClose(deps))
	r.Get("/prefs/theme", handleGetTheme(deps))
	r.Put("/prefs/theme", handlePutTheme(deps))
	r.Post("/contact", handleContact(deps))
	r.Get("/resume", handleResume(deps))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// widgetDTO is the widget state on the wire.
type widgetDTO struct {
	State string `json:"state"`
	Badge bool   `json:"badge"`
}

// messageDTO is a transcript message on the wire. HTML holds the
// rendered form: markdown-expanded for bot messages, escaped verbatim
// text for user messages.
type messageDTO struct {
	ID           string                 `json:"id"`
	Sender       string                 `json:"sender"`
	Text         string                 `json:"text"`
	HTML         string                 `json:"html"`
	QuickReplies []responder.QuickReply `json:"quick_replies,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

func toMessageDTO(m session.Message) messageDTO {
	dto := messageDTO{
		ID:           m.ID,
		Sender:       string(m.Sender),
		Text:         m.Text,
		QuickReplies: m.QuickReplies,
		CreatedAt:    m.CreatedAt,
	}
	if m.Sender == session.SenderBot {
		rendered, err := render.Markdown(m.Text)
		if err != nil {
			slog.Warn("rendering bot message failed", "id", m.ID, "error", err)
			rendered = html.EscapeString(m.Text)
		}
		dto.HTML = rendered
	} else {
		dto.HTML = html.EscapeString(m.Text)
	}
	return dto
}

func toWidgetDTO(state session.WidgetState, badge bool) widgetDTO {
	return widgetDTO{State: string(state), Badge: badge}
}

func handleCreateSession(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := deps.Sessions.Create()
		state, badge := s.Widget()
		msgs := s.Transcript()

		resp := struct {
			ID       string     `json:"id"`
			Widget   widgetDTO  `json:"widget"`
			Greeting messageDTO `json:"greeting"`
		}{
			ID:       s.ID(),
			Widget:   toWidgetDTO(state, badge),
			Greeting: toMessageDTO(msgs[0]),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(resp)
	}
}

func lookupSession(deps Deps, w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	s, ok := deps.Sessions.Get(id)
	if !ok {
		httpError(w, http.StatusNotFound, "not_found", "unknown session %q", id)
		return nil, false
	}
	return s, true
}

func handleGetSession(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(deps, w, r)
		if !ok {
			return
		}
		state, badge := s.Widget()

		resp := struct {
			ID       string    `json:"id"`
			Widget   widgetDTO `json:"widget"`
			Messages int       `json:"messages"`
		}{ID: s.ID(), Widget: toWidgetDTO(state, badge), Messages: len(s.Transcript())}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func handleTranscript(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(deps, w, r)
		if !ok {
			return
		}

		msgs := s.Transcript()
		dtos := make([]messageDTO, len(msgs))
		for i, m := range msgs {
			dtos[i] = toMessageDTO(m)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(dtos)
	}
}

func handlePostMessage(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(deps, w, r)
		if !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		ex, submitted := s.Submit(req.Text)
		if !submitted {
			// Blank input is a silent no-op.
			w.WriteHeader(http.StatusNoContent)
			return
		}

		writeExchange(w, ex)
	}
}

func handleQuickReply(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(deps, w, r)
		if !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req struct {
			Action string `json:"action"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Action == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "action is required")
			return
		}

		writeExchange(w, s.QuickReply(req.Action))
	}
}

func writeExchange(w http.ResponseWriter, ex session.Exchange) {
	resp := struct {
		User messageDTO `json:"user"`
		Bot  messageDTO `json:"bot"`
	}{User: toMessageDTO(ex.User), Bot: toMessageDTO(ex.Bot)}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func handleWidgetToggle(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(deps, w, r)
		if !ok {
			return
		}
		state, badge := s.ToggleWidget()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(toWidgetDTO(state, badge))
	}
}

func handleWidgetClose(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(deps, w, r)
		if !ok {
			return
		}
		s.CloseWidget()
		state, badge := s.Widget()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(toWidgetDTO(state, badge))
	}
}

func handleGetTheme(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		theme, err := deps.Prefs.Theme()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "reading theme: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"theme": theme})
	}
}

func handlePutTheme(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req struct {
			Theme string `json:"theme"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		theme := strings.ToLower(strings.TrimSpace(req.Theme))
		if err := deps.Prefs.SetTheme(theme); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"theme": theme})
	}
}

func handleContact(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var sub contact.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		id, err := deps.Forwarder.Forward(r.Context(), sub)
		if errors.Is(err, contact.ErrDisabled) {
			httpError(w, http.StatusServiceUnavailable, "api_error", "contact forwarding is not configured")
			return
		}
		if errors.Is(err, contact.ErrInvalid) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		if err != nil {
			slog.Warn("contact forward failed", "error", err)
			httpError(w, http.StatusBadGateway, "api_error", "forwarding submission failed")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"id": id, "status": "forwarded"})
	}
}

func handleResume(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.KB.ResumeText == "" {
			httpError(w, http.StatusNotFound, "not_found", "no resume attached")
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, deps.KB.ResumeText)
	}
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"message": fmt.Sprintf(format, args...),
			"type":    errType,
		},
	})
}
