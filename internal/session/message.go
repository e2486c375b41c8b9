package session

import (
	"io"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/siba2623/portfolio-assistant/internal/responder"
)

// Sender identifies which side of the conversation a message belongs to.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one transcript entry. Text is stored exactly as produced:
// verbatim input for user messages, markdown-flavoured text for bot
// messages. The rendering boundary owns markup and escaping.
type Message struct {
	ID           string                 `json:"id"`
	Sender       Sender                 `json:"sender"`
	Text         string                 `json:"text"`
	QuickReplies []responder.QuickReply `json:"quick_replies,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// newMessageID mints a ULID from the session's monotonic entropy so
// message IDs sort in append order.
func newMessageID(now time.Time, entropy io.Reader) string {
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}
