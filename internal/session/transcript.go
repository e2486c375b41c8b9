package session

// Transcript is the append-only message log for one session. It lives
// in memory only and dies with the session; nothing is persisted.
type Transcript struct {
	messages []Message
}

// Append adds a message to the end of the log.
func (t *Transcript) Append(m Message) {
	t.messages = append(t.messages, m)
}

// Messages returns a copy of the log in append order.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages in the log.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Last returns the most recent message, or false on an empty log.
func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}
