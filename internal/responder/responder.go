// Package responder maps free-text questions to canned answers about
// the portfolio. Matching is an ordered list of keyword rules evaluated
// first-match-wins; the final rule has no keywords, so every input gets
// exactly one reply.
package responder

import (
	"strings"

	"github.com/siba2623/portfolio-assistant/internal/kb"
)

// QuickReply is a suggested follow-up the UI renders as a button. The
// Action tag round-trips through QuickReply on the session.
type QuickReply struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// Reply is one bot answer: markdown-flavoured text (bold, line breaks,
// "- " bullets) plus an ordered list of suggested follow-ups. Markup
// generation beyond that is the rendering boundary's job.
type Reply struct {
	Text         string       `json:"text"`
	QuickReplies []QuickReply `json:"quick_replies"`
}

// rule pairs a keyword predicate with a reply builder. An empty keyword
// list matches unconditionally.
type rule struct {
	name     string
	keywords []string
	build    func(*kb.KnowledgeBase) Reply
}

func (ru rule) matches(text string) bool {
	if len(ru.keywords) == 0 {
		return true
	}
	for _, kw := range ru.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Responder answers questions from a fixed rule table over a read-only
// knowledge base. Safe for concurrent use.
type Responder struct {
	kb    *kb.KnowledgeBase
	rules []rule
}

// New builds a Responder over the given knowledge base. The knowledge
// base must not be mutated afterwards.
func New(base *kb.KnowledgeBase) *Responder {
	return &Responder{kb: base, rules: ruleTable()}
}

// Respond returns the reply for the given input. Matching is
// case-insensitive substring search; rule order decides ties, and the
// unconditional fallback rule guarantees a non-empty reply for any
// input. Respond is a pure function of the input text.
func (r *Responder) Respond(text string) Reply {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, ru := range r.rules {
		if ru.matches(normalized) {
			return ru.build(r.kb)
		}
	}
	// Unreachable: the last rule in the table has no keywords.
	return Reply{}
}

// Greeting returns the reply used to open a fresh transcript. It is the
// same answer the greeting rule produces for "hello".
func (r *Responder) Greeting() Reply {
	return buildGreeting(r.kb)
}
