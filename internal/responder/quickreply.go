package responder

// Action tags carried by quick-reply buttons. Any other tag falls
// through to the generic help phrase.
const (
	ActionContact        = "contact"
	ActionSkills         = "skills"
	ActionProjects       = "projects"
	ActionCertifications = "certifications"
	ActionAbout          = "about"
)

// Phrase expands a quick-reply action tag into the canned text that is
// re-submitted as if the user had typed it. Every phrase is chosen so
// the rule table resolves it to the topic the tag names.
func Phrase(action string) string {
	switch action {
	case ActionContact:
		return "How can I contact you?"
	case ActionSkills:
		return "skills and experience"
	case ActionProjects:
		return "Tell me about your projects"
	case ActionCertifications:
		return "What certifications do you have?"
	case ActionAbout:
		return "Tell me about your experience"
	default:
		return "What can you help me with?"
	}
}
