package responder

import (
	"fmt"
	"strings"

	"github.com/siba2623/portfolio-assistant/internal/kb"
)

// ruleTable returns the rules in evaluation order. Order is part of the
// contract: an input matching several rules gets the first one's reply.
func ruleTable() []rule {
	return []rule{
		{name: "contact", keywords: []string{"contact", "email", "reach"}, build: buildContact},
		{name: "phone", keywords: []string{"phone", "call", "number"}, build: buildPhone},
		{name: "skills", keywords: []string{"skill", "technology", "tech stack"}, build: buildSkills},
		{name: "projects", keywords: []string{"project", "work", "portfolio"}, build: buildProjects},
		{name: "certifications", keywords: []string{"certificate", "certification", "credential"}, build: buildCertifications},
		{name: "about", keywords: []string{"experience", "background", "about"}, build: buildAbout},
		{name: "hire", keywords: []string{"hire", "available", "freelance"}, build: buildHire},
		{name: "greeting", keywords: []string{"hello", "hi", "hey"}, build: buildGreeting},
		{name: "fallback", build: buildFallback},
	}
}

func buildContact(k *kb.KnowledgeBase) Reply {
	var b strings.Builder
	b.WriteString("**Get in touch**\n")
	fmt.Fprintf(&b, "- Email: %s\n", k.Contact.Email)
	if k.Contact.Phone != "" {
		fmt.Fprintf(&b, "- Phone: %s\n", k.Contact.Phone)
	}
	if k.Contact.Location != "" {
		fmt.Fprintf(&b, "- Location: %s\n", k.Contact.Location)
	}
	for _, link := range k.Contact.Social {
		fmt.Fprintf(&b, "- %s: %s\n", link.Label, link.URL)
	}
	return Reply{
		Text: strings.TrimRight(b.String(), "\n"),
		QuickReplies: []QuickReply{
			{Label: "Projects", Action: ActionProjects},
			{Label: "Skills", Action: ActionSkills},
		},
	}
}

func buildPhone(k *kb.KnowledgeBase) Reply {
	text := fmt.Sprintf("You can call me at **%s**, or email %s if that suits you better.",
		k.Contact.Phone, k.Contact.Email)
	return Reply{
		Text: text,
		QuickReplies: []QuickReply{
			{Label: "Projects", Action: ActionProjects},
			{Label: "More Info", Action: ActionAbout},
		},
	}
}

func buildSkills(k *kb.KnowledgeBase) Reply {
	var b strings.Builder
	b.WriteString("**Skills**\n")
	for _, s := range k.Skills {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	b.WriteString("\n")
	b.WriteString(k.Experience)
	return Reply{
		Text: b.String(),
		QuickReplies: []QuickReply{
			{Label: "Projects", Action: ActionProjects},
			{Label: "Contact", Action: ActionContact},
		},
	}
}

func buildProjects(k *kb.KnowledgeBase) Reply {
	var b strings.Builder
	b.WriteString("**Projects**\n")
	for _, p := range k.Projects {
		fmt.Fprintf(&b, "- **%s**: %s\n", p.Name, p.Description)
	}
	return Reply{
		Text: strings.TrimRight(b.String(), "\n"),
		QuickReplies: []QuickReply{
			{Label: "Contact", Action: ActionContact},
			{Label: "Skills", Action: ActionSkills},
		},
	}
}

func buildCertifications(k *kb.KnowledgeBase) Reply {
	var b strings.Builder
	b.WriteString("**Certifications**\n")
	for _, c := range k.Certifications {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	return Reply{
		Text: strings.TrimRight(b.String(), "\n"),
		QuickReplies: []QuickReply{
			{Label: "Projects", Action: ActionProjects},
			{Label: "Contact", Action: ActionContact},
		},
	}
}

func buildAbout(k *kb.KnowledgeBase) Reply {
	text := k.Experience + "\n\n" + k.Education
	if k.ResumeText != "" {
		text += "\n\nA full resume is available on request."
	}
	return Reply{
		Text: text,
		QuickReplies: []QuickReply{
			{Label: "Projects", Action: ActionProjects},
			{Label: "Certifications", Action: ActionCertifications},
			{Label: "Contact", Action: ActionContact},
		},
	}
}

func buildHire(k *kb.KnowledgeBase) Reply {
	var b strings.Builder
	fmt.Fprintf(&b, "I'm open to freelance work and full-time roles. %s\n\n", k.Experience)
	fmt.Fprintf(&b, "- Email: %s\n", k.Contact.Email)
	if k.Contact.Phone != "" {
		fmt.Fprintf(&b, "- Phone: %s\n", k.Contact.Phone)
	}
	return Reply{
		Text: strings.TrimRight(b.String(), "\n"),
		QuickReplies: []QuickReply{
			{Label: "Projects", Action: ActionProjects},
			{Label: "Skills", Action: ActionSkills},
		},
	}
}

func buildGreeting(k *kb.KnowledgeBase) Reply {
	text := fmt.Sprintf("Hi there! I'm %s's portfolio assistant. Ask me about skills, projects, or how to get in touch.", k.Owner)
	return Reply{
		Text: text,
		QuickReplies: []QuickReply{
			{Label: "Contact", Action: ActionContact},
			{Label: "Skills", Action: ActionSkills},
			{Label: "Projects", Action: ActionProjects},
		},
	}
}

func buildFallback(k *kb.KnowledgeBase) Reply {
	text := "I can help with a few things:\n" +
		"- **Skills** and tech stack\n" +
		"- **Projects** I've built\n" +
		"- **Certifications**\n" +
		"- **Experience** and background\n" +
		"- How to **contact** me"
	return Reply{
		Text: text,
		QuickReplies: []QuickReply{
			{Label: "Contact", Action: ActionContact},
			{Label: "Certifications", Action: ActionCertifications},
			{Label: "Projects", Action: ActionProjects},
		},
	}
}
