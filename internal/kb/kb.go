// Package kb holds the static knowledge base backing the portfolio
// assistant. The data is compiled in, optionally overridden from config
// at startup, and read-only afterwards: every answer the responder
// produces is a pure projection of this structure.
package kb

import "fmt"

// Link is a labelled URL, used for social profiles.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Contact groups the ways to reach the portfolio owner.
type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Social   []Link `json:"social,omitempty"`
}

// Project describes a single portfolio entry. Order in the slice is
// presentation order.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`
}

// KnowledgeBase is the full data set the responder draws from.
// Construct it once (Default plus any config overrides), validate it,
// then treat it as immutable.
type KnowledgeBase struct {
	Owner          string    `json:"owner"`
	Contact        Contact   `json:"contact"`
	Skills         []string  `json:"skills"`
	Projects       []Project `json:"projects"`
	Certifications []string  `json:"certifications"`
	Experience     string    `json:"experience"`
	Education      string    `json:"education"`

	// ResumeText is plain text extracted from an attached resume PDF.
	// Empty when no resume is configured.
	ResumeText string `json:"resume_text,omitempty"`
}

// Default returns the compiled-in knowledge base.
func Default() *KnowledgeBase {
	return &KnowledgeBase{
		Owner: "Sibasish Behera",
		Contact: Contact{
			Email:    "sibasish.dev@gmail.com",
			Phone:    "+91 98765 43210",
			Location: "Bhubaneswar, India",
			Social: []Link{
				{Label: "GitHub", URL: "https://github.com/siba2623"},
				{Label: "LinkedIn", URL: "https://www.linkedin.com/in/siba2623"},
			},
		},
		Skills: []string{
			"Go",
			"JavaScript",
			"React",
			"Node.js",
			"Python",
			"SQL",
			"HTML & CSS",
			"Git",
		},
		Projects: []Project{
			{
				Name:        "Portfolio Assistant",
				Description: "A scripted chat assistant that answers questions about my work, built as a small Go service.",
				Link:        "https://github.com/siba2623/portfolio-assistant",
			},
			{
				Name:        "Expense Tracker",
				Description: "A full-stack expense tracking app with charts and category budgets, React on the front and Node.js on the back.",
			},
			{
				Name:        "Weather Dashboard",
				Description: "A responsive weather dashboard pulling live forecasts with hourly and weekly views.",
			},
			{
				Name:        "Task Manager API",
				Description: "A REST API for task management with auth, labels and due-date reminders.",
			},
		},
		Certifications: []string{
			"Meta Front-End Developer Professional Certificate",
			"freeCodeCamp Responsive Web Design",
			"HackerRank Problem Solving (Intermediate)",
		},
		Experience: "I have 3+ years of experience building web applications, from responsive front-ends to Go and Node.js services.",
		Education:  "B.Tech in Computer Science and Engineering.",
	}
}

// Validate checks the invariants the responder relies on. A knowledge
// base that fails validation must not be served.
func (k *KnowledgeBase) Validate() error {
	if k.Owner == "" {
		return fmt.Errorf("knowledge base: owner is required")
	}
	if k.Contact.Email == "" {
		return fmt.Errorf("knowledge base: contact email is required")
	}
	if len(k.Skills) == 0 {
		return fmt.Errorf("knowledge base: at least one skill is required")
	}
	if len(k.Projects) == 0 {
		return fmt.Errorf("knowledge base: at least one project is required")
	}
	for i, p := range k.Projects {
		if p.Name == "" || p.Description == "" {
			return fmt.Errorf("knowledge base: project %d is missing a name or description", i)
		}
	}
	return nil
}
