package models

const (
	TabAnalysis = "analysis"
	TabMatch    = "match"
)

// SessionState holds the form values that survive between reruns of the page
// for one browser session.
type SessionState struct {
	JobDescription string
	DocumentName   string
	Document       []byte
	DocumentInfo   DocumentInfo
	ActiveTab      string
}

func (s *SessionState) HasDocument() bool {
	return s != nil && len(s.Document) > 0
}
