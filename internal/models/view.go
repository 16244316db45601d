package models

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeInfo    NoticeLevel = "info"
)

type Notice struct {
	Level NoticeLevel
	Text  string
}

type ActionResult struct {
	Heading string
	Text    string
}

// PageView is everything the index template needs for one render pass.
type PageView struct {
	Title          string
	ActiveTab      string
	JobDescription string
	DocumentName   string
	DocumentInfo   *DocumentInfo
	Uploaded       *Notice
	AnalysisNotice *Notice
	MatchNotice    *Notice
	AnalysisResult *ActionResult
	MatchResult    *ActionResult
}
