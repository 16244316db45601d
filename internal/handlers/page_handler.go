package handlers

import (
	"errors"
	"log"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-resume-expert/internal/models"
	"alfredoptarigan/ats-resume-expert/internal/services"
)

const (
	pageTitle = "ATS Resume Expert"

	uploadedMessage       = "✅ Resume uploaded successfully!"
	uploadWarning         = "⚠️ Please upload a resume."
	uploadFirstTabMessage = "💡 Please upload a resume in the first tab."

	evaluationHeading = "🧠 AI Evaluation"
	matchHeading      = "📊 Match Result"
)

// PageHandler serves the single interactive page. Every POST is one rerun of
// the page: form values are folded into the session state, then the pressed
// action (if any) runs against that state.
type PageHandler struct {
	storage   services.StorageService
	evaluator services.EvaluatorService
}

func NewPageHandler(storage services.StorageService, evaluator services.EvaluatorService) *PageHandler {
	return &PageHandler{
		storage:   storage,
		evaluator: evaluator,
	}
}

// HandleIndex handles GET /
func (h *PageHandler) HandleIndex(c *fiber.Ctx) error {
	state, sess, err := h.storage.Load(c)
	if err != nil {
		return err
	}

	if tab := c.Query("tab"); isTab(tab) && tab != state.ActiveTab {
		state.ActiveTab = tab
		if err := h.storage.Save(sess, state); err != nil {
			return err
		}
	}

	return c.Render("index", newPageView(state))
}

// HandleRerun handles POST /
func (h *PageHandler) HandleRerun(c *fiber.Ctx) error {
	state, sess, err := h.storage.Load(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to parse multipart form")
	}

	if values, ok := form.Value["job_description"]; ok && len(values) > 0 {
		state.JobDescription = values[0]
	}
	if tab := formValue(form, "tab"); isTab(tab) {
		state.ActiveTab = tab
	}

	if files := form.File["resume"]; len(files) > 0 && files[0].Filename != "" {
		if err := h.storage.AttachDocument(state, files[0]); err != nil {
			if errors.Is(err, services.ErrUnsupportedFile) || errors.Is(err, services.ErrNoDocument) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return err
		}
	}

	var action models.Action
	if value := formValue(form, "action"); value != "" {
		parsed, ok := models.ParseAction(value)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "unknown action: "+value)
		}
		action = parsed
		state.ActiveTab = action.Tab()
	}

	// Form values survive the rerun even when the action below fails.
	if err := h.storage.Save(sess, state); err != nil {
		return err
	}

	view := newPageView(state)
	if action != 0 {
		if err := h.runAction(c, state, action, &view); err != nil {
			return err
		}
	}

	return c.Render("index", view)
}

// HandleReset handles POST /reset
func (h *PageHandler) HandleReset(c *fiber.Ctx) error {
	if err := h.storage.Reset(c); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *PageHandler) runAction(c *fiber.Ctx, state *models.SessionState, action models.Action, view *models.PageView) error {
	if !state.HasDocument() {
		log.Printf("⚠️  [%v] %s requested without a resume\n", c.Locals("requestid"), action)
		if action == models.ActionEvaluate {
			view.AnalysisNotice = &models.Notice{Level: models.NoticeWarning, Text: uploadWarning}
		} else {
			view.MatchNotice = &models.Notice{Level: models.NoticeInfo, Text: uploadFirstTabMessage}
		}
		return nil
	}

	log.Printf("🔍 [%v] %s requested for %s\n", c.Locals("requestid"), action, state.DocumentName)
	response, err := h.evaluator.Evaluate(c.UserContext(), action, state.JobDescription, state.Document)
	if err != nil {
		return err
	}

	if action == models.ActionEvaluate {
		view.AnalysisResult = &models.ActionResult{Heading: evaluationHeading, Text: response}
	} else {
		view.MatchResult = &models.ActionResult{Heading: matchHeading, Text: response}
	}
	return nil
}

func newPageView(state *models.SessionState) models.PageView {
	view := models.PageView{
		Title:          pageTitle,
		ActiveTab:      state.ActiveTab,
		JobDescription: state.JobDescription,
		DocumentName:   state.DocumentName,
	}

	if state.HasDocument() {
		info := state.DocumentInfo
		view.DocumentInfo = &info
		view.Uploaded = &models.Notice{Level: models.NoticeSuccess, Text: uploadedMessage}
	} else {
		view.MatchNotice = &models.Notice{Level: models.NoticeInfo, Text: uploadFirstTabMessage}
	}

	return view
}

func isTab(tab string) bool {
	return tab == models.TabAnalysis || tab == models.TabMatch
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}
