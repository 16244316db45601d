package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/ats-resume-expert/internal/config"
	"alfredoptarigan/ats-resume-expert/internal/models"
	"alfredoptarigan/ats-resume-expert/internal/services"
	"alfredoptarigan/ats-resume-expert/internal/testutil"
)

type mockEvaluator struct {
	mock.Mock
}

func (m *mockEvaluator) Evaluate(ctx context.Context, action models.Action, jobDescription string, document []byte) (string, error) {
	args := m.Called(ctx, action, jobDescription, document)
	return args.String(0), args.Error(1)
}

type uploadFile struct {
	name    string
	content []byte
}

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{BodyLimit: 10 << 20, Env: "development"},
		Session: config.SessionConfig{CookieName: "ats_session", Expiration: time.Hour},
	}
}

func newTestApp(evaluator services.EvaluatorService) *fiber.App {
	return newTestAppWithConfig(testConfig(), evaluator)
}

func newTestAppWithConfig(cfg *config.Config, evaluator services.EvaluatorService) *fiber.App {
	storage := services.NewStorageService(services.NewSessionStore(cfg.Session), services.NewPDFParserService())
	return NewApp(cfg, NewPageHandler(storage, evaluator))
}

func newFormRequest(t *testing.T, fields map[string]string, file *uploadFile, cookies []*http.Cookie) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile("resume", file.name)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(body)
}

func TestHandleIndex_RendersEmptyPage(t *testing.T) {
	app := newTestApp(new(mockEvaluator))

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "ATS Resume Expert")
	assert.Contains(t, body, "Step 1: Paste Job Description")
	assert.NotContains(t, body, uploadedMessage)
}

func TestHandleIndex_MatchTabWithoutResume(t *testing.T) {
	app := newTestApp(new(mockEvaluator))

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/?tab=match", nil))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, uploadFirstTabMessage)
	assert.NotContains(t, body, "Show Match Percentage")
}

func TestHandleRerun_NoDocumentNeverCallsModel(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		message string
	}{
		{"evaluate", "evaluate", uploadWarning},
		{"match", "match", uploadFirstTabMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluator := new(mockEvaluator)
			app := newTestApp(evaluator)

			req := newFormRequest(t, map[string]string{"action": tt.action, "job_description": "Go developer"}, nil, nil)
			resp, body := doRequest(t, app, req)

			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Contains(t, body, tt.message)
			assert.NotContains(t, body, evaluationHeading)
			assert.NotContains(t, body, matchHeading)
			evaluator.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandleRerun_UploadOnly(t *testing.T) {
	evaluator := new(mockEvaluator)
	app := newTestApp(evaluator)
	doc := testutil.BuildPDF("Jane Doe", "Experience")

	req := newFormRequest(t, map[string]string{"job_description": "Go developer"}, &uploadFile{"resume.pdf", doc}, nil)
	resp, body := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, uploadedMessage)
	assert.Contains(t, body, "resume.pdf")
	assert.Contains(t, body, "(2 pages)")
	assert.Contains(t, body, "Go developer")
	evaluator.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleRerun_EvaluateWithDocument(t *testing.T) {
	evaluator := new(mockEvaluator)
	doc := testutil.BuildPDF("Jane Doe")
	evaluator.On("Evaluate", mock.Anything, models.ActionEvaluate, "Go developer", doc).
		Return("Strong Go background, little frontend work.", nil).Once()
	app := newTestApp(evaluator)

	req := newFormRequest(t, map[string]string{"action": "evaluate", "job_description": "Go developer"}, &uploadFile{"resume.pdf", doc}, nil)
	resp, body := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, evaluationHeading)
	assert.Contains(t, body, "Strong Go background, little frontend work.")
	evaluator.AssertExpectations(t)
}

func TestHandleRerun_EmptyJobDescriptionPassedThrough(t *testing.T) {
	evaluator := new(mockEvaluator)
	doc := testutil.BuildPDF("Jane Doe")
	evaluator.On("Evaluate", mock.Anything, models.ActionEvaluate, "", doc).Return("Looks fine.", nil).Once()
	app := newTestApp(evaluator)

	req := newFormRequest(t, map[string]string{"action": "evaluate", "job_description": ""}, &uploadFile{"resume.pdf", doc}, nil)
	resp, body := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Looks fine.")
	evaluator.AssertExpectations(t)
}

func TestHandleRerun_SessionCarriesDocumentToMatchTab(t *testing.T) {
	evaluator := new(mockEvaluator)
	doc := testutil.BuildPDF("Jane Doe")
	evaluator.On("Evaluate", mock.Anything, models.ActionMatchScore, "Go developer", doc).
		Return("78%\nMissing: Kubernetes", nil).Once()
	app := newTestApp(evaluator)

	// First rerun: upload from the analysis tab.
	uploadReq := newFormRequest(t, map[string]string{"job_description": "Go developer", "tab": "analysis"}, &uploadFile{"resume.pdf", doc}, nil)
	resp, _ := doRequest(t, app, uploadReq)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	// Second rerun: the match form carries no job description or file.
	matchReq := newFormRequest(t, map[string]string{"action": "match", "tab": "match"}, nil, cookies)
	resp, body := doRequest(t, app, matchReq)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, matchHeading)
	assert.Contains(t, body, "Missing: Kubernetes")
	assert.NotContains(t, body, uploadFirstTabMessage)
	evaluator.AssertExpectations(t)
}

func TestHandleRerun_RejectsNonPDF(t *testing.T) {
	evaluator := new(mockEvaluator)
	app := newTestApp(evaluator)

	req := newFormRequest(t, map[string]string{"action": "evaluate"}, &uploadFile{"resume.txt", []byte("plain text")}, nil)
	resp, body := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "unsupported file type")
	evaluator.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleRerun_UnknownAction(t *testing.T) {
	app := newTestApp(new(mockEvaluator))

	req := newFormRequest(t, map[string]string{"action": "summarize"}, nil, nil)
	resp, _ := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleRerun_MissingCredentialHaltsRerun(t *testing.T) {
	gemini, err := services.NewGeminiService(context.Background(), "", "gemini-1.5-flash")
	require.NoError(t, err)
	evaluator := services.NewEvaluatorService(services.NewPageExtractor(72, 75), gemini)
	app := newTestApp(evaluator)

	req := newFormRequest(t, map[string]string{"action": "match", "job_description": "Go developer"},
		&uploadFile{"resume.pdf", testutil.BuildPDF("Jane Doe")}, nil)
	resp, body := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, services.ErrMissingCredential.Error())
	assert.NotContains(t, body, matchHeading)
	assert.NotContains(t, body, evaluationHeading)
}

func TestHandleRerun_HidesInternalErrorsOutsideDevelopment(t *testing.T) {
	evaluator := new(mockEvaluator)
	doc := testutil.BuildPDF("Jane Doe")
	evaluator.On("Evaluate", mock.Anything, models.ActionEvaluate, "Go developer", doc).
		Return("", services.ErrMissingCredential).Once()

	cfg := testConfig()
	cfg.Server.Env = "production"
	app := newTestAppWithConfig(cfg, evaluator)

	req := newFormRequest(t, map[string]string{"action": "evaluate", "job_description": "Go developer"},
		&uploadFile{"resume.pdf", doc}, nil)
	resp, body := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, internalErrorMessage)
	assert.NotContains(t, body, services.ErrMissingCredential.Error())
	evaluator.AssertExpectations(t)
}

func TestHandleRerun_ClientErrorsKeepMessageOutsideDevelopment(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Env = "production"
	app := newTestAppWithConfig(cfg, new(mockEvaluator))

	req := newFormRequest(t, map[string]string{"action": "evaluate"}, &uploadFile{"resume.txt", []byte("plain text")}, nil)
	resp, body := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "unsupported file type")
}

func TestHandleRerun_CorruptDocumentHaltsRerun(t *testing.T) {
	evaluator := services.NewEvaluatorService(services.NewPageExtractor(72, 75), nil)
	app := newTestApp(evaluator)

	req := newFormRequest(t, map[string]string{"action": "evaluate"}, &uploadFile{"resume.pdf", []byte("%PDF-1.4 truncated")}, nil)
	resp, body := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.NotContains(t, body, evaluationHeading)
}

func TestHandleReset_ClearsSession(t *testing.T) {
	app := newTestApp(new(mockEvaluator))

	uploadReq := newFormRequest(t, nil, &uploadFile{"resume.pdf", testutil.BuildPDF("Jane Doe")}, nil)
	resp, _ := doRequest(t, app, uploadReq)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	resetReq := httptest.NewRequest(http.MethodPost, "/reset", nil)
	for _, c := range cookies {
		resetReq.AddCookie(c)
	}
	resp, _ = doRequest(t, app, resetReq)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	indexReq := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		indexReq.AddCookie(c)
	}
	_, body := doRequest(t, app, indexReq)
	assert.NotContains(t, body, uploadedMessage)
}

func TestHealth(t *testing.T) {
	app := newTestApp(new(mockEvaluator))

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, "healthy", payload["status"])
}
