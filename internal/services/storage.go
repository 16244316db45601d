package services

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"alfredoptarigan/ats-resume-expert/internal/config"
	"alfredoptarigan/ats-resume-expert/internal/models"
)

const (
	keyJobDescription = "job_description"
	keyDocumentName   = "document_name"
	keyDocument       = "document"
	keyPageCount      = "page_count"
	keyExcerpt        = "excerpt"
	keyActiveTab      = "active_tab"
)

// StorageService keeps the uploaded resume and form values in the
// server-side session. Nothing is written to disk.
type StorageService interface {
	Load(c *fiber.Ctx) (*models.SessionState, *session.Session, error)
	AttachDocument(state *models.SessionState, file *multipart.FileHeader) error
	Save(sess *session.Session, state *models.SessionState) error
	Reset(c *fiber.Ctx) error
}

type storageService struct {
	store  *session.Store
	parser PDFParserService
}

// NewSessionStore returns the in-memory session store backing StorageService.
func NewSessionStore(cfg config.SessionConfig) *session.Store {
	return session.New(session.Config{
		Expiration:     cfg.Expiration,
		KeyLookup:      "cookie:" + cfg.CookieName,
		KeyGenerator:   uuid.NewString,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
}

func NewStorageService(store *session.Store, parser PDFParserService) StorageService {
	return &storageService{
		store:  store,
		parser: parser,
	}
}

// Load implements StorageService.
func (s *storageService) Load(c *fiber.Ctx) (*models.SessionState, *session.Session, error) {
	sess, err := s.store.Get(c)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}

	state := &models.SessionState{
		JobDescription: getString(sess, keyJobDescription),
		DocumentName:   getString(sess, keyDocumentName),
		ActiveTab:      getString(sess, keyActiveTab),
		DocumentInfo: models.DocumentInfo{
			Excerpt: getString(sess, keyExcerpt),
		},
	}
	if doc, ok := sess.Get(keyDocument).([]byte); ok {
		state.Document = doc
	}
	if pages, ok := sess.Get(keyPageCount).(int); ok {
		state.DocumentInfo.PageCount = pages
	}
	if state.ActiveTab == "" {
		state.ActiveTab = models.TabAnalysis
	}

	return state, sess, nil
}

// AttachDocument implements StorageService. Only PDF files are accepted; a
// document that cannot be inspected is still kept so the failure surfaces
// when an evaluation is requested.
func (s *storageService) AttachDocument(state *models.SessionState, file *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(data) == 0 {
		return ErrNoDocument
	}

	state.Document = data
	state.DocumentName = file.Filename
	state.DocumentInfo = models.DocumentInfo{}

	info, err := s.parser.Inspect(data)
	if err != nil {
		log.Printf("⚠️  Failed to inspect %s: %v\n", file.Filename, err)
		return nil
	}
	state.DocumentInfo = *info

	log.Printf("📥 Resume %s attached (%d pages)\n", file.Filename, info.PageCount)
	return nil
}

// Save implements StorageService.
func (s *storageService) Save(sess *session.Session, state *models.SessionState) error {
	sess.Set(keyJobDescription, state.JobDescription)
	sess.Set(keyActiveTab, state.ActiveTab)

	if state.HasDocument() {
		sess.Set(keyDocument, state.Document)
		sess.Set(keyDocumentName, state.DocumentName)
		sess.Set(keyPageCount, state.DocumentInfo.PageCount)
		sess.Set(keyExcerpt, state.DocumentInfo.Excerpt)
	}

	if err := sess.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Reset implements StorageService.
func (s *storageService) Reset(c *fiber.Ctx) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if err := sess.Destroy(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

func getString(sess *session.Session, key string) string {
	if v, ok := sess.Get(key).(string); ok {
		return v
	}
	return ""
}
