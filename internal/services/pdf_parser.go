package services

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"alfredoptarigan/ats-resume-expert/internal/models"
)

const excerptMaxRunes = 280

type PDFParserService interface {
	Inspect(document []byte) (*models.DocumentInfo, error)
	ExtractFirstPageText(document []byte) (string, error)
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

// Inspect counts the pages of the document and pulls a short text excerpt
// from the first one. A document without extractable text still inspects
// successfully with an empty excerpt.
func (p *pdfParserService) Inspect(document []byte) (*models.DocumentInfo, error) {
	if len(document) == 0 {
		return nil, ErrNoDocument
	}

	pageCount, err := api.PageCount(bytes.NewReader(document), newPDFConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	text, err := p.ExtractFirstPageText(document)
	if err != nil {
		log.Printf("⚠️  No text excerpt available: %v\n", err)
		text = ""
	}

	return &models.DocumentInfo{
		PageCount: pageCount,
		Excerpt:   truncateRunes(CleanText(text), excerptMaxRunes),
	}, nil
}

func (p *pdfParserService) ExtractFirstPageText(document []byte) (text string, err error) {
	// The text extractor panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to extract text: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(document), int64(len(document)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	if r.NumPage() < 1 {
		return "", fmt.Errorf("no pages found in PDF")
	}

	page := r.Page(1)
	if page.V.IsNull() {
		return "", fmt.Errorf("first page is empty")
	}

	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content found on first page")
	}

	return text, nil
}

// Helper function to clean and normalize text
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}

func truncateRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "…"
}
