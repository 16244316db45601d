package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/jpeg"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"alfredoptarigan/ats-resume-expert/internal/models"
)

const (
	defaultRenderDPI   = 200
	defaultJPEGQuality = 75
)

// PageExtractor turns an uploaded resume into the image the model looks at.
// Only the first page is ever rendered.
type PageExtractor interface {
	Extract(document []byte) (*models.EncodedPage, error)
}

type pageExtractor struct {
	dpi     float64
	quality int
}

func NewPageExtractor(dpi float64, quality int) PageExtractor {
	if dpi <= 0 {
		dpi = defaultRenderDPI
	}
	if quality <= 0 || quality > 100 {
		quality = defaultJPEGQuality
	}

	return &pageExtractor{
		dpi:     dpi,
		quality: quality,
	}
}

// Extract implements PageExtractor.
func (p *pageExtractor) Extract(document []byte) (*models.EncodedPage, error) {
	if len(document) == 0 {
		return nil, ErrNoDocument
	}

	firstPage, err := trimToFirstPage(document)
	if err != nil {
		return nil, err
	}

	doc, err := fitz.NewFromMemory(firstPage)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open PDF for rendering: %w", ErrInvalidDocument, err)
	}
	defer doc.Close()

	if doc.NumPage() < 1 {
		return nil, fmt.Errorf("%w: document has no pages", ErrInvalidDocument)
	}

	img, err := doc.ImageDPI(0, p.dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render first page: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode first page: %w", err)
	}

	return &models.EncodedPage{
		MIMEType: models.MIMETypeJPEG,
		Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// trimToFirstPage validates the document and returns a copy holding page 1 only.
func trimToFirstPage(document []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := api.Trim(bytes.NewReader(document), &out, []string{"1"}, newPDFConfig()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return out.Bytes(), nil
}

var disableConfigDir sync.Once

// newPDFConfig returns a fresh pdfcpu configuration; pdfcpu mutates it per
// command so it is never shared between calls.
func newPDFConfig() *model.Configuration {
	// The server has no use for pdfcpu's per-user config directory.
	disableConfigDir.Do(api.DisableConfigDir)

	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}
