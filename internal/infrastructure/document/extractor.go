package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/johnquangdev/oncovoice/internal/infrastructure/external/remote"
)

var (
	// ErrNotFound is returned when the reference document URL answers 404
	ErrNotFound = errors.New("reference document not found")
	// ErrNoText is returned when a document yields no extractable text
	ErrNoText = errors.New("reference document contains no extractable text")
	// ErrUnsupported is returned for media types that cannot be converted to text
	ErrUnsupported = errors.New("unsupported reference document type")
)

// Extractor fetches reference documents and converts them to plain text
type Extractor struct {
	fetcher  *remote.Fetcher
	maxBytes int64
}

// NewExtractor creates an extractor that refuses documents above maxBytes
func NewExtractor(fetcher *remote.Fetcher, maxBytes int64) *Extractor {
	return &Extractor{fetcher: fetcher, maxBytes: maxBytes}
}

// Text downloads the document at url and returns its text content
func (e *Extractor) Text(ctx context.Context, url string) (string, error) {
	res, err := e.fetcher.Fetch(ctx, url, e.maxBytes)
	if err != nil {
		if errors.Is(err, remote.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, url)
		}
		return "", fmt.Errorf("failed to fetch reference document: %w", err)
	}

	text, err := ExtractText(res.Data, res.ContentType, url)
	if err != nil {
		return "", err
	}
	return text, nil
}

// ExtractText converts a PDF or plain-text document to text
func ExtractText(data []byte, contentType, name string) (string, error) {
	var (
		text string
		err  error
	)

	switch {
	case isPDF(data, contentType, name):
		text, err = pdfText(data)
		if err != nil {
			return "", err
		}
	case strings.HasPrefix(contentType, "text/") || (contentType == "" && utf8.Valid(data)):
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, contentType)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func isPDF(data []byte, contentType, name string) bool {
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return true
	}
	if contentType == "application/pdf" {
		return true
	}
	return strings.EqualFold(path.Ext(name), ".pdf")
}

func pdfText(data []byte) (text string, err error) {
	// The PDF reader panics on some malformed inputs
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("failed to parse PDF: %v", p)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	return buf.String(), nil
}
