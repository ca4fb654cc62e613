// Package extract turns uploaded documents into the plain text used as
// conversation context.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	app_errors "legis-pro/backend/internal/errors"
)

// Kind identifies a supported document format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindXLSX Kind = "xlsx"
	KindXLS  Kind = "xls"
)

// SupportedExtensions lists the upload extensions accepted by Extract.
var SupportedExtensions = []string{string(KindPDF), string(KindXLSX), string(KindXLS)}

// Document is the result of a successful extraction.
type Document struct {
	Name string
	Kind Kind
	Text string
}

// KindFromFilename maps a file name to its document kind by extension.
func KindFromFilename(name string) (Kind, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch Kind(ext) {
	case KindPDF, KindXLSX, KindXLS:
		return Kind(ext), nil
	}
	return "", fmt.Errorf("%w: %q (accepted: %s)", app_errors.ErrUnsupportedFileType, ext, strings.Join(SupportedExtensions, ", "))
}

// Extractor reads documents with optional size limits. The zero value has
// no limits.
type Extractor struct {
	// MaxBytes caps the size of the uploaded file. Zero disables the check.
	MaxBytes int64
	// MaxChars caps the length of the extracted text. Zero disables the check.
	MaxChars int
}

// New returns an Extractor with the given limits.
func New(maxBytes int64, maxChars int) *Extractor {
	return &Extractor{MaxBytes: maxBytes, MaxChars: maxChars}
}

// Extract reads the whole document from r and returns its text. The format is
// chosen from the file name's extension.
func (e *Extractor) Extract(ctx context.Context, name string, r io.Reader) (*Document, error) {
	ctx, span := otel.Tracer("legis-pro/backend/extract").Start(ctx, "extract.Document")
	defer span.End()
	span.SetAttributes(attribute.String("document.name", name))

	doc, err := e.extract(ctx, name, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("document.kind", string(doc.Kind)),
		attribute.Int("document.characters", utf8.RuneCountInString(doc.Text)),
	)
	return doc, nil
}

func (e *Extractor) extract(ctx context.Context, name string, r io.Reader) (*Document, error) {
	kind, err := KindFromFilename(name)
	if err != nil {
		return nil, err
	}

	data, err := e.readAll(r)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var text string
	switch kind {
	case KindPDF:
		text, err = PDF(bytes.NewReader(data), int64(len(data)))
	case KindXLSX:
		text, err = XLSX(bytes.NewReader(data))
	case KindXLS:
		text, err = XLS(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}

	if e.MaxChars > 0 {
		if n := utf8.RuneCountInString(text); n > e.MaxChars {
			return nil, fmt.Errorf("%w: %d characters extracted, limit is %d", app_errors.ErrDocumentTooLarge, n, e.MaxChars)
		}
	}
	return &Document{Name: name, Kind: kind, Text: text}, nil
}

func (e *Extractor) readAll(r io.Reader) ([]byte, error) {
	if e.MaxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: could not read upload: %v", app_errors.ErrParse, err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, e.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: could not read upload: %v", app_errors.ErrParse, err)
	}
	if int64(len(data)) > e.MaxBytes {
		return nil, fmt.Errorf("%w: upload exceeds %d bytes", app_errors.ErrDocumentTooLarge, e.MaxBytes)
	}
	return data, nil
}

// recoverParse turns a panic raised inside a third-party parser into an
// ErrParse so a malformed upload never takes the process down.
func recoverParse(kind Kind, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %s parser failed: %v", app_errors.ErrParse, kind, r)
	}
}
