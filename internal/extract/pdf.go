package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	app_errors "legis-pro/backend/internal/errors"
)

// pageSource is the slice of a PDF reader that joinPages needs. Pages are
// numbered from 1.
type pageSource interface {
	NumPage() int
	PageText(n int) (string, error)
}

type pdfPages struct {
	r *pdf.Reader
}

func (p pdfPages) NumPage() int { return p.r.NumPage() }

func (p pdfPages) PageText(n int) (string, error) {
	page := p.r.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// PDF returns the text of every page in page order, one newline between pages.
func PDF(r io.ReaderAt, size int64) (text string, err error) {
	defer recoverParse(KindPDF, &err)

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", app_errors.ErrParse, err)
	}
	return joinPages(pdfPages{r: reader})
}

func joinPages(src pageSource) (string, error) {
	n := src.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		text, err := src.PageText(i)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", app_errors.ErrParse, i, err)
		}
		// The parser ends most pages with a line break of its own.
		pages = append(pages, strings.TrimRight(text, "\r\n"))
	}
	return strings.Join(pages, "\n"), nil
}
