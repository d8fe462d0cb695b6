// Package pdfcheck validates uploaded documents before an extraction call is
// spent on them.
package pdfcheck

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var ErrEmptyDocument = errors.New("uploaded document is empty")

// Validate checks that data is a readable PDF with at least one page.
// Validation is relaxed: scanned forms from field offices are frequently
// produced by sloppy writers.
func Validate(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyDocument
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return fmt.Errorf("read pdf: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return fmt.Errorf("page count: %w", err)
	}
	if ctx.PageCount < 1 {
		return fmt.Errorf("pdf has no pages")
	}
	return nil
}
