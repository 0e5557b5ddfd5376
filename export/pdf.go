package export

import (
	"bytes"
	"fmt"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// pageTemplate carries the fixed page styling: Letter size, 0.6in margins
// (handed to wkhtmltopdf as 15mm), page break on the marker element.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: DejaVu Sans, Arial, Helvetica, sans-serif; font-size: 11pt; line-height: 1.35; }
  h1, h2, h3, h4 { margin: 0.4em 0 0.2em; }
  code, pre { font-family: "DejaVu Sans Mono", "Courier New", monospace; font-size: 10pt; white-space: pre-wrap; word-wrap: break-word; }
  pre { border: 1px solid #ddd; padding: 8px; border-radius: 4px; background: #fafafa; }
  .pagebreak { page-break-before: always; }
  details > summary { cursor: pointer; margin: 0.2em 0; }
  table { border-collapse: collapse; width: 100%%; margin: 8px 0; font-size: 10pt; }
  th, td { border: 1px solid #ddd; padding: 4px 6px; vertical-align: top; }
  th { background: #f0f0f0; }
</style>
</head>
<body>
%s
</body>
</html>`

// pageMarginMM approximates the 0.6in page margin.
const pageMarginMM = 15

// PDF renders a Markdown document to PDF bytes through an HTML intermediate.
// It fails when the wkhtmltopdf binary is unavailable or rendering breaks;
// callers treat that as non-fatal.
func PDF(markdown string) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	page := fmt.Sprintf(pageTemplate, body.String())

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("pdf generator: %w", err)
	}
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeLetter)
	pdfg.MarginTop.Set(pageMarginMM)
	pdfg.MarginBottom.Set(pageMarginMM)
	pdfg.MarginLeft.Set(pageMarginMM)
	pdfg.MarginRight.Set(pageMarginMM)
	pdfg.AddPage(wkhtmltopdf.NewPageReader(strings.NewReader(page)))

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdfg.Bytes(), nil
}
