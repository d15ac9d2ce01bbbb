package receipt

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const cssPixelsPerInch = 96.0

// PDFRenderer prints receipt HTML to PDF with a headless Chrome.
type PDFRenderer struct {
	chromePath string
	settle     time.Duration
	timeout    time.Duration
}

// NewPDFRenderer creates a renderer. settle is how long the page is given to
// lay out before it is printed. An empty chromePath searches common
// install locations.
func NewPDFRenderer(chromePath string, settle time.Duration) *PDFRenderer {
	if chromePath == "" {
		chromePath = detectChromePath()
	}
	return &PDFRenderer{
		chromePath: chromePath,
		settle:     settle,
		timeout:    30 * time.Second,
	}
}

func detectChromePath() string {
	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Render prints html onto paper widthInches wide. The page height follows the
// tallest receipt in the document.
func (r *PDFRenderer) Render(ctx context.Context, html []byte, widthInches float64) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var (
		heightPx float64
		pdf      []byte
	)
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.Sleep(r.settle),
		chromedp.Evaluate(`Math.max(0, ...Array.from(document.querySelectorAll('.receipt')).map(e => e.scrollHeight))`, &heightPx),
		chromedp.ActionFunc(func(ctx context.Context) error {
			height := heightPx/cssPixelsPerInch + 0.2
			if height < 2 {
				height = 2
			}
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(widthInches).
				WithPaperHeight(height).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("receipt: generate pdf: %w", err)
	}
	return pdf, nil
}
