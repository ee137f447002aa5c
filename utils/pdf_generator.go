package utils

import (
	"bytes"
	"context"
	_ "embed"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"jyotikabilling/models"
	"jyotikabilling/repository"
)

//go:embed templates/invoice.html
var invoiceTemplate string

var invoiceTmpl = template.Must(template.New("invoice").Parse(invoiceTemplate))

// two invoices share an A4 sheet
const invoicesPerPage = 2

// RenderInvoiceHTML lays the invoices out two to a page.
func RenderInvoiceHTML(views []models.InvoiceView) ([]byte, error) {
	var pages [][]models.InvoiceView
	for i := 0; i < len(views); i += invoicesPerPage {
		end := i + invoicesPerPage
		if end > len(views) {
			end = len(views)
		}
		pages = append(pages, views[i:end])
	}

	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, struct{ Pages [][]models.InvoiceView }{pages}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HTMLToPDF prints an HTML document to an A4 PDF with headless Chrome.
func HTMLToPDF(ctx context.Context, html []byte) ([]byte, error) {
	tmpHTML := filepath.Join(os.TempDir(), "invoice_"+time.Now().Format("20060102150405.000000000")+".html")
	if err := os.WriteFile(tmpHTML, html, 0644); err != nil {
		return nil, err
	}
	defer os.Remove(tmpHTML)

	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("file://"+tmpHTML),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).  // A4 width
				WithPaperHeight(11.7). // A4 height
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

// GenerateInvoicePDF renders the given bills, in the given order, into one PDF.
func GenerateInvoicePDF(ctx context.Context, repo *repository.InvoiceRepository, ids []string) ([]byte, error) {
	clinic, err := repo.GetClinicForInvoice(ctx)
	if err != nil {
		return nil, err
	}

	bills, err := repo.GetBillsForInvoice(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return nil, repository.ErrNotFound
	}

	html, err := RenderInvoiceHTML(NewInvoiceViews(clinic, bills))
	if err != nil {
		return nil, err
	}
	return HTMLToPDF(ctx, html)
}
