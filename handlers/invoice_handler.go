package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"jyotikabilling/config"
	"jyotikabilling/repository"
	"jyotikabilling/utils"
)

// PDFRenderer turns bills into a PDF document.
type PDFRenderer func(ctx context.Context, repo *repository.InvoiceRepository, ids []string) ([]byte, error)

type InvoiceHandler struct {
	Repo     *repository.InvoiceRepository
	SavePath string
	Render   PDFRenderer
}

func (h *InvoiceHandler) render(ctx context.Context, ids []string) ([]byte, error) {
	if h.Render != nil {
		return h.Render(ctx, h.Repo, ids)
	}
	return utils.GenerateInvoicePDF(ctx, h.Repo, ids)
}

// BillPDF renders one invoice, keeps a copy on disk (and in R2 when
// configured) and records where it went.
func (h *InvoiceHandler) BillPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	bill, err := h.Repo.GetBillForInvoice(r.Context(), id)
	if err != nil {
		h.writeError(w, "BillPDF", err)
		return
	}

	pdfBytes, err := h.render(r.Context(), []string{id})
	if err != nil {
		h.writeError(w, "BillPDF", err)
		return
	}

	saveDir := h.SavePath
	if saveDir == "" {
		saveDir = "./pdfs"
	}
	if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
		config.LogError(logger, "handlers", "BillPDF", "create save directory", saveDir, err)
		writeError(w, http.StatusInternalServerError, "Failed to save PDF")
		return
	}

	filename := fmt.Sprintf("bill_%s_%d.pdf", bill.SerialLabel(), time.Now().Unix())
	location := filepath.Join(saveDir, filename)
	if err := os.WriteFile(location, pdfBytes, 0644); err != nil {
		config.LogError(logger, "handlers", "BillPDF", "write pdf", location, err)
		writeError(w, http.StatusInternalServerError, "Failed to save PDF")
		return
	}

	if utils.R2Configured() {
		if url, err := utils.UploadToR2(r.Context(), pdfBytes, filename); err != nil {
			config.LogError(logger, "handlers", "BillPDF", "upload pdf", filename, err)
		} else {
			location = url
		}
	}

	// the PDF is already rendered, a bookkeeping failure should not hide it
	if err := h.Repo.BillRepo.UpdatePDFInfo(r.Context(), bill.ID, location, time.Now().UTC()); err != nil {
		config.LogError(logger, "handlers", "BillPDF", "update pdf info", bill.ID, err)
	}

	writePDF(w, filename, pdfBytes)
}

// BulkPrintPDF renders the requested bills, two per page, in request order.
func (h *InvoiceHandler) BulkPrintPDF(w http.ResponseWriter, r *http.Request) {
	var req bulkPrintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if len(req.BillIDs) == 0 {
		writeError(w, http.StatusBadRequest, "billIds is required")
		return
	}

	pdfBytes, err := h.render(r.Context(), req.BillIDs)
	if err != nil {
		h.writeError(w, "BulkPrintPDF", err)
		return
	}
	writePDF(w, fmt.Sprintf("bills_%d.pdf", time.Now().Unix()), pdfBytes)
}

func writePDF(w http.ResponseWriter, filename string, pdf []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *InvoiceHandler) writeError(w http.ResponseWriter, funcName string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Bill not found")
		return
	}
	config.LogError(logger, "handlers", funcName, "generate pdf", nil, err)
	writeError(w, http.StatusInternalServerError, "Failed to generate PDF")
}
