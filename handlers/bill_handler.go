package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"jyotikabilling/billfilter"
	"jyotikabilling/config"
	"jyotikabilling/models"
	"jyotikabilling/repository"
	"jyotikabilling/utils"
)

type BillHandler struct {
	Repo     repository.BillRepository
	Invoices *repository.InvoiceRepository
	Now      func() time.Time
}

func (h *BillHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

type bulkPrintRequest struct {
	BillIDs []string `json:"billIds"`
}

// listFiltered loads bills and applies the startDate, endDate, minAmount
// and maxAmount query parameters.
func (h *BillHandler) listFiltered(w http.ResponseWriter, r *http.Request) ([]models.Bill, bool) {
	q := r.URL.Query()
	criteria, err := billfilter.ParseCriteria(q.Get("startDate"), q.Get("endDate"), q.Get("minAmount"), q.Get("maxAmount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter: "+err.Error())
		return nil, false
	}

	bills, err := h.Repo.ListBills(r.Context())
	if err != nil {
		config.LogError(logger, "handlers", "ListBills", "list bills", nil, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch bills")
		return nil, false
	}
	if !criteria.IsZero() {
		bills = billfilter.Filter(bills, criteria)
	}
	if bills == nil {
		bills = []models.Bill{}
	}
	return bills, true
}

func (h *BillHandler) ListBills(w http.ResponseWriter, r *http.Request) {
	bills, ok := h.listFiltered(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, bills)
}

func (h *BillHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	bill, err := h.Repo.GetBill(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeRepoError(w, "GetBill", err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

// decodeDraft reads and validates a bill draft. It writes the error
// response itself and reports whether the caller may continue.
func decodeDraft(w http.ResponseWriter, r *http.Request) (models.BillDraft, bool) {
	var draft models.BillDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return draft, false
	}
	draft.Phone = utils.NormalizePhone(draft.Phone)
	return draft, true
}

func (h *BillHandler) CreateBill(w http.ResponseWriter, r *http.Request) {
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	if errs := models.ValidateBill(draft); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "Validation failed", errs...)
		return
	}

	clinic, err := h.Invoices.GetClinicForInvoice(r.Context())
	if err != nil {
		config.LogError(logger, "handlers", "CreateBill", "load clinic profile", nil, err)
	}

	bill, err := draft.ToBill(h.now(), clinic.BillAddress())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		bill.CreatedBy = claims.ID
	}

	if err := h.Repo.CreateBill(r.Context(), &bill); err != nil {
		config.LogError(logger, "handlers", "CreateBill", "create bill", bill.PatientName, err)
		writeError(w, http.StatusInternalServerError, "Failed to create bill")
		return
	}

	logger.WithField("serial", bill.SerialNumber).Info("bill created")
	writeJSON(w, http.StatusCreated, bill)
}

func (h *BillHandler) UpdateBill(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Repo.GetBill(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, "UpdateBill", err)
		return
	}

	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	// bills stored without a charge type keep "Other" through edits
	if draft.ChargeType == models.ChargeOther && existing.ChargeType == models.ChargeOther {
		draft.ChargeType = ""
	}
	if errs := models.ValidateBill(draft); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "Validation failed", errs...)
		return
	}

	bill, err := draft.ToBill(existing.BillDate, existing.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}
	bill.ID = existing.ID

	if err := h.Repo.UpdateBill(r.Context(), &bill); err != nil {
		h.writeRepoError(w, "UpdateBill", err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

func (h *BillHandler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	bill, err := h.Repo.GetBill(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, "DeleteBill", err)
		return
	}

	if err := h.Repo.DeleteBill(r.Context(), id); err != nil {
		h.writeRepoError(w, "DeleteBill", err)
		return
	}

	if bill.PdfPath != nil && strings.HasPrefix(*bill.PdfPath, "http") && utils.R2Configured() {
		if err := utils.DeleteFromR2(r.Context(), *bill.PdfPath); err != nil {
			config.LogError(logger, "handlers", "DeleteBill", "delete invoice pdf", *bill.PdfPath, err)
		}
	}

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Bill deleted successfully",
	})
}

// BulkPrint returns the requested bills in request order.
func (h *BillHandler) BulkPrint(w http.ResponseWriter, r *http.Request) {
	var req bulkPrintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if len(req.BillIDs) == 0 {
		writeError(w, http.StatusBadRequest, "billIds is required")
		return
	}

	bills, err := h.Repo.GetBillsByIDs(r.Context(), req.BillIDs)
	if err != nil {
		config.LogError(logger, "handlers", "BulkPrint", "load bills", req.BillIDs, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch bills")
		return
	}
	if bills == nil {
		bills = []models.Bill{}
	}
	writeJSON(w, http.StatusOK, bills)
}

func (h *BillHandler) Summary(w http.ResponseWriter, r *http.Request) {
	bills, ok := h.listFiltered(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, billfilter.Summarize(bills))
}

func (h *BillHandler) Export(w http.ResponseWriter, r *http.Request) {
	bills, ok := h.listFiltered(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=bills.xlsx")
	if err := utils.WriteBillsExcel(w, bills); err != nil {
		config.LogError(logger, "handlers", "Export", "write workbook", nil, err)
		writeError(w, http.StatusInternalServerError, "Failed to write file")
	}
}

func (h *BillHandler) writeRepoError(w http.ResponseWriter, funcName string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Bill not found")
		return
	}
	config.LogError(logger, "handlers", funcName, "bill repository", nil, err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
