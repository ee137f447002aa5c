package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"jyotikabilling/config"
	"jyotikabilling/models"
	"jyotikabilling/repository"
)

type ClinicHandler struct {
	Repo     repository.ClinicRepository
	Invoices *repository.InvoiceRepository
}

func (h *ClinicHandler) SaveClinic(w http.ResponseWriter, r *http.Request) {
	var clinic models.ClinicProfile
	if err := json.NewDecoder(r.Body).Decode(&clinic); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if strings.TrimSpace(clinic.ClinicName) == "" {
		writeError(w, http.StatusBadRequest, "Clinic name is required")
		return
	}
	if strings.TrimSpace(clinic.DefaultBillAddress) == "" {
		clinic.DefaultBillAddress = models.DefaultBillAddress
	}

	if err := h.Repo.SaveClinic(r.Context(), &clinic); err != nil {
		config.LogError(logger, "handlers", "SaveClinic", "save clinic", clinic.ClinicName, err)
		writeError(w, http.StatusInternalServerError, "Failed to save clinic details")
		return
	}

	writeJSON(w, http.StatusCreated, ApiResponse{
		Success: true,
		Message: "Clinic details saved",
		Data:    clinic,
	})
}

// GetClinic returns the saved profile, or the configured default.
func (h *ClinicHandler) GetClinic(w http.ResponseWriter, r *http.Request) {
	clinic, err := h.Invoices.GetClinicForInvoice(r.Context())
	if err != nil {
		config.LogError(logger, "handlers", "GetClinic", "load clinic", nil, err)
		writeError(w, http.StatusInternalServerError, "Failed to load clinic details")
		return
	}

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    clinic,
	})
}
