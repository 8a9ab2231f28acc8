package handlers

import (
	"errors"
	"net/http"

	"github.com/giygas/emergency-reference/dosage"
	"github.com/giygas/emergency-reference/logging"
	"github.com/giygas/emergency-reference/scoring"
	"github.com/go-chi/chi/v5"
)

// DosageRequest is the calculator form for one condition.
type DosageRequest struct {
	dosage.Input
	Pediatric bool `json:"pediatric"`
}

// DosageResponse carries the computed metrics, or the reason none could be
// computed.
type DosageResponse struct {
	ConditionID int             `json:"conditionId"`
	Pediatric   bool            `json:"pediatric"`
	Computable  bool            `json:"computable"`
	Reason      string          `json:"reason,omitempty"`
	Result      *dosage.Result  `json:"result,omitempty"`
	Summary     *dosage.Summary `json:"summary,omitempty"`
}

// CalculateDosage runs the weight-based dose calculator
func (h *HTTPHandlerImpl) CalculateDosage(w http.ResponseWriter, r *http.Request) {
	c, ok := h.conditionFromRequest(w, r)
	if !ok {
		return
	}
	var req DosageRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	resp := DosageResponse{ConditionID: c.ID, Pediatric: req.Pediatric}

	patient, ok := dosage.ParseInput(req.Input)
	if !ok {
		resp.Reason = "Weight must be a positive number"
		h.RespondWithJSON(w, http.StatusOK, resp)
		return
	}
	result, ok := dosage.CalculateForCondition(patient, c, req.Pediatric)
	if !ok {
		resp.Reason = "No pediatric treatment for this condition"
		h.RespondWithJSON(w, http.StatusOK, resp)
		return
	}

	summary := dosage.Summarize(result)
	resp.Computable = true
	resp.Result = &result
	resp.Summary = &summary
	h.RespondWithJSON(w, http.StatusOK, resp)
}

// EvaluateScore runs one clinical scoring tool on the posted inputs
func (h *HTTPHandlerImpl) EvaluateScore(w http.ResponseWriter, r *http.Request) {
	tool, err := scoring.ParseTool(chi.URLParam(r, "tool"))
	if err != nil {
		h.RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	result, err := scoring.Evaluate(tool, body)
	switch {
	case errors.Is(err, scoring.ErrOutOfRange), errors.Is(err, scoring.ErrInvalidInput):
		logging.Warn("Rejected score input", "tool", tool, "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		logging.Error("Score evaluation failed", "tool", tool, "error", err)
		h.RespondWithError(w, http.StatusInternalServerError, "Score evaluation failed")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, result)
}

// AllergyRequest lists the checked allergy categories.
type AllergyRequest struct {
	Allergies []scoring.Allergy `json:"allergies"`
}

// AllergyAlternatives returns substitute drugs for each selected allergy
func (h *HTTPHandlerImpl) AllergyAlternatives(w http.ResponseWriter, r *http.Request) {
	var req AllergyRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	selected := make(map[scoring.Allergy]bool, len(req.Allergies))
	for _, a := range req.Allergies {
		selected[a] = true
	}
	h.RespondWithJSON(w, http.StatusOK, scoring.AllergyAlternatives(selected))
}
