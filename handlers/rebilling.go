package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/martindev-ke/fieldops/config"
	"github.com/martindev-ke/fieldops/middleware"
	"github.com/martindev-ke/fieldops/models"
	"github.com/martindev-ke/fieldops/pkg/store"
)

// CreateRebillingRequest files a new correction request. Status and approver
// level are forced to their initial values regardless of the payload, and the
// adjustment amount is always recomputed from the two bills.
func CreateRebillingRequest(w http.ResponseWriter, r *http.Request) {
	var req models.RebillingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	req.Status = models.RebillingPending
	req.ApproverLevel = 1
	req.Recompute()
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if u := middleware.GetUser(r); u.Name != "" {
		req.LastActionBy = u.Name
	}

	if err := store.New(config.DB).Append(&req); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(req)
}

// ListRebillingRequests returns requests newest first, optionally filtered by
// status.
func ListRebillingRequests(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Order("timestamp DESC")
	if status := r.URL.Query().Get("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	var items []models.RebillingRequest
	if err := q.Find(&items).Error; err != nil {
		items = []models.RebillingRequest{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func GetRebillingRequest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var item models.RebillingRequest
	if err := store.New(config.DB).Get(&item, id); err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

// ApproveRebillingRequest advances a request one step through its approval
// chain. The model decides whether the acting user may take the step.
func ApproveRebillingRequest(w http.ResponseWriter, r *http.Request) {
	rebillingDecision(w, r, func(req *models.RebillingRequest, actor *models.User) error {
		return req.Approve(actor)
	})
}

// RejectRebillingRequest rejects a still-pending request.
func RejectRebillingRequest(w http.ResponseWriter, r *http.Request) {
	rebillingDecision(w, r, func(req *models.RebillingRequest, actor *models.User) error {
		return req.Reject(actor)
	})
}

func rebillingDecision(w http.ResponseWriter, r *http.Request, apply func(*models.RebillingRequest, *models.User) error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	actor := middleware.GetUser(r)

	s := store.New(config.DB)
	var req models.RebillingRequest
	if err := s.Get(&req, id); err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	switch err := apply(&req, &actor); {
	case errors.Is(err, models.ErrNotAuthorized):
		http.Error(w, "not authorized", http.StatusForbidden)
		return
	case errors.Is(err, models.ErrInvalidTransition), errors.Is(err, models.ErrAboveAutoLimit):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.Save(&req); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(req)
}

func DeleteRebillingRequest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	err = store.New(config.DB).Remove(&models.RebillingRequest{}, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to delete record", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
