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

type remarkReq struct {
	Text string `json:"text"`
}

// CreateRemark records a supervisor note. The author comes from the token,
// never from the payload.
func CreateRemark(w http.ResponseWriter, r *http.Request) {
	var req remarkReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	remark := models.SupervisorRemark{Text: req.Text}
	if claims := middleware.GetClaims(r); claims != nil {
		remark.AddedBy = claims.Name
	}

	if err := store.New(config.DB).Append(&remark); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(remark)
}

// ListRemarks returns supervisor notes newest first.
func ListRemarks(w http.ResponseWriter, r *http.Request) {
	var items []models.SupervisorRemark
	if err := config.DB.Order("timestamp DESC").Find(&items).Error; err != nil {
		items = []models.SupervisorRemark{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func DeleteRemark(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	err = store.New(config.DB).Remove(&models.SupervisorRemark{}, id)
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
