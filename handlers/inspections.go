package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/martindev-ke/fieldops/config"
	"github.com/martindev-ke/fieldops/middleware"
	"github.com/martindev-ke/fieldops/models"
	"github.com/martindev-ke/fieldops/pkg/store"
	"github.com/martindev-ke/fieldops/utils"
)

// CreateInspection records a meter inspection. The inspector identity comes
// from the session, not the payload.
func CreateInspection(w http.ResponseWriter, r *http.Request) {
	var item models.Inspection
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := item.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user := middleware.GetUser(r)
	item.InspectorName = user.Name
	item.InspectorRole = user.Position
	item.InspectorZone = user.Zone
	item.InspectorSector = user.Sector

	if item.Latitude != nil && item.Longitude != nil &&
		!utils.InServiceRegion(*item.Latitude, *item.Longitude) {
		log.Printf("inspection for meter %s captured outside the service region (%.4f, %.4f)",
			item.MeterNumber, *item.Latitude, *item.Longitude)
	}

	if err := store.New(config.DB).Append(&item); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

// ListInspections returns inspections newest first, with optional status and
// meter-number filters.
func ListInspections(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Order("timestamp DESC")
	if status := r.URL.Query().Get("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if meter := r.URL.Query().Get("meter"); meter != "" {
		q = q.Where("meter_number LIKE ?", "%"+meter+"%")
	}

	var items []models.Inspection
	if err := q.Find(&items).Error; err != nil {
		log.Printf("list inspections: %v (treating as empty)", err)
		items = []models.Inspection{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func GetInspection(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var item models.Inspection
	if err := store.New(config.DB).Get(&item, id); err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

type syncReq struct {
	IDs []uuid.UUID `json:"ids"`
}

// MarkInspectionsSynced flags inspections as transmitted to the regional
// office system.
func MarkInspectionsSynced(w http.ResponseWriter, r *http.Request) {
	var req syncReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := store.New(config.DB).MarkSynced(&models.Inspection{}, req.IDs); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
