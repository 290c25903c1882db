package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/martindev-ke/fieldops/config"
	"github.com/martindev-ke/fieldops/models"
	"github.com/martindev-ke/fieldops/pkg/store"
)

func CreateOutage(w http.ResponseWriter, r *http.Request) {
	var item models.Outage
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := item.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := store.New(config.DB).Append(&item); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

func ListOutages(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Order("timestamp DESC")
	if pr := r.URL.Query().Get("priority"); pr != "" {
		q = q.Where("priority = ?", pr)
	}
	if feeder := r.URL.Query().Get("feeder"); feeder != "" {
		q = q.Where("feeder = ?", feeder)
	}

	var items []models.Outage
	if err := q.Find(&items).Error; err != nil {
		log.Printf("list outages: %v (treating as empty)", err)
		items = []models.Outage{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func GetOutage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var item models.Outage
	if err := store.New(config.DB).Get(&item, id); err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

// OutageFormOptions feeds the outage form's dropdowns.
func OutageFormOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"feeders":    models.FeederOptions,
		"causes":     models.CauseOptions,
		"priorities": []string{models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical},
	})
}
