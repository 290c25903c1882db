package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/martindev-ke/fieldops/config"
	"github.com/martindev-ke/fieldops/models"
	"github.com/martindev-ke/fieldops/pkg/importer"
	"github.com/martindev-ke/fieldops/pkg/store"
)

// accountView wraps an account with its derived classification for the table.
type accountView struct {
	models.DisconnectionAccount
	Classification string `json:"classification"`
}

// ListDisconnectionAccounts serves the accounts table with the search box
// and filter tabs of the disconnections screen.
func ListDisconnectionAccounts(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Order("timestamp DESC")

	if term := r.URL.Query().Get("search"); term != "" {
		like := "%" + term + "%"
		q = q.Where("name LIKE ? OR account_no LIKE ? OR meter_no LIKE ?", like, like, like)
	}

	switch r.URL.Query().Get("filter") {
	case "", "all":
	case "pending":
		q = q.Where("status = ?", models.DisconnectionPending)
	case "completed", "reconnections":
		q = q.Where("status = ?", models.DisconnectionCompleted)
	case "highPriority":
		q = q.Where("balance > ?", models.ComplianceThreshold)
	case "disconnections":
		q = q.Where("balance > ? AND status = ?", models.ComplianceThreshold, models.DisconnectionPending)
	default:
		http.Error(w, "unknown filter", http.StatusBadRequest)
		return
	}

	var accounts []models.DisconnectionAccount
	if err := q.Find(&accounts).Error; err != nil {
		log.Printf("list disconnection accounts: %v (treating as empty)", err)
		accounts = []models.DisconnectionAccount{}
	}

	out := make([]accountView, len(accounts))
	for i, a := range accounts {
		out[i] = accountView{DisconnectionAccount: a, Classification: a.Classification()}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// DisconnectionStats backs the stat cards above the accounts table.
func DisconnectionStats(w http.ResponseWriter, r *http.Request) {
	db := config.DB.Model(&models.DisconnectionAccount{})

	var total, pending, completed int64
	var totalDebt float64
	db.Count(&total)
	config.DB.Model(&models.DisconnectionAccount{}).Where("status = ?", models.DisconnectionPending).Count(&pending)
	config.DB.Model(&models.DisconnectionAccount{}).Where("status = ?", models.DisconnectionCompleted).Count(&completed)
	config.DB.Model(&models.DisconnectionAccount{}).Select("COALESCE(SUM(balance), 0)").Scan(&totalDebt)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"total":     total,
		"pending":   pending,
		"completed": completed,
		"totalDebt": totalDebt,
	})
}

// CreateDisconnectionAccount adds a single account outside the import flow.
func CreateDisconnectionAccount(w http.ResponseWriter, r *http.Request) {
	var item models.DisconnectionAccount
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if item.AccountNo == "" && item.Name == "" {
		http.Error(w, "account number or customer name is required", http.StatusBadRequest)
		return
	}
	if item.Status == "" {
		item.Status = models.DisconnectionPending
	}
	if err := store.New(config.DB).Append(&item); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(accountView{DisconnectionAccount: item, Classification: item.Classification()})
}

type actionReq struct {
	Action string `json:"action"` // disconnect | reconnect
}

// DisconnectionAction applies a disconnect or reconnect to one account.
func DisconnectionAction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req actionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	s := store.New(config.DB)
	var account models.DisconnectionAccount
	if err := s.Get(&account, id); err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	switch req.Action {
	case "disconnect":
		err = account.Disconnect()
	case "reconnect":
		err = account.Reconnect()
	default:
		http.Error(w, "action must be disconnect or reconnect", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	if err := s.Save(&account); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accountView{DisconnectionAccount: account, Classification: account.Classification()})
}

type remarkPatch struct {
	Remarks string `json:"remarks"`
}

// UpdateDisconnectionRemark patches the free-text remark on one account.
func UpdateDisconnectionRemark(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var patch remarkPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	err = store.New(config.DB).Update(&models.DisconnectionAccount{}, id,
		map[string]interface{}{"remarks": patch.Remarks})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func DeleteDisconnectionAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	err = store.New(config.DB).Remove(&models.DisconnectionAccount{}, id)
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

// ImportDebtList ingests an uploaded debt-list spreadsheet, replacing all
// stored disconnection accounts with the file's rows. Either the whole file
// imports or nothing does.
func ImportDebtList(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	headers, rows, err := importer.ReadRows(file, header.Filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	accounts, err := importer.ParseDebtList(headers, rows)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if err := store.New(config.DB).Replace(&models.DisconnectionAccount{}, &accounts); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"imported": len(accounts),
	})
}
