package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/martindev-ke/fieldops/config"
	"github.com/martindev-ke/fieldops/models"
	"github.com/martindev-ke/fieldops/pkg/store"
)

// DashboardStats aggregates the numbers shown on the landing dashboard:
// per-category report counts, unsynced backlog, outstanding debt, and the
// static grid trend series the charts render.
func DashboardStats(w http.ResponseWriter, r *http.Request) {
	s := store.New(config.DB)

	var inspections, outages, accounts, rebilling, remarks int64
	config.DB.Model(&models.Inspection{}).Count(&inspections)
	config.DB.Model(&models.Outage{}).Count(&outages)
	config.DB.Model(&models.DisconnectionAccount{}).Count(&accounts)
	config.DB.Model(&models.RebillingRequest{}).Count(&rebilling)
	config.DB.Model(&models.SupervisorRemark{}).Count(&remarks)

	var pendingDisconnections, pendingRebilling int64
	config.DB.Model(&models.DisconnectionAccount{}).
		Where("status = ?", models.DisconnectionPending).Count(&pendingDisconnections)
	config.DB.Model(&models.RebillingRequest{}).
		Where("status = ?", models.RebillingPending).Count(&pendingRebilling)

	var totalDebt float64
	config.DB.Model(&models.DisconnectionAccount{}).
		Select("COALESCE(SUM(balance), 0)").Scan(&totalDebt)

	pendingSync := map[string]int64{
		"inspections":    s.PendingSyncCount(&models.Inspection{}),
		"outages":        s.PendingSyncCount(&models.Outage{}),
		"disconnections": s.PendingSyncCount(&models.DisconnectionAccount{}),
		"rebilling":      s.PendingSyncCount(&models.RebillingRequest{}),
		"remarks":        s.PendingSyncCount(&models.SupervisorRemark{}),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"counts": map[string]int64{
			"inspections":    inspections,
			"outages":        outages,
			"disconnections": accounts,
			"rebilling":      rebilling,
			"remarks":        remarks,
		},
		"pendingDisconnections": pendingDisconnections,
		"pendingRebilling":      pendingRebilling,
		"totalDebt":             totalDebt,
		"pendingSync":           pendingSync,
		"trends": map[string]interface{}{
			"electrificationProgress": []int{75, 78, 79},
			"renewablesMix":           map[string]int{"renewable": 90, "thermal": 10},
			"outageEvolution":         []int{3, 4, 5},
		},
	})
}
