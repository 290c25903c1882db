package routes

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/martindev-ke/fieldops/handlers"
	"github.com/martindev-ke/fieldops/middleware"
	"github.com/martindev-ke/fieldops/models"
)

// RegisterRoutes wires every endpoint onto the router. Everything under
// /api/v1 requires a valid token; the token and registration endpoints and
// the local upload directory are public.
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/token", handlers.Login).Methods("POST")
	r.HandleFunc("/register", handlers.Register).Methods("POST")

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	r.PathPrefix("/uploads/").Handler(
		cacheStatic(http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir)))))

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)
	api.Use(middleware.SecurityMiddleware)

	api.HandleFunc("/profile", handlers.GetProfile).Methods("GET")
	api.HandleFunc("/staff", handlers.ListStaff).Methods("GET")
	api.HandleFunc("/dashboard/stats", handlers.DashboardStats).Methods("GET")

	api.HandleFunc("/inspections", handlers.CreateInspection).Methods("POST")
	api.HandleFunc("/inspections", handlers.ListInspections).Methods("GET")
	api.HandleFunc("/inspections/sync", handlers.MarkInspectionsSynced).Methods("POST")
	api.HandleFunc("/inspections/{id}", handlers.GetInspection).Methods("GET")

	api.HandleFunc("/outages", handlers.CreateOutage).Methods("POST")
	api.HandleFunc("/outages", handlers.ListOutages).Methods("GET")
	api.HandleFunc("/outages/options", handlers.OutageFormOptions).Methods("GET")
	api.HandleFunc("/outages/{id}", handlers.GetOutage).Methods("GET")

	api.HandleFunc("/disconnections", handlers.ListDisconnectionAccounts).Methods("GET")
	api.HandleFunc("/disconnections", handlers.CreateDisconnectionAccount).Methods("POST")
	api.HandleFunc("/disconnections/import", handlers.ImportDebtList).Methods("POST")
	api.HandleFunc("/disconnections/stats", handlers.DisconnectionStats).Methods("GET")
	api.HandleFunc("/disconnections/{id}/action", handlers.DisconnectionAction).Methods("POST")
	api.HandleFunc("/disconnections/{id}/remark", handlers.UpdateDisconnectionRemark).Methods("PATCH")
	api.HandleFunc("/disconnections/{id}", handlers.DeleteDisconnectionAccount).Methods("DELETE")

	api.HandleFunc("/rebilling", handlers.CreateRebillingRequest).Methods("POST")
	api.HandleFunc("/rebilling", handlers.ListRebillingRequests).Methods("GET")
	api.HandleFunc("/rebilling/{id}", handlers.GetRebillingRequest).Methods("GET")
	api.HandleFunc("/rebilling/{id}/approve", handlers.ApproveRebillingRequest).Methods("POST")
	api.HandleFunc("/rebilling/{id}/reject", handlers.RejectRebillingRequest).Methods("POST")
	api.HandleFunc("/rebilling/{id}", handlers.DeleteRebillingRequest).Methods("DELETE")

	api.Handle("/remarks", middleware.RequireRole(
		[]string{models.RoleSupervisor, models.RoleFinal},
		http.HandlerFunc(handlers.CreateRemark))).Methods("POST")
	api.HandleFunc("/remarks", handlers.ListRemarks).Methods("GET")
	api.HandleFunc("/remarks/{id}", handlers.DeleteRemark).Methods("DELETE")

	api.HandleFunc("/reports", handlers.ListReports).Methods("GET")
	api.HandleFunc("/reports/export", handlers.ExportReportsToExcel).Methods("GET")
	api.HandleFunc("/reports/export/csv", handlers.ExportReportsToCSV).Methods("GET")

	api.HandleFunc("/safety-rules", handlers.SafetyRules).Methods("GET")
	api.HandleFunc("/files/upload", handlers.UploadFileHandler).Methods("POST")

	return r
}

// Uploaded photos are immutable (timestamp-prefixed names), so they can be
// cached aggressively.
func cacheStatic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		next.ServeHTTP(w, r)
	})
}
