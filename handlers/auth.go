// handlers/auth.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/martindev-ke/fieldops/config"
	"github.com/martindev-ke/fieldops/middleware"
	"github.com/martindev-ke/fieldops/models"
)

// userPayload is the profile shape the PWA stores for the session.
type userPayload struct {
	ID       string `json:"id"`
	StaffNo  string `json:"staff_no"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Position string `json:"position"`
	Zone     string `json:"zone"`
	Sector   string `json:"sector"`
	Email    string `json:"email,omitempty"`
}

type tokenResp struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	UserData    userPayload `json:"user_data"`
}

// authError writes the {"detail": ...} error body the login screen expects.
func authError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

// Login implements POST /token: form-encoded staff number and PIN in
// exchange for a bearer token plus the user profile.
func Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		authError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		authError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	var u models.User
	if err := config.DB.Where("staff_no = ?", username).First(&u).Error; err != nil {
		authError(w, http.StatusUnauthorized, "invalid staff number or PIN")
		return
	}
	if !u.IsActive {
		authError(w, http.StatusUnauthorized, "account is deactivated")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PinHash), []byte(password)); err != nil {
		authError(w, http.StatusUnauthorized, "invalid staff number or PIN")
		return
	}

	token, err := middleware.GenerateToken(u)
	if err != nil {
		authError(w, http.StatusInternalServerError, "couldn't create token")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tokenResp{
		AccessToken: token,
		TokenType:   "bearer",
		UserData:    toUserPayload(u),
	})
}

func toUserPayload(u models.User) userPayload {
	return userPayload{
		ID:       u.ID.String(),
		StaffNo:  u.StaffNo,
		FullName: u.Name,
		Role:     u.Role,
		Position: u.Position,
		Zone:     u.Zone,
		Sector:   u.Sector,
		Email:    u.Email,
	}
}

type registerReq struct {
	StaffNo  string `json:"staffNo"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Pin      string `json:"pin"`
	Role     string `json:"role"`
	Position string `json:"position"`
	Zone     string `json:"zone"`
	Sector   string `json:"sector"`
}

// Register creates a staff account. Supervisors use it when the seeded
// directory falls behind the posting sheet.
func Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.StaffNo == "" || req.Name == "" || req.Pin == "" {
		http.Error(w, "staffNo, name and pin are required", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleOfficer
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Pin), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "error hashing PIN", http.StatusInternalServerError)
		return
	}
	u := models.User{
		StaffNo:  req.StaffNo,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		PinHash:  string(hash),
		Role:     req.Role,
		Position: req.Position,
		Zone:     req.Zone,
		Sector:   req.Sector,
		IsActive: true,
	}
	if err := config.DB.Create(&u).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "staff number already registered", http.StatusConflict)
		} else {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// GetProfile returns the session user's directory record.
func GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	u := middleware.GetUser(r)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toUserPayload(u))
}

// ListStaff returns the staff directory, optionally filtered by position
// (e.g. ?position=IIU Inspector) or workflow role.
func ListStaff(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Where("is_active = ?", true)
	if pos := r.URL.Query().Get("position"); pos != "" {
		q = q.Where("position = ?", pos)
	}
	if role := r.URL.Query().Get("role"); role != "" {
		q = q.Where("role = ?", role)
	}

	var users []models.User
	if err := q.Order("sector, zone, name").Find(&users).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]userPayload, len(users))
	for i, u := range users {
		out[i] = toUserPayload(u)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"total": len(out),
		"data":  out,
	})
}
