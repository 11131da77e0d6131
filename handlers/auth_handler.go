// handlers/auth_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/LenoreWoW/Themis-sub003/models"
	"github.com/LenoreWoW/Themis-sub003/utils"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and issues a session token.
func Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if user.Role == models.RolePending {
		utils.RespondWithError(w, http.StatusForbidden, "account is pending activation")
		return
	}

	deptID := ""
	if user.DepartmentID != nil {
		deptID = user.DepartmentID.Hex()
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.FullName(), string(user.Role), deptID)
	if err != nil {
		log.Printf("Login: token generation failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Logout is a client-side token discard; kept for API symmetry.
func Logout(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ValidateToken reports whether the presented bearer token is still good.
func ValidateToken(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		utils.RespondWithError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	claims, err := utils.ValidateJWT(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"valid":  true,
		"userID": claims.UserID,
		"role":   claims.Role,
	})
}
