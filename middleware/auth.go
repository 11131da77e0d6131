package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/LenoreWoW/Themis-sub003/database"
	"github.com/LenoreWoW/Themis-sub003/models"
	"github.com/LenoreWoW/Themis-sub003/utils"
)

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication for WebSocket upgrade requests; the socket
		// handler validates its own token.
		if r.Header.Get("Upgrade") == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			log.Printf("AuthMiddleware: JWT validation failed: %v", err)
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid user ID format: %s", claims.UserID))
			return
		}

		var user models.User
		err = database.DB().Collection("users").FindOne(r.Context(), bson.M{"_id": userID}).Decode(&user)
		if err != nil {
			log.Printf("AuthMiddleware: user %s not found: %v", userID.Hex(), err)
			utils.RespondWithError(w, http.StatusUnauthorized, "User not found")
			return
		}

		deptID := ""
		if user.DepartmentID != nil {
			deptID = user.DepartmentID.Hex()
		}

		ctx := context.WithValue(r.Context(), "userID", user.ID.Hex())
		ctx = context.WithValue(ctx, "userName", user.FullName())
		ctx = context.WithValue(ctx, "userRole", string(user.Role))
		ctx = context.WithValue(ctx, "deptID", deptID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
