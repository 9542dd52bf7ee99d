// raglite/routes/auth.go
package routes

import (
	"encoding/json"
	"net/http"

	"raglite/raglite/controllers"
	"raglite/raglite/utils/response"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(ctrl *controllers.AuthController) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Email    string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		user, err := ctrl.Register(r.Context(), req.Username, req.Password, req.Email)
		if err != nil {
			response.DomainError(w, err)
			return
		}
		response.SuccessMessage(w, user, "user registered")
	})

	r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		token, user, err := ctrl.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			response.DomainError(w, err)
			return
		}
		response.Success(w, map[string]any{
			"token": token,
			"user":  user,
		})
	})

	return r
}
