// raglite/routes/settings.go
package routes

import (
	"encoding/json"
	"net/http"

	"raglite/raglite/config"
	"raglite/raglite/controllers"
	"raglite/raglite/middlewares"
	"raglite/raglite/utils/response"

	"github.com/go-chi/chi/v5"
)

func SettingsRoutes(ctrl *controllers.SettingsController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		gr.Get("/", func(w http.ResponseWriter, r *http.Request) {
			settings, err := ctrl.Get(r.Context())
			if err != nil {
				response.DomainError(w, err)
				return
			}
			response.Success(w, settings)
		})

		gr.Put("/", func(w http.ResponseWriter, r *http.Request) {
			var patch controllers.SettingsUpdate
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				response.Error(w, http.StatusBadRequest, "invalid request body")
				return
			}
			settings, err := ctrl.Update(r.Context(), patch)
			if err != nil {
				response.DomainError(w, err)
				return
			}
			response.SuccessMessage(w, settings, "settings updated")
		})
	})
	return r
}
