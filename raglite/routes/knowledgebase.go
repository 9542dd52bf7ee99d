// raglite/routes/knowledgebase.go
package routes

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"raglite/raglite/config"
	"raglite/raglite/controllers"
	"raglite/raglite/middlewares"
	"raglite/raglite/utils/apperrors"
	"raglite/raglite/utils/authz"
	"raglite/raglite/utils/logging"
	"raglite/raglite/utils/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxMultipartMemory = 32 << 20

// readCoverFile pulls the optional cover_image part out of a multipart
// form. A missing part returns ("", nil, nil).
func readCoverFile(r *http.Request) ([]byte, string, error) {
	file, header, err := r.FormFile("cover_image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	logging.RequestLogger.Info("received cover image",
		zap.String("filename", header.Filename),
		zap.Int("size", len(data)),
	)
	return data, header.Filename, nil
}

func formInt(r *http.Request, key string, fallback int) (int, error) {
	value := r.FormValue(key)
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

func KnowledgebaseRoutes(ctrl *controllers.KnowledgebaseController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// Create knowledge base (multipart form, optional cover_image part)
		gr.Post("/", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
				response.Error(w, http.StatusBadRequest, "invalid multipart form")
				return
			}
			name := r.FormValue("name")
			if name == "" {
				response.Error(w, http.StatusBadRequest, "name is required")
				return
			}
			chunkSize, err := formInt(r, "chunk_size", 512)
			if err != nil || chunkSize <= 0 {
				response.Error(w, http.StatusBadRequest, "chunk_size must be a positive integer")
				return
			}
			chunkOverlap, err := formInt(r, "chunk_overlap", 50)
			if err != nil || chunkOverlap <= 0 {
				response.Error(w, http.StatusBadRequest, "chunk_overlap must be a positive integer")
				return
			}
			var description *string
			if d := r.FormValue("description"); d != "" {
				description = &d
			}
			coverData, coverFilename, err := readCoverFile(r)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "invalid cover_image upload")
				return
			}

			kb, err := ctrl.Create(r.Context(), name, middlewares.CurrentUserID(r.Context()),
				description, chunkSize, chunkOverlap, coverData, coverFilename)
			if err != nil {
				response.DomainError(w, err)
				return
			}
			response.Success(w, kb)
		})

		// List knowledge bases of the current user
		gr.Get("/", func(w http.ResponseWriter, r *http.Request) {
			page, _ := strconv.Atoi(r.URL.Query().Get("page"))
			pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
			if page == 0 {
				page = 1
			}
			if pageSize == 0 {
				pageSize = 10
			}
			result, err := ctrl.List(r.Context(), middlewares.CurrentUserID(r.Context()),
				page, pageSize,
				r.URL.Query().Get("search"),
				r.URL.Query().Get("sort_by"),
				r.URL.Query().Get("sort_order"),
			)
			if err != nil {
				response.DomainError(w, err)
				return
			}
			response.Success(w, result)
		})

		// Get single knowledge base
		gr.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			kb, err := ctrl.GetByID(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				response.DomainError(w, err)
				return
			}
			if kb == nil {
				response.Error(w, http.StatusNotFound, "knowledge base not found")
				return
			}
			if err := authz.CheckOwnership(kb.UserID, middlewares.CurrentUserID(r.Context()), "knowledgebase"); err != nil {
				response.DomainError(w, err)
				return
			}
			response.Success(w, kb)
		})

		// Update knowledge base (multipart form; delete_cover=true wins
		// over a newly supplied cover_image)
		gr.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			existing, err := ctrl.GetByID(r.Context(), id)
			if err != nil {
				response.DomainError(w, err)
				return
			}
			if existing == nil {
				response.Error(w, http.StatusNotFound, "knowledge base not found")
				return
			}
			if err := authz.CheckOwnership(existing.UserID, middlewares.CurrentUserID(r.Context()), "knowledgebase"); err != nil {
				response.DomainError(w, err)
				return
			}

			if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
				response.Error(w, http.StatusBadRequest, "invalid multipart form")
				return
			}
			var patch controllers.KnowledgebaseUpdate
			if name := r.FormValue("name"); name != "" {
				patch.Name = &name
			}
			if description := r.FormValue("description"); description != "" {
				patch.Description = &description
			}
			if v := r.FormValue("chunk_size"); v != "" {
				chunkSize, err := strconv.Atoi(v)
				if err != nil || chunkSize <= 0 {
					response.Error(w, http.StatusBadRequest, "chunk_size must be a positive integer")
					return
				}
				patch.ChunkSize = &chunkSize
			}
			if v := r.FormValue("chunk_overlap"); v != "" {
				chunkOverlap, err := strconv.Atoi(v)
				if err != nil || chunkOverlap <= 0 {
					response.Error(w, http.StatusBadRequest, "chunk_overlap must be a positive integer")
					return
				}
				patch.ChunkOverlap = &chunkOverlap
			}
			deleteCover := r.FormValue("delete_cover") == "true"
			coverData, coverFilename, err := readCoverFile(r)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "invalid cover_image upload")
				return
			}

			kb, err := ctrl.Update(r.Context(), id, coverData, coverFilename, deleteCover, patch)
			if err != nil {
				response.DomainError(w, err)
				return
			}
			if kb == nil {
				response.Error(w, http.StatusNotFound, "knowledge base not found")
				return
			}
			response.SuccessMessage(w, kb, "knowledge base updated")
		})

		// Delete knowledge base
		gr.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			existing, err := ctrl.GetByID(r.Context(), id)
			if err != nil {
				response.DomainError(w, err)
				return
			}
			if existing == nil {
				response.Error(w, http.StatusNotFound, "knowledge base not found")
				return
			}
			if err := authz.CheckOwnership(existing.UserID, middlewares.CurrentUserID(r.Context()), "knowledgebase"); err != nil {
				response.DomainError(w, err)
				return
			}
			found, err := ctrl.Delete(r.Context(), id)
			if err != nil {
				response.DomainError(w, err)
				return
			}
			if !found {
				response.Error(w, http.StatusNotFound, "knowledge base not found")
				return
			}
			response.Success(w, nil)
		})

		// Fetch cover image bytes
		gr.Get("/{id}/cover", func(w http.ResponseWriter, r *http.Request) {
			kb, err := ctrl.GetByID(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				response.DomainError(w, err)
				return
			}
			if kb == nil {
				response.Error(w, http.StatusNotFound, "knowledge base not found")
				return
			}
			if err := authz.CheckOwnership(kb.UserID, middlewares.CurrentUserID(r.Context()), "knowledgebase"); err != nil {
				response.DomainError(w, err)
				return
			}
			data, contentType, err := ctrl.FetchCover(r.Context(), kb)
			if err != nil {
				if apperrors.IsNotFound(err) {
					response.Error(w, http.StatusNotFound, "cover image not found")
					return
				}
				response.DomainError(w, err)
				return
			}
			if contentType == "" {
				response.Error(w, http.StatusNotFound, "cover image not found")
				return
			}
			w.Header().Set("Content-Type", contentType)
			w.WriteHeader(http.StatusOK)
			w.Write(data)
		})
	})
	return r
}
