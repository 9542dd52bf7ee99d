package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"raglite/raglite/config"
	"raglite/raglite/controllers"
	"raglite/raglite/sources/psql/dao"
	"raglite/raglite/sources/psql/models"
	"raglite/raglite/sources/storage"
	"raglite/raglite/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupServer(t *testing.T) *httptest.Server {
	logging.InitLogger()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Knowledgebase{}, &models.Settings{}))

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	cfg := config.Config{
		JWTSecret:              "test-secret",
		AllowedImageExtensions: []string{"jpg", "jpeg", "png", "gif", "webp"},
		MaxImageSize:           1024 * 1024,
		MaxPageSize:            100,
	}

	r := chi.NewRouter()
	r.Mount("/api/v1/auth", AuthRoutes(controllers.NewAuthController(dao.NewUserDAO(db), cfg)))
	r.Mount("/api/v1/kb", KnowledgebaseRoutes(controllers.NewKnowledgebaseController(dao.NewKnowledgebaseDAO(db), store, cfg), cfg))
	r.Mount("/api/v1/settings", SettingsRoutes(controllers.NewSettingsController(dao.NewSettingsDAO(db)), cfg))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func registerAndLogin(t *testing.T, srv *httptest.Server, username string) string {
	body, _ := json.Marshal(map[string]string{"username": username, "password": "secret123"})
	resp, err := http.Post(srv.URL+"/api/v1/auth/register", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

// multipartBody builds a form with the given fields and an optional
// cover_image file part.
func multipartBody(t *testing.T, fields map[string]string, filename string, file []byte) (*bytes.Buffer, string) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("cover_image", filename)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func doRequest(t *testing.T, method, url, token string, body io.Reader, contentType string) *http.Response {
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeKB(t *testing.T, resp *http.Response) models.Knowledgebase {
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	var kb models.Knowledgebase
	require.NoError(t, json.Unmarshal(env.Data, &kb))
	return kb
}

func TestKnowledgebaseLifecycle(t *testing.T) {
	srv := setupServer(t)
	token := registerAndLogin(t, srv, "u1")
	otherToken := registerAndLogin(t, srv, "u2")

	// Create without cover
	body, contentType := multipartBody(t, map[string]string{"name": "Docs"}, "", nil)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/kb", token, body, contentType)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	kb := decodeKB(t, resp)
	assert.Nil(t, kb.CoverImage)
	assert.Equal(t, 512, kb.ChunkSize)
	assert.Equal(t, 50, kb.ChunkOverlap)

	// Attach a cover via update
	image := make([]byte, 10*1024)
	body, contentType = multipartBody(t, nil, "logo.png", image)
	resp = doRequest(t, http.MethodPut, srv.URL+"/api/v1/kb/"+kb.ID, token, body, contentType)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeKB(t, resp)
	require.NotNil(t, updated.CoverImage)
	assert.Equal(t, "covers/"+kb.ID+".png", *updated.CoverImage)

	// Fetch the cover
	resp = doRequest(t, http.MethodGet, srv.URL+"/api/v1/kb/"+kb.ID+"/cover", token, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Len(t, data, len(image))

	// Other users are locked out of every cover-revealing or mutating call
	resp = doRequest(t, http.MethodGet, srv.URL+"/api/v1/kb/"+kb.ID+"/cover", otherToken, nil, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	body, contentType = multipartBody(t, map[string]string{"name": "Stolen"}, "", nil)
	resp = doRequest(t, http.MethodPut, srv.URL+"/api/v1/kb/"+kb.ID, otherToken, body, contentType)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, http.MethodDelete, srv.URL+"/api/v1/kb/"+kb.ID, otherToken, nil, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The failed mutation attempts changed nothing
	resp = doRequest(t, http.MethodGet, srv.URL+"/api/v1/kb/"+kb.ID, token, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Docs", decodeKB(t, resp).Name)

	// Remove the cover
	body, contentType = multipartBody(t, map[string]string{"delete_cover": "true"}, "", nil)
	resp = doRequest(t, http.MethodPut, srv.URL+"/api/v1/kb/"+kb.ID, token, body, contentType)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, decodeKB(t, resp).CoverImage)

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/v1/kb/"+kb.ID+"/cover", token, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Search finds it case-insensitively
	resp = doRequest(t, http.MethodGet, srv.URL+"/api/v1/kb?search=doc", token, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	resp.Body.Close()
	var page struct {
		Items []models.Knowledgebase `json:"items"`
		Total int64                  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, kb.ID, page.Items[0].ID)

	// Hard delete
	resp = doRequest(t, http.MethodDelete, srv.URL+"/api/v1/kb/"+kb.ID, token, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/v1/kb/"+kb.ID, token, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestKnowledgebaseRequiresAuth(t *testing.T) {
	srv := setupServer(t)
	resp, err := http.Get(srv.URL + "/api/v1/kb")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, http.StatusUnauthorized, env.Code)
}

func TestCreateValidationErrors(t *testing.T) {
	srv := setupServer(t)
	token := registerAndLogin(t, srv, "u1")

	// Missing name
	body, contentType := multipartBody(t, map[string]string{}, "", nil)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/kb", token, body, contentType)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Non-positive chunk_size
	body, contentType = multipartBody(t, map[string]string{"name": "Docs", "chunk_size": "0"}, "", nil)
	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/kb", token, body, contentType)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Disallowed cover extension
	body, contentType = multipartBody(t, map[string]string{"name": "Docs"}, "virus.exe", []byte("x"))
	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/kb", token, body, contentType)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Duplicate (owner, name)
	body, contentType = multipartBody(t, map[string]string{"name": "Docs"}, "", nil)
	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/kb", token, body, contentType)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	body, contentType = multipartBody(t, map[string]string{"name": "Docs"}, "", nil)
	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/kb", token, body, contentType)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSettingsRoundTrip(t *testing.T) {
	srv := setupServer(t)
	token := registerAndLogin(t, srv, "u1")

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/settings", token, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	resp.Body.Close()
	var settings models.Settings
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	assert.Equal(t, "huggingface", settings.EmbeddingProvider)

	patch, _ := json.Marshal(map[string]any{"llm_provider": "openai"})
	resp = doRequest(t, http.MethodPut, srv.URL+"/api/v1/settings", token, bytes.NewReader(patch), "application/json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	resp.Body.Close()
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	assert.Equal(t, "openai", settings.LLMProvider)
}
