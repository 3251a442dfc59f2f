package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardlink/cardscan/internal/extract"
	"github.com/cardlink/cardscan/internal/model"
	"github.com/cardlink/cardscan/internal/store"
)

type stubRecognizer struct {
	entities []model.Entity
	err      error
}

func (s *stubRecognizer) Recognize(ctx context.Context, text string) ([]model.Entity, error) {
	return s.entities, s.err
}

type stubOCR struct {
	text string
	err  error
}

func (s *stubOCR) ExtractText(ctx context.Context, imagePath string) (string, error) {
	return s.text, s.err
}

func newTestServer(t *testing.T, rec extract.Recognizer, engine *stubOCR) *httptest.Server {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	api := &apiServer{
		opts:   extract.Options{DefaultCountryCode: "+66"},
		rec:    rec,
		engine: engine,
		store:  st,
	}
	srv := httptest.NewServer(api.router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, nil, &stubOCR{})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_Parse(t *testing.T) {
	srv := newTestServer(t, nil, &stubOCR{})

	resp := postJSON(t, srv.URL+"/parse", map[string]string{
		"text": "John Smith\nDirector\nAcme Co., Ltd.\njohn.smith@acme.com\nTel: 081-234-5678",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	draft := decodeBody[model.ContactDraft](t, resp)
	assert.Equal(t, "John", draft.FirstName.Value)
	assert.Equal(t, "+66812345678", draft.Phone.Value)
	assert.Equal(t, "Acme Co., Ltd.", draft.Company.Value)
}

func TestServer_Parse_RecognizerFailureDegrades(t *testing.T) {
	srv := newTestServer(t, &stubRecognizer{err: eris.New("down")}, &stubOCR{})

	resp := postJSON(t, srv.URL+"/parse", map[string]string{"text": "john@acme.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	draft := decodeBody[model.ContactDraft](t, resp)
	assert.Equal(t, "john@acme.com", draft.Email.Value)
}

func TestServer_Parse_BadBody(t *testing.T) {
	srv := newTestServer(t, nil, &stubOCR{})

	resp, err := http.Post(srv.URL+"/parse", "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Scan(t *testing.T) {
	srv := newTestServer(t, nil, &stubOCR{text: "Mary Jones\nmary@widget.io"})

	resp := postJSON(t, srv.URL+"/scan", map[string]string{
		"image_base64": base64.StdEncoding.EncodeToString([]byte("fake-image")),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	draft := decodeBody[model.ContactDraft](t, resp)
	assert.Equal(t, "Mary", draft.FirstName.Value)
	assert.Equal(t, "mary@widget.io", draft.Email.Value)
}

func TestServer_Scan_OCRFailure(t *testing.T) {
	srv := newTestServer(t, nil, &stubOCR{err: eris.New("tesseract exploded")})

	resp := postJSON(t, srv.URL+"/scan", map[string]string{
		"image_base64": base64.StdEncoding.EncodeToString([]byte("fake-image")),
	})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestServer_Scan_MissingImage(t *testing.T) {
	srv := newTestServer(t, nil, &stubOCR{})

	resp := postJSON(t, srv.URL+"/scan", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/scan", map[string]string{"image_base64": "not base64!!"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ContactsCRUD(t *testing.T) {
	srv := newTestServer(t, nil, &stubOCR{})
	client := srv.Client()

	// Create
	resp := postJSON(t, srv.URL+"/contacts/", model.ContactDraft{
		FirstName: model.NewField("John", 0.75),
		Company:   model.NewField("Acme", 0.7),
		Email:     model.NewField("john@acme.com", 0.95),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[model.Contact](t, resp)
	require.NotEmpty(t, created.ID)

	// Get
	resp, err := client.Get(srv.URL + "/contacts/" + created.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[model.Contact](t, resp)
	assert.Equal(t, "John", got.Draft.FirstName.Value)

	// List with search
	resp, err = client.Get(srv.URL + "/contacts/?q=acme")
	require.NoError(t, err)
	listed := decodeBody[[]model.Contact](t, resp)
	require.Len(t, listed, 1)

	// Favorite
	favBody, err := json.Marshal(map[string]bool{"isFavorite": true})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPatch, srv.URL+"/contacts/"+created.ID+"/favorite", bytes.NewReader(favBody))
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fav := decodeBody[model.Contact](t, resp)
	assert.True(t, fav.IsFavorite)

	// List favorites only
	resp, err = client.Get(srv.URL + "/contacts/?favorite=true")
	require.NoError(t, err)
	favorites := decodeBody[[]model.Contact](t, resp)
	require.Len(t, favorites, 1)

	// Delete
	req, err = http.NewRequest(http.MethodDelete, srv.URL+"/contacts/"+created.ID, nil)
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	// Gone
	resp, err = client.Get(srv.URL + "/contacts/" + created.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_GetContact_NotFound(t *testing.T) {
	srv := newTestServer(t, nil, &stubOCR{})

	resp, err := http.Get(srv.URL + "/contacts/nonexistent")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
