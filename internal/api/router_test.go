package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meur/modcatalog/internal/catalog"
	"github.com/meur/modcatalog/internal/models"
	"github.com/meur/modcatalog/internal/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPersister struct {
	data map[string][]byte
}

func (p *memPersister) Get(key string) ([]byte, error) { return p.data[key], nil }

func (p *memPersister) Put(key string, value []byte) error {
	p.data[key] = append([]byte(nil), value...)
	return nil
}

type testEnv struct {
	ts    *httptest.Server
	store *catalog.Store
}

// newTestEnv wires the API to itself: the attacher uploads to this server's
// own /api/upload-file endpoint.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	var handler http.Handler
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)

	store := catalog.New(&memPersister{data: map[string][]byte{}}, "modFiles", nil)
	_, err := store.Load()
	require.NoError(t, err)

	client := upload.NewClient(ts.URL+"/api/upload-file", 5*time.Second)
	t.Cleanup(client.Close)

	attacher := upload.NewAttacher(client, store, upload.Options{AdminModID: 7, MaxFileBytes: 1 << 10}, nil)
	handler = New(store, attacher, Options{MaxUploadBytes: 1 << 20}, nil)

	return &testEnv{ts: ts, store: store}
}

func (e *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := e.ts.Client().Get(e.ts.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) postJSON(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := e.ts.Client().Post(e.ts.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) postForm(t *testing.T, path string, fields map[string]string, fileName, content string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	resp, err := e.ts.Client().Post(e.ts.URL+path, mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func modNames(mods []models.Mod) []string {
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		out = append(out, m.Name)
	}
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp := env.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetCategories(t *testing.T) {
	env := newTestEnv(t)
	resp := env.get(t, "/api/categories")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cats := decode[[]models.Category](t, resp)
	assert.Equal(t, models.Categories(), cats)
}

func TestGetModsFiltered(t *testing.T) {
	env := newTestEnv(t)

	list := decode[models.ModList](t, env.get(t, "/api/mods"))
	assert.Equal(t, 7, list.TotalCount)
	assert.Equal(t, models.DefaultMods(), list.Items)

	list = decode[models.ModList](t, env.get(t, "/api/mods?category=tech"))
	assert.Equal(t, []string{"Tech Machines", "Saw"}, modNames(list.Items))

	list = decode[models.ModList](t, env.get(t, "/api/mods?q=DRAGON"))
	assert.Equal(t, []string{"Dragon Mobs"}, modNames(list.Items))
	assert.Equal(t, 1, list.TotalCount)
}

func TestGetMod(t *testing.T) {
	env := newTestEnv(t)

	mod := decode[models.Mod](t, env.get(t, "/api/mods/7"))
	assert.Equal(t, "Saw", mod.Name)

	assert.Equal(t, http.StatusNotFound, env.get(t, "/api/mods/99").StatusCode)
	assert.Equal(t, http.StatusBadRequest, env.get(t, "/api/mods/seven").StatusCode)
}

func TestCreateModJSON(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postJSON(t, "/api/mods", models.ModDraft{
		Name: "X", Description: "Y", Category: "tools", Author: "Z", Version: "1.0",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	mod := decode[models.Mod](t, resp)
	assert.Equal(t, 8, mod.ID)
	assert.Equal(t, "⛏️", mod.Icon)
	assert.Zero(t, mod.Downloads)

	mods := env.store.List()
	require.Len(t, mods, 8)
	assert.Equal(t, mod, mods[0])
}

func TestCreateModValidation(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postJSON(t, "/api/mods", models.ModDraft{Name: "X", Category: "tools"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[struct {
		Error  string   `json:"error"`
		Fields []string `json:"fields"`
	}](t, resp)
	assert.Equal(t, []string{"description", "author", "version"}, body.Fields)
	assert.Equal(t, models.DefaultMods(), env.store.List())
}

func TestCreateModBadBody(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.ts.Client().Post(env.ts.URL+"/api/mods", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateModFormIgnoresFile(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postForm(t, "/api/mods", map[string]string{
		"name": "Form Mod", "description": "From the dialog", "category": "mobs",
		"author": "Me", "version": "1.21",
	}, "mod.jar", "binary")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	mod := decode[models.Mod](t, resp)
	assert.Equal(t, "🐉", mod.Icon)
	assert.False(t, mod.HasFile())
}

func TestDownloadWithoutFile(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/mods/2/download")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	mod, err := env.store.Get(2)
	require.NoError(t, err)
	assert.Equal(t, 28350, mod.Downloads)
}

func TestAttachNotPermitted(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postForm(t, "/api/mods/3/file", nil, "x.jar", "data")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAttachMissingFile(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postForm(t, "/api/mods/7/file", map[string]string{"note": "none"}, "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAttachTooLarge(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postForm(t, "/api/mods/7/file", nil, "big.jar", strings.Repeat("x", 2<<10))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestAttachThenDownload(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postForm(t, "/api/mods/7/file", nil, "saw.jar", "hello")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mod := decode[models.Mod](t, resp)
	assert.Equal(t, "data:application/octet-stream;base64,aGVsbG8=", mod.DownloadURL)

	before := decode[models.ModList](t, env.get(t, "/api/mods")).Items

	resp = env.get(t, "/api/mods/7/download")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename=Saw.exe`, resp.Header.Get("Content-Disposition"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	after := env.store.List()
	for i := range before {
		if before[i].ID == 7 {
			assert.Equal(t, before[i].Downloads+1, after[i].Downloads)
			before[i].Downloads++
		}
	}
	assert.Equal(t, before, after)
}

func TestRevisionHeaderTracksChanges(t *testing.T) {
	env := newTestEnv(t)

	first := env.get(t, "/api/mods").Header.Get(revisionHeader)
	env.postJSON(t, "/api/mods", models.ModDraft{Name: "a", Description: "b", Author: "c", Version: "d"})
	second := env.get(t, "/api/mods").Header.Get(revisionHeader)

	assert.Equal(t, "0", first)
	assert.Equal(t, "1", second)
}

func TestUploadFileEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postJSON(t, "/api/upload-file", models.UploadRequest{FileContent: "aGk=", ModID: "7"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[models.UploadResponse](t, resp)
	assert.True(t, out.Uploaded)
	assert.Equal(t, "aGk=", out.FileContent)
	assert.Equal(t, "mod.exe", out.FileName)
	assert.Equal(t, "7", out.ModID)
	assert.Regexp(t, `^7_[0-9a-f]{8}$`, out.FileID)

	resp = env.postJSON(t, "/api/upload-file", models.UploadRequest{ModID: "7"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "Missing file content or mod ID", body["error"])
}

func TestGetUploadFile(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusBadRequest, env.get(t, "/api/upload-file").StatusCode)

	resp := env.get(t, "/api/upload-file?fileId=7_abcdef12")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "File retrieval placeholder", body["message"])
}
