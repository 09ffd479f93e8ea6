package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/walletpass/passd/internal/blob"
)

func newTemplateRouter() *chi.Mux {
	h := NewTemplateHandler(blob.NewTemplateLibrary(blob.NewMemoryStore(), "template/", "template.zip"))

	router := chi.NewRouter()
	router.Get("/admin/templates", h.HandleListAssets)
	router.Get("/admin/templates/{name}", h.HandleGetAsset)
	router.Put("/admin/templates/{name}", h.HandlePutAsset)
	router.Delete("/admin/templates/{name}", h.HandleDeleteAsset)
	return router
}

func TestTemplateAssetLifecycle(t *testing.T) {
	router := newTemplateRouter()

	// Upload.
	req := httptest.NewRequest("PUT", "/admin/templates/icon.png", strings.NewReader("icon-bytes"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("put: status = %d, want 204", rec.Code)
	}

	// List.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/templates", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d, want 200", rec.Code)
	}
	var listing struct {
		Assets []string `json:"assets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("listing is not valid JSON: %v", err)
	}
	if len(listing.Assets) != 1 || listing.Assets[0] != "icon.png" {
		t.Errorf("assets = %v, want [icon.png]", listing.Assets)
	}

	// Download.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/templates/icon.png", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "icon-bytes" {
		t.Errorf("get body = %q, want icon-bytes", rec.Body.String())
	}

	// Delete, then the asset is gone.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/admin/templates/icon.png", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/templates/icon.png", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", rec.Code)
	}
}

func TestPutAssetRejectsEmptyBody(t *testing.T) {
	router := newTemplateRouter()

	req := httptest.NewRequest("PUT", "/admin/templates/icon.png", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
