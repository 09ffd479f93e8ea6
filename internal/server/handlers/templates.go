package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/walletpass/passd/internal/blob"
	"github.com/walletpass/passd/internal/passkit"
	"github.com/walletpass/passd/internal/webservice"
)

// TemplateHandler manages the template asset library the bundle builder
// draws from.
type TemplateHandler struct {
	library *blob.TemplateLibrary
}

// NewTemplateHandler creates the template asset endpoint set.
func NewTemplateHandler(library *blob.TemplateLibrary) *TemplateHandler {
	return &TemplateHandler{library: library}
}

type templateListResponse struct {
	Assets []string `json:"assets"`
}

// HandleListAssets godoc
//
//	@Summary	List template assets
//	@Tags		Admin
//	@Produce	json
//	@Success	200	{object}	templateListResponse
//	@Router		/admin/templates [get]
func (h *TemplateHandler) HandleListAssets(w http.ResponseWriter, r *http.Request) {
	names, err := h.library.ListAssets(r.Context())
	if err != nil {
		webservice.RespondError(w, r, passkit.WrapDependencyError(err, "template listing failed"))
		return
	}
	webservice.RespondWithJSON(w, http.StatusOK, templateListResponse{Assets: names})
}

// HandleGetAsset godoc
//
//	@Summary	Download one template asset
//	@Tags		Admin
//	@Produce	octet-stream
//	@Param		name	path		string	true	"asset file name"
//	@Success	200		{file}		binary
//	@Failure	404		{object}	object
//	@Router		/admin/templates/{name} [get]
func (h *TemplateHandler) HandleGetAsset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	data, err := h.library.GetAsset(r.Context(), name)
	if err != nil {
		if errors.Is(err, blob.ErrNotExist) {
			webservice.RespondError(w, r, passkit.NewNotFoundError("template asset not found"))
			return
		}
		webservice.RespondError(w, r, passkit.WrapDependencyError(err, "template read failed"))
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HandlePutAsset godoc
//
//	@Summary		Upload or replace a template asset
//	@Description	New bundles pick up the changed asset immediately; already
//	@Description	built bundles keep the content they were signed with.
//	@Tags			Admin
//	@Accept			octet-stream
//	@Param			name	path	string	true	"asset file name"
//	@Success		204		"stored"
//	@Failure		400		{object}	object
//	@Router			/admin/templates/{name} [put]
func (h *TemplateHandler) HandlePutAsset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	data, err := io.ReadAll(r.Body)
	if err != nil {
		webservice.RespondError(w, r, passkit.WrapValidationError(err, "unreadable request body"))
		return
	}
	defer r.Body.Close()

	if len(data) == 0 {
		webservice.RespondError(w, r, passkit.NewValidationError("empty asset body"))
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := h.library.PutAsset(r.Context(), name, data, contentType); err != nil {
		webservice.RespondError(w, r, passkit.WrapDependencyError(err, "template write failed"))
		return
	}
	webservice.RespondStatusOnly(w, http.StatusNoContent)
}

// HandleDeleteAsset godoc
//
//	@Summary	Delete a template asset
//	@Tags		Admin
//	@Param		name	path	string	true	"asset file name"
//	@Success	204		"deleted"
//	@Failure	404		{object}	object
//	@Router		/admin/templates/{name} [delete]
func (h *TemplateHandler) HandleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.library.DeleteAsset(r.Context(), name); err != nil {
		if errors.Is(err, blob.ErrNotExist) {
			webservice.RespondError(w, r, passkit.NewNotFoundError("template asset not found"))
			return
		}
		webservice.RespondError(w, r, passkit.WrapDependencyError(err, "template delete failed"))
		return
	}
	webservice.RespondStatusOnly(w, http.StatusNoContent)
}
