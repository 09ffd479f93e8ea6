package webservice

// fetch_pass.go implements conditional pass retrieval: the polling half of
// the update protocol.

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/walletpass/passd/internal/logger"
	"github.com/walletpass/passd/internal/passkit"
)

// HandleFetchPass godoc
//
//	@Summary		Fetch a pass bundle
//	@Description	Returns the current signed bundle for a pass, or 304 when
//	@Description	the client's If-Modified-Since stamp is current. The stamp
//	@Description	is the raw numeric version, not an HTTP date.
//	@Tags			Protocol
//	@Produce		application/vnd.apple.pkpass
//	@Param			passTypeIdentifier	path	string	true	"pass type identifier"
//	@Param			serialNumber		path	string	true	"pass serial number"
//	@Success		200	{file}		binary	"bundle bytes, Last-Modified = version"
//	@Success		304	{string}	string	"client copy is current"
//	@Failure		401	{string}	string	"unknown serial or bad credential"
//	@Router			/v1/passes/{passTypeIdentifier}/{serialNumber} [get]
func (s *Service) HandleFetchPass(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	passTypeID := chi.URLParam(r, "passTypeIdentifier")
	serial := chi.URLParam(r, "serialNumber")

	token, ok := ParseAuthorization(r)
	if !ok {
		RespondError(w, r, passkit.NewUnauthorizedError("missing or malformed authorization header"))
		return
	}

	pass, err := passkit.AuthorizePass(ctx, s.passes, serial, passTypeID, token)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	// Freshness is a numeric comparison on the version stamp; a stamp
	// equal to the current version counts as not modified. A stamp that
	// fails to parse is ignored and the full bundle is served.
	if since := r.Header.Get("If-Modified-Since"); since != "" {
		if stamp, err := strconv.ParseInt(since, 10, 64); err == nil && stamp >= pass.Version {
			RespondStatusOnly(w, http.StatusNotModified)
			return
		}
	}

	// The version stamp was read before the bundle bytes, so the served
	// bytes are never older than the stamp they are tagged with.
	bundle, err := s.bundles.GetBundle(ctx, serial)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	logger.ContextWithLogAttrs(ctx,
		slog.String("serial", serial),
		slog.Int64("version", pass.Version))

	w.Header().Set("Content-Type", passkit.BundleContentType)
	w.Header().Set("Last-Modified", strconv.FormatInt(pass.Version, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(bundle); err != nil {
		logger.ContextRequestLogger(ctx).Warn("failed to write bundle response",
			slog.String("serial", serial),
			slog.String("error", err.Error()))
	}
}

// HandleListUpdatedPasses godoc
//
//	@Summary		List passes updated since a stamp
//	@Description	Returns the serial numbers of passes of the given type
//	@Description	whose version is newer than passesUpdatedSince, plus the
//	@Description	highest such version as the next polling cursor.
//	@Tags			Protocol
//	@Produce		json
//	@Param			passTypeIdentifier	path	string	true	"pass type identifier"
//	@Param			passesUpdatedSince	query	int		true	"version stamp cursor"
//	@Success		200	{object}	serialListResponse
//	@Success		204	{string}	string	"nothing changed"
//	@Failure		400	{object}	errorBody	"missing or invalid cursor"
//	@Router			/v1/passes/{passTypeIdentifier} [get]
func (s *Service) HandleListUpdatedPasses(w http.ResponseWriter, r *http.Request) {
	passTypeID := chi.URLParam(r, "passTypeIdentifier")

	raw := r.URL.Query().Get("passesUpdatedSince")
	if raw == "" {
		RespondError(w, r, passkit.NewValidationError("missing passesUpdatedSince"))
		return
	}
	since, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		RespondError(w, r, passkit.NewValidationError("invalid passesUpdatedSince"))
		return
	}

	stamps, err := s.passes.ListUpdatedSince(r.Context(), passTypeID, since)
	if err != nil {
		RespondError(w, r, passkit.WrapDependencyError(err, "pass store listing failed"))
		return
	}
	if len(stamps) == 0 {
		RespondStatusOnly(w, http.StatusNoContent)
		return
	}

	resp := serialListResponse{SerialNumbers: make([]string, 0, len(stamps))}
	for _, s := range stamps {
		resp.SerialNumbers = append(resp.SerialNumbers, s.Serial)
		if s.Version > resp.LastUpdated {
			resp.LastUpdated = s.Version
		}
	}
	RespondWithJSON(w, http.StatusOK, resp)
}
