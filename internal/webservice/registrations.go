package webservice

// registrations.go implements the device registration state machine's HTTP
// surface: register, unregister, and per-device enumeration.

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/walletpass/passd/internal/logger"
	"github.com/walletpass/passd/internal/passkit"
)

// HandleRegisterDevice godoc
//
//	@Summary		Register a device for pass updates
//	@Description	Creates or refreshes the (device, pass) registration.
//	@Description	Re-registering overwrites the push token without error.
//	@Tags			Protocol
//	@Accept			json
//	@Param			deviceLibraryIdentifier	path	string				true	"device library identifier"
//	@Param			passTypeIdentifier		path	string				true	"pass type identifier"
//	@Param			serialNumber			path	string				true	"pass serial number"
//	@Param			request					body	registrationRequest	true	"push token"
//	@Success		201	{string}	string	"registration created"
//	@Success		200	{string}	string	"registration already existed"
//	@Failure		400	{object}	errorBody	"missing push token"
//	@Failure		401	{string}	string	"unknown serial or bad credential"
//	@Router			/v1/devices/{deviceLibraryIdentifier}/registrations/{passTypeIdentifier}/{serialNumber} [post]
func (s *Service) HandleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := chi.URLParam(r, "deviceLibraryIdentifier")
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

	var req registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, passkit.WrapValidationError(err, "invalid registration body"))
		return
	}
	defer r.Body.Close()

	if req.PushToken == "" {
		RespondError(w, r, passkit.NewValidationError("missing pushToken"))
		return
	}

	created, err := s.regs.Upsert(ctx, passkit.Registration{
		DeviceLibraryID: deviceID,
		Serial:          serial,
		PassTypeID:      passTypeID,
		PushToken:       req.PushToken,
		// New registrations start acknowledged at the current version;
		// they only appear in passesUpdatedSince once the pass moves on.
		AckVersion: pass.Version,
	})
	if err != nil {
		RespondError(w, r, passkit.WrapDependencyError(err, "failed to store registration"))
		return
	}

	logger.ContextWithLogAttrs(ctx,
		slog.String("serial", serial),
		slog.String("device", deviceID),
		slog.Bool("created", created))

	if created {
		RespondStatusOnly(w, http.StatusCreated)
		return
	}
	RespondStatusOnly(w, http.StatusOK)
}

// HandleUnregisterDevice godoc
//
//	@Summary		Unregister a device
//	@Description	Removes the (device, pass) registration. Unregistering an
//	@Description	absent registration succeeds.
//	@Tags			Protocol
//	@Param			deviceLibraryIdentifier	path	string	true	"device library identifier"
//	@Param			passTypeIdentifier		path	string	true	"pass type identifier"
//	@Param			serialNumber			path	string	true	"pass serial number"
//	@Success		200	{string}	string	"registration removed"
//	@Failure		401	{string}	string	"unknown serial or bad credential"
//	@Router			/v1/devices/{deviceLibraryIdentifier}/registrations/{passTypeIdentifier}/{serialNumber} [delete]
func (s *Service) HandleUnregisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := chi.URLParam(r, "deviceLibraryIdentifier")
	passTypeID := chi.URLParam(r, "passTypeIdentifier")
	serial := chi.URLParam(r, "serialNumber")

	token, ok := ParseAuthorization(r)
	if !ok {
		RespondError(w, r, passkit.NewUnauthorizedError("missing or malformed authorization header"))
		return
	}

	if _, err := passkit.AuthorizePass(ctx, s.passes, serial, passTypeID, token); err != nil {
		RespondError(w, r, err)
		return
	}

	if err := s.regs.Delete(ctx, deviceID, serial); err != nil {
		RespondError(w, r, passkit.WrapDependencyError(err, "failed to delete registration"))
		return
	}
	RespondStatusOnly(w, http.StatusOK)
}

// HandleListDeviceRegistrations godoc
//
//	@Summary		List a device's updated registrations
//	@Description	Returns the serials registered to this device whose ack
//	@Description	version is newer than passesUpdatedSince, plus the highest
//	@Description	such version as the next cursor. 204 when nothing changed.
//	@Tags			Protocol
//	@Produce		json
//	@Param			deviceLibraryIdentifier	path	string	true	"device library identifier"
//	@Param			passTypeIdentifier		path	string	true	"pass type identifier"
//	@Param			passesUpdatedSince		query	int		false	"version stamp cursor"
//	@Success		200	{object}	serialListResponse
//	@Success		204	{string}	string	"nothing changed"
//	@Router			/v1/devices/{deviceLibraryIdentifier}/registrations/{passTypeIdentifier} [get]
func (s *Service) HandleListDeviceRegistrations(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceLibraryIdentifier")
	passTypeID := chi.URLParam(r, "passTypeIdentifier")

	var since int64
	if raw := r.URL.Query().Get("passesUpdatedSince"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			RespondError(w, r, passkit.NewValidationError("invalid passesUpdatedSince"))
			return
		}
		since = parsed
	}

	regs, err := s.regs.ListForDeviceSince(r.Context(), deviceID, passTypeID, since)
	if err != nil {
		RespondError(w, r, passkit.WrapDependencyError(err, "registration store listing failed"))
		return
	}
	if len(regs) == 0 {
		RespondStatusOnly(w, http.StatusNoContent)
		return
	}

	resp := serialListResponse{SerialNumbers: make([]string, 0, len(regs))}
	for _, reg := range regs {
		resp.SerialNumbers = append(resp.SerialNumbers, reg.Serial)
		if reg.AckVersion > resp.LastUpdated {
			resp.LastUpdated = reg.AckVersion
		}
	}
	RespondWithJSON(w, http.StatusOK, resp)
}
