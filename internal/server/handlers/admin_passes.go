package handlers

// admin_passes.go implements the operator surface for issuing, inspecting
// and updating passes, and for driving the mail pipeline.

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/walletpass/passd/internal/logger"
	"github.com/walletpass/passd/internal/mailer"
	"github.com/walletpass/passd/internal/passkit"
	"github.com/walletpass/passd/internal/webservice"
)

// AdminHandler holds the operator endpoint dependencies.
type AdminHandler struct {
	coordinator *passkit.Coordinator
	passes      passkit.PassStore
	mailQueue   mailer.Queue
}

// NewAdminHandler creates the operator endpoint set.
func NewAdminHandler(coordinator *passkit.Coordinator, passes passkit.PassStore, mailQueue mailer.Queue) *AdminHandler {
	return &AdminHandler{
		coordinator: coordinator,
		passes:      passes,
		mailQueue:   mailQueue,
	}
}

type issueRequest struct {
	Email    string          `json:"email"`
	PassData json.RawMessage `json:"passData"`
}

type issueResponse struct {
	SerialNumber        string `json:"serialNumber"`
	AuthenticationToken string `json:"authenticationToken"`
}

// HandleIssuePass godoc
//
//	@Summary		Issue a new pass
//	@Description	Creates a pass with a fresh serial and credential, builds
//	@Description	and stores the first signed bundle, and queues the
//	@Description	download mail.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		issueRequest	true	"recipient and initial content"
//	@Success		200		{object}	issueResponse
//	@Failure		400		{object}	object
//	@Router			/admin/passes [post]
func (h *AdminHandler) HandleIssuePass(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		webservice.RespondError(w, r, passkit.WrapValidationError(err, "invalid issue request"))
		return
	}
	defer r.Body.Close()

	if req.Email == "" {
		webservice.RespondError(w, r, passkit.NewValidationError("missing email"))
		return
	}

	pass, err := h.coordinator.Issue(ctx, req.Email, req.PassData)
	if err != nil {
		webservice.RespondError(w, r, err)
		return
	}

	if err := h.mailQueue.Enqueue(ctx, mailer.Job{Serial: pass.Serial, Email: pass.Email}); err != nil {
		// The pass exists; the mail can be resent later.
		logger.ContextRequestLogger(ctx).Warn("failed to queue issuance mail",
			slog.String("serial", pass.Serial),
			slog.String("error", err.Error()))
	}

	webservice.RespondWithJSON(w, http.StatusOK, issueResponse{
		SerialNumber:        pass.Serial,
		AuthenticationToken: pass.AuthToken,
	})
}

type passSummary struct {
	SerialNumber string `json:"serialNumber"`
	Email        string `json:"email"`
	LastModified int64  `json:"lastModified"`
	EmailStatus  string `json:"emailStatus"`
}

// HandleListPasses godoc
//
//	@Summary	List issued passes
//	@Tags		Admin
//	@Produce	json
//	@Success	200	{array}	passSummary
//	@Router		/admin/passes [get]
func (h *AdminHandler) HandleListPasses(w http.ResponseWriter, r *http.Request) {
	passes, err := h.passes.ListPasses(r.Context())
	if err != nil {
		webservice.RespondError(w, r, passkit.WrapDependencyError(err, "pass store listing failed"))
		return
	}

	summaries := make([]passSummary, 0, len(passes))
	for _, p := range passes {
		summaries = append(summaries, passSummary{
			SerialNumber: p.Serial,
			Email:        p.Email,
			LastModified: p.Version,
			EmailStatus:  p.EmailStatus,
		})
	}
	webservice.RespondWithJSON(w, http.StatusOK, summaries)
}

// HandleGetPass godoc
//
//	@Summary	Get a pass's logical content
//	@Tags		Admin
//	@Produce	json
//	@Param		serialNumber	path		string	true	"pass serial number"
//	@Success	200				{object}	object	"current pass content"
//	@Failure	404				{object}	object
//	@Router		/admin/passes/{serialNumber} [get]
func (h *AdminHandler) HandleGetPass(w http.ResponseWriter, r *http.Request) {
	serial := chi.URLParam(r, "serialNumber")

	pass, err := h.passes.GetPass(r.Context(), serial)
	if err != nil {
		webservice.RespondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pass.Content)
}

type updateRequest struct {
	PassData json.RawMessage `json:"passData"`
}

type updateResponse struct {
	OK           bool  `json:"ok"`
	LastModified int64 `json:"lastModified"`
	Pushed       bool  `json:"pushed"`
}

// HandleUpdatePass godoc
//
//	@Summary		Update a pass
//	@Description	Persists new content under a fresh version stamp, rebuilds
//	@Description	the signed bundle, and pushes a hint to every registered
//	@Description	device.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			serialNumber	path		string			true	"pass serial number"
//	@Param			request			body		updateRequest	true	"new pass content"
//	@Success		200				{object}	updateResponse
//	@Failure		400				{object}	object
//	@Failure		404				{object}	object
//	@Failure		503				{object}	object	"update not applied; retry"
//	@Router			/admin/passes/{serialNumber} [post]
func (h *AdminHandler) HandleUpdatePass(w http.ResponseWriter, r *http.Request) {
	serial := chi.URLParam(r, "serialNumber")

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		webservice.RespondError(w, r, passkit.WrapValidationError(err, "invalid update request"))
		return
	}
	defer r.Body.Close()

	if len(req.PassData) == 0 {
		webservice.RespondError(w, r, passkit.NewValidationError("missing passData"))
		return
	}
	if !json.Valid(req.PassData) {
		webservice.RespondError(w, r, passkit.NewValidationError("passData is not valid JSON"))
		return
	}

	newVersion, err := h.coordinator.ApplyUpdate(r.Context(), serial, req.PassData)
	if err != nil {
		webservice.RespondError(w, r, err)
		return
	}

	webservice.RespondWithJSON(w, http.StatusOK, updateResponse{
		OK:           true,
		LastModified: newVersion,
		Pushed:       true,
	})
}

// HandleResend godoc
//
//	@Summary	Queue a download mail for one pass
//	@Tags		Admin
//	@Param		serialNumber	path	string	true	"pass serial number"
//	@Success	202	{string}	string	"mail queued"
//	@Failure	404	{object}	object
//	@Router		/admin/resend/{serialNumber} [post]
func (h *AdminHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	serial := chi.URLParam(r, "serialNumber")

	pass, err := h.passes.GetPass(ctx, serial)
	if err != nil {
		webservice.RespondError(w, r, err)
		return
	}
	if pass.Email == "" {
		webservice.RespondError(w, r, passkit.NewValidationError("pass has no email address"))
		return
	}

	if err := h.mailQueue.Enqueue(ctx, mailer.Job{Serial: pass.Serial, Email: pass.Email}); err != nil {
		webservice.RespondError(w, r, passkit.WrapDependencyError(err, "failed to queue mail"))
		return
	}
	webservice.RespondStatusOnly(w, http.StatusAccepted)
}

type bulkSendResponse struct {
	Queued int `json:"queued"`
}

// HandleBulkSend godoc
//
//	@Summary		Queue download mails for all pending passes
//	@Description	Every pass still in the pending state gets a mail job and
//	@Description	moves to queued.
//	@Tags			Admin
//	@Produce		json
//	@Success		202	{object}	bulkSendResponse
//	@Router			/admin/bulk-send [post]
func (h *AdminHandler) HandleBulkSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqLogger := logger.ContextRequestLogger(ctx)

	pending, err := h.passes.ListByEmailStatus(ctx, passkit.EmailStatusPending)
	if err != nil {
		webservice.RespondError(w, r, passkit.WrapDependencyError(err, "pass store listing failed"))
		return
	}

	queued := 0
	for _, p := range pending {
		if p.Email == "" {
			continue
		}
		if err := h.mailQueue.Enqueue(ctx, mailer.Job{Serial: p.Serial, Email: p.Email}); err != nil {
			reqLogger.Warn("failed to queue mail",
				slog.String("serial", p.Serial),
				slog.String("error", err.Error()))
			continue
		}
		if err := h.passes.SetEmailStatus(ctx, p.Serial, passkit.EmailStatusQueued); err != nil {
			reqLogger.Warn("failed to update email status",
				slog.String("serial", p.Serial),
				slog.String("error", err.Error()))
		}
		queued++
	}

	webservice.RespondWithJSON(w, http.StatusAccepted, bulkSendResponse{Queued: queued})
}

// HandleMetrics godoc
//
//	@Summary	Pass counts per email lifecycle state
//	@Tags		Admin
//	@Produce	json
//	@Success	200	{object}	map[string]int64
//	@Router		/admin/metrics [get]
func (h *AdminHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	counts, err := h.passes.CountByEmailStatus(r.Context())
	if err != nil {
		webservice.RespondError(w, r, passkit.WrapDependencyError(err, "pass store counting failed"))
		return
	}
	webservice.RespondWithJSON(w, http.StatusOK, counts)
}
