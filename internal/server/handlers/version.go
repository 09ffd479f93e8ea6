package handlers

import (
	"net/http"

	"github.com/walletpass/passd/internal/version"
	"github.com/walletpass/passd/internal/webservice"
)

// HandleVersion godoc
//
//	@Summary	Build information
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	version.Info
//	@Router		/version [get]
func HandleVersion(w http.ResponseWriter, _ *http.Request) {
	webservice.RespondWithJSON(w, http.StatusOK, version.Get())
}
