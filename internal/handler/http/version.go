package http

import (
	"net/http"

	"github.com/MKhiriev/go-quest-ledger/internal/utils"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	info := h.services.AppInfoService.GetBuildInfo(r.Context())
	_, _ = utils.WriteJSON(w, info, http.StatusOK)
}
