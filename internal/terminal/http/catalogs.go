package http

import (
	"net/http"
	"time"

	"github.com/bancosur/corresponsal/internal/terminal/service"
	"github.com/bancosur/corresponsal/pkg/httpx"
)

// CatalogsHandler serves GET /v1/catalogs.
type CatalogsHandler struct {
	CatalogService *service.CatalogService
	SessionManager *service.SessionManager
}

// ServeHTTP godoc
//
//	@Summary		Reference Data Catalogs
//	@Description	Identification types, countries, marital statuses and alert types, fetched once per session.
//	@Tags			Catalogs
//	@Produce		json
//	@Success		200	{object}	domain.Catalogs
//	@Failure		401	{object}	map[string]string
//	@Failure		502	{object}	map[string]string
//	@Router			/v1/catalogs [get].
func (h *CatalogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.SessionManager.CheckExpired(time.Now()) {
		writeServiceError(w, service.ErrSessionExpired)
		return
	}

	catalogs, err := h.CatalogService.Get(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, catalogs)
}
