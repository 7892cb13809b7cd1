package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/buildmart-as/inventory-api/internal/jobs"
	"github.com/buildmart-as/inventory-api/internal/store"
	"github.com/buildmart-as/inventory-api/internal/syncer"
)

// SyncHandler reports the offline queue state and allows a manual drain.
// All fields except store may be nil when remote sync is disabled.
type SyncHandler struct {
	store   *store.Store
	client  *syncer.Client
	syncJob *jobs.SyncJob
	logger  *zap.Logger
}

// NewSyncHandler creates a new sync handler instance
func NewSyncHandler(st *store.Store, client *syncer.Client, syncJob *jobs.SyncJob, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		store:   st,
		client:  client,
		syncJob: syncJob,
		logger:  logger,
	}
}

// Status godoc
// @Summary Sync status
// @Description Connectivity to the remote backend and the number of queued actions
// @Tags Sync
// @Produce json
// @Success 200 {object} domain.SyncStatusResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /sync/status [get]
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	pending, err := h.store.PendingActions(r.Context())
	if err != nil {
		h.logger.Error("failed to count pending actions", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to read sync status")
		return
	}

	resp := domain.SyncStatusResponse{
		PendingCount: int(pending),
	}
	if h.client != nil {
		resp.Online = h.client.Ping(r.Context())
	}
	if h.syncJob != nil {
		resp.LastDrainedAt = h.syncJob.LastDrainedAt()
	}

	respondJSON(w, http.StatusOK, resp)
}

// Drain godoc
// @Summary Drain the offline queue now
// @Description Push queued actions to the remote backend without waiting for the scheduled drain
// @Tags Sync
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 401 {object} domain.ErrorResponse
// @Failure 503 {object} domain.ErrorResponse "Remote sync not configured"
// @Security BearerAuth
// @Router /sync/drain [post]
func (h *SyncHandler) Drain(w http.ResponseWriter, r *http.Request) {
	if h.syncJob == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Remote sync is not configured")
		return
	}

	pushed, err := h.syncJob.Drain(r.Context())
	if err != nil {
		h.logger.Warn("manual drain stopped early", zap.Int("pushed", pushed), zap.Error(err))
	}

	respondJSON(w, http.StatusOK, map[string]int{"pushed": pushed})
}
