package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/drmadhusudhan/clinic-api/internal/domain/schedule"
	"github.com/drmadhusudhan/clinic-api/internal/service"
)

type OverrideHandler struct {
	overrides *service.OverrideService
}

func NewOverrideHandler(overrides *service.OverrideService) *OverrideHandler {
	return &OverrideHandler{overrides: overrides}
}

type overrideView struct {
	Date        string    `json:"date"`
	ConsultType string    `json:"consultType"`
	Closed      bool      `json:"closed"`
	Slots       *[]string `json:"slots,omitempty"`
}

func toOverrideView(o *schedule.Override) overrideView {
	return overrideView{
		Date:        o.Date,
		ConsultType: string(o.ConsultType),
		Closed:      o.Closed,
		Slots:       o.Slots,
	}
}

// Get handles GET /api/bookings/availability/override?date=...&consultType=...
func (h *OverrideHandler) Get(c *gin.Context) {
	o, err := h.overrides.Get(c.Request.Context(), c.Query("date"), c.Query("consultType"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toOverrideView(o))
}

type upsertOverrideRequest struct {
	Date        string    `json:"date"`
	ConsultType string    `json:"consultType"`
	ApplyMode   string    `json:"applyMode"`
	Closed      *bool     `json:"closed"`
	Slots       *[]string `json:"slots"`
}

// Upsert handles POST /api/bookings/availability/override.
func (h *OverrideHandler) Upsert(c *gin.Context) {
	var req upsertOverrideRequest
	if !bindJSON(c, &req) {
		return
	}

	o, err := h.overrides.Upsert(c.Request.Context(), &service.UpsertOverrideRequest{
		Date:        req.Date,
		ConsultType: req.ConsultType,
		ApplyMode:   req.ApplyMode,
		Closed:      req.Closed,
		Slots:       req.Slots,
	}, adminActor(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// An "always" change rewrites the weekly template and stores no override.
	if o == nil {
		respondOK(c, gin.H{"message": "weekly schedule updated"})
		return
	}
	respondOK(c, toOverrideView(o))
}

// Delete handles DELETE /api/bookings/availability/override?date=...&consultType=...
func (h *OverrideHandler) Delete(c *gin.Context) {
	err := h.overrides.Delete(c.Request.Context(), c.Query("date"), c.Query("consultType"), adminActor(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "override removed"})
}
