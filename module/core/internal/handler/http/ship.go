package http

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/egebilir/ship-display/module/core/domain"
)

const maxHistoryLimit = 100

type positionService interface {
	Current(ctx context.Context) (*domain.PositionRecord, error)
	Latest(ctx context.Context) (*domain.PositionRecord, error)
	History(ctx context.Context, limit int) ([]domain.PositionRecord, error)
}

type portLocator interface {
	NearestPort(lat, lon float64) (domain.Port, float64, bool)
}

type nearestPortResponse struct {
	Port      domain.Port `json:"port"`
	DistanceM float64     `json:"distance_m"`
	Inside    bool        `json:"inside"`
}

type ShipHandler struct {
	positionSvc positionService
	ports       portLocator
	live        *LiveHub
}

func NewShipHandler(positionSvc positionService, ports portLocator, live *LiveHub) *ShipHandler {
	return &ShipHandler{positionSvc: positionSvc, ports: ports, live: live}
}

func (h *ShipHandler) Register(r *gin.RouterGroup) {
	r.GET("/ship/position", h.GetPosition)
	r.GET("/ship/history", h.GetHistory)
	r.GET("/ship/nearest-port", h.GetNearestPort)
	r.GET("/ship/live", h.live.ServeWS)
}

func (h *ShipHandler) GetPosition(c *gin.Context) {
	rec, err := h.positionSvc.Current(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("get position")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to get position",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": rec})
}

func (h *ShipHandler) GetHistory(c *gin.Context) {
	limit := maxHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid limit parameter"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := h.positionSvc.History(c.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Int("limit", limit).Msg("get history")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": records})
}

func (h *ShipHandler) GetNearestPort(c *gin.Context) {
	rec, err := h.positionSvc.Latest(c.Request.Context())
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no position recorded"})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("get latest position")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch latest position"})
		return
	}

	port, dist, ok := h.ports.NearestPort(rec.Latitude, rec.Longitude)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no ports configured"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": nearestPortResponse{
			Port:      port,
			DistanceM: dist,
			Inside:    dist <= port.Radius,
		},
	})
}
