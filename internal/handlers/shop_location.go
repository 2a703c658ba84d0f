package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/imcbsglobal/task-webapp-backend/internal/apperrors"
	"github.com/imcbsglobal/task-webapp-backend/internal/location"
	"github.com/imcbsglobal/task-webapp-backend/internal/middleware"
)

type ShopLocationHandler struct {
	Capture *location.Capture
	Loc     *time.Location
}

func NewShopLocationHandler(capture *location.Capture, loc *time.Location) *ShopLocationHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ShopLocationHandler{Capture: capture, Loc: loc}
}

type registerLocationRequest struct {
	FirmName  string     `json:"firm_name"`
	Latitude  flexString `json:"latitude"`
	Longitude flexString `json:"longitude"`
}

type updateStatusRequest struct {
	ShopID string `json:"shop_id"`
	Status string `json:"status"`
}

type updateAreaRequest struct {
	Code string `json:"code"`
	Area string `json:"area"`
}

// Register creates or refreshes the pin; 201 on a fresh pin, 200 on update.
func (h *ShopLocationHandler) Register(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	var req registerLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid input"})
		return
	}

	shop, created, err := h.Capture.Register(c.Request.Context(), tc, location.RegisterInput{
		FirmName:  req.FirmName,
		Latitude:  req.Latitude.String(),
		Longitude: req.Longitude.String(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"success": true, "data": shop})
}

func (h *ShopLocationHandler) Table(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	var start, end time.Time
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.Loc)
		if err != nil {
			respondError(c, apperrors.Validation("start_date", "must be YYYY-MM-DD"))
			return
		}
		start = parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.Loc)
		if err != nil {
			respondError(c, apperrors.Validation("end_date", "must be YYYY-MM-DD"))
			return
		}
		end = parsed
	}

	rows, err := h.Capture.ListForTenant(c.Request.Context(), tc, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(rows),
		"data":    rows,
		"message": "Shop locations retrieved successfully",
	})
}

func (h *ShopLocationHandler) UpdateStatus(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid input"})
		return
	}

	updated, err := h.Capture.UpdateStatus(c.Request.Context(), tc, req.ShopID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "updated_count": updated})
}

func (h *ShopLocationHandler) Firms(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	pins, err := h.Capture.Firms(c.Request.Context(), tc)
	if err != nil {
		respondError(c, err)
		return
	}

	if len(pins) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "firms": pins, "message": "No firms found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "firms": pins})
}

func (h *ShopLocationHandler) Areas(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	areas, err := h.Capture.Areas(c.Request.Context(), tc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "areas": areas})
}

func (h *ShopLocationHandler) UpdateArea(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	var req updateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid input"})
		return
	}

	updated, err := h.Capture.UpdateArea(c.Request.Context(), tc, req.Code, req.Area)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated_count": updated})
}
