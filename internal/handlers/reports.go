package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/imcbsglobal/task-webapp-backend/internal/middleware"
	"github.com/imcbsglobal/task-webapp-backend/internal/reports"
)

type ReportsHandler struct {
	Gateway reports.Gateway
	Loc     *time.Location
}

func NewReportsHandler(gateway reports.Gateway, loc *time.Location) *ReportsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportsHandler{Gateway: gateway, Loc: loc}
}

func (h *ReportsHandler) Debtors(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	debtors, err := h.Gateway.Debtors(c.Request.Context(), tc.ClientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": debtors})
}

func (h *ReportsHandler) Suppliers(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	rows, err := h.Gateway.Suppliers(c.Request.Context(), tc.ClientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
}

func (h *ReportsHandler) SalesToday(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	rows, err := h.Gateway.SalesToday(c.Request.Context(), tc.ClientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"date":          time.Now().In(h.Loc).Format("2006-01-02"),
		"total_records": len(rows),
		"data":          rows,
	})
}

func (h *ReportsHandler) TypeWiseSalesToday(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	rows, err := h.Gateway.TypeWiseSalesToday(c.Request.Context(), tc.ClientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"date":    time.Now().In(h.Loc).Format("2006-01-02"),
		"data":    rows,
	})
}

func (h *ReportsHandler) SalesTypes(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	rows, err := h.Gateway.SalesTypes(c.Request.Context(), tc.ClientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
}

func (h *ReportsHandler) PurchaseToday(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	rows, err := h.Gateway.PurchaseToday(c.Request.Context(), tc.ClientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"date":          time.Now().In(h.Loc).Format("2006-01-02"),
		"total_records": len(rows),
		"data":          rows,
	})
}

func (h *ReportsHandler) TenderCash(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	rows, err := h.Gateway.TenderCash(c.Request.Context(), tc.ClientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"client_id": tc.ClientID,
		"count":     len(rows),
		"data":      rows,
	})
}

func (h *ReportsHandler) TenderCashByType(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	grouped, err := h.Gateway.TenderCashByType(c.Request.Context(), tc.ClientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": grouped})
}

func (h *ReportsHandler) TenderCashByUser(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	summary, err := h.Gateway.TenderCashByUser(c.Request.Context(), tc.ClientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"client_id": tc.ClientID,
		"data":      summary,
	})
}

func (h *ReportsHandler) Stock(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	rows, err := h.Gateway.Stock(c.Request.Context(), tc.ClientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(rows), "data": rows})
}
