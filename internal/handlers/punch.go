package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/imcbsglobal/task-webapp-backend/internal/apperrors"
	"github.com/imcbsglobal/task-webapp-backend/internal/attendance"
	"github.com/imcbsglobal/task-webapp-backend/internal/middleware"
	"github.com/imcbsglobal/task-webapp-backend/internal/uploads"
)

type PunchHandler struct {
	Ledger *attendance.Ledger
	Signer uploads.Signer
	Loc    *time.Location
}

func NewPunchHandler(ledger *attendance.Ledger, signer uploads.Signer, loc *time.Location) *PunchHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &PunchHandler{Ledger: ledger, Signer: signer, Loc: loc}
}

type punchInRequest struct {
	CustomerCode string     `json:"customerCode"`
	Latitude     flexString `json:"latitude"`
	Longitude    flexString `json:"longitude"`
	PhotoURL     string     `json:"photo_url"`
	Notes        string     `json:"notes"`
	Address      string     `json:"address"`
}

type punchOutRequest struct {
	Notes string `json:"notes"`
}

func (h *PunchHandler) PunchIn(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	var req punchInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid input"})
		return
	}

	detail, err := h.Ledger.PunchIn(c.Request.Context(), tc, attendance.PunchInInput{
		FirmCode:  req.CustomerCode,
		Latitude:  req.Latitude.String(),
		Longitude: req.Longitude.String(),
		PhotoURL:  req.PhotoURL,
		Notes:     req.Notes,
		Address:   req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	record := detail.Record
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Punch-in recorded successfully",
		"data": gin.H{
			"punchin_id":   record.ID,
			"firm_name":    detail.FirmName,
			"firm_code":    record.FirmCode,
			"punchin_time": record.PunchinTime.Format(time.RFC3339),
			"latitude":     record.Latitude,
			"longitude":    record.Longitude,
			"photo_url":    record.PhotoURL,
			"address":      record.Address,
			"status":       record.Status,
			"created_by":   record.CreatedBy,
		},
	})
}

func (h *PunchHandler) PunchOut(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("id", "is not a valid punch-in id"))
		return
	}

	var req punchOutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid input"})
			return
		}
	}

	result, err := h.Ledger.PunchOut(c.Request.Context(), tc, id, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	record := result.Record
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Punch-out recorded successfully",
		"data": gin.H{
			"punchin_id":          record.ID,
			"firm_name":           result.FirmName,
			"punchin_time":        record.PunchinTime.Format(time.RFC3339),
			"punchout_time":       record.PunchoutTime.Format(time.RFC3339),
			"work_duration_hours": result.Duration,
			"status":              record.Status,
		},
	})
}

func (h *PunchHandler) Status(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	status, err := h.Ledger.ActiveStatus(c.Request.Context(), tc)
	if err != nil {
		respondError(c, err)
		return
	}

	if status.IsPunchedIn {
		record := status.Record
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"is_punched_in": true,
			"data": gin.H{
				"punchin_id":         record.ID,
				"firm_name":          status.FirmName,
				"firm_code":          status.FirmCode,
				"punchin_time":       record.PunchinTime.Format(time.RFC3339),
				"current_work_hours": status.WorkHours,
				"photo_url":          record.PhotoURL,
				"address":            record.Address,
				"status":             record.Status,
			},
		})
		return
	}

	response := gin.H{
		"success":         true,
		"is_punched_in":   false,
		"completed_today": status.CompletedToday,
		"data":            nil,
	}
	if status.CompletedToday {
		record := status.Record
		response["data"] = gin.H{
			"punchin_id":       record.ID,
			"firm_name":        status.FirmName,
			"punchin_time":     record.PunchinTime.Format(time.RFC3339),
			"punchout_time":    record.PunchoutTime.Format(time.RFC3339),
			"total_work_hours": status.WorkHours,
			"status":           record.Status,
		}
	}
	c.JSON(http.StatusOK, response)
}

func (h *PunchHandler) parseRange(c *gin.Context) (attendance.DateRange, error) {
	var dateRange attendance.DateRange
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.Loc)
		if err != nil {
			return dateRange, apperrors.Validation("start_date", "must be YYYY-MM-DD")
		}
		dateRange.Start = parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.Loc)
		if err != nil {
			return dateRange, apperrors.Validation("end_date", "must be YYYY-MM-DD")
		}
		dateRange.End = parsed
	}
	return dateRange, nil
}

func (h *PunchHandler) Table(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	dateRange, err := h.parseRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	rows, err := h.Ledger.List(c.Request.Context(), tc, dateRange)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(rows),
		"data":    rows,
	})
}

// TableExport streams the same listing as an .xlsx workbook.
func (h *PunchHandler) TableExport(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	dateRange, err := h.parseRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	rows, err := h.Ledger.List(c.Request.Context(), tc, dateRange)
	if err != nil {
		respondError(c, err)
		return
	}

	file := excelize.NewFile()
	sheet := file.GetSheetName(0)
	headers := []string{"Firm Code", "Firm Name", "Place", "Punched By", "Punch In", "Punch Out", "Status", "Notes"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = file.SetCellValue(sheet, cell, header)
	}
	for rowIndex, row := range rows {
		punchOut := ""
		if row.PunchoutTime != nil {
			punchOut = row.PunchoutTime.In(h.Loc).Format("2006-01-02 15:04:05")
		}
		values := []interface{}{
			row.FirmCode,
			row.FirmName,
			row.FirmPlace,
			row.CreatedBy,
			row.PunchinTime.In(h.Loc).Format("2006-01-02 15:04:05"),
			punchOut,
			row.Status,
			row.Notes,
		}
		for colIndex, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			_ = file.SetCellValue(sheet, cell, value)
		}
	}

	filename := fmt.Sprintf("punch-records-%s.xlsx", time.Now().In(h.Loc).Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		respondError(c, apperrors.Store("write export", err))
	}
}

// UploadSignature hands the client signed upload parameters for the punch
// photo. Validating or storing the upload stays with the provider.
func (h *PunchHandler) UploadSignature(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}
	if !h.Signer.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "service configuration error"})
		return
	}

	customerName := c.Query("customerName")
	credential := h.Signer.PunchPhotoCredential(tc.ClientID, customerName, tc.Username, time.Now().In(h.Loc))
	c.JSON(http.StatusOK, gin.H{"success": true, "data": credential})
}
