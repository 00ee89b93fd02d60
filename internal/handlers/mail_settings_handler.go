package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/repositories"
)

// MailSettingsHandler exposes the caller's digest schedule: next send time
// and timezone preference.
type MailSettingsHandler struct {
	reports repositories.EmailReportRepository
}

func NewMailSettingsHandler(reports repositories.EmailReportRepository) *MailSettingsHandler {
	return &MailSettingsHandler{reports: reports}
}

func (h *MailSettingsHandler) Get(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	report, err := h.reports.FindByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report schedule not found"})
			return
		}
		log.Printf("[mail-settings][get][err] userID=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get mail settings"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary      Update mail settings
// @Description  Sets the next digest send time and timezone preference
// @Tags         MailSettings
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.EmailTaskReport
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/mail-settings/ [put]
func (h *MailSettingsHandler) Update(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		SendTime string `json:"send_time"` // RFC3339
		TimeZone string `json:"time_zone"` // IANA name
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reports.FindByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report schedule not found"})
			return
		}
		log.Printf("[mail-settings][update][err] userID=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get mail settings"})
		return
	}

	if req.SendTime != "" {
		t, err := time.Parse(time.RFC3339, req.SendTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid send_time (RFC3339)"})
			return
		}
		report.SendTime = t.UTC()
	}
	if req.TimeZone != "" {
		if _, err := time.LoadLocation(req.TimeZone); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time_zone"})
			return
		}
		report.TimeZone = req.TimeZone
	}

	if err := h.reports.Update(c.Request.Context(), report); err != nil {
		log.Printf("[mail-settings][update][err] save userID=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update mail settings"})
		return
	}
	log.Printf("[mail-settings][update][ok] userID=%d next=%s tz=%s", userID, report.SendTime.Format(time.RFC3339), report.TimeZone)
	c.JSON(http.StatusOK, report)
}
