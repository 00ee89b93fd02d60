package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
	"taskmanager/internal/services"
)

type HistoryHandler struct {
	service services.TaskService
}

func NewHistoryHandler(service services.TaskService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// updatedDateLayout accepts single-digit months and days ("2022-2-7").
const updatedDateLayout = "2006-1-2"

// @Summary      List task history
// @Description  Status transitions of one task, oldest first
// @Tags         History
// @Produce      json
// @Param        old_status    query  string  false  "exact old status"
// @Param        new_status    query  string  false  "exact new status"
// @Param        updated_date  query  string  false  "calendar day, YYYY-M-D"
// @Success      200  {array}  models.TaskHistory
// @Router       /api/v1/task/{id}/history/ [get]
func (h *HistoryHandler) List(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var filter models.TaskHistoryFilter
	if v, ok := c.GetQuery("old_status"); ok {
		st := models.TaskStatus(v)
		if !st.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid old_status"})
			return
		}
		filter.OldStatus = &st
	}
	if v, ok := c.GetQuery("new_status"); ok {
		st := models.TaskStatus(v)
		if !st.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid new_status"})
			return
		}
		filter.NewStatus = &st
	}
	if v, ok := c.GetQuery("updated_date"); ok {
		d, err := time.Parse(updatedDateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid updated_date (YYYY-M-D)"})
			return
		}
		filter.UpdatedDate = &d
	}

	history, err := h.service.History(c.Request.Context(), userID, taskID, filter)
	if err != nil {
		log.Printf("[history][list][err] taskID=%d: %v", taskID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve history"})
		return
	}
	if history == nil {
		history = []models.TaskHistory{}
	}
	c.JSON(http.StatusOK, history)
}

func (h *HistoryHandler) GetByID(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	historyID, err := strconv.ParseInt(c.Param("history_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid history id"})
		return
	}

	record, err := h.service.HistoryByID(c.Request.Context(), userID, taskID, historyID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "history record not found"})
			return
		}
		log.Printf("[history][getByID][err] taskID=%d id=%d: %v", taskID, historyID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve history record"})
		return
	}
	c.JSON(http.StatusOK, record)
}
