package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
	"taskmanager/internal/services"
)

type TaskHandler struct {
	service services.TaskService
}

func NewTaskHandler(service services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// @Summary      Create a task
// @Description  Creates a task at the requested priority, shifting existing ones up
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Success      201  {object}  models.Task
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/task/ [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req struct {
		Title       string             `json:"title" binding:"required,min=4"`
		Description string             `json:"description"`
		Completed   bool               `json:"completed"`
		Priority    int                `json:"priority"`
		Status      models.TaskStatus  `json:"status"`
	}

	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		log.Printf("[task][create][err] invalid status=%q", req.Status)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	task := &models.Task{
		UserID:      &userID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		Status:      req.Status,
	}

	created, err := h.service.Create(c.Request.Context(), task)
	if err != nil {
		log.Printf("[task][create][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}
	log.Printf("[task][create][ok] id=%d userID=%d title=%q", created.ID, userID, created.Title)
	c.JSON(http.StatusCreated, created)
}

// @Summary      List tasks
// @Description  Lists the caller's non-deleted tasks with optional filters
// @Tags         Tasks
// @Produce      json
// @Param        title      query  string  false  "case-insensitive title substring"
// @Param        status     query  string  false  "exact status"
// @Param        completed  query  bool    false  "completed flag"
// @Success      200  {array}  models.Task
// @Router       /api/v1/task/ [get]
func (h *TaskHandler) GetAll(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	filter := models.TaskFilter{UserID: &userID}
	if v, ok := c.GetQuery("title"); ok {
		filter.Title = &v
	}
	if v, ok := c.GetQuery("status"); ok {
		st := models.TaskStatus(v)
		if !st.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		filter.Status = &st
	}
	if v, ok := c.GetQuery("completed"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid completed"})
			return
		}
		filter.Completed = &b
	}

	tasks, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		log.Printf("[task][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve tasks"})
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	task, err := h.service.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		log.Printf("[task][getByID][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Update a task
// @Description  Partial update; a status change appends a history record
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Task
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/task/{id}/ [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		Title       *string            `json:"title" binding:"omitempty,min=4"`
		Description *string            `json:"description"`
		Completed   *bool              `json:"completed"`
		Priority    *int               `json:"priority"`
		Status      *models.TaskStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	update := &models.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		Status:      req.Status,
	}

	updated, err := h.service.Update(c.Request.Context(), userID, id, update)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		log.Printf("[task][update][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}
	log.Printf("[task][update][ok] id=%d", id)
	c.JSON(http.StatusOK, updated)
}

// @Summary      Delete a task
// @Description  Soft delete; the row stays in storage but leaves all queries
// @Tags         Tasks
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/task/{id}/ [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		log.Printf("[task][delete][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}
	log.Printf("[task][delete][ok] id=%d", id)
	c.Status(http.StatusNoContent)
}
