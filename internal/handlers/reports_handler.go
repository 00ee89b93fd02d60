package handlers

import (
	"bytes"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/models"
	"taskmanager/internal/pdf"
	"taskmanager/internal/services"
)

type ReportsHandler struct {
	tasks services.TaskService
	users services.UserService
	pdf   pdf.Generator
}

func NewReportsHandler(tasks services.TaskService, users services.UserService, gen pdf.Generator) *ReportsHandler {
	return &ReportsHandler{tasks: tasks, users: users, pdf: gen}
}

// @Summary      Task report as PDF
// @Description  Streams a PDF summary of the caller's task counts by status
// @Tags         Reports
// @Produce      application/pdf
// @Success      200
// @Router       /api/v1/reports/tasks/pdf [get]
func (h *ReportsHandler) TaskReportPDF(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[reports][pdf][err] resolve userID=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	data := pdf.ReportData{
		Username:    user.Username,
		GeneratedAt: time.Now().UTC(),
	}
	for _, status := range models.Statuses {
		st := status
		tasks, err := h.tasks.GetAll(c.Request.Context(), models.TaskFilter{UserID: &userID, Status: &st})
		if err != nil {
			log.Printf("[reports][pdf][err] list status=%q userID=%d: %v", status, userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
			return
		}
		section := pdf.ReportSection{Status: status.Label(), Count: len(tasks)}
		for i := range tasks {
			section.Tasks = append(section.Tasks, tasks[i].String())
		}
		data.Sections = append(data.Sections, section)
	}

	var buf bytes.Buffer
	if err := h.pdf.GenerateTaskReport(&buf, data); err != nil {
		log.Printf("[reports][pdf][err] generate userID=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="task_report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
