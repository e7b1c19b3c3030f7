package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"examprep-service/internal/models"
	"examprep-service/internal/repository"
	"examprep-service/internal/service"
)

type QuestionHandler struct {
	Service *service.QuestionService
}

func NewQuestionHandler(s *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{Service: s}
}

func isAdmin(c *gin.Context) bool {
	return c.GetHeader("X-User-Role") == "admin"
}

func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	filter := repository.QuestionFilter{
		CategoryID: c.Query("category"),
		SubjectID:  c.Query("subject"),
		Difficulty: c.Query("difficulty"),
		Limit:      limit,
	}

	questions, err := h.Service.List(c.Request.Context(), filter, isAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	question, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !isAdmin(c) {
		sanitized := question.Sanitized()
		question = &sanitized
	}
	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req struct {
		Text             string   `json:"question" binding:"required"`
		Options          []string `json:"options" binding:"required"`
		CorrectAnswer    string   `json:"correct_answer" binding:"required"`
		Difficulty       string   `json:"difficulty" binding:"required"`
		CategoryID       string   `json:"category_id" binding:"required"`
		SubjectID        string   `json:"subject_id" binding:"required"`
		TimeLimitSeconds int      `json:"time_limit_seconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question := &models.Question{
		Text:             req.Text,
		Options:          req.Options,
		CorrectAnswer:    req.CorrectAnswer,
		Difficulty:       req.Difficulty,
		CategoryID:       req.CategoryID,
		SubjectID:        req.SubjectID,
		TimeLimitSeconds: req.TimeLimitSeconds,
		CreatedBy:        c.GetHeader("X-User-ID"),
	}
	if err := h.Service.Create(c.Request.Context(), question); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	var update bson.M
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.Update(c.Request.Context(), c.Param("id"), update); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question updated successfully"})
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// BulkUpload ingests a CSV file of questions.
func (h *QuestionHandler) BulkUpload(c *gin.Context) {
	file, err := c.FormFile("csv_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv_file is required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	summary, err := h.Service.ImportCSV(c.Request.Context(), f, c.GetHeader("X-User-ID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
