package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"examprep-service/internal/models"
	"examprep-service/internal/repository"
)

// respondError maps the domain error taxonomy to HTTP statuses. Anything
// outside the taxonomy is a dependency failure and becomes a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrSessionNotFound),
		errors.Is(err, models.ErrQuestionNotFound),
		errors.Is(err, models.ErrNoQuestionsAvailable),
		errors.Is(err, repository.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrAlreadyCompleted),
		errors.Is(err, models.ErrDuplicateAnswer),
		errors.Is(err, models.ErrConcurrentModification):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidResult):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
