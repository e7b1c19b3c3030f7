package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"examprep-service/internal/models"
	"examprep-service/internal/service"
)

type TaxonomyHandler struct {
	Service *service.TaxonomyService
}

func NewTaxonomyHandler(s *service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{Service: s}
}

func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	categories, err := h.Service.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *TaxonomyHandler) CreateCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.CreateCategory(c.Request.Context(), &category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *TaxonomyHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.Service.ListSubjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subjects)
}

func (h *TaxonomyHandler) ListSubjectsByCategory(c *gin.Context) {
	subjects, err := h.Service.ListSubjectsByCategory(c.Request.Context(), c.Param("categoryId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subjects)
}

func (h *TaxonomyHandler) CreateSubject(c *gin.Context) {
	var subject models.Subject
	if err := c.ShouldBindJSON(&subject); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.CreateSubject(c.Request.Context(), &subject); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, subject)
}
