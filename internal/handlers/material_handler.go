package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"mastery-service/internal/service"

	"github.com/gin-gonic/gin"
)

type MaterialHandler struct {
	Service *service.MaterialService
}

func NewMaterialHandler(s *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{Service: s}
}

// Upload accepts a study document and runs the ingest pipeline. Both
// multipart uploads and raw text bodies are accepted.
func (h *MaterialHandler) Upload(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID required"})
		return
	}

	filename, data, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload", "details": err.Error()})
		return
	}

	material, err := h.Service.Ingest(context.Background(), userID, filename, data)
	if errors.Is(err, service.ErrEmptyConceptSet) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    "No concepts could be extracted from this document",
			"material": material,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process material"})
		return
	}
	c.JSON(http.StatusCreated, material)
}

func readUpload(c *gin.Context) (string, []byte, error) {
	file, err := c.FormFile("file")
	if err == nil {
		f, err := file.Open()
		if err != nil {
			return "", nil, err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return "", nil, err
		}
		return file.Filename, data, nil
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", nil, err
	}
	return "upload.txt", data, nil
}

// GetStatus reports ingest progress for polling clients.
func (h *MaterialHandler) GetStatus(c *gin.Context) {
	status, err := h.Service.Status(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load material"})
		return
	}
	if status == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Material not found"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// ListMaterials returns the caller's materials.
func (h *MaterialHandler) ListMaterials(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID required"})
		return
	}
	materials, err := h.Service.ListForUser(context.Background(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list materials"})
		return
	}
	c.JSON(http.StatusOK, materials)
}

// ListConcepts returns the concepts extracted from a material.
func (h *MaterialHandler) ListConcepts(c *gin.Context) {
	concepts, err := h.Service.ConceptsFor(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list concepts"})
		return
	}
	c.JSON(http.StatusOK, concepts)
}
