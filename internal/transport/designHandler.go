package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printforge/designer/internal/entity"
	"github.com/printforge/designer/internal/service"
)

func (h *DesignHandler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.products.List())
}

func (h *DesignHandler) CreateSession(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		ColorID   string `json:"color_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	info, err := h.designs.CreateSession(c.Request.Context(), req.ProductID, req.ColorID)
	if err != nil {
		status(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

func (h *DesignHandler) GetSession(c *gin.Context) {
	info, err := h.designs.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		status(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *DesignHandler) CloseSession(c *gin.Context) {
	if err := h.designs.CloseSession(c.Request.Context(), c.Param("id")); err != nil {
		status(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session closed"})
}

func (h *DesignHandler) AddImageLayer(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	layer, err := h.designs.AddImageLayer(c.Request.Context(), c.Param("id"), file.Filename, src, file.Size)
	if err != nil {
		status(c, err)
		return
	}
	c.JSON(http.StatusCreated, layer)
}

func (h *DesignHandler) AddTextLayer(c *gin.Context) {
	var req service.TextLayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	layer, err := h.designs.AddTextLayer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		status(c, err)
		return
	}
	c.JSON(http.StatusCreated, layer)
}

func (h *DesignHandler) UpdateLayer(c *gin.Context) {
	var upd service.LayerUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.designs.UpdateLayer(c.Request.Context(), c.Param("id"), c.Param("layerId"), upd); err != nil {
		status(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "layer updated"})
}

func (h *DesignHandler) CloneLayer(c *gin.Context) {
	layer, err := h.designs.CloneLayer(c.Request.Context(), c.Param("id"), c.Param("layerId"))
	if err != nil {
		status(c, err)
		return
	}
	c.JSON(http.StatusCreated, layer)
}

func (h *DesignHandler) RemoveLayer(c *gin.Context) {
	if err := h.designs.RemoveLayer(c.Request.Context(), c.Param("id"), c.Param("layerId")); err != nil {
		status(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "layer removed"})
}

func (h *DesignHandler) ReorderLayer(c *gin.Context) {
	var req struct {
		To string `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.To != "top" && req.To != "bottom" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be top or bottom"})
		return
	}
	if err := h.designs.ReorderLayer(c.Request.Context(), c.Param("id"), c.Param("layerId"), req.To == "top"); err != nil {
		status(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "layer reordered"})
}

func (h *DesignHandler) SwitchSide(c *gin.Context) {
	side, err := h.designs.SwitchSide(c.Request.Context(), c.Param("id"))
	if err != nil {
		status(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"side": side})
}

func (h *DesignHandler) LivePreview(c *gin.Context) {
	raw, err := h.designs.LivePreview(c.Request.Context(), c.Param("id"))
	if err != nil {
		status(c, err)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", raw)
}

func (h *DesignHandler) Save(c *gin.Context) {
	cfg, artifact, err := h.designs.Save(c.Request.Context(), c.Param("id"))
	if err != nil {
		status(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"design":   cfg,
		"artifact": artifact,
	})
}

// status maps domain errors onto HTTP codes. Upload failures are
// retryable server errors; everything the user can fix is a 4xx.
func status(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrSessionNotFound),
		errors.Is(err, entity.ErrLayerNotFound),
		errors.Is(err, entity.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrUnsupportedImageType),
		errors.Is(err, entity.ErrImageTooLarge),
		errors.Is(err, entity.ErrNotTextLayer),
		errors.Is(err, entity.ErrColorNotFound),
		errors.Is(err, entity.ErrViewNotFound),
		errors.Is(err, entity.ErrNothingToExport):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrUploadIncomplete):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "retryable": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
