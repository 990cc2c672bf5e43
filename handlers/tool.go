package handlers

import (
	"net/http"
	"strconv"

	"labreserve/middleware"
	"labreserve/services/tool"
	"labreserve/utils"

	"github.com/gin-gonic/gin"
)

// ToolHandler exposes the equipment inventory over HTTP.
type ToolHandler struct {
	Svc tool.ToolService
}

func NewToolHandler(svc tool.ToolService) *ToolHandler {
	return &ToolHandler{Svc: svc}
}

// ListTools returns the full inventory.
func (h *ToolHandler) ListTools(c *gin.Context) {
	tools, err := h.Svc.ListTools(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list tools", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"tools": tools})
}

// GetTool returns a single tool by id.
func (h *ToolHandler) GetTool(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "id must be numeric")
		return
	}
	t, err := h.Svc.GetTool(c.Request.Context(), id)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "tool not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, t)
}

// SetToolStatus flips a tool between up and down.
func (h *ToolHandler) SetToolStatus(c *gin.Context) {
	actor, ok := middleware.RequesterFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing identity", "")
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "id must be numeric")
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Svc.SetStatus(c.Request.Context(), actor, id, input.Status); err != nil {
		utils.JSONError(c, http.StatusForbidden, "failed to set tool status", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": input.Status})
}
