package http

import "github.com/gin-gonic/gin"

// Register attaches the issue routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/issues/:project", h.list)
	rg.POST("/issues/:project", h.create)
	rg.PUT("/issues/:project", h.update)
	rg.DELETE("/issues/:project", h.delete)
}
