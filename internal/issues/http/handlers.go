package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/issuetracker/issue-tracker-backend/internal/api/http/middleware"
	"github.com/issuetracker/issue-tracker-backend/internal/issues/domain"
)

func (h *Handler) list(c *gin.Context) {
	project := c.Param("project")

	issues, err := h.svc.List(c.Request.Context(), project, queryParams(c).filter())
	if err != nil {
		h.internalError(c, "list issues", err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

func (h *Handler) create(c *gin.Context) {
	project := c.Param("project")

	issue, err := h.svc.Create(c.Request.Context(), project, bodyParams(c).createInput())
	if errors.Is(err, domain.ErrMissingFields) {
		c.JSON(h.status(http.StatusBadRequest), gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.internalError(c, "create issue", err)
		return
	}

	h.log.Debug().Str("project", project).Str("id", issue.ID).Msg("issue created")
	c.JSON(h.status(http.StatusCreated), issue)
}

func (h *Handler) update(c *gin.Context) {
	project := c.Param("project")
	in := bodyParams(c).updateInput()

	err := h.svc.Update(c.Request.Context(), project, in)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"result": "successfully updated", "id": in.ID.Value})
	case errors.Is(err, domain.ErrMissingID):
		c.JSON(h.status(http.StatusBadRequest), gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoUpdateFields):
		c.JSON(h.status(http.StatusBadRequest), gin.H{"id": in.ID.Value, "error": err.Error()})
	case errors.Is(err, domain.ErrCouldNotUpdate):
		c.JSON(h.status(http.StatusNotFound), gin.H{"id": in.ID.Value, "error": err.Error()})
	default:
		h.internalError(c, "update issue", err)
	}
}

func (h *Handler) delete(c *gin.Context) {
	project := c.Param("project")
	id := bodyParams(c).field("id", "_id")

	err := h.svc.Delete(c.Request.Context(), project, id)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"id": id.Value, "result": "successfully deleted"})
	case errors.Is(err, domain.ErrMissingID):
		c.JSON(h.status(http.StatusBadRequest), gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCouldNotDelete):
		c.JSON(h.status(http.StatusNotFound), gin.H{"id": id.Value, "error": err.Error()})
	default:
		h.internalError(c, "delete issue", err)
	}
}

// status returns code in strict mode and 200 otherwise.
func (h *Handler) status(code int) int {
	if h.strict {
		return code
	}
	return http.StatusOK
}

func (h *Handler) internalError(c *gin.Context, op string, err error) {
	h.log.Error().Err(err).
		Str("op", op).
		Str("project", c.Param("project")).
		Str("request_id", middleware.GetRequestID(c.Request.Context())).
		Msg("store failure")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
