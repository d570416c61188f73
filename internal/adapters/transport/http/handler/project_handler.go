package handler

import (
	"net/http"

	"github.com/Miraines/MoonyAndStarry/task-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/adapters/transport/http/middleware"
	projectsvc "github.com/Miraines/MoonyAndStarry/task-service/internal/app/project/service"
	"github.com/gin-gonic/gin"
)

type projectHandler struct {
	svc projectsvc.Service
}

func (h *projectHandler) list(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	projects, err := h.svc.List(c.Request.Context(), id.ID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *projectHandler) create(c *gin.Context) {
	var body dto.ProjectDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	id, _ := middleware.IdentityFrom(c)
	p, err := h.svc.Create(c.Request.Context(), id.ID, body)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *projectHandler) get(c *gin.Context) {
	pid, ok := uintParam(c, "id")
	if !ok {
		return
	}
	id, _ := middleware.IdentityFrom(c)
	p, err := h.svc.Get(c.Request.Context(), id.ID, pid)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *projectHandler) update(c *gin.Context) {
	pid, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body dto.ProjectDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	id, _ := middleware.IdentityFrom(c)
	p, err := h.svc.Update(c.Request.Context(), id.ID, pid, body)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *projectHandler) remove(c *gin.Context) {
	pid, ok := uintParam(c, "id")
	if !ok {
		return
	}
	id, _ := middleware.IdentityFrom(c)
	if err := h.svc.Delete(c.Request.Context(), id.ID, pid); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
