package handler

import (
	"net/http"
	"strconv"

	"github.com/Miraines/MoonyAndStarry/task-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/adapters/transport/http/middleware"
	tasksvc "github.com/Miraines/MoonyAndStarry/task-service/internal/app/task/service"
	"github.com/gin-gonic/gin"
)

type taskHandler struct {
	svc tasksvc.Service
}

func (h *taskHandler) listByProject(c *gin.Context) {
	pid, ok := uintParam(c, "projectId")
	if !ok {
		return
	}
	id, _ := middleware.IdentityFrom(c)
	tasks, err := h.svc.ListByProject(c.Request.Context(), id.ID, pid)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *taskHandler) search(c *gin.Context) {
	var q dto.TaskSearchDTO
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	id, _ := middleware.IdentityFrom(c)
	tasks, err := h.svc.Search(c.Request.Context(), id.ID, q)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *taskHandler) dashboard(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	d, err := h.svc.Dashboard(c.Request.Context(), id.ID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *taskHandler) create(c *gin.Context) {
	var body dto.CreateTaskDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	id, _ := middleware.IdentityFrom(c)
	t, err := h.svc.Create(c.Request.Context(), id.ID, body)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *taskHandler) update(c *gin.Context) {
	tid, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body dto.UpdateTaskDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	id, _ := middleware.IdentityFrom(c)
	t, err := h.svc.Update(c.Request.Context(), id.ID, tid, body)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *taskHandler) remove(c *gin.Context) {
	tid, ok := uintParam(c, "id")
	if !ok {
		return
	}
	id, _ := middleware.IdentityFrom(c)
	if err := h.svc.Delete(c.Request.Context(), id.ID, tid); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// uintParam parses a positive numeric path parameter, answering 400 otherwise.
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(v), true
}
