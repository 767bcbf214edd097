package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rogersnm/todos/internal/id"
	"github.com/rogersnm/todos/internal/model"
)

type createRequest struct {
	Task string `json:"task" binding:"required,max=255"`
}

func (s *Server) findAll(c *gin.Context) {
	todos, err := s.store.FindAll(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

func (s *Server) findOne(c *gin.Context) {
	todoID, ok := s.pathID(c)
	if !ok {
		return
	}
	t, err := s.store.FindOne(c.Request.Context(), todoID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, badRequest("task should not be empty"))
			return
		}
		c.JSON(http.StatusBadRequest, badRequest(bindingMessages(err)...))
		return
	}
	if err := model.ValidateTask(req.Task); err != nil {
		s.writeError(c, err)
		return
	}

	t, err := s.store.Create(c.Request.Context(), req.Task)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) update(c *gin.Context) {
	todoID, ok := s.pathID(c)
	if !ok {
		return
	}

	var upd model.TodoUpdate
	if err := c.ShouldBindJSON(&upd); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, badRequest(bindingMessages(err)...))
		return
	}
	if err := upd.Validate(); err != nil {
		s.writeError(c, err)
		return
	}

	t, err := s.store.Update(c.Request.Context(), todoID, upd)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) remove(c *gin.Context) {
	todoID, ok := s.pathID(c)
	if !ok {
		return
	}
	if err := s.store.Remove(c.Request.Context(), todoID); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses the :id parameter in the shape of the store's id policy and
// writes a 400 when it does not fit.
func (s *Server) pathID(c *gin.Context) (id.ID, bool) {
	todoID, err := s.store.Policy().Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, badRequest(err.Error()))
		return id.ID{}, false
	}
	return todoID, true
}
