package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tempohq/tempo/internal/domain"
	"github.com/tempohq/tempo/internal/service"
)

// ProjectHandler handles project endpoints.
type ProjectHandler struct {
	projects *service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type createProjectRequest struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// Create creates a project and returns its id.
func (h *ProjectHandler) Create(c echo.Context) error {
	var body createProjectRequest
	if err := c.Bind(&body); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&body); err != nil {
		return err
	}

	id, err := h.projects.Create(c.Request().Context(), domain.NewProject{
		Name:  body.Name,
		Color: body.Color,
		Icon:  body.Icon,
	})
	if err != nil {
		return err
	}

	return JSON(c, http.StatusCreated, map[string]string{"id": id})
}

// List returns all projects, most recently updated first.
func (h *ProjectHandler) List(c echo.Context) error {
	projects, err := h.projects.List(c.Request().Context())
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, projects)
}

// Stream pushes the project list as server-sent events: the current
// snapshot immediately, then a fresh one after every change.
func (h *ProjectHandler) Stream(c echo.Context) error {
	return streamSnapshots(c, h.projects.Subscribe)
}

type updateProjectRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

// Update merges the given fields into the project.
func (h *ProjectHandler) Update(c echo.Context) error {
	var body updateProjectRequest
	if err := c.Bind(&body); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}

	err := h.projects.Update(c.Request().Context(), c.Param("id"), domain.ProjectUpdate{
		Name:  body.Name,
		Color: body.Color,
		Icon:  body.Icon,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes the project and all of its meetings.
func (h *ProjectHandler) Delete(c echo.Context) error {
	if err := h.projects.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
