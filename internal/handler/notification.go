package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tempohq/tempo/internal/domain"
	"github.com/tempohq/tempo/internal/service"
)

// NotificationHandler derives transient notifications and schedule conflicts
// from client-held task/appointment snapshots. Nothing here touches the
// store.
type NotificationHandler struct{}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

type deriveRequest struct {
	Tasks        []domain.Task        `json:"tasks"`
	Appointments []domain.Appointment `json:"appointments"`
}

// Derive computes the notification entries for the submitted snapshot as of
// the server's current time.
func (h *NotificationHandler) Derive(c echo.Context) error {
	var body deriveRequest
	if err := c.Bind(&body); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}

	notifs := service.DeriveNotifications(body.Tasks, body.Appointments, time.Now())
	return JSON(c, http.StatusOK, notifs)
}

type conflictRequest struct {
	Appointments []domain.Appointment `json:"appointments"`
	Date         string               `json:"date" validate:"required"`
	Time         string               `json:"time" validate:"required"`
	ExcludeID    string               `json:"exclude_id"`
}

type conflictResponse struct {
	Conflict *domain.Appointment `json:"conflict"`
	Message  string              `json:"message,omitempty"`
}

// CheckConflict reports whether the proposed date/time collides with an
// existing appointment.
func (h *NotificationHandler) CheckConflict(c echo.Context) error {
	var body conflictRequest
	if err := c.Bind(&body); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&body); err != nil {
		return err
	}

	resp := conflictResponse{}
	if apt := service.FindConflict(body.Appointments, body.Date, body.Time, body.ExcludeID); apt != nil {
		resp.Conflict = apt
		resp.Message = fmt.Sprintf("Conflict: %q is already scheduled at %s", apt.Title, apt.Time)
	}
	return JSON(c, http.StatusOK, resp)
}
