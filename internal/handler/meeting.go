package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tempohq/tempo/internal/domain"
	"github.com/tempohq/tempo/internal/service"
)

// MeetingHandler handles meeting endpoints nested under a project.
type MeetingHandler struct {
	meetings *service.MeetingService
}

// NewMeetingHandler creates a new MeetingHandler.
func NewMeetingHandler(meetings *service.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetings: meetings}
}

type createMeetingRequest struct {
	Title             string  `json:"title"`
	Transcript        string  `json:"transcript"`
	Duration          string  `json:"duration"`
	HasAudio          bool    `json:"has_audio"`
	AudioURL          *string `json:"audio_url"`
	IsFollowUp        bool    `json:"is_follow_up"`
	PreviousMeetingID *string `json:"previous_meeting_id"`
}

// Create saves a meeting under the project and returns its id.
func (h *MeetingHandler) Create(c echo.Context) error {
	var body createMeetingRequest
	if err := c.Bind(&body); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}

	id, err := h.meetings.Create(c.Request().Context(), c.Param("id"), domain.NewMeeting{
		Title:             body.Title,
		Transcript:        body.Transcript,
		Duration:          body.Duration,
		HasAudio:          body.HasAudio,
		AudioURL:          body.AudioURL,
		IsFollowUp:        body.IsFollowUp,
		PreviousMeetingID: body.PreviousMeetingID,
	})
	if err != nil {
		return err
	}

	return JSON(c, http.StatusCreated, map[string]string{"id": id})
}

// List returns the project's meetings, newest first.
func (h *MeetingHandler) List(c echo.Context) error {
	meetings, err := h.meetings.List(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, meetings)
}

// Stream pushes the project's meeting list as server-sent events.
func (h *MeetingHandler) Stream(c echo.Context) error {
	projectID := c.Param("id")
	return streamSnapshots(c, func(callback func([]domain.Meeting)) func() {
		return h.meetings.Subscribe(projectID, callback)
	})
}

type updateMeetingRequest struct {
	Title      *string `json:"title"`
	Transcript *string `json:"transcript"`
}

// Update merges the editable fields into the meeting.
func (h *MeetingHandler) Update(c echo.Context) error {
	var body updateMeetingRequest
	if err := c.Bind(&body); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}

	err := h.meetings.Update(c.Request().Context(), c.Param("id"), c.Param("meetingId"), domain.MeetingUpdate{
		Title:      body.Title,
		Transcript: body.Transcript,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes the meeting.
func (h *MeetingHandler) Delete(c echo.Context) error {
	if err := h.meetings.Delete(c.Request().Context(), c.Param("id"), c.Param("meetingId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
