// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/divvy/backend/internal/application/usecase/event"
	domainerror "github.com/divvy/backend/internal/domain/error"
	"github.com/divvy/backend/internal/integration/entrypoint/dto"
	"github.com/divvy/backend/internal/integration/entrypoint/middleware"
)

// EventController handles event endpoints.
type EventController struct {
	createUseCase          *event.CreateEventUseCase
	getUseCase             *event.GetEventUseCase
	listUseCase            *event.ListEventsUseCase
	updateUseCase          *event.UpdateEventUseCase
	deleteUseCase          *event.DeleteEventUseCase
	addParticipantsUseCase *event.AddParticipantsUseCase
}

// NewEventController creates a new event controller instance.
func NewEventController(
	createUseCase *event.CreateEventUseCase,
	getUseCase *event.GetEventUseCase,
	listUseCase *event.ListEventsUseCase,
	updateUseCase *event.UpdateEventUseCase,
	deleteUseCase *event.DeleteEventUseCase,
	addParticipantsUseCase *event.AddParticipantsUseCase,
) *EventController {
	return &EventController{
		createUseCase:          createUseCase,
		getUseCase:             getUseCase,
		listUseCase:            listUseCase,
		updateUseCase:          updateUseCase,
		deleteUseCase:          deleteUseCase,
		addParticipantsUseCase: addParticipantsUseCase,
	}
}

// Create handles POST /events requests.
func (c *EventController) Create(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeMissingEventFields),
		})
		return
	}

	input := event.CreateEventInput{
		CreatorID:    userID,
		Name:         req.Name,
		Description:  req.Description,
		Currency:     req.Currency,
		Participants: toParticipantInputs(req.Participants),
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleEventError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToEventResponse(output.Event))
}

// List handles GET /events requests.
func (c *EventController) List(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), event.ListEventsInput{UserID: userID})
	if err != nil {
		c.handleEventError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToEventListResponse(output.Events))
}

// Get handles GET /events/:id requests.
func (c *EventController) Get(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), event.GetEventInput{
		EventID:  eventID,
		CallerID: userID,
	})
	if err != nil {
		c.handleEventError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToEventResponse(output.Event))
}

// Update handles PATCH /events/:id requests.
func (c *EventController) Update(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeMissingEventFields),
		})
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), event.UpdateEventInput{
		EventID:     eventID,
		CallerID:    userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		c.handleEventError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToEventResponse(output.Event))
}

// Delete handles DELETE /events/:id requests.
func (c *EventController) Delete(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.deleteUseCase.Execute(ctx.Request.Context(), event.DeleteEventInput{
		EventID:  eventID,
		CallerID: userID,
	}); err != nil {
		c.handleEventError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Event deleted"})
}

// AddParticipants handles POST /events/:id/participants requests.
func (c *EventController) AddParticipants(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AddParticipantsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeInvalidParticipant),
		})
		return
	}

	output, err := c.addParticipantsUseCase.Execute(ctx.Request.Context(), event.AddParticipantsInput{
		EventID:      eventID,
		CallerID:     userID,
		Participants: toParticipantInputs(req.Participants),
	})
	if err != nil {
		c.handleEventError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AddParticipantsResponse{
		Event: dto.ToEventResponse(output.Event),
		Added: output.Added,
	})
}

// handleEventError maps event errors to HTTP responses.
func (c *EventController) handleEventError(ctx *gin.Context, err error) {
	var eventErr *domainerror.EventError
	if errors.As(err, &eventErr) {
		ctx.JSON(statusForEventError(eventErr.Code), dto.ErrorResponse{
			Error: eventErr.Message,
			Code:  string(eventErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// statusForEventError maps event error codes to HTTP status codes.
func statusForEventError(code domainerror.EventErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidCurrency,
		domainerror.ErrCodeInvalidParticipant,
		domainerror.ErrCodeMissingEventFields:
		return http.StatusBadRequest
	case domainerror.ErrCodeEventNotFound,
		domainerror.ErrCodeParticipantNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotEventCreator,
		domainerror.ErrCodeNotEventMember:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// toParticipantInputs converts participant request DTOs to use case inputs.
func toParticipantInputs(reqs []dto.ParticipantRequest) []event.ParticipantInput {
	inputs := make([]event.ParticipantInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, event.ParticipantInput{Name: r.Name, Email: r.Email})
	}
	return inputs
}

// parseIDParam parses a UUID path parameter, writing a 400 on failure.
func parseIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid " + name + " parameter",
		})
		return uuid.Nil, false
	}
	return id, true
}

// respondUnauthenticated writes the shared missing-identity response.
func respondUnauthenticated(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: "Authentication required",
		Code:  string(domainerror.ErrCodeMissingToken),
	})
}
