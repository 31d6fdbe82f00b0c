package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/event-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/event-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/event-api/internal/api/middleware"
	"github.com/vietanh2810/event-api/internal/domain"
)

type EventService interface {
	CreateEvents(ctx context.Context, creatorID uint, events []domain.Event) ([]domain.Event, error)
	GetEvent(ctx context.Context, eventID, viewerID uint) (domain.EventView, error)
	UpdateEvent(ctx context.Context, eventID, callerID uint, patch domain.EventPatch) (domain.Event, error)
	ArchiveEvent(ctx context.Context, eventID, callerID uint) error
	SearchEvents(ctx context.Context, query, category string) ([]domain.Event, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	Register(ctx context.Context, userID, eventID uint) error
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

// HandleCreateEvents godoc
// @Summary      Create one event or a batch of events
// @Description  The body is either a single object or an array of objects. A batch is stored entirely or not at all.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventRequest  true  "event, or an array of events"
// @Success      201      {object}  response.CreateEventsResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events [post]
// @Security     SessionToken
func (h *EventHandler) HandleCreateEvents(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reqs, isBatch, err := request.DecodeOneOrMany[request.CreateEventRequest](ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	events := make([]domain.Event, 0, len(reqs))
	for i := range reqs {
		event, err := decodeEvent(&reqs[i])
		if err != nil {
			if isBatch {
				err = fmt.Errorf("events[%d]: %w", i, err)
			}
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		events = append(events, event)
	}

	created, err := h.svc.CreateEvents(ctx.Request.Context(), userID, events)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateEvents -> h.svc.CreateEvents", err)
		return
	}

	if !isBatch {
		ctx.JSON(http.StatusCreated, response.CreateEventsResponse{EventID: created[0].ID})
		return
	}

	ids := make([]uint, 0, len(created))
	for _, e := range created {
		ids = append(ids, e.ID)
	}
	ctx.JSON(http.StatusCreated, response.CreateEventsResponse{EventIDs: ids})
}

func decodeEvent(req *request.CreateEventRequest) (domain.Event, error) {
	if err := req.Validate(); err != nil {
		return domain.Event{}, err
	}

	return req.ToDomain()
}

// HandleGetEvent godoc
// @Summary      Get an event
// @Description  Anonymous callers get the public view. Registered callers also learn whether they are
// @Description  registered, and the creator additionally sees the attendee list.
// @Tags         events
// @Produce      json
// @Param        id   path      int  true  "event id"
// @Success      200  {object}  domain.EventView
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{id} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, respErr := pathID(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	viewerID, _ := middleware.UserIDFromContext(ctx)

	view, err := h.svc.GetEvent(ctx.Request.Context(), eventID, viewerID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetEvent -> h.svc.GetEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Description  Partial update. Only the creator may update, and archived events cannot be updated.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id       path      int                         true  "event id"
// @Param        request  body      request.UpdateEventRequest  true  "fields to change"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{id} [patch]
// @Security     SessionToken
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := pathID(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateEvent(ctx.Request.Context(), eventID, userID, patch)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateEvent -> h.svc.UpdateEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleArchiveEvent godoc
// @Summary      Archive an event
// @Description  Soft delete. Archiving an archived event succeeds and changes nothing.
// @Tags         events
// @Produce      json
// @Param        id   path      int  true  "event id"
// @Success      200  {object}  response.MessageResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{id} [delete]
// @Security     SessionToken
func (h *EventHandler) HandleArchiveEvent(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := pathID(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.ArchiveEvent(ctx.Request.Context(), eventID, userID); err != nil {
		renderServiceErr(ctx, "v1.HandleArchiveEvent -> h.svc.ArchiveEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "event archived"})
}

// HandleSearchEvents godoc
// @Summary      Search events
// @Description  Case-insensitive match on name or description, optionally narrowed to a category name.
// @Description  Archived events are never returned.
// @Tags         events
// @Produce      json
// @Param        q         query     string  false  "text to look for"
// @Param        category  query     string  false  "category name"
// @Success      200       {array}   domain.Event
// @Failure      500       {object}  response.Err
// @Router       /events/search [get]
func (h *EventHandler) HandleSearchEvents(ctx *gin.Context) {
	events, err := h.svc.SearchEvents(ctx.Request.Context(), ctx.Query("q"), ctx.Query("category"))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleSearchEvents -> h.svc.SearchEvents", err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleListEvents godoc
// @Summary      List events
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      500  {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	events, err := h.svc.SearchEvents(ctx.Request.Context(), "", "")
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListEvents -> h.svc.SearchEvents", err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleRegister godoc
// @Summary      Register for an event
// @Tags         events
// @Produce      json
// @Param        id   path      int  true  "event id"
// @Success      200  {object}  response.MessageResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{id}/register [post]
// @Security     SessionToken
func (h *EventHandler) HandleRegister(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := pathID(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Register(ctx.Request.Context(), userID, eventID); err != nil {
		renderServiceErr(ctx, "v1.HandleRegister -> h.svc.Register", err)
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "registered"})
}

// HandleListCategories godoc
// @Summary      List categories
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Category
// @Failure      500  {object}  response.Err
// @Router       /categories [get]
func (h *EventHandler) HandleListCategories(ctx *gin.Context) {
	categories, err := h.svc.ListCategories(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListCategories -> h.svc.ListCategories", err)
		return
	}

	ctx.JSON(http.StatusOK, categories)
}
