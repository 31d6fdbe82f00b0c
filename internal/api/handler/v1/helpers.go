package v1

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/event-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/event-api/internal/api/middleware"
	"github.com/vietanh2810/event-api/internal/service"
)

var (
	errNoUserInContext = errors.New("no authenticated user in context")
	errInvalidID       = errors.New("id must be a positive integer")
)

// serviceErrs maps service sentinels onto HTTP errors. Detailed entries render the full error
// text, the others render the sentinel only so wrapping context stays out of the body.
var serviceErrs = []struct {
	target   error
	render   func(error) *response.Err
	detailed bool
}{
	{target: service.ErrUnauthorized, render: response.ErrUnauthorized},
	{target: service.ErrInvalidEvent, render: response.ErrBadRequest, detailed: true},
	{target: service.ErrCategoryNotFound, render: response.ErrBadRequest},
	{target: service.ErrEmptyQuestion, render: response.ErrBadRequest},
	{target: service.ErrUserNotFound, render: response.ErrNotFound},
	{target: service.ErrEventNotFound, render: response.ErrNotFound},
	{target: service.ErrQuestionNotFound, render: response.ErrNotFound},
	{target: service.ErrUserEmailExists, render: response.ErrConflict},
	{target: service.ErrEventNameExists, render: response.ErrConflict},
	{target: service.ErrNotEventCreator, render: response.ErrPermissionDenied},
	{target: service.ErrEventArchived, render: response.ErrPermissionDenied},
	{target: service.ErrRegistrationClosed, render: response.ErrPermissionDenied},
	{target: service.ErrCreatorCannotRegister, render: response.ErrPermissionDenied},
	{target: service.ErrEventFull, render: response.ErrPermissionDenied},
	{target: service.ErrAlreadyRegistered, render: response.ErrPermissionDenied},
	{target: service.ErrCreatorCannotAsk, render: response.ErrPermissionDenied},
	{target: service.ErrNotRegistered, render: response.ErrPermissionDenied},
	{target: service.ErrNotQuestionOwner, render: response.ErrPermissionDenied},
	{target: service.ErrAlreadyVoted, render: response.ErrPermissionDenied},
	{target: service.ErrOwnQuestionVote, render: response.ErrPermissionDenied},
}

// renderServiceErr renders err as the matching client error, or as a 500 tagged with op.
func renderServiceErr(ctx *gin.Context, op string, err error) {
	for _, m := range serviceErrs {
		if !errors.Is(err, m.target) {
			continue
		}

		if m.detailed {
			response.RenderErr(ctx, m.render(err))
		} else {
			response.RenderErr(ctx, m.render(m.target))
		}
		return
	}

	response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
}

func currentUserID(ctx *gin.Context) (uint, *response.Err) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return 0, response.ErrUnauthorized(errNoUserInContext)
	}

	return userID, nil
}

func pathID(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %s: %w", name, errInvalidID))
	}

	return uint(id), nil
}
