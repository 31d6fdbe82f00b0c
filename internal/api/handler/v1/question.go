package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/event-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/event-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/event-api/internal/domain"
)

type QuestionService interface {
	Ask(ctx context.Context, userID, eventID uint, text string) (domain.Question, error)
	Get(ctx context.Context, questionID uint) (domain.Question, error)
	Delete(ctx context.Context, questionID, callerID uint) error
	ListForEvent(ctx context.Context, eventID uint) ([]domain.Question, error)
	Vote(ctx context.Context, questionID, userID uint) (int, error)
}

type QuestionHandler struct {
	svc QuestionService
}

func NewQuestionHandler(svc QuestionService) *QuestionHandler {
	return &QuestionHandler{
		svc: svc,
	}
}

// HandleAskQuestion godoc
// @Summary      Ask a question on an event
// @Description  Only registered attendees may ask. The creator of the event may not.
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        id       path      int                         true  "event id"
// @Param        request  body      request.AskQuestionRequest  true  "question"
// @Success      201      {object}  response.QuestionCreatedResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{id}/question [post]
// @Security     SessionToken
func (h *QuestionHandler) HandleAskQuestion(ctx *gin.Context) {
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

	var req request.AskQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	h.ask(ctx, userID, eventID, req.Question)
}

// HandleCreateQuestion godoc
// @Summary      Ask a question, event given in the body
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateQuestionRequest  true  "event and question"
// @Success      201      {object}  response.QuestionCreatedResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /questions [post]
// @Security     SessionToken
func (h *QuestionHandler) HandleCreateQuestion(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	h.ask(ctx, userID, req.EventID, req.Question)
}

func (h *QuestionHandler) ask(ctx *gin.Context, userID, eventID uint, text string) {
	question, err := h.svc.Ask(ctx.Request.Context(), userID, eventID, text)
	if err != nil {
		renderServiceErr(ctx, "v1.QuestionHandler.ask -> h.svc.Ask", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.QuestionCreatedResponse{QuestionID: question.ID})
}

// HandleGetQuestion godoc
// @Summary      Get a question
// @Tags         questions
// @Produce      json
// @Param        id   path      int  true  "question id"
// @Success      200  {object}  domain.Question
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /questions/{id} [get]
func (h *QuestionHandler) HandleGetQuestion(ctx *gin.Context) {
	questionID, respErr := pathID(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	question, err := h.svc.Get(ctx.Request.Context(), questionID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetQuestion -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, question)
}

// HandleDeleteQuestion godoc
// @Summary      Delete a question
// @Description  Allowed for the author of the question and for the creator of its event.
// @Tags         questions
// @Produce      json
// @Param        id   path      int  true  "question id"
// @Success      200  {object}  response.MessageResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /questions/{id} [delete]
// @Security     SessionToken
func (h *QuestionHandler) HandleDeleteQuestion(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	questionID, respErr := pathID(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), questionID, userID); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteQuestion -> h.svc.Delete", err)
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "question deleted"})
}

// HandleVoteQuestion godoc
// @Summary      Upvote a question
// @Description  One vote per user. Authors cannot vote for their own question.
// @Tags         questions
// @Produce      json
// @Param        id   path      int  true  "question id"
// @Success      200  {object}  response.VoteResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /questions/{id}/vote [post]
// @Security     SessionToken
func (h *QuestionHandler) HandleVoteQuestion(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	questionID, respErr := pathID(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	votes, err := h.svc.Vote(ctx.Request.Context(), questionID, userID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleVoteQuestion -> h.svc.Vote", err)
		return
	}

	ctx.JSON(http.StatusOK, response.VoteResponse{QuestionID: questionID, Votes: votes})
}

// HandleListEventQuestions godoc
// @Summary      List the questions of an event
// @Description  Most voted first, then oldest first.
// @Tags         questions
// @Produce      json
// @Param        id   path      int  true  "event id"
// @Success      200  {array}   domain.Question
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{id}/questions [get]
func (h *QuestionHandler) HandleListEventQuestions(ctx *gin.Context) {
	eventID, respErr := pathID(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	questions, err := h.svc.ListForEvent(ctx.Request.Context(), eventID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListEventQuestions -> h.svc.ListForEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, questions)
}
