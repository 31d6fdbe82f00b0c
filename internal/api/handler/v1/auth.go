package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/event-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/event-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/event-api/internal/domain"
	"github.com/vietanh2810/event-api/internal/service"
)

type AuthService interface {
	Signup(ctx context.Context, users []domain.User) ([]domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, string, error)
	Logout(ctx context.Context, userID uint) error
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{
		svc: svc,
	}
}

// HandleSignup godoc
// @Summary      Sign up one user or a batch of users
// @Description  The body is either a single object or an array of objects. A batch is stored entirely or not at all.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.SignupRequest  true  "user, or an array of users"
// @Success      201      {object}  response.SignupResponse
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users [post]
func (h *AuthHandler) HandleSignup(ctx *gin.Context) {
	reqs, isBatch, err := request.DecodeOneOrMany[request.SignupRequest](ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	users := make([]domain.User, 0, len(reqs))
	for i := range reqs {
		if err = reqs[i].Validate(); err != nil {
			if isBatch {
				err = fmt.Errorf("users[%d]: %w", i, err)
			}
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		users = append(users, reqs[i].ToDomain())
	}

	created, err := h.svc.Signup(ctx.Request.Context(), users)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleSignup -> h.svc.Signup", err)
		return
	}

	if !isBatch {
		ctx.JSON(http.StatusCreated, response.SignupResponse{UserID: created[0].ID})
		return
	}

	ids := make([]uint, 0, len(created))
	for _, u := range created {
		ids = append(ids, u.ID)
	}
	ctx.JSON(http.StatusCreated, response.SignupResponse{UserIDs: ids})
}

// HandleLogin godoc
// @Summary      Log in
// @Description  Issues a new session token. Any previous token of the user stops working.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.LoginRequest  true  "credentials"
// @Success      200      {object}  response.LoginResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, token, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))

			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		UserID:       user.ID,
		SessionToken: token,
	})
}

// HandleLogout godoc
// @Summary      Log out
// @Description  Clears the session token of the caller.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.MessageResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /logout [post]
// @Security     SessionToken
func (h *AuthHandler) HandleLogout(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Logout(ctx.Request.Context(), userID); err != nil {
		renderServiceErr(ctx, "v1.HandleLogout -> h.svc.Logout", err)
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "logged out"})
}
