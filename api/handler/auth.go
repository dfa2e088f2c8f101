package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/gotodos/backend/api/transport"
	"github.com/gotodos/backend/domain"
	"github.com/gotodos/backend/internal/middleware"
	"github.com/gotodos/backend/pkg/httpcontext"
	authUC "github.com/gotodos/backend/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Register a new account
// @Tags auth
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.Failure("Invalid request body."))
		return
	}

	if msg := validateRegister(req); msg != "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.Failure(msg))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Register(stdCtx, req.Name, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.Success(user))
}

// @Summary Issue an access token
// @Tags auth
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.Failure("Invalid request body."))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	creds, err := h.uc.Login(stdCtx, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.Success(creds))
}

// @Summary Revoke the current token
// @Tags auth
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Logout(stdCtx, identity); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.SuccessMessage("Successfully logged out."))
}

// @Summary Rotate the current token
// @Tags auth
// @Router /api/auth/refresh [post]
func (h *AuthHandler) Refresh(ctx *fasthttp.RequestCtx) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	creds, err := h.uc.Refresh(stdCtx, identity)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.Success(creds))
}

// @Summary Current user profile
// @Tags auth
// @Router /api/auth/profile [post]
func (h *AuthHandler) Profile(ctx *fasthttp.RequestCtx) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Profile(stdCtx, identity)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.Success(user))
}

func (h *AuthHandler) identity(ctx *fasthttp.RequestCtx) (*authUC.Identity, bool) {
	identity := middleware.IdentityFrom(ctx)
	if identity == nil {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.Message(domain.ErrUnauthenticated.Message))
		return nil, false
	}
	return identity, true
}

// respondError shapes auth failures: unauthenticated requests get the bare
// {message} body, everything else the {success:false, message} form.
func (h *AuthHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("auth request failed", zap.Error(err))
	}
	if err == domain.ErrUnauthenticated {
		h.respondJSON(ctx, status, transport.Message(errorMessage(err)))
		return
	}
	h.respondJSON(ctx, status, transport.Failure(errorMessage(err)))
}

func validateRegister(req transport.RegisterRequest) string {
	switch {
	case req.Name == "":
		return "The name field is required."
	case req.Email == "":
		return "The email field is required."
	case req.Password == "":
		return "The password field is required."
	case req.ConfirmPassword == "":
		return "The confirm password field is required."
	case req.Password != req.ConfirmPassword:
		return "The password confirmation does not match."
	default:
		return ""
	}
}
