package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/gotodos/backend/api/transport"
	"github.com/gotodos/backend/domain"
	"github.com/gotodos/backend/internal/middleware"
	"github.com/gotodos/backend/pkg/httpcontext"
	authUC "github.com/gotodos/backend/usecase/auth"
	todoUC "github.com/gotodos/backend/usecase/todo"
)

type TodoHandler struct {
	baseHandler
	uc *todoUC.UseCase
}

func NewTodoHandler(uc *todoUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List todos
// @Tags todos
// @Router /api/todos [get]
func (h *TodoHandler) List(ctx *fasthttp.RequestCtx) {
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 0)
	page := parseInt(string(ctx.QueryArgs().Peek("page")), 1)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.List(stdCtx, limit, page)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondJSON(ctx, http.StatusOK, transport.List(result.Todos, transport.Meta{
		CurrentPage: result.CurrentPage,
		PerPage:     result.PerPage,
		Total:       result.Total,
	}))
}

// @Summary Create a todo
// @Tags todos
// @Router /api/todos [post]
func (h *TodoHandler) Create(ctx *fasthttp.RequestCtx) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}

	var req transport.TodoCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusUnprocessableEntity, transport.Failure("Invalid request body."))
		return
	}
	if req.Title == "" {
		h.respondJSON(ctx, http.StatusUnprocessableEntity, transport.Failure("The title field is required."))
		return
	}
	if req.Description == "" {
		h.respondJSON(ctx, http.StatusUnprocessableEntity, transport.Failure("The description field is required."))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	todo, err := h.uc.Create(stdCtx, identity.UserID, req.Title, req.Description)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.Created("Todo created successfully", todo))
}

// @Summary Partially update a todo
// @Tags todos
// @Router /api/todos/{id} [patch]
func (h *TodoHandler) Update(ctx *fasthttp.RequestCtx) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}

	id, ok := ctx.UserValue("id").(string)
	if !ok || id == "" {
		h.respondError(ctx, domain.ErrTodoNotFound)
		return
	}

	var req transport.TodoUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusUnprocessableEntity, transport.Failure("Invalid request body."))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	todo, changed, err := h.uc.Update(stdCtx, identity.UserID, id, todoUC.Patch{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if !changed {
		h.respondJSON(ctx, http.StatusOK, transport.Message("No changes detected"))
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.MessageWithData("Todo updated successfully!", todo))
}

// @Summary Delete a todo
// @Tags todos
// @Router /api/todos/{id} [delete]
func (h *TodoHandler) Delete(ctx *fasthttp.RequestCtx) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}

	id, ok := ctx.UserValue("id").(string)
	if !ok || id == "" {
		h.respondError(ctx, domain.ErrTodoNotFound)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, identity.UserID, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.Message("Todo deleted successfully!"))
}

func (h *TodoHandler) identity(ctx *fasthttp.RequestCtx) (*authUC.Identity, bool) {
	identity := middleware.IdentityFrom(ctx)
	if identity == nil {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.Message(domain.ErrUnauthenticated.Message))
		return nil, false
	}
	return identity, true
}

// respondError shapes todo failures: not-found and forbidden use the bare
// {error} body, validation uses {success:false, message}.
func (h *TodoHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusNotFound, http.StatusForbidden:
		h.respondJSON(ctx, status, transport.Error(errorMessage(err)))
	case http.StatusInternalServerError:
		h.logger.Error("todo request failed", zap.Error(err))
		h.respondJSON(ctx, status, transport.Failure(errorMessage(err)))
	default:
		h.respondJSON(ctx, status, transport.Failure(errorMessage(err)))
	}
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
