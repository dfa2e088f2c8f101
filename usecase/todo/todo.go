package todo

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gotodos/backend/domain"
	"github.com/gotodos/backend/repository"
)

const (
	// DefaultPageSize applies when a listing request carries no limit or an
	// out-of-range one.
	DefaultPageSize = 15
	// MaxPageSize caps how much of the listing one request may ask for.
	MaxPageSize = 100
)

// ListResult bundles one page of the global listing with its pagination data.
type ListResult struct {
	Todos       []domain.Todo
	CurrentPage int
	PerPage     int
	Total       int
}

// Patch carries the optional fields of a partial update. A nil field was not
// supplied at all, which is distinct from an empty string.
type Patch struct {
	Title       *string
	Description *string
}

type UseCase struct {
	todos  repository.TodoRepository
	logger *zap.Logger
}

func New(todos repository.TodoRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		todos:  todos,
		logger: logger,
	}
}

// List returns one page of all todos regardless of owner. Listing is global
// on purpose; see the repository docs before scoping it per user.
func (uc *UseCase) List(ctx context.Context, limit, page int) (*ListResult, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	todos, total, err := uc.todos.List(ctx, repository.Page{
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Todos:       todos,
		CurrentPage: page,
		PerPage:     limit,
		Total:       total,
	}, nil
}

// Create inserts a todo owned by the caller. The title pre-check keeps the
// common duplicate case friendly; the unique constraint in the store settles
// races.
func (uc *UseCase) Create(ctx context.Context, userID, title, description string) (*domain.Todo, error) {
	taken, err := uc.todos.TitleExists(ctx, title, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrTitleTaken
	}

	todo := &domain.Todo{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: description,
	}

	if err := uc.todos.Create(ctx, todo); err != nil {
		return nil, err
	}

	uc.logger.Info("todo created", zap.String("todo_id", todo.ID), zap.String("user_id", userID))
	return todo, nil
}

// Update applies a partial update to an owned todo. Existence is checked
// before ownership, so a missing record is 404 even for non-owners; a
// malformed id cannot match a record and is 404 without a store round trip.
// When the patch changes nothing, no write happens and changed is false.
func (uc *UseCase) Update(ctx context.Context, userID, id string, patch Patch) (result *domain.Todo, changed bool, err error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false, domain.ErrTodoNotFound
	}

	todo, err := uc.todos.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if !todo.OwnedBy(userID) {
		return nil, false, domain.ErrForbidden
	}

	if patch.Title != nil && *patch.Title != todo.Title {
		taken, err := uc.todos.TitleExists(ctx, *patch.Title, todo.ID)
		if err != nil {
			return nil, false, err
		}
		if taken {
			return nil, false, domain.ErrTitleTaken
		}
		todo.Title = *patch.Title
		changed = true
	}
	if patch.Description != nil && *patch.Description != todo.Description {
		todo.Description = *patch.Description
		changed = true
	}

	if !changed {
		return todo, false, nil
	}

	if err := uc.todos.Update(ctx, todo); err != nil {
		return nil, false, err
	}
	return todo, true, nil
}

// Delete permanently removes an owned todo. The 404-before-403 ordering
// matches Update.
func (uc *UseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrTodoNotFound
	}

	todo, err := uc.todos.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !todo.OwnedBy(userID) {
		return domain.ErrForbidden
	}
	return uc.todos.Delete(ctx, todo.ID)
}
