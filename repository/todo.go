package repository

import (
	"context"

	"github.com/gotodos/backend/domain"
)

// Page describes the slice of the global todo listing to fetch.
type Page struct {
	Limit  int
	Offset int
}

type TodoRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Todo, error)
	// List returns one page of todos in stable insertion order together with
	// the total number of rows.
	List(ctx context.Context, page Page) ([]domain.Todo, int, error)
	// TitleExists reports whether any todo other than excludeID already uses
	// the title. Titles are unique across all owners.
	TitleExists(ctx context.Context, title, excludeID string) (bool, error)
	Create(ctx context.Context, todo *domain.Todo) error
	Update(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, id string) error
}
