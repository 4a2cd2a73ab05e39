package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
//
// Implementations return ErrNotFound for unknown ids and wrap driver failures
// with ErrStorage. Reads are ordered by id ascending.
type Repository interface {
	Insert(ctx context.Context, req CreateRequest) (Book, error)
	List(ctx context.Context, page Page) ([]Book, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	Update(ctx context.Context, id int64, upd Update) (Book, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, c Criteria) ([]Book, error)
	Ping(ctx context.Context) error
}
