package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Service provides book-related business logic.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService creates a new book service.
func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "book").Logger()}
}

// Create persists a new book and returns it with its assigned id.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Book, error) {
	req.Normalize()
	if req.Title == "" || req.Author == "" {
		return Book{}, fmt.Errorf("%w: title and author are required", ErrInvalidInput)
	}
	b, err := s.repo.Insert(ctx, req)
	if err != nil {
		return Book{}, s.fault("create", err)
	}
	return b, nil
}

// List returns a page of books. An empty table yields an empty slice.
func (s *Service) List(ctx context.Context, page Page) ([]Book, error) {
	page, err := page.Validate()
	if err != nil {
		return nil, err
	}
	books, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, s.fault("list", err)
	}
	return books, nil
}

// Get returns a single book by id.
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, s.fault("get", err)
	}
	return b, nil
}

// Update applies a partial update and returns the resulting book.
func (s *Service) Update(ctx context.Context, id int64, upd Update) (Book, error) {
	upd.Normalize()
	if errs := upd.Validate(); len(errs) > 0 {
		return Book{}, fmt.Errorf("%w: %s", ErrInvalidInput, errs[0].Message)
	}
	b, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return Book{}, s.fault("update", err)
	}
	return b, nil
}

// Delete removes a book permanently.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fault("delete", err)
	}
	return nil
}

// Search returns the books matching every present criterion.
// Unlike List, an empty result is reported as ErrNotFound.
func (s *Service) Search(ctx context.Context, c Criteria) ([]Book, error) {
	books, err := s.repo.Search(ctx, c)
	if err != nil {
		return nil, s.fault("search", err)
	}
	if len(books) == 0 {
		return nil, ErrNotFound
	}
	return books, nil
}

// Ping checks that the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// fault logs storage failures; not-found and validation errors pass through quietly.
func (s *Service) fault(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	s.logger.Error().Err(err).Str("op", op).Msg("storage operation failed")
	if !errors.Is(err, ErrStorage) {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return err
}
