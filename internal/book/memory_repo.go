package book

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository provides an in-memory implementation of Repository.
type MemoryRepository struct {
	mu     sync.RWMutex
	books  map[int64]Book
	nextID int64
}

// NewMemoryRepository constructs a MemoryRepository seeded with the provided books.
// Seed books keep their ids; new ids continue after the highest one.
func NewMemoryRepository(seed ...Book) *MemoryRepository {
	repo := &MemoryRepository{
		books:  make(map[int64]Book, len(seed)),
		nextID: 1,
	}
	for _, b := range seed {
		repo.books[b.ID] = clone(b)
		if b.ID >= repo.nextID {
			repo.nextID = b.ID + 1
		}
	}
	return repo
}

func (r *MemoryRepository) Insert(_ context.Context, req CreateRequest) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := Book{ID: r.nextID, Title: req.Title, Author: req.Author, Year: copyInt(req.Year)}
	r.nextID++
	r.books[b.ID] = b
	return clone(b), nil
}

// List returns a window of books in ascending id order.
func (r *MemoryRepository) List(_ context.Context, page Page) ([]Book, error) {
	all := r.sorted(func(Book) bool { return true })
	if page.Offset >= len(all) {
		return []Book{}, nil
	}
	end := len(all)
	if page.Limit < end-page.Offset {
		end = page.Offset + page.Limit
	}
	return all[page.Offset:end], nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return clone(b), nil
}

func (r *MemoryRepository) Update(_ context.Context, id int64, upd Update) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	b = upd.Apply(b)
	r.books[id] = b
	return clone(b), nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[id]; !ok {
		return ErrNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *MemoryRepository) Search(_ context.Context, c Criteria) ([]Book, error) {
	return r.sorted(c.Match), nil
}

func (r *MemoryRepository) Ping(context.Context) error {
	return nil
}

func (r *MemoryRepository) sorted(keep func(Book) bool) []Book {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Book, 0, len(r.books))
	for _, b := range r.books {
		if keep(b) {
			out = append(out, clone(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

func clone(b Book) Book {
	b.Year = copyInt(b.Year)
	return b
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
