package book

import (
	"errors"
	"net/http"
	"strconv"

	"bookcollection/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// RegisterRoutes mounts the book routes on mux. Trailing-slash variants are
// accepted for compatibility with older clients.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Root)

	mux.HandleFunc("POST /books", h.Create)
	mux.HandleFunc("POST /books/{$}", h.Create)
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("GET /books/{$}", h.List)
	mux.HandleFunc("GET /books/search", h.Search)
	mux.HandleFunc("GET /books/search/{$}", h.Search)
	mux.HandleFunc("GET /books/{id}", h.Get)
	mux.HandleFunc("PUT /books/{id}", h.Update)
	mux.HandleFunc("PATCH /books/{id}", h.Update)
	mux.HandleFunc("DELETE /books/{id}", h.Delete)
}

// Root handles GET /
func (h *HTTPHandler) Root(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, map[string]any{
		"message": "Book Collection API",
		"endpoints": map[string]string{
			"POST /books":        "Create a book",
			"GET /books":         "List books (offset, limit)",
			"GET /books/{id}":    "Get a book",
			"PUT /books/{id}":    "Update a book (partial)",
			"DELETE /books/{id}": "Delete a book",
			"GET /books/search":  "Search books (title, author, year)",
		},
	}, nil)
}

// @Summary Create book
// @Tags books
// @Accept json
// @Produce json
// @Param book body CreateRequest true "Book data"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	req.Normalize()

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	b, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, b)
}

// @Summary List books
// @Tags books
// @Produce json
// @Param offset query int false "Books to skip" default(0)
// @Param limit query int false "Maximum books to return" default(100)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := DefaultPage()

	offsetParam := query.Get("offset")
	if offsetParam == "" {
		offsetParam = query.Get("skip")
	}

	var details []httpx.ValidationError
	if offsetParam != "" {
		v, err := strconv.Atoi(offsetParam)
		if err != nil {
			details = append(details, httpx.ValidationError{Field: "offset", Message: "offset must be an integer"})
		}
		page.Offset = v
	}
	if limitParam := query.Get("limit"); limitParam != "" {
		v, err := strconv.Atoi(limitParam)
		if err != nil {
			details = append(details, httpx.ValidationError{Field: "limit", Message: "limit must be an integer"})
		}
		page.Limit = v
	}
	if len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", details)
		return
	}

	books, err := h.service.List(r.Context(), page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, books, map[string]any{
		"offset": page.Offset,
		"limit":  page.Limit,
		"count":  len(books),
	})
}

// Get handles GET /books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// @Summary Update book
// @Description Only the fields present in the body are changed. A null year clears it.
// @Tags books
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Param book body Update true "Fields to change"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var upd Update
	if err := httpx.DecodeJSON(r, &upd); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	upd.Normalize()

	if fieldErrors := upd.Validate(); len(fieldErrors) > 0 {
		details := make([]httpx.ValidationError, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			details = append(details, httpx.ValidationError{Field: fe.Field, Message: fe.Message})
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	b, err := h.service.Update(r.Context(), id, upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// @Summary Delete book
// @Tags books
// @Param id path int true "Book ID"
// @Success 204
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// @Summary Search books
// @Description Case-insensitive substring match on title and author, exact match on year.
// @Description Criteria are combined with AND; no match is a 404.
// @Tags books
// @Produce json
// @Param title query string false "Title contains"
// @Param author query string false "Author contains"
// @Param year query int false "Publication year"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var year *int
	if yearParam := query.Get("year"); yearParam != "" {
		v, err := strconv.Atoi(yearParam)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters",
				[]httpx.ValidationError{{Field: "year", Message: "year must be an integer"}})
			return
		}
		year = &v
	}

	books, err := h.service.Search(r.Context(), NewCriteria(query.Get("title"), query.Get("author"), year))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]any{"count": len(books)})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book id",
			[]httpx.ValidationError{{Field: "id", Message: "id must be a positive integer"}})
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "not found", nil)
	case errors.Is(err, ErrInvalidInput):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
