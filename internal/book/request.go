package book

import (
	"bytes"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CreateRequest is the payload accepted by Create.
type CreateRequest struct {
	Title  string `json:"title" validate:"required,max=500"`
	Author string `json:"author" validate:"required,max=300"`
	Year   *int   `json:"year,omitempty"`
}

// Normalize trims surrounding whitespace from the text fields.
func (r *CreateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
}

// Optional tracks whether a JSON field was present and whether it was null.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null returns a present Optional holding JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON is only invoked for keys present in the document.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON emits null for absent or null values.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr returns nil for a null Optional and a pointer to the value otherwise.
func (o Optional[T]) Ptr() *T {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// Update is a partial update. Only fields with Set == true are applied.
type Update struct {
	Title  Optional[string] `json:"title"`
	Author Optional[string] `json:"author"`
	Year   Optional[int]    `json:"year"`
}

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Normalize trims surrounding whitespace from present text fields.
func (u *Update) Normalize() {
	if u.Title.Set && !u.Title.Null {
		u.Title.Value = strings.TrimSpace(u.Title.Value)
	}
	if u.Author.Set && !u.Author.Null {
		u.Author.Value = strings.TrimSpace(u.Author.Value)
	}
}

// Validate reports present fields that would break the persisted-state invariants.
func (u Update) Validate() []FieldError {
	var errs []FieldError
	check := func(field string, o Optional[string], max int) {
		switch {
		case !o.Set:
		case o.Null:
			errs = append(errs, FieldError{Field: field, Message: field + " cannot be null"})
		case o.Value == "":
			errs = append(errs, FieldError{Field: field, Message: field + " cannot be empty"})
		case len(o.Value) > max:
			errs = append(errs, FieldError{Field: field, Message: field + " is too long"})
		}
	}
	check("title", u.Title, 500)
	check("author", u.Author, 300)
	return errs
}

// Empty reports whether no field is present.
func (u Update) Empty() bool {
	return !u.Title.Set && !u.Author.Set && !u.Year.Set
}

// Apply merges the present fields of u into b. The id is never touched.
func (u Update) Apply(b Book) Book {
	if u.Title.Set {
		b.Title = u.Title.Value
	}
	if u.Author.Set {
		b.Author = u.Author.Value
	}
	if u.Year.Set {
		b.Year = u.Year.Ptr()
	}
	return b
}

// Fields returns the column assignments for the present fields.
func (u Update) Fields() map[string]any {
	fields := make(map[string]any, 3)
	if u.Title.Set {
		fields[colTitle] = u.Title.Value
	}
	if u.Author.Set {
		fields[colAuthor] = u.Author.Value
	}
	if u.Year.Set {
		if u.Year.Null {
			fields[colYear] = nil
		} else {
			fields[colYear] = u.Year.Value
		}
	}
	return fields
}
