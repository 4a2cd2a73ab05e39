package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdate_UnmarshalPresence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Update
	}{
		{name: "empty object", body: `{}`, want: Update{}},
		{name: "year only", body: `{"year":1999}`, want: Update{Year: Some(1999)}},
		{name: "null year", body: `{"year":null}`, want: Update{Year: Null[int]()}},
		{
			name: "all fields",
			body: `{"title":"T","author":"A","year":2001}`,
			want: Update{Title: Some("T"), Author: Some("A"), Year: Some(2001)},
		},
		{name: "unknown keys are ignored", body: `{"isbn":"123"}`, want: Update{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Update
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpdate_UnmarshalWrongType(t *testing.T) {
	var u Update
	assert.Error(t, json.Unmarshal([]byte(`{"year":"1999"}`), &u))
}

func TestUpdate_Apply(t *testing.T) {
	original := Book{ID: 1, Title: "War and Peace", Author: "Tolstoy", Year: intPtr(1869)}

	t.Run("year only leaves title and author", func(t *testing.T) {
		got := Update{Year: Some(1999)}.Apply(original)
		assert.Equal(t, Book{ID: 1, Title: "War and Peace", Author: "Tolstoy", Year: intPtr(1999)}, got)
	})

	t.Run("empty update is identity", func(t *testing.T) {
		assert.Equal(t, original, Update{}.Apply(original))
	})

	t.Run("null year clears it", func(t *testing.T) {
		got := Update{Year: Null[int]()}.Apply(original)
		assert.Nil(t, got.Year)
		assert.Equal(t, "Tolstoy", got.Author)
	})

	t.Run("does not alias the input", func(t *testing.T) {
		_ = Update{Title: Some("Other")}.Apply(original)
		assert.Equal(t, "War and Peace", original.Title)
	})
}

func TestUpdate_Validate(t *testing.T) {
	assert.Empty(t, Update{}.Validate())
	assert.Empty(t, Update{Year: Null[int]()}.Validate())
	assert.Empty(t, Update{Title: Some("ok")}.Validate())

	errs := Update{Title: Null[string](), Author: Some("")}.Validate()
	require.Len(t, errs, 2)
	assert.Equal(t, "title", errs[0].Field)
	assert.Equal(t, "author", errs[1].Field)
}

func TestUpdate_Fields(t *testing.T) {
	assert.Empty(t, Update{}.Fields())
	assert.Equal(t, map[string]any{colYear: 1999}, Update{Year: Some(1999)}.Fields())
	assert.Equal(t, map[string]any{colYear: nil, colTitle: "T"}, Update{Year: Null[int](), Title: Some("T")}.Fields())
}

func TestPage_Validate(t *testing.T) {
	_, err := Page{Offset: -1, Limit: 10}.Validate()
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Page{Offset: 0, Limit: -1}.Validate()
	assert.ErrorIs(t, err, ErrInvalidInput)

	p, err := Page{Offset: 3, Limit: MaxLimit + 1}.Validate()
	require.NoError(t, err)
	assert.Equal(t, Page{Offset: 3, Limit: MaxLimit}, p)
}
