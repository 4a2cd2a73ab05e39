package book

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

const (
	colID     = "id"
	colTitle  = "title"
	colAuthor = "author"
	colYear   = "year"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Criteria holds the optional search filters. A nil field does not filter.
type Criteria struct {
	Title  *string
	Author *string
	Year   *int
}

// NewCriteria builds Criteria, treating blank strings as absent.
func NewCriteria(title, author string, year *int) Criteria {
	var c Criteria
	if t := strings.TrimSpace(title); t != "" {
		c.Title = &t
	}
	if a := strings.TrimSpace(author); a != "" {
		c.Author = &a
	}
	c.Year = year
	return c
}

// Empty reports whether no criterion is set.
func (c Criteria) Empty() bool {
	return c.Title == nil && c.Author == nil && c.Year == nil
}

// Expressions returns one predicate per present criterion, to be ANDed together.
func (c Criteria) Expressions() []exp.Expression {
	var exprs []exp.Expression
	if c.Title != nil {
		exprs = append(exprs, goqu.C(colTitle).ILike(containsPattern(*c.Title)))
	}
	if c.Author != nil {
		exprs = append(exprs, goqu.C(colAuthor).ILike(containsPattern(*c.Author)))
	}
	if c.Year != nil {
		exprs = append(exprs, goqu.C(colYear).Eq(*c.Year))
	}
	return exprs
}

// Match evaluates the same conjunction as Expressions against an in-memory book.
func (c Criteria) Match(b Book) bool {
	if c.Title != nil && !containsFold(b.Title, *c.Title) {
		return false
	}
	if c.Author != nil && !containsFold(b.Author, *c.Author) {
		return false
	}
	if c.Year != nil && (b.Year == nil || *b.Year != *c.Year) {
		return false
	}
	return true
}

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
