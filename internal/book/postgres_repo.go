package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tableBooks = "books"

var bookColumns = []any{goqu.C(colID), goqu.C(colTitle), goqu.C(colAuthor), goqu.C(colYear)}

// PostgresRepo is the Repository backed by a pgx connection pool. Every call
// runs on its own pooled connection, released before the call returns.
type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
	dialect goqu.DialectWrapper
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout, dialect: goqu.Dialect("postgres")}
}

func (r *PostgresRepo) withSession(ctx context.Context, fn func(ctx context.Context, conn *pgxpool.Conn) error) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	conn, err := r.db.Acquire(timeoutCtx)
	if err != nil {
		return fmt.Errorf("%w: acquire connection: %w", ErrStorage, err)
	}
	defer conn.Release()

	return fn(timeoutCtx, conn)
}

func (r *PostgresRepo) Insert(ctx context.Context, req CreateRequest) (Book, error) {
	query, args, err := r.dialect.Insert(tableBooks).
		Rows(goqu.Record{colTitle: req.Title, colAuthor: req.Author, colYear: nullableInt(req.Year)}).
		Returning(bookColumns...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return Book{}, fmt.Errorf("%w: build insert: %w", ErrStorage, err)
	}

	var b Book
	err = r.withSession(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		b, err = scanBook(conn.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		return Book{}, storageErr("insert book", err)
	}
	return b, nil
}

func (r *PostgresRepo) List(ctx context.Context, page Page) ([]Book, error) {
	if page.Limit == 0 {
		return []Book{}, nil
	}

	query, args, err := r.dialect.From(tableBooks).
		Select(bookColumns...).
		Order(goqu.C(colID).Asc()).
		Offset(uint(page.Offset)).
		Limit(uint(page.Limit)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("%w: build list: %w", ErrStorage, err)
	}
	return r.queryBooks(ctx, "list books", query, args)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	query, args, err := r.dialect.From(tableBooks).
		Select(bookColumns...).
		Where(goqu.C(colID).Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return Book{}, fmt.Errorf("%w: build get: %w", ErrStorage, err)
	}

	var b Book
	err = r.withSession(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		b, err = scanBook(conn.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		return Book{}, storageErr("get book", err)
	}
	return b, nil
}

// Update applies only the present fields. An empty update performs no write
// but still reports ErrNotFound for unknown ids.
func (r *PostgresRepo) Update(ctx context.Context, id int64, upd Update) (Book, error) {
	if upd.Empty() {
		return r.GetByID(ctx, id)
	}

	query, args, err := r.dialect.Update(tableBooks).
		Set(goqu.Record(upd.Fields())).
		Where(goqu.C(colID).Eq(id)).
		Returning(bookColumns...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return Book{}, fmt.Errorf("%w: build update: %w", ErrStorage, err)
	}

	var b Book
	err = r.withSession(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		b, err = scanBook(conn.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		return Book{}, storageErr("update book", err)
	}
	return b, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	query, args, err := r.dialect.Delete(tableBooks).
		Where(goqu.C(colID).Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("%w: build delete: %w", ErrStorage, err)
	}

	return r.withSession(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, query, args...)
		if err != nil {
			return storageErr("delete book", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *PostgresRepo) Search(ctx context.Context, c Criteria) ([]Book, error) {
	query, args, err := r.searchSQL(c)
	if err != nil {
		return nil, fmt.Errorf("%w: build search: %w", ErrStorage, err)
	}
	return r.queryBooks(ctx, "search books", query, args)
}

// searchSQL ANDs the present criteria; with none, every row matches.
func (r *PostgresRepo) searchSQL(c Criteria) (string, []any, error) {
	ds := r.dialect.From(tableBooks).
		Select(bookColumns...).
		Order(goqu.C(colID).Asc())
	if exprs := c.Expressions(); len(exprs) > 0 {
		ds = ds.Where(exprs...)
	}
	return ds.Prepared(true).ToSQL()
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.withSession(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		if err := conn.Ping(ctx); err != nil {
			return fmt.Errorf("%w: ping: %w", ErrStorage, err)
		}
		return nil
	})
}

func (r *PostgresRepo) queryBooks(ctx context.Context, op, query string, args []any) ([]Book, error) {
	out := make([]Book, 0)
	err := r.withSession(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			b, err := scanBook(rows)
			if err != nil {
				return err
			}
			out = append(out, b)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

// scanBook maps one row in bookColumns order onto a Book.
func scanBook(row pgx.Row) (Book, error) {
	var (
		b    Book
		year *int32
	)
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &year); err != nil {
		return Book{}, err
	}
	if year != nil {
		y := int(*year)
		b.Year = &y
	}
	return b, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func storageErr(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrStorage):
		return err
	default:
		return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
	}
}
