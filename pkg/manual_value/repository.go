package manual_value

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// GetByDate returns rows whose change_time falls on the calendar date of day, ordered by row_id.
	GetByDate(ctx context.Context, day time.Time) ([]Row, error)
	// UpdateRow replaces all four value columns of the row and returns the number of rows affected.
	UpdateRow(ctx context.Context, id int64, values Values) (int, error)
}

// DB is the part of pgxpool.Pool used by the repository.
type DB interface {
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
}

type repositoryImpl struct {
	db DB
}

func NewRepo(db DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetByDate(ctx context.Context, day time.Time) ([]Row, error) {
	query := `SELECT row_id, initial_value, expense, remainder, change_time
			  FROM manual_value
			  WHERE change_time::date = $1::date
			  ORDER BY row_id ASC`
	rows, err := r.db.Query(ctx, query, day.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]Row, 0)
	for rows.Next() {
		var row Row
		var initialValue, expense, remainder *string
		if err := rows.Scan(
			&row.RowId,
			&initialValue,
			&expense,
			&remainder,
			&row.ChangeTime,
		); err != nil {
			return nil, err
		}
		if row.InitialValue, err = numericFromText(initialValue); err != nil {
			return nil, fmt.Errorf("could not parse initial_value of row %d: %w", row.RowId, err)
		}
		if row.Expense, err = numericFromText(expense); err != nil {
			return nil, fmt.Errorf("could not parse expense of row %d: %w", row.RowId, err)
		}
		if row.Remainder, err = numericFromText(remainder); err != nil {
			return nil, fmt.Errorf("could not parse remainder of row %d: %w", row.RowId, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *repositoryImpl) UpdateRow(ctx context.Context, id int64, values Values) (int, error) {
	query := `UPDATE manual_value
			  SET initial_value = $1::numeric, expense = $2::numeric, remainder = $3::numeric, change_time = $4
			  WHERE row_id = $5`
	result, err := r.db.Exec(ctx, query,
		numericToText(values.InitialValue),
		numericToText(values.Expense),
		numericToText(values.Remainder),
		values.ChangeTime,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("could not update row %d: %w", id, err)
	}
	affected := int(result.RowsAffected())
	log.Debugf("updated manual_value row %d, rows affected: %d", id, affected)
	return affected, nil
}

// numericFromText and numericToText move NUMERIC values through their text form,
// which keeps the exact scale stored in Postgres.
func numericFromText(s *string) (decimal.NullDecimal, error) {
	if s == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func numericToText(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}
