package manual_value

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/asutp/flowdesk/internal/test_utils"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	dbOnce      sync.Once
	dbErr       error
	pgContainer *postgres.PostgresContainer
	openDb      func(context.Context) (*pgxpool.Pool, error)
)

func TestMain(m *testing.M) {
	code := m.Run()
	if pgContainer != nil {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			log.Errorf("failed to terminate container: %s", err)
		}
	}
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, Repository, *pgxpool.Pool) {
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()
	dbOnce.Do(func() {
		pgContainer, openDb, dbErr = test_utils.TestWithDB(ctx)
	})
	require.NoError(t, dbErr)

	pool, err := openDb(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		pool.Close()
		err := pgContainer.Restore(ctx)
		require.NoError(t, err)
	})
	return ctx, NewRepo(pool), pool
}

func insertRow(t *testing.T, ctx context.Context, pool *pgxpool.Pool, initialValue, expense, remainder string, changeTime string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(ctx,
		`INSERT INTO manual_value (initial_value, expense, remainder, change_time)
		 VALUES ($1::numeric, $2::numeric, $3::numeric, $4::timestamp) RETURNING row_id`,
		initialValue, expense, remainder, changeTime,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRepositoryImpl_GetByDate(t *testing.T) {
	t.Run("should return only rows of the requested day ordered by row_id", func(t *testing.T) {
		// given
		ctx, repo, pool := setupTestRepository(t)
		first := insertRow(t, ctx, pool, "100", "20", "80", "2025-02-01 00:00:00")
		insertRow(t, ctx, pool, "5", "1", "4", "2025-02-02 10:00:00")
		second := insertRow(t, ctx, pool, "7.5", "2.5", "5", "2025-02-01 23:59:59")

		// when
		rows, err := repo.GetByDate(ctx, day("2025-02-01"))

		// then
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, first, rows[0].RowId)
		assert.Equal(t, second, rows[1].RowId)
		assert.True(t, rows[0].InitialValue.Decimal.Equal(decimal.NewFromInt(100)))
		assert.True(t, rows[0].Expense.Decimal.Equal(decimal.NewFromInt(20)))
		assert.True(t, rows[0].Remainder.Decimal.Equal(decimal.NewFromInt(80)))
		assert.Equal(t, "2025-02-01 00:00:00", rows[0].ChangeTime.Format(ChangeTimeLayout))
		assert.Equal(t, "7.5", rows[1].InitialValue.Decimal.String())
	})

	t.Run("should return empty slice when no rows match", func(t *testing.T) {
		// given
		ctx, repo, pool := setupTestRepository(t)
		insertRow(t, ctx, pool, "1", "1", "0", "2025-02-02 00:00:00")

		// when
		rows, err := repo.GetByDate(ctx, day("2025-03-01"))

		// then
		require.NoError(t, err)
		require.NotNil(t, rows)
		require.Len(t, rows, 0)
	})

	t.Run("should return null values as invalid decimals", func(t *testing.T) {
		// given
		ctx, repo, pool := setupTestRepository(t)
		_, err := pool.Exec(ctx, `INSERT INTO manual_value (initial_value, change_time) VALUES (3, '2025-02-01 08:00:00')`)
		require.NoError(t, err)

		// when
		rows, err := repo.GetByDate(ctx, day("2025-02-01"))

		// then
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].InitialValue.Valid)
		assert.False(t, rows[0].Expense.Valid)
		assert.False(t, rows[0].Remainder.Valid)
	})
}

func TestRepositoryImpl_UpdateRow(t *testing.T) {
	t.Run("should replace all values and be visible on read", func(t *testing.T) {
		// given
		ctx, repo, pool := setupTestRepository(t)
		id := insertRow(t, ctx, pool, "100", "20", "80", "2025-02-01 00:00:00")
		changeTime := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		values := Values{
			InitialValue: decimal.NewNullDecimal(decimal.NewFromInt(150)),
			Expense:      decimal.NewNullDecimal(decimal.NewFromInt(20)),
			Remainder:    decimal.NewNullDecimal(decimal.NewFromInt(130)),
			ChangeTime:   &changeTime,
		}

		// when
		affected, err := repo.UpdateRow(ctx, id, values)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, affected)
		rows, err := repo.GetByDate(ctx, changeTime)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "150", rows[0].InitialValue.Decimal.String())
		assert.Equal(t, "130", rows[0].Remainder.Decimal.String())
	})

	t.Run("should be idempotent", func(t *testing.T) {
		// given
		ctx, repo, pool := setupTestRepository(t)
		id := insertRow(t, ctx, pool, "1", "1", "0", "2025-02-01 00:00:00")
		changeTime := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
		values := Values{
			InitialValue: decimal.NewNullDecimal(decimal.RequireFromString("10.25")),
			Expense:      decimal.NewNullDecimal(decimal.NewFromInt(3)),
			Remainder:    decimal.NewNullDecimal(decimal.RequireFromString("7.25")),
			ChangeTime:   &changeTime,
		}

		// when
		_, err := repo.UpdateRow(ctx, id, values)
		require.NoError(t, err)
		once, err := repo.GetByDate(ctx, changeTime)
		require.NoError(t, err)
		_, err = repo.UpdateRow(ctx, id, values)
		require.NoError(t, err)
		twice, err := repo.GetByDate(ctx, changeTime)

		// then
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	})

	t.Run("should move the row to another day", func(t *testing.T) {
		// given
		ctx, repo, pool := setupTestRepository(t)
		id := insertRow(t, ctx, pool, "1", "1", "0", "2025-02-01 00:00:00")
		moved := time.Date(2025, 2, 3, 9, 30, 0, 0, time.UTC)

		// when
		_, err := repo.UpdateRow(ctx, id, Values{ChangeTime: &moved})

		// then
		require.NoError(t, err)
		before, err := repo.GetByDate(ctx, day("2025-02-01"))
		require.NoError(t, err)
		assert.Len(t, before, 0)
		after, err := repo.GetByDate(ctx, day("2025-02-03"))
		require.NoError(t, err)
		require.Len(t, after, 1)
		assert.False(t, after[0].InitialValue.Valid)
	})

	t.Run("should report zero affected rows for unknown id", func(t *testing.T) {
		// given
		ctx, repo, _ := setupTestRepository(t)

		// when
		affected, err := repo.UpdateRow(ctx, 9999, Values{})

		// then
		require.NoError(t, err)
		assert.Equal(t, 0, affected)
	})
}
