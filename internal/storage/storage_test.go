package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportetl/internal/schema"
	"reportetl/internal/table"
)

type stubRepo struct{ Repository }

func TestRegistry(t *testing.T) {
	Register("stub", func(ctx context.Context, cfg Config) (Repository, error) {
		return stubRepo{}, nil
	})

	r, err := New(context.Background(), Config{Kind: "stub"})
	require.NoError(t, err)
	assert.NotNil(t, r)

	assert.Contains(t, Kinds(), "stub")

	_, err = New(context.Background(), Config{Kind: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestDialectRender(t *testing.T) {
	d := Dialect{
		QuoteIdent: func(s string) string { return "[" + s + "]" },
		TypeFor: func(k schema.Kind) string {
			switch k {
			case schema.KindInt, schema.KindKey:
				return "BIGINT"
			case schema.KindFloat:
				return "FLOAT"
			case schema.KindDate:
				return "DATETIME2"
			default:
				return "NVARCHAR(MAX)"
			}
		},
	}
	cols := []schema.ColumnDef{
		{Name: "program_id", Kind: schema.KindKey},
		{Name: "program_name", Kind: schema.KindText},
		{Name: "avg_team_score", Kind: schema.KindFloat},
	}

	assert.Equal(t,
		"CREATE TABLE [Program_Summary_Report] ([program_id] BIGINT, [program_name] NVARCHAR(MAX), [avg_team_score] FLOAT)",
		d.RenderCreate("Program_Summary_Report", cols))

	assert.Equal(t,
		"INSERT INTO [Program_Summary_Report] ([program_id], [program_name], [avg_team_score]) VALUES (@p1, @p2, @p3)",
		d.RenderInsert("Program_Summary_Report", cols, func(i int) string { return fmt.Sprintf("@p%d", i+1) }))
}

func TestRowValues(t *testing.T) {
	r := table.Record{"a": int64(1), "b": "x"}
	assert.Equal(t, []any{int64(1), "x", nil}, RowValues(r, []string{"a", "b", "missing"}))
}

func TestInsertBatches(t *testing.T) {
	rows := make([][]any, 10)
	for i := range rows {
		rows[i] = []any{i}
	}

	/*
		7 rows per batch over 10 rows means two flushes: 7 then 3. The copy
		function records the batch sizes so the split is observable.
	*/
	var sizes []int
	total, err := InsertBatches(context.Background(), rows, 7, func(_ context.Context, batch [][]any) (int64, error) {
		sizes = append(sizes, len(batch))
		return int64(len(batch)), nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 10, total)
	assert.Equal(t, []int{7, 3}, sizes)
}

func TestInsertBatches_StopsOnError(t *testing.T) {
	rows := make([][]any, 6)
	for i := range rows {
		rows[i] = []any{i}
	}

	boom := errors.New("boom")
	calls := 0
	total, err := InsertBatches(context.Background(), rows, 2, func(_ context.Context, batch [][]any) (int64, error) {
		calls++
		if calls == 2 {
			return 0, boom
		}
		return int64(len(batch)), nil
	})
	require.ErrorIs(t, err, boom)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, 2, calls)
}

func TestInsertBatches_Validation(t *testing.T) {
	_, err := InsertBatches(context.Background(), nil, 0, func(context.Context, [][]any) (int64, error) { return 0, nil })
	require.Error(t, err)

	_, err = InsertBatches(context.Background(), nil, 1, nil)
	require.Error(t, err)
}

func TestInsertBatches_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := [][]any{{1}, {2}}
	_, err := InsertBatches(ctx, rows, 1, func(context.Context, [][]any) (int64, error) { return 1, nil })
	require.ErrorIs(t, err, context.Canceled)
}
