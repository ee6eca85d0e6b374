package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches unique violation code", func(t *testing.T) {
		err := fmt.Errorf("insert boost usage: %w", &pq.Error{Code: "23505"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for wrapped unique violation")
		}
	})

	t.Run("ignores other pq codes", func(t *testing.T) {
		if isUniqueViolation(&pq.Error{Code: "23503"}) {
			t.Fatalf("expected false for foreign key violation")
		}
	})

	t.Run("ignores plain errors", func(t *testing.T) {
		if isUniqueViolation(fakeErr("duplicate key value")) {
			t.Fatalf("expected false for non pq error")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get round: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("connection refused")) {
		t.Fatalf("expected unrelated error to be found")
	}
}

func TestNullConversions(t *testing.T) {
	if got := nullInt64ToIntPtr(sql.NullInt64{}); got != nil {
		t.Fatalf("expected nil for null int, got %d", *got)
	}
	got := nullInt64ToIntPtr(sql.NullInt64{Int64: 4, Valid: true})
	if got == nil || *got != 4 {
		t.Fatalf("expected 4, got %v", got)
	}
	if intPtrToNullInt64(nil).Valid {
		t.Fatalf("expected invalid null int for nil pointer")
	}

	if timeToNullTime(time.Time{}).Valid {
		t.Fatalf("expected zero time to be null")
	}
	local := time.Date(2026, time.March, 7, 21, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	if got := nullTimeToTime(timeToNullTime(local)); !got.Equal(local) || got.Location() != time.UTC {
		t.Fatalf("expected utc round trip, got %v", got)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

type recordingExecer struct {
	queries []string
	args    [][]any
	failAt  int
}

func (e *recordingExecer) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	e.queries = append(e.queries, query)
	e.args = append(e.args, args)
	if e.failAt > 0 && len(e.queries) == e.failAt {
		return nil, fakeErr("connection reset")
	}
	return nil, nil
}

type batchRow struct {
	UserID string `db:"user_id"`
	Points int    `db:"points"`
}

func TestInsertBatches_ChunksRows(t *testing.T) {
	models := make([]any, 0, insertBatchSize*2+1)
	for i := 0; i < cap(models); i++ {
		models = append(models, batchRow{UserID: fmt.Sprintf("u%d", i), Points: i})
	}

	exec := &recordingExecer{}
	if err := insertBatches(context.Background(), exec, "league_member_stats", models, "ON CONFLICT DO NOTHING"); err != nil {
		t.Fatalf("insert batches: %v", err)
	}
	if len(exec.queries) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(exec.queries))
	}
	if len(exec.args[0]) != insertBatchSize*2 || len(exec.args[2]) != 2 {
		t.Fatalf("unexpected arg counts: %d, %d", len(exec.args[0]), len(exec.args[2]))
	}
	if !strings.HasSuffix(exec.queries[2], "VALUES ($1, $2) ON CONFLICT DO NOTHING") {
		t.Fatalf("unexpected last statement: %s", exec.queries[2])
	}
}

func TestInsertBatches_EmptyAndFailure(t *testing.T) {
	exec := &recordingExecer{}
	if err := insertBatches(context.Background(), exec, "winnings", nil, ""); err != nil {
		t.Fatalf("insert empty batch: %v", err)
	}
	if len(exec.queries) != 0 {
		t.Fatalf("expected no statements for empty input, got %d", len(exec.queries))
	}

	exec = &recordingExecer{failAt: 1}
	err := insertBatches(context.Background(), exec, "winnings", []any{batchRow{UserID: "u1"}}, "")
	if err == nil || !strings.Contains(err.Error(), "insert winnings rows 0-1") {
		t.Fatalf("expected wrapped exec failure, got %v", err)
	}
}
