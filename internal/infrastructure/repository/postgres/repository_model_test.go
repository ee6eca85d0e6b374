package postgres

import (
	"testing"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/prize"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

func TestDecodeWindows(t *testing.T) {
	t.Run("decodes jsonb windows", func(t *testing.T) {
		raw := []byte(`[{"start_round_number":1,"end_round_number":3,"max_uses_in_window":1},{"start_round_number":4,"end_round_number":6,"max_uses_in_window":0}]`)
		got, err := decodeWindows(raw)
		if err != nil {
			t.Fatalf("decodeWindows error: %v", err)
		}
		if len(got) != 2 || got[0].EndRoundNumber != 3 || got[1].MaxUsesInWindow != 0 {
			t.Fatalf("unexpected windows: %+v", got)
		}
	})

	t.Run("empty column means no windows", func(t *testing.T) {
		got, err := decodeWindows(nil)
		if err != nil || got == nil || len(got) != 0 {
			t.Fatalf("expected empty windows, got %+v err=%v", got, err)
		}
		got, err = decodeWindows([]byte("null"))
		if err != nil || got == nil || len(got) != 0 {
			t.Fatalf("expected empty windows for null, got %+v err=%v", got, err)
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		if _, err := decodeWindows([]byte(`{"start_round_number":`)); err == nil {
			t.Fatalf("expected error for malformed windows")
		}
	})
}

func TestEncodeWindows_NilEncodesEmptyArray(t *testing.T) {
	got, err := encodeWindows(nil)
	if err != nil {
		t.Fatalf("encodeWindows error: %v", err)
	}
	if string(got) != "[]" {
		t.Fatalf("expected [], got %s", got)
	}

	encoded, err := encodeWindows([]boost.Window{{StartRoundNumber: 2, EndRoundNumber: 2, MaxUsesInWindow: 1}})
	if err != nil {
		t.Fatalf("encodeWindows error: %v", err)
	}
	decoded, err := decodeWindows(encoded)
	if err != nil || len(decoded) != 1 || !decoded[0].Contains(2) {
		t.Fatalf("unexpected decoded windows: %+v err=%v", decoded, err)
	}
}

func TestPeriodConditions(t *testing.T) {
	tests := []struct {
		name      string
		period    prize.Period
		wantQuery string
		wantArgs  int
	}{
		{
			name:      "round period scopes by round number",
			period:    prize.RoundPeriod(3),
			wantQuery: "DELETE FROM winnings WHERE league_public_id = $1 AND prize_type = $2 AND round_number = $3",
			wantArgs:  3,
		},
		{
			name:      "monthly period scopes by year and month",
			period:    prize.MonthPeriod(2026, 4),
			wantQuery: "DELETE FROM winnings WHERE league_public_id = $1 AND prize_type = $2 AND year = $3 AND month = $4",
			wantArgs:  4,
		},
		{
			name:      "season period covers the whole type",
			period:    prize.SeasonPeriod(prize.TypeOverall),
			wantQuery: "DELETE FROM winnings WHERE league_public_id = $1 AND prize_type = $2",
			wantArgs:  2,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			query, args, err := qb.DeleteFrom("winnings").Where(periodConditions("l1", tc.period)...).ToSQL()
			if err != nil {
				t.Fatalf("build delete query: %v", err)
			}
			if query != tc.wantQuery {
				t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", tc.wantQuery, query)
			}
			if len(args) != tc.wantArgs || args[1] != string(tc.period.Type) {
				t.Fatalf("unexpected args: %+v", args)
			}
		})
	}
}
