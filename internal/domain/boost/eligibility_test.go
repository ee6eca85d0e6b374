package boost

import "testing"

func baseInput() EvaluationInput {
	return EvaluationInput{
		IsEnabled:             true,
		TotalUsesPerSeason:    3,
		RoundNumber:           5,
		IsMemberOfLeague:      true,
		IsRoundInLeagueSeason: true,
	}
}

func TestEvaluate_AllowsWithoutWindows(t *testing.T) {
	t.Parallel()

	in := baseInput()
	in.SeasonUsesSoFar = 1

	got := Evaluate(in)
	if !got.CanUse {
		t.Fatalf("expected boost to be allowed, got %+v", got)
	}
	if got.RemainingSeasonUses != 2 || got.RemainingWindowUses != 2 {
		t.Fatalf("unexpected remaining uses: season=%d window=%d", got.RemainingSeasonUses, got.RemainingWindowUses)
	}
}

func TestEvaluate_AllowsInsideWindow(t *testing.T) {
	t.Parallel()

	in := baseInput()
	in.Windows = []Window{
		{StartRoundNumber: 1, EndRoundNumber: 4, MaxUsesInWindow: 1},
		{StartRoundNumber: 5, EndRoundNumber: 10, MaxUsesInWindow: 2},
	}
	in.WindowUsesSoFar = 1

	got := Evaluate(in)
	if !got.CanUse {
		t.Fatalf("expected boost to be allowed, got %+v", got)
	}
	if got.RemainingSeasonUses != 3 || got.RemainingWindowUses != 1 {
		t.Fatalf("unexpected remaining uses: season=%d window=%d", got.RemainingSeasonUses, got.RemainingWindowUses)
	}
}

func TestEvaluate_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*EvaluationInput)
		want   Reason
	}{
		{
			name: "round outside season wins over everything",
			mutate: func(in *EvaluationInput) {
				in.IsRoundInLeagueSeason = false
				in.IsMemberOfLeague = false
				in.IsEnabled = false
			},
			want: ReasonRoundNotInSeason,
		},
		{
			name:   "not a member",
			mutate: func(in *EvaluationInput) { in.IsMemberOfLeague = false },
			want:   ReasonNotMember,
		},
		{
			name:   "disabled",
			mutate: func(in *EvaluationInput) { in.IsEnabled = false },
			want:   ReasonNotEnabled,
		},
		{
			name:   "zero season uses",
			mutate: func(in *EvaluationInput) { in.TotalUsesPerSeason = 0 },
			want:   ReasonNotEnabled,
		},
		{
			name: "already used beats season limit",
			mutate: func(in *EvaluationInput) {
				in.HasUsedThisRound = true
				in.SeasonUsesSoFar = 3
			},
			want: ReasonAlreadyUsedThisRound,
		},
		{
			name:   "season limit",
			mutate: func(in *EvaluationInput) { in.SeasonUsesSoFar = 3 },
			want:   ReasonSeasonLimitReached,
		},
		{
			name: "round in no window",
			mutate: func(in *EvaluationInput) {
				in.Windows = []Window{{StartRoundNumber: 1, EndRoundNumber: 4, MaxUsesInWindow: 1}}
			},
			want: ReasonNotAvailableRound,
		},
		{
			name: "window disabled",
			mutate: func(in *EvaluationInput) {
				in.Windows = []Window{{StartRoundNumber: 1, EndRoundNumber: 10, MaxUsesInWindow: 0}}
			},
			want: ReasonWindowDisabled,
		},
		{
			name: "window limit",
			mutate: func(in *EvaluationInput) {
				in.Windows = []Window{{StartRoundNumber: 1, EndRoundNumber: 10, MaxUsesInWindow: 1}}
				in.WindowUsesSoFar = 1
			},
			want: ReasonWindowLimitReached,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in := baseInput()
			tc.mutate(&in)
			got := Evaluate(in)
			if got.CanUse {
				t.Fatalf("expected rejection %s, got allowed", tc.want)
			}
			if got.Reason != tc.want {
				t.Fatalf("unexpected reason: got=%s want=%s", got.Reason, tc.want)
			}
			if got.Message == "" {
				t.Fatalf("rejection must carry a message")
			}
			if got.AlreadyUsedThisRound != (tc.want == ReasonAlreadyUsedThisRound) {
				t.Fatalf("unexpected AlreadyUsedThisRound flag: %t", got.AlreadyUsedThisRound)
			}
		})
	}
}

func TestCodeApply(t *testing.T) {
	t.Parallel()

	if got := CodeDoubleUp.Apply(3); got != 6 {
		t.Fatalf("double up: got=%d want=6", got)
	}
	if got := Code("TripleCaptain").Apply(3); got != 3 {
		t.Fatalf("unknown code must be a no-op: got=%d", got)
	}
	if Code("TripleCaptain").IsKnown() {
		t.Fatalf("unexpected known code")
	}
}
