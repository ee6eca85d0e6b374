package boost

type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonRoundNotInSeason     Reason = "ROUND_NOT_IN_LEAGUE_SEASON"
	ReasonNotMember            Reason = "NOT_LEAGUE_MEMBER"
	ReasonNotEnabled           Reason = "NOT_ENABLED"
	ReasonAlreadyUsedThisRound Reason = "ALREADY_USED_THIS_ROUND"
	ReasonSeasonLimitReached   Reason = "SEASON_LIMIT_REACHED"
	ReasonNotAvailableRound    Reason = "NOT_AVAILABLE_THIS_ROUND"
	ReasonWindowDisabled       Reason = "WINDOW_DISABLED"
	ReasonWindowLimitReached   Reason = "WINDOW_LIMIT_REACHED"
	ReasonRoundLocked          Reason = "ROUND_LOCKED"
)

var reasonMessages = map[Reason]string{
	ReasonRoundNotInSeason:     "round not in league season",
	ReasonNotMember:            "you are not a member of this league",
	ReasonNotEnabled:           "boost is not enabled for this league",
	ReasonAlreadyUsedThisRound: "a boost has already been used this round",
	ReasonSeasonLimitReached:   "season limit reached",
	ReasonNotAvailableRound:    "boost is not available this round",
	ReasonWindowDisabled:       "boost cannot be used in this window",
	ReasonWindowLimitReached:   "window limit reached",
	ReasonRoundLocked:          "boost selection is closed for this round",
}

func (r Reason) Message() string {
	return reasonMessages[r]
}

// EvaluationInput gathers every fact the eligibility check needs.
type EvaluationInput struct {
	IsEnabled             bool
	TotalUsesPerSeason    int
	SeasonUsesSoFar       int
	WindowUsesSoFar       int
	HasUsedThisRound      bool
	RoundNumber           int
	Windows               []Window
	IsMemberOfLeague      bool
	IsRoundInLeagueSeason bool
}

// Eligibility is the result of an evaluation; a rejection is not an error.
type Eligibility struct {
	CanUse               bool
	Reason               Reason
	Message              string
	AlreadyUsedThisRound bool
	RemainingSeasonUses  int
	RemainingWindowUses  int
}

func reject(reason Reason) Eligibility {
	return Eligibility{
		Reason:               reason,
		Message:              reason.Message(),
		AlreadyUsedThisRound: reason == ReasonAlreadyUsedThisRound,
	}
}

// Reject builds a rejection for checks evaluated outside Evaluate.
func Reject(reason Reason) Eligibility {
	return reject(reason)
}

// Evaluate runs the checks in order; the first failing one wins.
func Evaluate(in EvaluationInput) Eligibility {
	if !in.IsRoundInLeagueSeason {
		return reject(ReasonRoundNotInSeason)
	}
	if !in.IsMemberOfLeague {
		return reject(ReasonNotMember)
	}
	if !in.IsEnabled || in.TotalUsesPerSeason <= 0 {
		return reject(ReasonNotEnabled)
	}
	if in.HasUsedThisRound {
		return reject(ReasonAlreadyUsedThisRound)
	}
	if in.SeasonUsesSoFar >= in.TotalUsesPerSeason {
		return reject(ReasonSeasonLimitReached)
	}

	remainingSeason := in.TotalUsesPerSeason - in.SeasonUsesSoFar
	remainingWindow := remainingSeason
	if len(in.Windows) > 0 {
		window, ok := Rule{Windows: in.Windows}.WindowFor(in.RoundNumber)
		if !ok {
			return reject(ReasonNotAvailableRound)
		}
		if window.MaxUsesInWindow <= 0 {
			return reject(ReasonWindowDisabled)
		}
		if in.WindowUsesSoFar >= window.MaxUsesInWindow {
			return reject(ReasonWindowLimitReached)
		}
		remainingWindow = window.MaxUsesInWindow - in.WindowUsesSoFar
	}

	return Eligibility{
		CanUse:              true,
		RemainingSeasonUses: remainingSeason,
		RemainingWindowUses: remainingWindow,
	}
}
