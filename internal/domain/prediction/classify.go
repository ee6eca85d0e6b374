package prediction

// Classify compares a predicted score with the actual score of a match.
// A match without a result (resulted=false) or with a missing side stays pending.
func Classify(predictedHome, predictedAway int, resulted bool, actualHome, actualAway *int) Outcome {
	if !resulted || actualHome == nil || actualAway == nil {
		return OutcomePending
	}

	if predictedHome == *actualHome && predictedAway == *actualAway {
		return OutcomeExactScore
	}
	if sign(predictedHome-predictedAway) == sign(*actualHome-*actualAway) {
		return OutcomeCorrectResult
	}
	return OutcomeIncorrect
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
