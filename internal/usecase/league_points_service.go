package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/league"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
)

// LeaguePointsService translates round outcome counts into each league's own points.
type LeaguePointsService struct {
	leagueRepo league.Repository
	resultRepo result.Repository
	now        func() time.Time
}

func NewLeaguePointsService(leagueRepo league.Repository, resultRepo result.Repository) *LeaguePointsService {
	return &LeaguePointsService{
		leagueRepo: leagueRepo,
		resultRepo: resultRepo,
		now:        time.Now,
	}
}

// TranslateRound writes one LeagueRoundResult per approved member holding a RoundResult.
// Every row starts unboosted; boosts are applied afterwards by BoostService.
func (s *LeaguePointsService) TranslateRound(
	ctx context.Context,
	lg league.League,
	roundID string,
	roundResults []result.RoundResult,
) ([]result.LeagueRoundResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaguePointsService.TranslateRound")
	defer span.End()

	members, err := s.leagueRepo.ListMembers(ctx, lg.ID)
	if err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}

	rows := translatePoints(lg, roundID, approvedMemberSet(members), roundResults, s.now().UTC())
	if err := s.resultRepo.ReplaceLeagueRoundResults(ctx, lg.ID, roundID, rows); err != nil {
		return nil, fmt.Errorf("replace league round results: %w", err)
	}
	return rows, nil
}

func translatePoints(
	lg league.League,
	roundID string,
	approved map[string]league.Member,
	roundResults []result.RoundResult,
	now time.Time,
) []result.LeagueRoundResult {
	rows := make([]result.LeagueRoundResult, 0, len(roundResults))
	for _, rr := range roundResults {
		if _, ok := approved[rr.UserID]; !ok {
			continue
		}
		base := result.BasePoints(rr, lg.PointsForExactScore, lg.PointsForCorrectResult)
		rows = append(rows, result.LeagueRoundResult{
			LeagueID:        lg.ID,
			RoundID:         roundID,
			UserID:          rr.UserID,
			BasePoints:      base,
			BoostedPoints:   base,
			ExactScoreCount: rr.ExactScoreCount,
			CalculatedAt:    now,
		})
	}
	return rows
}

func approvedMemberSet(members []league.Member) map[string]league.Member {
	out := make(map[string]league.Member, len(members))
	for _, m := range members {
		if m.IsApproved() {
			out[m.UserID] = m
		}
	}
	return out
}
