package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/league"
	"github.com/riskibarqy/prediction-league/internal/domain/prize"
	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	"github.com/riskibarqy/prediction-league/internal/platform/id"
)

// PrizeService identifies winners per category and writes the Winning set of a period.
type PrizeService struct {
	leagueRepo league.Repository
	resultRepo result.Repository
	prizeRepo  prize.Repository
	ids        id.Generator
	policy     prize.SplitPolicy
	now        func() time.Time
}

func NewPrizeService(
	leagueRepo league.Repository,
	resultRepo result.Repository,
	prizeRepo prize.Repository,
	ids id.Generator,
	policy prize.SplitPolicy,
) *PrizeService {
	if policy == "" {
		policy = prize.SplitPolicySplit
	}
	return &PrizeService{
		leagueRepo: leagueRepo,
		resultRepo: resultRepo,
		prizeRepo:  prizeRepo,
		ids:        ids,
		policy:     policy,
		now:        time.Now,
	}
}

// RoundWinners returns the members tied at the round's highest boosted points.
// A round whose maximum is zero has no winner.
func (s *PrizeService) RoundWinners(ctx context.Context, leagueID, roundID string) (ranking.Group, error) {
	return s.PeriodWinners(ctx, leagueID, []string{roundID})
}

// PeriodWinners applies the round rule to boosted points summed over roundIDs.
func (s *PrizeService) PeriodWinners(ctx context.Context, leagueID string, roundIDs []string) (ranking.Group, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PrizeService.PeriodWinners")
	defer span.End()

	scores, err := s.memberScores(ctx, leagueID, roundIDs, boostedPointsOf)
	if err != nil {
		return ranking.Group{}, err
	}
	return ranking.TopGroup(scores), nil
}

// OverallRankings ranks every approved member by season-to-date boosted points.
func (s *PrizeService) OverallRankings(ctx context.Context, leagueID string, roundIDs []string) ([]ranking.Group, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PrizeService.OverallRankings")
	defer span.End()

	scores, err := s.memberScores(ctx, leagueID, roundIDs, boostedPointsOf)
	if err != nil {
		return nil, err
	}
	return ranking.RankGroups(scores), nil
}

// MostExactScoresWinners returns the members tied at the highest exact-score count.
func (s *PrizeService) MostExactScoresWinners(ctx context.Context, leagueID string, roundIDs []string) (ranking.Group, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PrizeService.MostExactScoresWinners")
	defer span.End()

	scores, err := s.memberScores(ctx, leagueID, roundIDs, exactScoresOf)
	if err != nil {
		return ranking.Group{}, err
	}
	return ranking.TopGroup(scores), nil
}

// SettleRound replaces the round prize winnings of one round.
func (s *PrizeService) SettleRound(ctx context.Context, lg league.League, rd round.Round) ([]prize.Winning, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PrizeService.SettleRound")
	defer span.End()

	group, err := s.RoundWinners(ctx, lg.ID, rd.ID)
	if err != nil {
		return nil, err
	}
	return s.settle(ctx, lg.ID, prize.RoundPeriod(rd.Number), []ranking.Group{group})
}

// SettleMonth replaces the monthly prize winnings for the rounds of one calendar month.
func (s *PrizeService) SettleMonth(ctx context.Context, lg league.League, year int, month time.Month, rounds []round.Round) ([]prize.Winning, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PrizeService.SettleMonth")
	defer span.End()

	group, err := s.PeriodWinners(ctx, lg.ID, roundIDs(rounds))
	if err != nil {
		return nil, err
	}
	return s.settle(ctx, lg.ID, prize.MonthPeriod(year, month), []ranking.Group{group})
}

// SettleSeason replaces the overall and most-exact-scores winnings.
func (s *PrizeService) SettleSeason(ctx context.Context, lg league.League, rounds []round.Round) ([]prize.Winning, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PrizeService.SettleSeason")
	defer span.End()

	ids := roundIDs(rounds)
	overall, err := s.OverallRankings(ctx, lg.ID, ids)
	if err != nil {
		return nil, err
	}
	overallWinnings, err := s.settle(ctx, lg.ID, prize.SeasonPeriod(prize.TypeOverall), overall)
	if err != nil {
		return nil, err
	}

	exact, err := s.MostExactScoresWinners(ctx, lg.ID, ids)
	if err != nil {
		return nil, err
	}
	exactWinnings, err := s.settle(ctx, lg.ID, prize.SeasonPeriod(prize.TypeMostExactScores), []ranking.Group{exact})
	if err != nil {
		return nil, err
	}

	return append(overallWinnings, exactWinnings...), nil
}

func (s *PrizeService) settle(ctx context.Context, leagueID string, period prize.Period, groups []ranking.Group) ([]prize.Winning, error) {
	settings, err := s.prizeRepo.ListSettings(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list prize settings: %w", err)
	}

	awards := prize.Distribute(groups, prize.SettingsOf(settings, period.Type), s.policy)
	now := s.now().UTC()
	rows := make([]prize.Winning, 0, len(awards))
	for _, award := range awards {
		winningID, err := s.ids.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate winning id: %w", err)
		}
		rows = append(rows, period.Stamp(prize.Winning{
			ID:        winningID,
			LeagueID:  leagueID,
			UserID:    award.UserID,
			SettingID: award.SettingID,
			Amount:    award.Amount,
			AwardedAt: now,
		}))
	}

	if err := s.prizeRepo.ReplaceWinnings(ctx, leagueID, period, rows); err != nil {
		return nil, fmt.Errorf("replace winnings period=%s: %w", period, err)
	}
	return rows, nil
}

func boostedPointsOf(row result.LeagueRoundResult) int { return row.BoostedPoints }

func exactScoresOf(row result.LeagueRoundResult) int { return row.ExactScoreCount }

// memberScores sums a value over roundIDs for every approved member; members without rows score zero.
func (s *PrizeService) memberScores(
	ctx context.Context,
	leagueID string,
	roundIDs []string,
	value func(result.LeagueRoundResult) int,
) ([]ranking.Score, error) {
	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}
	approved := sortedMemberIDs(approvedMemberSet(members))
	if len(approved) == 0 || len(roundIDs) == 0 {
		return []ranking.Score{}, nil
	}

	rows, err := s.resultRepo.ListLeagueRoundResults(ctx, leagueID, roundIDs)
	if err != nil {
		return nil, fmt.Errorf("list league round results: %w", err)
	}

	totals := make(map[string]int, len(approved))
	for _, row := range rows {
		totals[row.UserID] += value(row)
	}
	return scoresFor(approved, totals), nil
}
