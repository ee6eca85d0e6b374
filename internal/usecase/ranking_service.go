package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/league"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

// RankingService maintains the snapshot, live and stable rank views of league members.
// Every write replaces the full member set of a league.
type RankingService struct {
	leagueRepo     league.Repository
	roundRepo      round.Repository
	predictionRepo prediction.Repository
	resultRepo     result.Repository
	boostRepo      boost.Repository
	rankingRepo    ranking.Repository
	now            func() time.Time
}

func NewRankingService(
	leagueRepo league.Repository,
	roundRepo round.Repository,
	predictionRepo prediction.Repository,
	resultRepo result.Repository,
	boostRepo boost.Repository,
	rankingRepo ranking.Repository,
) *RankingService {
	return &RankingService{
		leagueRepo:     leagueRepo,
		roundRepo:      roundRepo,
		predictionRepo: predictionRepo,
		resultRepo:     resultRepo,
		boostRepo:      boostRepo,
		rankingRepo:    rankingRepo,
		now:            time.Now,
	}
}

// ListStats returns the stored stats of a league ordered by overall rank.
func (s *RankingService) ListStats(ctx context.Context, leagueID string) ([]ranking.MemberStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.ListStats", attrLeagueID.String(leagueID))
	defer span.End()

	_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	items, err := s.rankingRepo.ListMemberStats(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list member stats: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].OverallRank != items[j].OverallRank {
			return items[i].OverallRank < items[j].OverallRank
		}
		return items[i].UserID < items[j].UserID
	})
	return items, nil
}

// CaptureSnapshot freezes each member's overall and monthly rank as it stood before
// the round. Members already snapshotted for this round keep their values.
func (s *RankingService) CaptureSnapshot(
	ctx context.Context,
	lg league.League,
	current round.Round,
	seasonRounds []round.Round,
) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.CaptureSnapshot")
	defer span.End()

	members, err := s.leagueRepo.ListMembers(ctx, lg.ID)
	if err != nil {
		return 0, fmt.Errorf("list league members: %w", err)
	}
	approved := sortedMemberIDs(approvedMemberSet(members))

	existing, err := s.existingStats(ctx, lg.ID)
	if err != nil {
		return 0, err
	}

	pending := 0
	for _, userID := range approved {
		if existing[userID].SnapshotRoundID != current.ID {
			pending++
		}
	}
	if pending == 0 {
		return 0, nil
	}

	before := roundsBefore(seasonRounds, current.Number)
	rows, err := s.resultRepo.ListLeagueRoundResults(ctx, lg.ID, roundIDs(before))
	if err != nil {
		return 0, fmt.Errorf("list league round results: %w", err)
	}

	overall := sumPoints(rows, roundIDSet(before), nil)
	month := sumPoints(rows, roundIDSet(samePeriod(before, current)), nil)
	overallRanks := ranking.Ranks(scoresFor(approved, overall))
	monthRanks := ranking.Ranks(scoresFor(approved, month))

	now := s.now().UTC()
	out := make([]ranking.MemberStats, 0, len(approved))
	for _, userID := range approved {
		item := statsFor(existing, lg.ID, userID)
		if item.SnapshotRoundID != current.ID {
			item.SnapshotOverallRank = overallRanks[userID]
			item.SnapshotMonthRank = monthRanks[userID]
			item.SnapshotRoundID = current.ID
			item.UpdatedAt = now
		}
		out = append(out, item)
	}

	if err := s.rankingRepo.ReplaceMemberStats(ctx, lg.ID, out); err != nil {
		return 0, fmt.Errorf("replace member stats: %w", err)
	}
	return pending, nil
}

// Recompute rebuilds overall, monthly, live round and stable round figures for every
// approved member. Live and stable figures belong to current; overall and monthly totals
// run up to the latest round holding results, so re-scoring an earlier round keeps the
// later rounds counted.
func (s *RankingService) Recompute(
	ctx context.Context,
	lg league.League,
	current round.Round,
	seasonRounds []round.Round,
) ([]ranking.MemberStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Recompute")
	defer span.End()

	members, err := s.leagueRepo.ListMembers(ctx, lg.ID)
	if err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}
	approved := sortedMemberIDs(approvedMemberSet(members))

	existing, err := s.existingStats(ctx, lg.ID)
	if err != nil {
		return nil, err
	}

	rows, err := s.resultRepo.ListLeagueRoundResults(ctx, lg.ID, roundIDs(seasonRounds))
	if err != nil {
		return nil, fmt.Errorf("list league round results: %w", err)
	}
	horizon := latestScoredRound(seasonRounds, rows, current)
	toDate := roundsUpTo(seasonRounds, horizon)

	usages, err := s.boostRepo.ListUsagesByRound(ctx, lg.ID, current.ID)
	if err != nil {
		return nil, fmt.Errorf("list boost usages by round: %w", err)
	}
	usageIndex := usageByUser(usages)

	live := make(map[string]int)
	for _, row := range rows {
		if row.RoundID == current.ID {
			live[row.UserID] = projectedPoints(row, usageIndex)
		}
	}

	stable, err := s.stableRoundPoints(ctx, lg, current.ID, usageIndex)
	if err != nil {
		return nil, err
	}

	overall := sumPoints(rows, roundIDSet(toDate), map[string]map[string]int{current.ID: live})
	month := sumPoints(rows, roundIDSet(samePeriod(toDate, horizon)), map[string]map[string]int{current.ID: live})

	overallRanks := ranking.Ranks(scoresFor(approved, overall))
	monthRanks := ranking.Ranks(scoresFor(approved, month))
	liveRanks := ranking.Ranks(scoresFor(approved, live))
	stableRanks := ranking.Ranks(scoresFor(approved, stable))

	now := s.now().UTC()
	out := make([]ranking.MemberStats, 0, len(approved))
	for _, userID := range approved {
		item := statsFor(existing, lg.ID, userID)
		item.OverallPoints = overall[userID]
		item.MonthPoints = month[userID]
		item.OverallRank = overallRanks[userID]
		item.MonthRank = monthRanks[userID]
		item.LiveRoundPoints = live[userID]
		item.LiveRoundRank = liveRanks[userID]
		item.StableRoundPoints = stable[userID]
		item.StableRoundRank = stableRanks[userID]
		item.UpdatedAt = now
		out = append(out, item)
	}

	if err := s.rankingRepo.ReplaceMemberStats(ctx, lg.ID, out); err != nil {
		return nil, fmt.Errorf("replace member stats: %w", err)
	}
	return out, nil
}

// stableRoundPoints scores only matches in a terminal state, with the member's boost applied.
func (s *RankingService) stableRoundPoints(
	ctx context.Context,
	lg league.League,
	roundID string,
	usages map[string]boost.Usage,
) (map[string]int, error) {
	matches, err := s.roundRepo.ListMatchesByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("list matches by round: %w", err)
	}

	terminal := make([]string, 0, len(matches))
	for _, m := range matches {
		if round.IsTerminalStatus(m.Status) {
			terminal = append(terminal, m.ID)
		}
	}
	out := make(map[string]int)
	if len(terminal) == 0 {
		return out, nil
	}

	predictions, err := s.predictionRepo.ListByMatches(ctx, terminal)
	if err != nil {
		return nil, fmt.Errorf("list predictions by matches: %w", err)
	}
	for _, p := range predictions {
		out[p.UserID] += result.OutcomePoints(p.Outcome, lg.PointsForExactScore, lg.PointsForCorrectResult)
	}
	for userID, points := range out {
		if usage, ok := usages[userID]; ok {
			out[userID] = usage.Code.Apply(points)
		}
	}
	return out, nil
}

func (s *RankingService) existingStats(ctx context.Context, leagueID string) (map[string]ranking.MemberStats, error) {
	items, err := s.rankingRepo.ListMemberStats(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list member stats: %w", err)
	}
	out := make(map[string]ranking.MemberStats, len(items))
	for _, item := range items {
		out[item.UserID] = item
	}
	return out, nil
}

func statsFor(existing map[string]ranking.MemberStats, leagueID, userID string) ranking.MemberStats {
	if item, ok := existing[userID]; ok {
		return item
	}
	return ranking.MemberStats{LeagueID: leagueID, UserID: userID}
}

// projectedPoints is the live value of a round row: settled boosted points, or base
// points with the recorded boost applied while the round is still running.
func projectedPoints(row result.LeagueRoundResult, usages map[string]boost.Usage) int {
	if row.HasBoost {
		return row.BoostedPoints
	}
	if usage, ok := usages[row.UserID]; ok {
		return usage.Code.Apply(row.BasePoints)
	}
	return row.BoostedPoints
}

// sumPoints totals boosted points per user over the given rounds. overrides replaces
// the stored value of a round for the listed users.
func sumPoints(rows []result.LeagueRoundResult, rounds map[string]struct{}, overrides map[string]map[string]int) map[string]int {
	out := make(map[string]int)
	for _, row := range rows {
		if _, ok := rounds[row.RoundID]; !ok {
			continue
		}
		points := row.BoostedPoints
		if byUser, ok := overrides[row.RoundID]; ok {
			if v, ok := byUser[row.UserID]; ok {
				points = v
			}
		}
		out[row.UserID] += points
	}
	return out
}

func scoresFor(userIDs []string, points map[string]int) []ranking.Score {
	out := make([]ranking.Score, 0, len(userIDs))
	for _, userID := range userIDs {
		out = append(out, ranking.Score{UserID: userID, Value: points[userID]})
	}
	return out
}

func sortedMemberIDs(members map[string]league.Member) []string {
	out := make([]string, 0, len(members))
	for userID := range members {
		out = append(out, userID)
	}
	sort.Strings(out)
	return out
}

func roundsBefore(rounds []round.Round, number int) []round.Round {
	out := make([]round.Round, 0, len(rounds))
	for _, r := range rounds {
		if r.Number < number {
			out = append(out, r)
		}
	}
	return out
}

// latestScoredRound returns the highest-numbered round with stored results, or current
// when no later round has any.
func latestScoredRound(rounds []round.Round, rows []result.LeagueRoundResult, current round.Round) round.Round {
	scored := make(map[string]struct{}, len(rounds))
	for _, row := range rows {
		scored[row.RoundID] = struct{}{}
	}
	horizon := current
	for _, r := range rounds {
		if _, ok := scored[r.ID]; ok && r.Number > horizon.Number {
			horizon = r
		}
	}
	return horizon
}

func roundsUpTo(rounds []round.Round, current round.Round) []round.Round {
	out := roundsBefore(rounds, current.Number)
	return append(out, current)
}

// samePeriod keeps rounds counting towards the same calendar month as current.
func samePeriod(rounds []round.Round, current round.Round) []round.Round {
	year, month := current.Period()
	out := make([]round.Round, 0, len(rounds))
	for _, r := range rounds {
		y, m := r.Period()
		if y == year && m == month {
			out = append(out, r)
		}
	}
	return out
}

func roundIDs(rounds []round.Round) []string {
	out := make([]string, 0, len(rounds))
	for _, r := range rounds {
		out = append(out, r.ID)
	}
	return out
}

func roundIDSet(rounds []round.Round) map[string]struct{} {
	out := make(map[string]struct{}, len(rounds))
	for _, r := range rounds {
		out[r.ID] = struct{}{}
	}
	return out
}
