package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/league"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

type BoostService struct {
	roundRepo  round.Repository
	leagueRepo league.Repository
	boostRepo  boost.Repository
	resultRepo result.Repository
	now        func() time.Time
}

// BoostRequest names the member, league round and boost code of a selection.
type BoostRequest struct {
	LeagueID string
	RoundID  string
	UserID   string
	Code     boost.Code
}

func NewBoostService(
	roundRepo round.Repository,
	leagueRepo league.Repository,
	boostRepo boost.Repository,
	resultRepo result.Repository,
) *BoostService {
	return &BoostService{
		roundRepo:  roundRepo,
		leagueRepo: leagueRepo,
		boostRepo:  boostRepo,
		resultRepo: resultRepo,
		now:        time.Now,
	}
}

// Eligibility evaluates whether the member may select the boost for the round.
func (s *BoostService) Eligibility(ctx context.Context, req BoostRequest) (boost.Eligibility, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoostService.Eligibility",
		attrLeagueID.String(req.LeagueID),
		attrRoundID.String(req.RoundID),
		attrUserID.String(req.UserID),
	)
	defer span.End()

	in, _, err := s.evaluationInput(ctx, req)
	if err != nil {
		return boost.Eligibility{}, err
	}
	return boost.Evaluate(in), nil
}

// UseBoost records the selection when the member is eligible and the round deadline
// has not passed. Rejections come back as a result, not an error.
func (s *BoostService) UseBoost(ctx context.Context, req BoostRequest) (boost.Eligibility, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoostService.UseBoost",
		attrLeagueID.String(req.LeagueID),
		attrRoundID.String(req.RoundID),
		attrUserID.String(req.UserID),
	)
	defer span.End()

	in, rd, err := s.evaluationInput(ctx, req)
	if err != nil {
		return boost.Eligibility{}, err
	}

	now := s.now().UTC()
	if !rd.DeadlineUTC.IsZero() && !now.Before(rd.DeadlineUTC) {
		return boost.Reject(boost.ReasonRoundLocked), nil
	}

	eligibility := boost.Evaluate(in)
	if !eligibility.CanUse {
		return eligibility, nil
	}

	err = s.boostRepo.CreateUsage(ctx, boost.Usage{
		LeagueID:    req.LeagueID,
		RoundID:     rd.ID,
		RoundNumber: rd.Number,
		UserID:      req.UserID,
		Code:        req.Code,
		UsedAt:      now,
	})
	if errors.Is(err, boost.ErrUsageExists) {
		return boost.Reject(boost.ReasonAlreadyUsedThisRound), nil
	}
	if err != nil {
		return boost.Eligibility{}, fmt.Errorf("create boost usage: %w", err)
	}

	eligibility.RemainingSeasonUses--
	eligibility.RemainingWindowUses--
	return eligibility, nil
}

func (s *BoostService) evaluationInput(ctx context.Context, req BoostRequest) (boost.EvaluationInput, round.Round, error) {
	req.LeagueID = strings.TrimSpace(req.LeagueID)
	req.RoundID = strings.TrimSpace(req.RoundID)
	req.UserID = strings.TrimSpace(req.UserID)
	if req.LeagueID == "" || req.RoundID == "" || req.UserID == "" || strings.TrimSpace(string(req.Code)) == "" {
		return boost.EvaluationInput{}, round.Round{}, fmt.Errorf("%w: league id, round id, user id and boost code are required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, req.LeagueID)
	if err != nil {
		return boost.EvaluationInput{}, round.Round{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return boost.EvaluationInput{}, round.Round{}, fmt.Errorf("%w: league=%s", ErrNotFound, req.LeagueID)
	}

	rd, exists, err := s.roundRepo.GetRound(ctx, req.RoundID)
	if err != nil {
		return boost.EvaluationInput{}, round.Round{}, fmt.Errorf("get round: %w", err)
	}
	if !exists {
		return boost.EvaluationInput{}, round.Round{}, fmt.Errorf("%w: round=%s", ErrNotFound, req.RoundID)
	}

	members, err := s.leagueRepo.ListMembers(ctx, lg.ID)
	if err != nil {
		return boost.EvaluationInput{}, round.Round{}, fmt.Errorf("list league members: %w", err)
	}
	_, isMember := approvedMemberSet(members)[req.UserID]

	rule, _, err := s.boostRepo.GetRule(ctx, lg.ID, req.Code)
	if err != nil {
		return boost.EvaluationInput{}, round.Round{}, fmt.Errorf("get boost rule: %w", err)
	}

	_, usedThisRound, err := s.boostRepo.GetUsage(ctx, lg.ID, rd.ID, req.UserID)
	if err != nil {
		return boost.EvaluationInput{}, round.Round{}, fmt.Errorf("get boost usage: %w", err)
	}

	usages, err := s.boostRepo.ListUsagesByUser(ctx, lg.ID, req.UserID)
	if err != nil {
		return boost.EvaluationInput{}, round.Round{}, fmt.Errorf("list boost usages by user: %w", err)
	}

	window, inWindow := rule.WindowFor(rd.Number)
	seasonUses, windowUses := 0, 0
	for _, u := range usages {
		if u.Code != req.Code {
			continue
		}
		seasonUses++
		if inWindow && window.Contains(u.RoundNumber) {
			windowUses++
		}
	}

	return boost.EvaluationInput{
		IsEnabled:             rule.IsEnabled,
		TotalUsesPerSeason:    rule.TotalUsesPerSeason,
		SeasonUsesSoFar:       seasonUses,
		WindowUsesSoFar:       windowUses,
		HasUsedThisRound:      usedThisRound,
		RoundNumber:           rd.Number,
		Windows:               rule.Windows,
		IsMemberOfLeague:      isMember,
		IsRoundInLeagueSeason: rd.SeasonID == lg.SeasonID,
	}, rd, nil
}

// ApplyRoundBoosts recomputes boosted points from base points and the recorded usage
// of every member, then persists the round rows. Members without usage stay unboosted.
func (s *BoostService) ApplyRoundBoosts(
	ctx context.Context,
	leagueID string,
	roundID string,
	rows []result.LeagueRoundResult,
) ([]result.LeagueRoundResult, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoostService.ApplyRoundBoosts")
	defer span.End()

	usages, err := s.boostRepo.ListUsagesByRound(ctx, leagueID, roundID)
	if err != nil {
		return nil, 0, fmt.Errorf("list boost usages by round: %w", err)
	}

	out, boosted := applyBoosts(rows, usageByUser(usages))
	if err := s.resultRepo.ReplaceLeagueRoundResults(ctx, leagueID, roundID, out); err != nil {
		return nil, 0, fmt.Errorf("replace league round results: %w", err)
	}
	return out, boosted, nil
}

func applyBoosts(rows []result.LeagueRoundResult, usages map[string]boost.Usage) ([]result.LeagueRoundResult, int) {
	out := make([]result.LeagueRoundResult, 0, len(rows))
	boosted := 0
	for _, row := range rows {
		row.BoostedPoints = row.BasePoints
		row.HasBoost = false
		row.AppliedBoostCode = ""
		if usage, ok := usages[row.UserID]; ok {
			row.BoostedPoints = usage.Code.Apply(row.BasePoints)
			row.HasBoost = true
			row.AppliedBoostCode = string(usage.Code)
			boosted++
		}
		out = append(out, row)
	}
	return out, boosted
}

func usageByUser(usages []boost.Usage) map[string]boost.Usage {
	out := make(map[string]boost.Usage, len(usages))
	for _, u := range usages {
		out[u.UserID] = u
	}
	return out
}
