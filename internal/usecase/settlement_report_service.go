package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/prediction-league/internal/domain/league"
	"github.com/riskibarqy/prediction-league/internal/domain/prize"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

type SettlementReport struct {
	LeagueID           string                `json:"league_id"`
	LeagueName         string                `json:"league_name"`
	EntryCount         int                   `json:"entry_count"`
	EntryCost          int64                 `json:"entry_cost"`
	TotalPrizePot      int64                 `json:"total_prize_pot"`
	WinningsCalculated bool                  `json:"winnings_calculated"`
	TotalPaid          int64                 `json:"total_paid"`
	TotalRemaining     int64                 `json:"total_remaining"`
	ProjectedPayout    int64                 `json:"projected_payout"`
	RoundPrizes        []ReportLine          `json:"round_prizes,omitempty"`
	MonthlyPrizes      []ReportLine          `json:"monthly_prizes,omitempty"`
	SeasonPrizes       []ReportLine          `json:"season_prizes,omitempty"`
	Members            []MemberWinningsTotal `json:"members,omitempty"`
}

// ReportLine is one prize slot. Amount is what was paid when Awarded, else the configured amount.
type ReportLine struct {
	Type        prize.Type     `json:"type"`
	RoundNumber int            `json:"round_number,omitempty"`
	Year        int            `json:"year,omitempty"`
	Month       int            `json:"month,omitempty"`
	Rank        int            `json:"rank,omitempty"`
	Amount      int64          `json:"amount"`
	Awarded     bool           `json:"awarded"`
	Winners     []ReportWinner `json:"winners"`
}

type ReportWinner struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Amount      int64  `json:"amount"`
}

type MemberWinningsTotal struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Round       int64  `json:"round"`
	Monthly     int64  `json:"monthly"`
	Other       int64  `json:"other"`
	Total       int64  `json:"total"`
}

// SettlementReportService renders pot usage from recorded winnings, independent of how they were produced.
type SettlementReportService struct {
	leagueRepo league.Repository
	roundRepo  round.Repository
	prizeRepo  prize.Repository
	now        func() time.Time
}

func NewSettlementReportService(leagueRepo league.Repository, roundRepo round.Repository, prizeRepo prize.Repository) *SettlementReportService {
	return &SettlementReportService{
		leagueRepo: leagueRepo,
		roundRepo:  roundRepo,
		prizeRepo:  prizeRepo,
		now:        time.Now,
	}
}

type reportFacts struct {
	season   round.Season
	rounds   []round.Round
	members  []league.Member
	settings []prize.Setting
	winnings []prize.Winning
}

func (s *SettlementReportService) Report(ctx context.Context, leagueID string) (SettlementReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementReportService.Report", attrLeagueID.String(leagueID))
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return SettlementReport{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return SettlementReport{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return SettlementReport{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	facts, err := s.loadFacts(ctx, lg)
	if err != nil {
		return SettlementReport{}, err
	}

	approved := make([]league.Member, 0, len(facts.members))
	for _, m := range facts.members {
		if m.IsApproved() {
			approved = append(approved, m)
		}
	}

	report := SettlementReport{
		LeagueID:      lg.ID,
		LeagueName:    lg.Name,
		EntryCount:    len(approved),
		EntryCost:     lg.EntryCost,
		TotalPrizePot: int64(len(approved)) * lg.EntryCost,
	}
	if !lg.EntryDeadlinePassed(s.now().UTC()) || len(facts.settings) == 0 {
		return report, nil
	}

	report.WinningsCalculated = true
	names := displayNames(approved)
	buildReport(&report, facts, names)
	report.Members = memberTotals(approved, facts.winnings)
	return report, nil
}

func (s *SettlementReportService) loadFacts(ctx context.Context, lg league.League) (reportFacts, error) {
	var facts reportFacts
	var seasonFound bool

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		season, exists, err := s.roundRepo.GetSeason(ctx, lg.SeasonID)
		if err != nil {
			return fmt.Errorf("get season: %w", err)
		}
		facts.season, seasonFound = season, exists
		return nil
	})
	p.Go(func(ctx context.Context) error {
		rounds, err := s.roundRepo.ListRoundsBySeason(ctx, lg.SeasonID)
		if err != nil {
			return fmt.Errorf("list rounds by season: %w", err)
		}
		facts.rounds = rounds
		return nil
	})
	p.Go(func(ctx context.Context) error {
		members, err := s.leagueRepo.ListMembers(ctx, lg.ID)
		if err != nil {
			return fmt.Errorf("list league members: %w", err)
		}
		facts.members = members
		return nil
	})
	p.Go(func(ctx context.Context) error {
		settings, err := s.prizeRepo.ListSettings(ctx, lg.ID)
		if err != nil {
			return fmt.Errorf("list prize settings: %w", err)
		}
		facts.settings = settings
		return nil
	})
	p.Go(func(ctx context.Context) error {
		winnings, err := s.prizeRepo.ListWinnings(ctx, lg.ID)
		if err != nil {
			return fmt.Errorf("list winnings: %w", err)
		}
		facts.winnings = winnings
		return nil
	})
	if err := p.Wait(); err != nil {
		return reportFacts{}, err
	}
	if !seasonFound {
		return reportFacts{}, fmt.Errorf("%w: season=%s", ErrNotFound, lg.SeasonID)
	}
	return facts, nil
}

func buildReport(report *SettlementReport, facts reportFacts, names map[string]string) {
	var roundAmount, monthlyAmount, seasonAmount int64
	endOfSeason := make([]prize.Setting, 0)
	for _, setting := range facts.settings {
		switch setting.Type {
		case prize.TypeRound:
			roundAmount += setting.Amount
		case prize.TypeMonthly:
			monthlyAmount += setting.Amount
		default:
			endOfSeason = append(endOfSeason, setting)
			seasonAmount += setting.Amount
		}
	}

	for _, w := range facts.winnings {
		report.TotalPaid += w.Amount
	}

	roundCount := 0
	for _, r := range facts.rounds {
		if r.Number > roundCount {
			roundCount = r.Number
		}
	}
	if roundAmount > 0 {
		report.RoundPrizes = roundLines(roundCount, roundAmount, facts.winnings, names)
	}

	months := seasonMonths(facts.season)
	if monthlyAmount > 0 {
		report.MonthlyPrizes = monthlyLines(months, monthlyAmount, facts.winnings, names)
	}

	report.SeasonPrizes = seasonLines(endOfSeason, facts.winnings, names)
	report.ProjectedPayout = roundAmount*int64(roundCount) + monthlyAmount*int64(len(months)) + seasonAmount
	report.TotalRemaining = report.TotalPrizePot - report.TotalPaid
}

func roundLines(roundCount int, amount int64, winnings []prize.Winning, names map[string]string) []ReportLine {
	out := make([]ReportLine, 0, roundCount)
	for n := 1; n <= roundCount; n++ {
		line := ReportLine{Type: prize.TypeRound, RoundNumber: n}
		fillLine(&line, amount, winnings, prize.RoundPeriod(n).Contains, names)
		out = append(out, line)
	}
	return out
}

type yearMonth struct {
	year  int
	month time.Month
}

// seasonMonths walks calendar months from season start to season end inclusive.
func seasonMonths(season round.Season) []yearMonth {
	if season.StartDate.IsZero() || season.EndDate.IsZero() {
		return nil
	}
	start := season.StartDate.UTC()
	end := season.EndDate.UTC()
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)

	out := make([]yearMonth, 0, 12)
	for !cursor.After(last) {
		out = append(out, yearMonth{year: cursor.Year(), month: cursor.Month()})
		cursor = cursor.AddDate(0, 1, 0)
	}
	return out
}

func monthlyLines(months []yearMonth, amount int64, winnings []prize.Winning, names map[string]string) []ReportLine {
	out := make([]ReportLine, 0, len(months))
	for _, ym := range months {
		line := ReportLine{Type: prize.TypeMonthly, Year: ym.year, Month: int(ym.month)}
		fillLine(&line, amount, winnings, prize.MonthPeriod(ym.year, ym.month).Contains, names)
		out = append(out, line)
	}
	return out
}

func seasonLines(settings []prize.Setting, winnings []prize.Winning, names map[string]string) []ReportLine {
	sort.SliceStable(settings, func(i, j int) bool {
		if settings[i].Type.Order() != settings[j].Type.Order() {
			return settings[i].Type.Order() < settings[j].Type.Order()
		}
		if settings[i].Amount != settings[j].Amount {
			return settings[i].Amount > settings[j].Amount
		}
		return settings[i].Rank < settings[j].Rank
	})

	out := make([]ReportLine, 0, len(settings))
	for _, setting := range settings {
		setting := setting
		line := ReportLine{Type: setting.Type, Rank: setting.Rank}
		fillLine(&line, setting.Amount, winnings, func(w prize.Winning) bool {
			return w.SettingID == setting.ID
		}, names)
		out = append(out, line)
	}
	return out
}

// fillLine shows the actual paid amount and winners when any winning matches, the configured amount otherwise.
// A member holding several matching winnings is listed once with their sum.
func fillLine(line *ReportLine, configured int64, winnings []prize.Winning, match func(prize.Winning) bool, names map[string]string) {
	line.Amount = configured
	line.Winners = []ReportWinner{}

	var paid int64
	seen := make(map[string]int)
	for _, w := range winnings {
		if !match(w) {
			continue
		}
		paid += w.Amount
		if idx, ok := seen[w.UserID]; ok {
			line.Winners[idx].Amount += w.Amount
			continue
		}
		seen[w.UserID] = len(line.Winners)
		line.Winners = append(line.Winners, ReportWinner{
			UserID:      w.UserID,
			DisplayName: nameOf(names, w.UserID),
			Amount:      w.Amount,
		})
	}
	if len(line.Winners) == 0 {
		return
	}

	sort.SliceStable(line.Winners, func(i, j int) bool {
		return line.Winners[i].UserID < line.Winners[j].UserID
	})
	line.Awarded = true
	line.Amount = paid
}

func memberTotals(members []league.Member, winnings []prize.Winning) []MemberWinningsTotal {
	byUser := make(map[string]*MemberWinningsTotal, len(members))
	out := make([]*MemberWinningsTotal, 0, len(members))
	for _, m := range members {
		row := &MemberWinningsTotal{UserID: m.UserID, DisplayName: nameOf(displayNames([]league.Member{m}), m.UserID)}
		byUser[m.UserID] = row
		out = append(out, row)
	}

	for _, w := range winnings {
		row, ok := byUser[w.UserID]
		if !ok {
			continue
		}
		switch w.Type {
		case prize.TypeRound:
			row.Round += w.Amount
		case prize.TypeMonthly:
			row.Monthly += w.Amount
		default:
			row.Other += w.Amount
		}
		row.Total += w.Amount
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].DisplayName < out[j].DisplayName
	})

	items := make([]MemberWinningsTotal, 0, len(out))
	for _, row := range out {
		items = append(items, *row)
	}
	return items
}

func displayNames(members []league.Member) map[string]string {
	out := make(map[string]string, len(members))
	for _, m := range members {
		out[m.UserID] = strings.TrimSpace(m.DisplayName)
	}
	return out
}

func nameOf(names map[string]string, userID string) string {
	if name := names[userID]; name != "" {
		return name
	}
	return userID
}
