package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/league"
	"github.com/riskibarqy/prediction-league/internal/domain/prize"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	leaguemock "github.com/riskibarqy/prediction-league/internal/mocks/domain/league"
	prizemock "github.com/riskibarqy/prediction-league/internal/mocks/domain/prize"
	roundmock "github.com/riskibarqy/prediction-league/internal/mocks/domain/round"
	"github.com/stretchr/testify/mock"
)

func springSeason() round.Season {
	return round.Season{
		ID:        testSeasonID,
		StartDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.May, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestSettlementReportService_Report_MonthlyFill(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	roundRepo := roundmock.NewRepository(t)
	prizeRepo := prizemock.NewRepository(t)

	lg := league.League{
		ID:               testLeagueID,
		Name:             "Office",
		SeasonID:         testSeasonID,
		EntryCost:        1000,
		EntryDeadlineUTC: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	year, april := 2026, 4
	leagueRepo.On("GetByID", mock.Anything, testLeagueID).Return(lg, true, nil).Once()
	leagueRepo.On("ListMembers", mock.Anything, testLeagueID).Return([]league.Member{
		{LeagueID: testLeagueID, UserID: "u1", DisplayName: "Ana", Status: league.MemberStatusApproved},
		{LeagueID: testLeagueID, UserID: "u2", DisplayName: "Budi", Status: league.MemberStatusApproved},
		{LeagueID: testLeagueID, UserID: "u3", DisplayName: "Citra", Status: league.MemberStatusPending},
	}, nil).Once()
	roundRepo.On("GetSeason", mock.Anything, testSeasonID).Return(springSeason(), true, nil).Once()
	roundRepo.On("ListRoundsBySeason", mock.Anything, testSeasonID).Return([]round.Round{}, nil).Once()
	prizeRepo.On("ListSettings", mock.Anything, testLeagueID).Return([]prize.Setting{
		{ID: "p-month", LeagueID: testLeagueID, Type: prize.TypeMonthly, Rank: 1, Amount: 50},
	}, nil).Once()
	prizeRepo.On("ListWinnings", mock.Anything, testLeagueID).Return([]prize.Winning{
		{ID: "w1", LeagueID: testLeagueID, UserID: "u2", SettingID: "p-month", Type: prize.TypeMonthly, Amount: 35, Year: &year, Month: &april},
	}, nil).Once()

	service := NewSettlementReportService(leagueRepo, roundRepo, prizeRepo)
	service.now = func() time.Time { return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC) }

	got, err := service.Report(ctx, testLeagueID)
	if err != nil {
		t.Fatalf("Report error: %v", err)
	}
	if got.TotalPrizePot != 2000 || got.EntryCount != 2 {
		t.Fatalf("pot must equal approved entries times cost: %+v", got)
	}
	if len(got.RoundPrizes) != 0 {
		t.Fatalf("round lines need a round setting, got %+v", got.RoundPrizes)
	}
	if len(got.MonthlyPrizes) != 3 {
		t.Fatalf("expected march, april and may lines, got %+v", got.MonthlyPrizes)
	}

	march, apr, may := got.MonthlyPrizes[0], got.MonthlyPrizes[1], got.MonthlyPrizes[2]
	if march.Month != 3 || march.Amount != 50 || march.Awarded || len(march.Winners) != 0 {
		t.Fatalf("unexpected march line: %+v", march)
	}
	if apr.Month != 4 || apr.Amount != 35 || !apr.Awarded || apr.Winners[0].DisplayName != "Budi" {
		t.Fatalf("april must show the paid amount and winner: %+v", apr)
	}
	if may.Month != 5 || may.Amount != 50 || may.Awarded {
		t.Fatalf("unexpected may line: %+v", may)
	}
	if got.TotalPaid != 35 || got.TotalRemaining != 1965 || got.ProjectedPayout != 150 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if got.Members[0].UserID != "u2" || got.Members[0].Monthly != 35 || got.Members[1].Total != 0 {
		t.Fatalf("unexpected member totals: %+v", got.Members)
	}
}

func TestSettlementReportService_Report_BeforeEntryDeadline(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	roundRepo := roundmock.NewRepository(t)
	prizeRepo := prizemock.NewRepository(t)

	lg := league.League{
		ID:               testLeagueID,
		SeasonID:         testSeasonID,
		EntryCost:        1500,
		EntryDeadlineUTC: time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
	}
	leagueRepo.On("GetByID", mock.Anything, testLeagueID).Return(lg, true, nil).Once()
	leagueRepo.On("ListMembers", mock.Anything, testLeagueID).Return(approvedMembers(testLeagueID, "u1", "u2", "u3"), nil).Once()
	roundRepo.On("GetSeason", mock.Anything, testSeasonID).Return(springSeason(), true, nil).Once()
	roundRepo.On("ListRoundsBySeason", mock.Anything, testSeasonID).Return([]round.Round{}, nil).Once()
	prizeRepo.On("ListSettings", mock.Anything, testLeagueID).Return([]prize.Setting{
		{ID: "p-overall", LeagueID: testLeagueID, Type: prize.TypeOverall, Rank: 1, Amount: 4500},
	}, nil).Once()
	prizeRepo.On("ListWinnings", mock.Anything, testLeagueID).Return([]prize.Winning{}, nil).Once()

	service := NewSettlementReportService(leagueRepo, roundRepo, prizeRepo)
	service.now = func() time.Time { return time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC) }

	got, err := service.Report(ctx, testLeagueID)
	if err != nil {
		t.Fatalf("Report error: %v", err)
	}
	if got.WinningsCalculated {
		t.Fatalf("winnings must not be calculated before the entry deadline")
	}
	if got.EntryCount != 3 || got.EntryCost != 1500 || got.TotalPrizePot != 4500 {
		t.Fatalf("unexpected pot header: %+v", got)
	}
	if got.SeasonPrizes != nil || got.Members != nil {
		t.Fatalf("no breakdown expected before the deadline: %+v", got)
	}
}

func TestSettlementReportService_Report_LeagueNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	leagueRepo.On("GetByID", mock.Anything, "missing").Return(league.League{}, false, nil).Once()

	service := NewSettlementReportService(leagueRepo, roundmock.NewRepository(t), prizemock.NewRepository(t))
	_, err := service.Report(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
