package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/league"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/prize"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

const (
	SeasonIDSpring2026 = "season-2026-spring"
	LeagueIDOffice     = "league-office-2026"
)

// Seed is a small demo season used when STORAGE_DRIVER=memory.
type Seed struct {
	Seasons     []round.Season
	Rounds      []round.Round
	Matches     []round.Match
	Predictions []prediction.Prediction
	Leagues     []league.League
	Members     []league.Member
	BoostRules  []boost.Rule
	Prizes      []prize.Setting
}

func DemoSeed() Seed {
	seed := Seed{
		Seasons: []round.Season{
			{
				ID:        SeasonIDSpring2026,
				Name:      "Spring 2026",
				StartDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, time.May, 31, 0, 0, 0, 0, time.UTC),
			},
		},
		Leagues: []league.League{
			{
				ID:                     LeagueIDOffice,
				Name:                   "Office League",
				SeasonID:               SeasonIDSpring2026,
				PointsForExactScore:    3,
				PointsForCorrectResult: 1,
				EntryCost:              2000,
				EntryDeadlineUTC:       time.Date(2026, time.March, 6, 18, 0, 0, 0, time.UTC),
			},
		},
		BoostRules: []boost.Rule{
			{
				LeagueID:           LeagueIDOffice,
				Code:               boost.CodeDoubleUp,
				IsEnabled:          true,
				TotalUsesPerSeason: 2,
				Windows: []boost.Window{
					{StartRoundNumber: 1, EndRoundNumber: 3, MaxUsesInWindow: 1},
					{StartRoundNumber: 4, EndRoundNumber: 6, MaxUsesInWindow: 1},
				},
			},
		},
		Prizes: []prize.Setting{
			{ID: "prize-round-1", LeagueID: LeagueIDOffice, Type: prize.TypeRound, Rank: 1, Amount: 500},
			{ID: "prize-monthly-1", LeagueID: LeagueIDOffice, Type: prize.TypeMonthly, Rank: 1, Amount: 1500},
			{ID: "prize-overall-1", LeagueID: LeagueIDOffice, Type: prize.TypeOverall, Rank: 1, Amount: 4000},
			{ID: "prize-overall-2", LeagueID: LeagueIDOffice, Type: prize.TypeOverall, Rank: 2, Amount: 2000},
			{ID: "prize-exact-1", LeagueID: LeagueIDOffice, Type: prize.TypeMostExactScores, Rank: 1, Amount: 1000},
		},
	}

	users := []string{"alice", "bruno", "chen", "dewi"}
	for _, userID := range users {
		seed.Members = append(seed.Members, league.Member{
			LeagueID:    LeagueIDOffice,
			UserID:      userID,
			DisplayName: userID,
			Status:      league.MemberStatusApproved,
			JoinedAt:    time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC),
		})
	}

	teams := [][2]string{{"Lions", "Tigers"}, {"Hawks", "Wolves"}}
	deadline := time.Date(2026, time.March, 7, 14, 0, 0, 0, time.UTC)
	for n := 1; n <= 6; n++ {
		roundID := fmt.Sprintf("round-%02d", n)
		roundDeadline := deadline.AddDate(0, 0, 14*(n-1))
		seed.Rounds = append(seed.Rounds, round.Round{
			ID:          roundID,
			SeasonID:    SeasonIDSpring2026,
			Number:      n,
			Status:      round.StatusScheduled,
			DeadlineUTC: roundDeadline,
		})
		for idx, pair := range teams {
			matchID := fmt.Sprintf("%s-match-%d", roundID, idx+1)
			seed.Matches = append(seed.Matches, round.Match{
				ID:        matchID,
				RoundID:   roundID,
				HomeTeam:  pair[0],
				AwayTeam:  pair[1],
				KickoffAt: roundDeadline.Add(time.Duration(idx+1) * time.Hour),
				Status:    round.StatusScheduled,
			})
			for u, userID := range users {
				seed.Predictions = append(seed.Predictions, prediction.Prediction{
					ID:            fmt.Sprintf("%s-%s", matchID, userID),
					MatchID:       matchID,
					UserID:        userID,
					PredictedHome: (u + n) % 3,
					PredictedAway: (u + idx) % 2,
					Outcome:       prediction.OutcomePending,
				})
			}
		}
	}

	return seed
}
