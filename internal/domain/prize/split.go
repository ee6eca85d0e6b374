package prize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
)

// SplitPolicy decides how a prize is paid when winners tie.
type SplitPolicy string

const (
	// SplitPolicySplit pools the amounts of every rank a tied group occupies and divides them evenly.
	// Each share is paid against the setting it came from.
	SplitPolicySplit SplitPolicy = "split"
	// SplitPolicyFull pays each tied member the amount of the group's rank; ranks covered by the tie go unpaid.
	SplitPolicyFull SplitPolicy = "full"
)

func ParseSplitPolicy(value string) (SplitPolicy, error) {
	switch SplitPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", SplitPolicySplit:
		return SplitPolicySplit, nil
	case SplitPolicyFull:
		return SplitPolicyFull, nil
	default:
		return "", fmt.Errorf("unknown prize split policy %q", value)
	}
}

// Award is one member's share of a prize before it becomes a Winning.
type Award struct {
	UserID    string
	SettingID string
	Amount    int64
}

// Distribute pays rank groups against the settings of one category, keyed by rank.
// Groups with a non-positive value are never paid. Remainder minor units go to
// the first members of a group in user id order.
func Distribute(groups []ranking.Group, settingsByRank map[int]Setting, policy SplitPolicy) []Award {
	out := make([]Award, 0)
	for _, group := range groups {
		if group.Value <= 0 || len(group.UserIDs) == 0 {
			continue
		}

		ids := append([]string(nil), group.UserIDs...)
		sort.Strings(ids)

		switch policy {
		case SplitPolicyFull:
			setting, ok := settingsByRank[group.Rank]
			if !ok || setting.Amount <= 0 {
				continue
			}
			for _, id := range ids {
				out = append(out, Award{UserID: id, SettingID: setting.ID, Amount: setting.Amount})
			}
		default:
			out = append(out, splitAwards(ids, group.Rank, settingsByRank)...)
		}
	}
	return out
}

// splitAwards pools the settings of ranks rank..rank+len(ids)-1 evenly over ids and
// records every share against the setting it came from. A setting's remainder units
// continue where the previous setting's stopped, so each member's total matches an
// even split of the pooled amount.
func splitAwards(ids []string, rank int, settingsByRank map[int]Setting) []Award {
	n := len(ids)
	out := make([]Award, 0, n)
	offset := 0
	for r := rank; r < rank+n; r++ {
		setting, ok := settingsByRank[r]
		if !ok || setting.Amount <= 0 {
			continue
		}
		shares := evenShares(setting.Amount, n)
		for i, id := range ids {
			share := shares[(i-offset+n)%n]
			if share == 0 {
				continue
			}
			out = append(out, Award{UserID: id, SettingID: setting.ID, Amount: share})
		}
		offset = (offset + int(setting.Amount%int64(n))) % n
	}
	return out
}

func evenShares(pool int64, n int) []int64 {
	shares := make([]int64, n)
	base := pool / int64(n)
	remainder := pool - base*int64(n)
	for i := range shares {
		shares[i] = base
		if int64(i) < remainder {
			shares[i]++
		}
	}
	return shares
}
