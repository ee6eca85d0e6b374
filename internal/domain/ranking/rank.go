package ranking

import "sort"

// Score is one entity's value in a ranking.
type Score struct {
	UserID string
	Value  int
}

// Group is a set of entities tied on the same value.
type Group struct {
	Rank    int
	Value   int
	UserIDs []string
}

// RankGroups groups equal values, orders groups by value descending and gives each group
// rank 1 + the number of entities in strictly higher groups (10,10,5 ranks as 1,1,3).
func RankGroups(scores []Score) []Group {
	if len(scores) == 0 {
		return []Group{}
	}

	byValue := make(map[int][]string)
	values := make([]int, 0)
	for _, score := range scores {
		if _, exists := byValue[score.Value]; !exists {
			values = append(values, score.Value)
		}
		byValue[score.Value] = append(byValue[score.Value], score.UserID)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	out := make([]Group, 0, len(values))
	higher := 0
	for _, value := range values {
		ids := byValue[value]
		sort.Strings(ids)
		out = append(out, Group{
			Rank:    higher + 1,
			Value:   value,
			UserIDs: ids,
		})
		higher += len(ids)
	}
	return out
}

// Ranks flattens RankGroups into a rank per user.
func Ranks(scores []Score) map[string]int {
	out := make(map[string]int, len(scores))
	for _, group := range RankGroups(scores) {
		for _, id := range group.UserIDs {
			out[id] = group.Rank
		}
	}
	return out
}

// TopGroup returns the entities tied at the maximum value, or nothing when that maximum is not positive.
func TopGroup(scores []Score) Group {
	groups := RankGroups(scores)
	if len(groups) == 0 || groups[0].Value <= 0 {
		return Group{}
	}
	return groups[0]
}
