package domain

import "fmt"

type LeaderboardScope string

const (
	ScopeGlobal   LeaderboardScope = "global"
	ScopeMonthly  LeaderboardScope = "monthly"
	ScopeCategory LeaderboardScope = "category"
)

func ParseLeaderboardScope(s string) (LeaderboardScope, error) {
	switch LeaderboardScope(s) {
	case "", ScopeGlobal:
		return ScopeGlobal, nil
	case ScopeMonthly, ScopeCategory:
		return LeaderboardScope(s), nil
	}
	return "", NewInvalidInputError(fmt.Sprintf("unknown leaderboard scope: %s", s))
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Score    int64  `json:"score"`
	Accuracy int    `json:"accuracy"`
}

type Leaderboard struct {
	Scope    LeaderboardScope   `json:"scope"`
	Category string             `json:"category,omitempty"`
	Period   string             `json:"period,omitempty"`
	Entries  []LeaderboardEntry `json:"entries"`
}
