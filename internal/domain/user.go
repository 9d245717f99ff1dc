package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultStudentName = "Student"
	AdminEmail         = "admin@gyandeep.com"
	AdminName          = "GyanDeep Admin"
)

// UserProfile holds the learner's identity and cumulative stats.
// TimeSpent is in minutes.
type UserProfile struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	ExamPreference string       `json:"examPreference"`
	TotalQuizzes   int          `json:"totalQuizzes"`
	Accuracy       int          `json:"accuracy"`
	Rank           int          `json:"rank"`
	Streak         int          `json:"streak"`
	MaxStreak      int          `json:"maxStreak"`
	Badges         []string     `json:"badges"`
	IsAdmin        bool         `json:"isAdmin"`
	TimeSpent      int          `json:"timeSpent"`
	Preferences    QuizSettings `json:"preferences"`
	LastActive     time.Time    `json:"lastActive"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// NewUserProfile builds a learner profile with the starter stats.
// Any email containing "admin" is granted admin rights.
func NewUserProfile(name, email, examPreference string, now time.Time) *UserProfile {
	if strings.TrimSpace(name) == "" {
		name = defaultStudentName
	}
	return &UserProfile{
		Name:           name,
		Email:          email,
		ExamPreference: examPreference,
		IsAdmin:        strings.Contains(strings.ToLower(email), "admin"),
		Rank:           1250,
		Streak:         3,
		MaxStreak:      12,
		Badges:         []string{"First Step"},
		Preferences:    DefaultQuizSettings(),
		LastActive:     now,
		CreatedAt:      now,
	}
}

// NewAdminProfile is the quick-login administrator.
func NewAdminProfile(now time.Time) *UserProfile {
	return &UserProfile{
		Name:           AdminName,
		Email:          AdminEmail,
		ExamPreference: "All Exams",
		IsAdmin:        true,
		Accuracy:       100,
		Rank:           1,
		Streak:         99,
		MaxStreak:      99,
		Badges:         []string{"System Master"},
		Preferences:    DefaultQuizSettings(),
		LastActive:     now,
		CreatedAt:      now,
	}
}

// RecordResult folds a finished session into the running stats.
func (u *UserProfile) RecordResult(r *QuizResult, now time.Time) {
	n := decimal.NewFromInt(int64(u.TotalQuizzes))
	sessionAccuracy := decimal.Zero
	if r.TotalQuestions > 0 {
		sessionAccuracy = decimal.NewFromInt(int64(r.CorrectCount)).
			Div(decimal.NewFromInt(int64(r.TotalQuestions))).
			Mul(decimal.NewFromInt(100))
	}
	total := decimal.NewFromInt(int64(u.Accuracy)).Mul(n).Add(sessionAccuracy)
	u.Accuracy = int(total.Div(n.Add(decimal.NewFromInt(1))).Round(0).IntPart())
	u.TotalQuizzes++
	u.TimeSpent += int(decimal.NewFromInt(int64(r.TimeSpent)).Div(decimal.NewFromInt(60)).Round(0).IntPart())
	u.LastActive = now
}
