package repository

import (
	"gyandeep/internal/domain"
	"gyandeep/internal/repository/models"
)

func toDomainQuestion(m *models.Question) *domain.Question {
	q := &domain.Question{
		ID:            m.ID,
		Category:      m.Category,
		Type:          m.QuestionType.String,
		Question:      m.Question,
		CorrectAnswer: m.CorrectAnswer,
		Explanation:   m.Explanation.String,
		Hint:          m.Hint.String,
		Difficulty:    domain.ParseDifficulty(m.Difficulty),
		TimeLimit:     m.TimeLimit,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	copy(q.Options[:], m.Options)
	return q
}

func toDomainCategory(m *models.Category) *domain.Category {
	return &domain.Category{
		ID:           m.ID,
		Name:         m.Name,
		Icon:         m.Icon.String,
		Enabled:      m.Enabled != 0,
		MaxQuestions: m.MaxQuestions,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toDomainUser(m *models.User) *domain.UserProfile {
	badges := []string(m.Badges)
	if badges == nil {
		badges = []string{}
	}
	prefs := m.Preferences.V
	if prefs == (domain.QuizSettings{}) {
		prefs = domain.DefaultQuizSettings()
	}
	return &domain.UserProfile{
		ID:             m.ID,
		Name:           m.Name,
		Email:          m.Email,
		ExamPreference: m.ExamPreference.String,
		TotalQuizzes:   m.TotalQuizzes,
		Accuracy:       m.Accuracy,
		Rank:           m.RankPosition,
		Streak:         m.Streak,
		MaxStreak:      m.MaxStreak,
		Badges:         badges,
		IsAdmin:        m.IsAdmin != 0,
		TimeSpent:      m.TimeSpent,
		Preferences:    prefs,
		LastActive:     m.LastActive,
		CreatedAt:      m.CreatedAt,
	}
}

func toDomainResult(m *models.QuizResult) *domain.QuizResult {
	answers := m.Answers.V
	if answers == nil {
		answers = []domain.UserAnswer{}
	}
	return &domain.QuizResult{
		ID:             m.ID,
		SessionID:      m.SessionID.String,
		UserID:         m.UserID.String,
		QuizID:         m.QuizID,
		Category:       m.Category,
		Topic:          m.Topic.String,
		Score:          m.Score,
		TotalQuestions: m.TotalQuestions,
		CorrectCount:   m.CorrectCount,
		WrongCount:     m.WrongCount,
		SkippedCount:   m.SkippedCount,
		TimeSpent:      m.TimeSpent,
		Date:           m.TakenAt,
		Answers:        answers,
		Settings:       m.Settings.V,
		QuestionIDs:    []string(m.QuestionIDs),
		AutoSubmitted:  m.AutoSubmitted != 0,
	}
}
