package seedmodels

import (
	"strings"

	"gyandeep/internal/domain"
	"gyandeep/internal/util"
)

// SeedQuestion is one bank entry of the JSON seed file. Entries without an
// id get a fresh one, so only entries with a fixed id reseed idempotently.
type SeedQuestion struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Hint          string   `json:"hint"`
	Difficulty    string   `json:"difficulty"`
	TimeLimit     int      `json:"time_limit"`
}

// SeedCategory groups seed questions under a category.
type SeedCategory struct {
	ID        string         `json:"category_id"`
	Name      string         `json:"category_name"`
	Icon      string         `json:"icon"`
	Questions []SeedQuestion `json:"questions"`
}

func (c SeedCategory) ToDomain() *domain.Category {
	return &domain.Category{
		ID:      strings.ToLower(strings.TrimSpace(c.ID)),
		Name:    c.Name,
		Icon:    c.Icon,
		Enabled: true,
	}
}

func (q SeedQuestion) ToDomain(categoryID string) *domain.Question {
	id := strings.TrimSpace(q.ID)
	if id == "" {
		id = util.NewULID()
	}
	out := &domain.Question{
		ID:            id,
		Category:      strings.ToLower(strings.TrimSpace(categoryID)),
		Type:          strings.TrimSpace(q.Type),
		Question:      strings.TrimSpace(q.Question),
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Hint:          q.Hint,
		Difficulty:    domain.ParseDifficulty(q.Difficulty),
		TimeLimit:     q.TimeLimit,
	}
	copy(out.Options[:], q.Options)
	return out
}
