package domain

// PerformanceEntry is one answered question as sent to the analyzer.
type PerformanceEntry struct {
	Question  string `json:"question"`
	Category  string `json:"category"`
	IsCorrect bool   `json:"isCorrect"`
	TimeTaken int    `json:"timeTaken"`
}

// AIAnalysisReport is the mentor feedback for a finished session.
type AIAnalysisReport struct {
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	Patterns            []string `json:"patterns"`
	TimeManagement      string   `json:"timeManagement"`
	ActionPlan          []string `json:"actionPlan"`
	MotivationalMessage string   `json:"motivationalMessage"`
}

// Complete reports whether every text field of the report is filled.
func (r *AIAnalysisReport) Complete() bool {
	return r != nil && r.TimeManagement != "" && r.MotivationalMessage != "" && len(r.ActionPlan) > 0
}

// GenerationRequest asks the generator for new questions on a topic.
type GenerationRequest struct {
	Topic      string
	Count      int
	Difficulty Difficulty
}

const DefaultGenerationCount = 5
