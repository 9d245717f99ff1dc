package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gyandeep/internal/adapter/llm"
	"gyandeep/internal/domain"
	"gyandeep/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const analysisPrompt = `You are an expert Nepal Exam preparation mentor. Analyze this student's quiz data and provide a structured JSON analysis: %s

Respond with ONLY a JSON object in the following format:
{
    "strengths": ["areas where the student performed well"],
    "weaknesses": ["specific topics or skills needing improvement"],
    "patterns": ["observations on behaviour, e.g. rushing through hard questions"],
    "timeManagement": "advice on pacing",
    "actionPlan": ["3-5 concrete steps for the next study session"],
    "motivationalMessage": "a supportive closing in both English and Nepali"
}`

// llmPerformanceAnalyzer implements domain.PerformanceAnalyzer
type llmPerformanceAnalyzer struct {
	model   llms.Model
	timeout time.Duration
}

func NewLLMPerformanceAnalyzer(model llms.Model, timeout time.Duration) domain.PerformanceAnalyzer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &llmPerformanceAnalyzer{model: model, timeout: timeout}
}

func (a *llmPerformanceAnalyzer) AnalyzePerformance(ctx context.Context, entries []domain.PerformanceEntry) (*domain.AIAnalysisReport, error) {
	l := logger.Get()
	if len(entries) == 0 {
		return nil, domain.NewInvalidInputError("no answers to analyze")
	}

	summary, err := json.Marshal(entries)
	if err != nil {
		return nil, domain.NewInternalError("failed to encode performance summary", err)
	}

	l.Info("Analyzing performance with LLM", zap.Int("entries", len(entries)))

	raw, err := a.callLLM(ctx, fmt.Sprintf(analysisPrompt, summary))
	if err != nil {
		l.Error("callLLM failed during performance analysis", zap.Error(err))
		return nil, domain.NewLLMServiceError(fmt.Errorf("callLLM failed: %w", err))
	}

	l.Debug("Raw LLM response received", zap.String("raw_response", raw))

	obj, err := llm.ExtractJSONObject(raw)
	if err != nil {
		l.Error("Could not find a JSON object in LLM response", zap.String("raw_response", raw))
		return nil, domain.NewLLMServiceError(err)
	}

	var report domain.AIAnalysisReport
	if err := json.Unmarshal([]byte(obj), &report); err != nil {
		l.Error("Failed to unmarshal analysis JSON", zap.Error(err), zap.String("json", obj))
		return nil, domain.NewLLMServiceError(fmt.Errorf("failed to unmarshal JSON from LLM: %w", err))
	}
	if !report.Complete() {
		return nil, domain.NewLLMServiceError(fmt.Errorf("LLM analysis is missing required fields"))
	}
	return &report, nil
}

func (a *llmPerformanceAnalyzer) callLLM(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	response, err := llms.GenerateFromSinglePrompt(ctx, a.model, prompt, llms.WithJSONMode(), llms.WithTemperature(0.3))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("LLM request timed out: %w", err)
		}
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	return response, nil
}
