package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gyandeep/internal/domain"
	"gyandeep/internal/util"
)

// CSVHeader is the column layout shared by import, export and the template.
var CSVHeader = []string{
	"question", "option1", "option2", "option3", "option4", "correctAnswerIndex",
	"category", "difficulty", "explanation", "hint", "type", "timeLimit",
}

var csvTemplateRow = []string{
	"Who is the PM of Nepal?", "A", "B", "C", "D", "0",
	"gk", "Easy", "Explanation...", "Hint...", "Current Affairs", "45",
}

const minCSVFields = 6

// ParseQuestionsCSV reads questions in CSVHeader layout. Rows that cannot
// form a valid question are counted in skipped instead of failing the import.
func ParseQuestionsCSV(r io.Reader) (questions []*domain.Question, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, domain.NewInvalidInputError(fmt.Sprintf("malformed csv: %v", err))
		}
		if isBlankRecord(record) {
			continue
		}
		if first {
			first = false
			if strings.Contains(strings.ToLower(strings.Join(record, ",")), "question") {
				continue
			}
		}

		q, ok := questionFromRecord(record)
		if !ok {
			skipped++
			continue
		}
		questions = append(questions, q)
	}
	return questions, skipped, nil
}

func questionFromRecord(record []string) (*domain.Question, bool) {
	if len(record) < minCSVFields {
		return nil, false
	}
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	correct, err := strconv.Atoi(field(5))
	if err != nil {
		correct = 0
	}
	category := strings.ToLower(field(6))
	if category == "" {
		category = domain.DefaultImportCategory
	}
	timeLimit := 0
	if raw := field(11); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			timeLimit = v
		}
	}

	q := &domain.Question{
		ID:            util.NewULID(),
		Category:      category,
		Type:          field(10),
		Question:      field(0),
		Options:       [domain.OptionCount]string{field(1), field(2), field(3), field(4)},
		CorrectAnswer: correct,
		Explanation:   field(8),
		Hint:          field(9),
		Difficulty:    domain.ParseDifficulty(field(7)),
		TimeLimit:     timeLimit,
	}
	if len(q.Validate()) > 0 {
		return nil, false
	}
	return q, true
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// WriteQuestionsCSV writes the header followed by one row per question.
func WriteQuestionsCSV(w io.Writer, questions []*domain.Question) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return err
	}
	for _, q := range questions {
		timeLimit := ""
		if q.TimeLimit > 0 {
			timeLimit = strconv.Itoa(q.TimeLimit)
		}
		row := []string{
			q.Question, q.Options[0], q.Options[1], q.Options[2], q.Options[3], strconv.Itoa(q.CorrectAnswer),
			q.Category, string(q.Difficulty), q.Explanation, q.Hint, q.Type, timeLimit,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCSVTemplate writes the header and one example row.
func WriteCSVTemplate(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return err
	}
	if err := writer.Write(csvTemplateRow); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}
