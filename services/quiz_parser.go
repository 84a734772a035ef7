package services

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/vnkhanh/ai-learning-journal/models"
)

const (
	markerQuestion = "**Question"
	markerText     = "text:"
	markerOptions  = "options:"
	markerCorrect  = "correct:"

	minOptions = 4
)

// ParseQuiz nhận output của model (JSON theo schema hoặc text theo template) và
// trả về các câu hỏi hợp lệ. Không còn câu nào thì trả ErrNoQuestions.
func ParseQuiz(raw string) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	if clean := stripCodeFence(raw); looksLikeJSON(clean) {
		questions = parseQuizJSON(clean)
	}
	// text mở đầu bằng "[" hoặc "{" nhưng không phải JSON thì quét marker
	if len(questions) == 0 {
		questions = ParseQuizText(raw)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return questions, nil
}

// ParseQuizText quét từng dòng theo các marker **Question / Text: / Options: / Correct:
func ParseQuizText(raw string) []models.QuizQuestion {
	var out []models.QuizQuestion
	var current *models.QuizQuestion

	flush := func() {
		if current != nil && isCompleteQuestion(*current) {
			out = append(out, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, markerQuestion) {
			flush()
			current = &models.QuizQuestion{ID: uuid.NewString()}
			continue
		}
		if current == nil {
			continue
		}

		field := normalizeFieldLine(trimmed)
		lower := strings.ToLower(field)
		switch {
		case strings.HasPrefix(lower, markerText):
			current.Text = fieldValue(field, len(markerText))
		case strings.HasPrefix(lower, markerOptions):
			current.Options = buildOptions(strings.Split(fieldValue(field, len(markerOptions)), ","))
		case strings.HasPrefix(lower, markerCorrect):
			current.Correct = fieldValue(field, len(markerCorrect))
		}
	}
	flush()
	return out
}

type jsonQuestion struct {
	Text     string     `json:"text"`
	Question string     `json:"question"`
	Options  optionList `json:"options"`
	Correct  string     `json:"correct"`
}

// optionList chấp nhận ["a","b"] hoặc [{"text":"a"}]
type optionList []string

func (o *optionList) UnmarshalJSON(data []byte) error {
	var plain []string
	if err := json.Unmarshal(data, &plain); err == nil {
		*o = plain
		return nil
	}
	var objs []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &objs); err != nil {
		return err
	}
	out := make([]string, 0, len(objs))
	for _, obj := range objs {
		out = append(out, obj.Text)
	}
	*o = out
	return nil
}

func parseQuizJSON(clean string) []models.QuizQuestion {
	var items []jsonQuestion
	if strings.HasPrefix(clean, "{") {
		var wrapper struct {
			Questions []jsonQuestion `json:"questions"`
		}
		if err := json.Unmarshal([]byte(clean), &wrapper); err != nil {
			return nil
		}
		items = wrapper.Questions
	} else if err := json.Unmarshal([]byte(clean), &items); err != nil {
		return nil
	}

	out := make([]models.QuizQuestion, 0, len(items))
	for _, item := range items {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			text = strings.TrimSpace(item.Question)
		}
		q := models.QuizQuestion{
			ID:      uuid.NewString(),
			Text:    text,
			Options: buildOptions(item.Options),
			Correct: strings.TrimSpace(item.Correct),
		}
		if isCompleteQuestion(q) {
			out = append(out, q)
		}
	}
	return out
}

// FilterAnswerable bỏ các câu mà đáp án đúng không nằm trong danh sách lựa chọn
func FilterAnswerable(questions []models.QuizQuestion) (kept []models.QuizQuestion, dropped int) {
	for _, q := range questions {
		if findOptionByText(q.Options, q.Correct) == nil {
			dropped++
			continue
		}
		kept = append(kept, q)
	}
	return kept, dropped
}

func isCompleteQuestion(q models.QuizQuestion) bool {
	return q.Text != "" && len(q.Options) >= minOptions && q.Correct != ""
}

func buildOptions(texts []string) []models.QuizOption {
	var options []models.QuizOption
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		options = append(options, models.QuizOption{ID: uuid.NewString(), Text: t})
	}
	return options
}

func findOptionByText(options []models.QuizOption, text string) *models.QuizOption {
	text = strings.TrimSpace(text)
	for i := range options {
		if strings.EqualFold(strings.TrimSpace(options[i].Text), text) {
			return &options[i]
		}
	}
	return nil
}

// "- **Text:** abc" -> "Text: abc"
func normalizeFieldLine(line string) string {
	line = strings.TrimLeft(line, "-*• ")
	return strings.Replace(line, ":**", ":", 1)
}

func fieldValue(field string, markerLen int) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(field[markerLen:]), "*"))
}

func stripCodeFence(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "`")
	clean = strings.TrimPrefix(clean, "json")
	return strings.TrimSpace(clean)
}

func looksLikeJSON(s string) bool {
	return strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{")
}
