package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/api/option"
)

// Generator gửi PDF cho model và trả về text thô, không parse
type Generator interface {
	QuizText(ctx context.Context, pdfURL string) (string, error)
	FlashcardText(ctx context.Context, pdfURL string) (string, error)
}

const (
	DefaultGeminiModel = "gemini-2.0-flash"
	maxPDFFetchSize    = 20 * 1024 * 1024
)

const quizTemplatePrompt = `Extract all text from this PDF and generate exactly 5 multiple-choice questions based on its content.
Each question must have exactly 4 options and exactly one correct option.
Use this format for every question and nothing else:
**Question X**
Text: [question text]
Options: [option A], [option B], [option C], [option D]
Correct: [text of the correct option, copied exactly from the options]`

const quizJSONPrompt = `Read this PDF and generate exactly 5 multiple-choice questions based on its content.
Each question must have exactly 4 options and exactly one correct option.
Options must not contain commas. "correct" must be copied exactly from one of the options.
Return a JSON array of objects with the fields "text", "options" and "correct".`

const flashcardPrompt = `Extract all text from this PDF and generate 5 flashcards in the format: **Flashcard X**
Question: [question]?
Answer: [answer]
Ensure the questions are based on the content and answers are concise.`

var quizSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"text": {Type: genai.TypeString},
			"options": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"correct": {Type: genai.TypeString},
		},
		Required: []string{"text", "options", "correct"},
	},
}

type GeminiClient struct {
	client     *genai.Client
	modelName  string
	structured bool
	httpClient *http.Client
}

// NewGeminiClient tạo client dùng chung cho cả app. structured=true yêu cầu model trả JSON theo schema.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, structured bool) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("không thể tạo Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	return &GeminiClient{
		client:     client,
		modelName:  modelName,
		structured: structured,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (g *GeminiClient) Close() {
	g.client.Close()
}

func (g *GeminiClient) QuizText(ctx context.Context, pdfURL string) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	prompt := quizTemplatePrompt
	if g.structured {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = quizSchema
		prompt = quizJSONPrompt
	}
	return g.generateFromPDF(ctx, model, pdfURL, prompt)
}

func (g *GeminiClient) FlashcardText(ctx context.Context, pdfURL string) (string, error) {
	return g.generateFromPDF(ctx, g.client.GenerativeModel(g.modelName), pdfURL, flashcardPrompt)
}

func (g *GeminiClient) generateFromPDF(ctx context.Context, model *genai.GenerativeModel, pdfURL, prompt string) (text string, err error) {
	ctx, span := otel.Tracer("services/gemini").Start(ctx, "gemini.generate")
	span.SetAttributes(attribute.String("gemini.model", g.modelName))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	data, err := FetchPDF(ctx, g.httpClient, pdfURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	span.SetAttributes(attribute.Int("pdf.bytes", len(data)))

	// SDK tự base64 phần Blob khi gửi inline
	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: "application/pdf", Data: data},
		genai.Text(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("%w: lỗi Gemini xử lý: %w", ErrGeneration, err)
	}
	text = responseText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: gemini không trả kết quả hợp lệ", ErrGeneration)
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}

// FetchPDF tải file về bằng HTTP GET, status ngoài 2xx là lỗi
func FetchPDF(ctx context.Context, client *http.Client, pdfURL string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch PDF from %s: %w", pdfURL, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch PDF from %s: %w", pdfURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch PDF from %s: %s", pdfURL, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFFetchSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF from %s: %w", pdfURL, err)
	}
	if len(data) > maxPDFFetchSize {
		return nil, fmt.Errorf("PDF at %s is larger than %d bytes", pdfURL, maxPDFFetchSize)
	}
	return data, nil
}
