package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"tour-leads/logger"
	leadModel "tour-leads/models/lead"
	"tour-leads/services/details"

	"google.golang.org/genai"
	"gorm.io/gorm"
)

// Job is one lead whose free-text comments await a triage summary
type Job struct {
	LeadID   string
	Comments string
}

// Worker asks Gemini for a one-line triage summary of a lead's comments and
// merges it into details.triage_insight. Strictly best-effort: when the API
// key is missing or any call fails, the lead is left untouched.
type Worker struct {
	db      *gorm.DB
	channel chan Job
}

func NewWorker(db *gorm.DB) *Worker {
	return &Worker{
		db:      db,
		channel: make(chan Job, 100),
	}
}

// Enabled reports whether the summarizer has credentials to work with
func Enabled() bool {
	return os.Getenv("GEMINI_API_KEY") != ""
}

// Enqueue hands a lead to the worker without blocking the caller
func (w *Worker) Enqueue(leadID, comments string) {
	select {
	case w.channel <- Job{LeadID: leadID, Comments: comments}:
	default:
		logger.Warning(fmt.Sprintf("Insight queue full, dropping job for lead %s", leadID))
	}
}

// Process drains the queue; run it as a goroutine at startup
func (w *Worker) Process() {
	logger.Info("Starting lead insight worker...")
	for job := range w.channel {
		if err := w.summarize(job); err != nil {
			logger.Warning(fmt.Sprintf("Insight failed for lead %s: %v", job.LeadID, err))
		}
	}
}

type triageInsight struct {
	Summary string `json:"summary"`
	Intent  string `json:"intent"`
}

func (w *Worker) summarize(job Job) error {
	insight, err := summarizeWithGemini(job.Comments)
	if err != nil {
		return err
	}

	var row leadModel.Lead
	if err := w.db.First(&row, "id = ?", job.LeadID).Error; err != nil {
		return err
	}

	existing, err := details.Decode(row.Details)
	if err != nil {
		return fmt.Errorf("stored details are unreadable: %w", err)
	}

	merged, err := details.Encode(details.Merge(existing, map[string]interface{}{
		"triage_insight": map[string]interface{}{
			"summary": insight.Summary,
			"intent":  insight.Intent,
		},
	}))
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"details":    merged,
		"updated_at": time.Now(),
	}
	if err := w.db.Model(&leadModel.Lead{}).Where("id = ?", job.LeadID).Updates(updates).Error; err != nil {
		return err
	}

	logger.Success(fmt.Sprintf("Lead %s tagged with intent %q", job.LeadID, insight.Intent))
	return nil
}

// summarizeWithGemini asks Gemini for a JSON-only triage summary
func summarizeWithGemini(comments string) (*triageInsight, error) {
	ctx := context.Background()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not found in environment variables")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	prompt := fmt.Sprintf(`You triage booking inquiries for a boutique tour operator. Read the traveler's comments and return ONLY valid JSON.

			Required JSON format:
			{
			"summary": string,   // one sentence, what this traveler wants
			"intent": string     // one of: "ready_to_book", "gathering_info", "special_request", "unclear"
			}

			Traveler comments:
			%s`, comments)

	content := &genai.Content{
		Parts: []*genai.Part{
			&genai.Part{Text: prompt},
		},
	}

	result, err := client.Models.GenerateContent(
		ctx,
		"gemini-2.5-flash-lite",
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.1)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate triage summary: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated")
	}

	responseText := result.Candidates[0].Content.Parts[0].Text
	if responseText == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	jsonText := ExtractJSONFromMarkdown(responseText)

	var insight triageInsight
	if err := json.Unmarshal([]byte(jsonText), &insight); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, response: %s", err, jsonText)
	}
	if insight.Summary == "" {
		return nil, fmt.Errorf("model returned no summary")
	}

	return &insight, nil
}

// ExtractJSONFromMarkdown strips markdown code fences the model sometimes
// wraps its JSON in
func ExtractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			return strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	return text
}
