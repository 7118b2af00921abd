package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/ignite/footprint/internal/config"
	"github.com/ignite/footprint/internal/mail"
	"github.com/ignite/footprint/internal/signal"
)

// ErrRateLimited is returned when the request budget is exhausted.
var ErrRateLimited = fmt.Errorf("enrichment rate limit reached")

// BedrockMessage represents a message in Bedrock format
type BedrockMessage struct {
	Role    string                `json:"role"`
	Content []BedrockContentBlock `json:"content"`
}

// BedrockContentBlock represents content in a message
type BedrockContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// BedrockRequest is the request body for the InvokeModel API
type BedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	System           string           `json:"system,omitempty"`
	Messages         []BedrockMessage `json:"messages"`
	Temperature      float64          `json:"temperature,omitempty"`
}

// BedrockResponse is the response from Bedrock
type BedrockResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// invoker is the Bedrock call surface, narrowed for testing.
type invoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Analyzer derives qualitative communication traits from sent-mail
// samples via AWS Bedrock. All data stays within AWS.
type Analyzer struct {
	client     invoker
	modelID    string
	maxSamples int
	limiter    *RateLimiter
}

// NewAnalyzer creates a Bedrock-backed analyzer from configuration.
func NewAnalyzer(ctx context.Context, cfg config.EnrichConfig) (*Analyzer, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if profile := cfg.GetAWSProfile(); profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	a := &Analyzer{
		client:     bedrockruntime.NewFromConfig(awsCfg),
		modelID:    cfg.ModelID,
		maxSamples: cfg.MaxSampleEmails,
		limiter:    NewRateLimiter(cfg.RequestsPerMin, cfg.RequestsPerDay),
	}
	log.Printf("Enrich: Initialized with model=%s, region=%s", cfg.ModelID, cfg.Region)
	return a, nil
}

const systemPrompt = `You analyze email writing samples and respond with a single JSON object, no prose.
The object has these keys:
  "tone": short description of the overall tone
  "writing_style": short description of the writing style
  "common_topics": array of up to 5 topic strings
  "relationship_quality": short description of how the writer relates to recipients
  "professionalism_level": integer 1-10
  "personality_traits": array of up to 5 trait strings
  "communication_strengths": array of up to 3 strength strings`

// Analyze samples the sent collection and asks the model for
// communication traits. Callers treat a nil result as "no enrichment"
// and continue with heuristics alone.
func (a *Analyzer) Analyze(ctx context.Context, sent []mail.Message) (*signal.Enrichment, error) {
	if len(sent) == 0 {
		return nil, nil
	}
	if !a.limiter.Allow() {
		return nil, ErrRateLimited
	}

	request := BedrockRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        1000,
		System:           systemPrompt,
		Messages: []BedrockMessage{
			{
				Role: "user",
				Content: []BedrockContentBlock{
					{Type: "text", Text: a.buildPrompt(sent)},
				},
			},
		},
		Temperature: 0.3,
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	output, err := a.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(a.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        requestBody,
	})
	if err != nil {
		return nil, fmt.Errorf("Bedrock API error: %w", err)
	}

	var response BedrockResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var responseText string
	for _, content := range response.Content {
		if content.Type == "text" {
			responseText += content.Text
		}
	}

	return parseEnrichment(responseText)
}

// buildPrompt assembles subject+snippet samples, capped to keep the
// request small and the account owner's exposure minimal.
func (a *Analyzer) buildPrompt(sent []mail.Message) string {
	samples := sent
	if a.maxSamples > 0 && len(samples) > a.maxSamples {
		samples = samples[:a.maxSamples]
	}

	var b strings.Builder
	b.WriteString("Here are email samples written by one person:\n\n")
	for i, msg := range samples {
		fmt.Fprintf(&b, "Sample %d:\nSubject: %s\nExcerpt: %s\n\n", i+1, msg.Subject, msg.Snippet)
	}
	b.WriteString("Analyze the writing and respond with the JSON object.")
	return b.String()
}

// parseEnrichment decodes the model's JSON answer, tolerating markdown
// code fences around it.
func parseEnrichment(text string) (*signal.Enrichment, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	var enrichment signal.Enrichment
	if err := json.Unmarshal([]byte(text), &enrichment); err != nil {
		return nil, fmt.Errorf("failed to parse enrichment: %w", err)
	}
	return &enrichment, nil
}
