package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dshills/docgap/pkg/types"
)

const (
	// APIVersion is the Azure OpenAI REST API version the client targets.
	APIVersion = "2024-02-15-preview"

	// systemPrompt frames every analysis request.
	systemPrompt = "You are an expert software architect and documentation specialist."

	// temperature keeps the model's output close to deterministic.
	temperature = 0.2
)

// Analyzer sends one chunk to a language model for gap detection. A failed
// call never surfaces as a Go error: it becomes an error-tagged
// AnalysisResult so the run can continue with the remaining chunks.
type Analyzer interface {
	AnalyzeChunk(ctx context.Context, chunk types.Chunk) *types.AnalysisResult
}

// AzureAnalyzer implements Analyzer against an Azure OpenAI deployment.
type AzureAnalyzer struct {
	client     *openai.Client
	deployment string
	logf       func(format string, args ...any)
}

// Config holds the Azure OpenAI connection settings.
type Config struct {
	APIKey     string
	Endpoint   string
	Deployment string
}

// NewAzure creates an AzureAnalyzer from explicit configuration.
func NewAzure(cfg Config) (*AzureAnalyzer, error) {
	if cfg.APIKey == "" || cfg.Endpoint == "" || cfg.Deployment == "" {
		return nil, fmt.Errorf("%w: api key, endpoint, and deployment are required", types.ErrMissingCredentials)
	}
	clientCfg := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	clientCfg.APIVersion = APIVersion
	return &AzureAnalyzer{
		client:     openai.NewClientWithConfig(clientCfg),
		deployment: cfg.Deployment,
		logf:       log.Printf,
	}, nil
}

// AnalyzeChunk sends the chunk's files to the deployment and parses the
// JSON response. Transport failures, malformed JSON, and responses missing
// the gaps key all produce an error record carrying the chunk's display
// paths. No retries are attempted; each failure is final for its chunk.
func (a *AzureAnalyzer) AnalyzeChunk(ctx context.Context, chunk types.Chunk) *types.AnalysisResult {
	if err := chunk.ValidateContent(); err != nil {
		return a.errorResult(chunk, err.Error())
	}
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.deployment,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(chunk.Files)},
		},
		Temperature: temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return a.errorResult(chunk, fmt.Sprintf("chat completion: %v", err))
	}
	if len(resp.Choices) == 0 {
		return a.errorResult(chunk, "chat completion returned no choices")
	}

	return ParseResponse(resp.Choices[0].Message.Content, chunk, a.logf)
}

func (a *AzureAnalyzer) errorResult(chunk types.Chunk, msg string) *types.AnalysisResult {
	a.logf("Error analyzing chunk: %s", msg)
	return &types.AnalysisResult{
		Err:           msg,
		FilesAnalyzed: chunk.Paths(),
		Structured:    false,
	}
}

// modelResponse mirrors the JSON contract the prompt asks for. Parsed
// defensively; no key is assumed present.
type modelResponse struct {
	Summary       string       `json:"summary"`
	Gaps          *[]types.Gap `json:"gaps"`
	FilesAnalyzed []string     `json:"files_analyzed"`
}

// ParseResponse converts raw model output into an AnalysisResult. A body
// that is not a JSON object, or that lacks the gaps key, yields an error
// record rather than a fabricated empty result.
func ParseResponse(body string, chunk types.Chunk, logf func(string, ...any)) *types.AnalysisResult {
	if logf == nil {
		logf = log.Printf
	}
	var parsed modelResponse
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		logf("Error analyzing chunk: malformed response: %v", err)
		return &types.AnalysisResult{
			Err:           fmt.Sprintf("malformed response: %v", err),
			FilesAnalyzed: chunk.Paths(),
			Structured:    false,
		}
	}
	if parsed.Gaps == nil {
		logf("Error analyzing chunk: response missing gaps")
		return &types.AnalysisResult{
			Err:           "response missing gaps",
			FilesAnalyzed: chunk.Paths(),
			Structured:    false,
		}
	}

	files := parsed.FilesAnalyzed
	if len(files) == 0 {
		files = chunk.Paths()
	}
	return &types.AnalysisResult{
		Summary:       parsed.Summary,
		Gaps:          *parsed.Gaps,
		FilesAnalyzed: files,
		Structured:    true,
	}
}
