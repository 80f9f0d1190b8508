// Package llm wraps the Gemini client behind the narrow interfaces the
// agent and journal pipeline depend on.
package llm

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/axion-health/axion-api/internal/agent"
	"github.com/axion-health/axion-api/internal/config"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	defaultChatModelName      = "gemini-2.5-flash"
	defaultEmbeddingModelName = "text-embedding-004"
)

type GeminiService struct {
	client       *genai.Client
	declarations []*genai.FunctionDeclaration
}

// NewGeminiService constructs the process-wide Gemini client. The tool
// declarations are attached to every chat session it opens.
func NewGeminiService(declarations []*genai.FunctionDeclaration) *GeminiService {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}

	return &GeminiService{
		client:       client,
		declarations: declarations,
	}
}

func (s *GeminiService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

// StartChat opens a tool-equipped chat session. Caller-supplied history is
// passed through as-is; consecutive same-role turns are tolerated.
func (s *GeminiService) StartChat(systemInstruction string, history []agent.Turn) agent.ChatSession {
	model := s.client.GenerativeModel(defaultChatModelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}
	if len(s.declarations) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: s.declarations}}
	}

	session := model.StartChat()
	for _, turn := range history {
		if turn.Content == "" {
			continue
		}
		role := "user"
		if turn.Role == "model" {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}

	return &geminiChat{session: session}
}

type geminiChat struct {
	session *genai.ChatSession
}

func (c *geminiChat) Send(ctx context.Context, text string) (*agent.ModelTurn, error) {
	resp, err := c.session.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini chat SendMessage failed: %w", err)
	}
	return parseResponse(resp), nil
}

func (c *geminiChat) SendToolResults(ctx context.Context, responses []agent.ToolResponse) (*agent.ModelTurn, error) {
	parts := make([]genai.Part, 0, len(responses))
	for _, r := range responses {
		parts = append(parts, genai.FunctionResponse{
			Name:     r.Name,
			Response: map[string]any{"result": r.Result},
		})
	}

	resp, err := c.session.SendMessage(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini tool-response SendMessage failed: %w", err)
	}
	return parseResponse(resp), nil
}

func parseResponse(resp *genai.GenerateContentResponse) *agent.ModelTurn {
	turn := &agent.ModelTurn{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		log.Println("Gemini response was empty or had no valid candidates/parts.")
		return turn
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			text.WriteString(string(p))
		case genai.FunctionCall:
			turn.ToolCalls = append(turn.ToolCalls, agent.ToolCall{Name: p.Name, Args: p.Args})
		default:
			log.Printf("Gemini response part was not text or a function call: %T", part)
		}
	}
	turn.Text = text.String()
	return turn
}

// EmbedDocument embeds journal content for indexing. Uses the
// RETRIEVAL_DOCUMENT task type; queries use a different mode on purpose,
// the two embeddings are tuned per task.
func (s *GeminiService) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return s.embed(ctx, text, genai.TaskTypeRetrievalDocument)
}

// EmbedQuery embeds a search query with the RETRIEVAL_QUERY task type.
func (s *GeminiService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return s.embed(ctx, text, genai.TaskTypeRetrievalQuery)
}

func (s *GeminiService) embed(ctx context.Context, text string, task genai.TaskType) ([]float32, error) {
	em := s.client.EmbeddingModel(defaultEmbeddingModelName)
	em.TaskType = task

	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embedding request failed: %w", err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding data received from gemini")
	}
	return res.Embedding.Values, nil
}
