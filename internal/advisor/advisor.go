// Package advisor produces a short plain-language commentary for an
// allocation plan. An LLM writes it when configured; a deterministic
// template serves as the fallback so commentary is always available.
package advisor

import (
	"context"
	"log"

	"steady-drip/internal/domain"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

type AdvisorService struct {
	tracer trace.Tracer
	llm    LLMClient
	model  string
}

// NewAdvisorService creates the service. llm may be nil, in which case
// every commentary comes from the template.
func NewAdvisorService(tracer trace.Tracer, llm LLMClient, model string) *AdvisorService {
	return &AdvisorService{tracer: tracer, llm: llm, model: model}
}

// ExplainPlan returns commentary for a plan. LLM errors fall back to the
// template rather than failing the request.
func (s *AdvisorService) ExplainPlan(ctx context.Context, plan *domain.AllocationPlan) string {
	ctx, span := s.tracer.Start(ctx, "advisor.explain-plan")
	defer span.End()

	if s.llm == nil {
		return TemplateCommentary(plan)
	}

	reply, err := s.callLLM(ctx, plan)
	if err != nil {
		span.RecordError(err)
		log.Printf("advisor LLM error, using template commentary: %v", err)
		return TemplateCommentary(plan)
	}
	return reply
}

func (s *AdvisorService) callLLM(ctx context.Context, plan *domain.AllocationPlan) (string, error) {
	ctx, span := s.tracer.Start(ctx, "advisor.llm-call")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", s.model))

	completion, err := s.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(FormatPlanContext(plan)),
		},
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return TemplateCommentary(plan), nil
	}
	return completion.Choices[0].Message.Content, nil
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
