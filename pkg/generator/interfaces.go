package generator

import (
	"context"

	"github.com/shouni/nano-banana-cli/pkg/domain"
	"google.golang.org/genai"
)

// ContentGenerator は Gemini の GenerateContent 呼び出しを抽象化します。
// genai.Client.Models と adapters.GeminiClient がこれを満たします。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ImageGenerator は CLI が利用する統合窓口です。
type ImageGenerator interface {
	Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.ImageResponse, error)
}
