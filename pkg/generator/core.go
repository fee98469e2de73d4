package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/nano-banana-cli/pkg/domain"
)

// GeminiGenerator は GenerationRequest を1回の GenerateContent 呼び出しに変換します。
// リトライは行いません。
type GeminiGenerator struct {
	aiClient ContentGenerator
}

// NewGeminiGenerator は依存関係を注入して GeminiGenerator を初期化します。
func NewGeminiGenerator(aiClient ContentGenerator) (*GeminiGenerator, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient is required")
	}
	return &GeminiGenerator{aiClient: aiClient}, nil
}

// Generate はリクエストを送信し、返ってきた画像を返します。
func (g *GeminiGenerator) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.ImageResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}
	if req.Mode == domain.ModeEdit && req.InputImage == nil {
		return nil, fmt.Errorf("edit request has no input image")
	}

	contents := buildContents(req)
	config := BuildConfig(req)
	model := req.Model.ID()

	slog.InfoContext(ctx, "Geminiに画像生成をリクエストします",
		"model", model,
		"mode", req.Mode.String(),
		"aspect_ratio", string(req.AspectRatio),
		"resolution", string(req.Resolution),
		"ref_count", len(req.ReferenceImages),
		"grounding", req.Grounding.String(),
		"thinking", string(req.Thinking))

	resp, err := g.aiClient.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, domain.RemoteError("image generation failed", err)
	}

	out, err := parseToResponse(resp)
	if err != nil {
		return nil, err
	}

	return &domain.ImageResponse{
		Data:     out.Data,
		MimeType: out.MimeType,
		Text:     out.Text,
	}, nil
}
