package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/genai"
)

// ClientConfig は Gemini クライアントの接続設定です。
type ClientConfig struct {
	APIKey string
	// Timeout は HTTP クライアントの唯一の期限です。0 ならライブラリの既定値を使います。
	Timeout time.Duration
	// BaseURL はテスト用のエンドポイント差し替えです。
	BaseURL string
}

// GeminiClient は genai.Client の GenerateContent を包み、呼び出しをログに残します。
type GeminiClient struct {
	models *genai.Models
}

// NewGeminiClient は Gemini API バックエンド向けのクライアントを初期化します。
func NewGeminiClient(ctx context.Context, cfg ClientConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("APIKey is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
	}
	return &GeminiClient{models: client.Models}, nil
}

// GenerateContent は1回だけ API を呼び出します。
func (c *GeminiClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		slog.WarnContext(ctx, "Gemini APIの呼び出しに失敗しました", "model", model, "elapsed", time.Since(start), "error", err)
		return nil, err
	}
	slog.InfoContext(ctx, "Gemini APIから応答を受信しました", "model", model, "elapsed", time.Since(start))
	return resp, nil
}
