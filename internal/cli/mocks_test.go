package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shouni/nano-banana-cli/pkg/domain"
	"github.com/shouni/nano-banana-cli/pkg/generator"
)

type mockGenerator struct {
	calls   int
	lastReq *domain.GenerationRequest
	resp    *domain.ImageResponse
	err     error
}

func (m *mockGenerator) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.ImageResponse, error) {
	m.calls++
	m.lastReq = req
	return m.resp, m.err
}

// countingLoader は読み込みを記録しつつ固定の画像を返します。
type countingLoader struct {
	loaded []string
}

func (l *countingLoader) Load(ctx context.Context, path string) (domain.ImageInput, error) {
	l.loaded = append(l.loaded, path)
	return domain.ImageInput{Path: path, Data: []byte("img:" + path), MIMEType: "image/png"}, nil
}

type testEnv struct {
	gen          *mockGenerator
	factoryCalls int
	lastAPIKey   string
	loader       *countingLoader
	stdout       *bytes.Buffer
	stderr       *bytes.Buffer
	deps         Deps
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GOOGLE_API_KEY", "")

	env := &testEnv{
		gen:    &mockGenerator{resp: &domain.ImageResponse{Data: []byte("\x89PNG\r\n\x1a\nmock-image"), MimeType: "image/png"}},
		loader: &countingLoader{},
		stdout: new(bytes.Buffer),
		stderr: new(bytes.Buffer),
	}
	env.deps = Deps{
		NewGenerator: func(ctx context.Context, apiKey string, timeout time.Duration) (generator.ImageGenerator, error) {
			env.factoryCalls++
			env.lastAPIKey = apiKey
			return env.gen, nil
		},
		Loader:    env.loader,
		Now:       time.Now,
		ConfigDir: t.TempDir(),
		Stdout:    env.stdout,
		Stderr:    env.stderr,
	}
	return env
}

func (e *testEnv) run(v Variant, args ...string) int {
	return Execute(context.Background(), v, args, e.deps)
}
