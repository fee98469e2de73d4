package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/shouni/nano-banana-cli/pkg/domain"
	"github.com/shouni/nano-banana-cli/pkg/output"
	"github.com/shouni/nano-banana-cli/pkg/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_Generate(t *testing.T) {
	t.Run("成功: 返ってきたバイト列が指定パスにそのまま保存される", func(t *testing.T) {
		env := newTestEnv(t)
		out := filepath.Join(t.TempDir(), "cat.png")

		code := env.run(Nanobanana, "a cat wearing a hat", "-o", out)

		require.Equal(t, 0, code, env.stderr.String())
		got, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, env.gen.resp.Data, got)
		assert.Contains(t, env.stdout.String(), "Image saved to: "+out)
		assert.Equal(t, 1, env.gen.calls)
		assert.Equal(t, "test-key", env.lastAPIKey)

		req := env.gen.lastReq
		assert.Equal(t, "a cat wearing a hat", req.Prompt)
		assert.Equal(t, domain.ModeGenerate, req.Mode)
		assert.Equal(t, domain.AspectRatio("1:1"), req.AspectRatio)
		assert.Equal(t, domain.Resolution1K, req.Resolution)
		assert.Equal(t, domain.ModelFlash, req.Model)
	})

	t.Run("-o未指定ならタイムスタンプ付きのファイル名で保存される", func(t *testing.T) {
		env := newTestEnv(t)
		before := time.Now().Truncate(time.Second)

		code := env.run(Nanobanana, "sunset over mountains", "-a", "16:9")

		after := time.Now()
		require.Equal(t, 0, code, env.stderr.String())
		matches, err := filepath.Glob("nanobanana_*.png")
		require.NoError(t, err)
		require.Len(t, matches, 1)

		m := regexp.MustCompile(`^nanobanana_(\d{8}_\d{6})\.png$`).FindStringSubmatch(matches[0])
		require.Len(t, m, 2)
		ts, err := time.ParseInLocation(output.TimestampLayout, m[1], time.Local)
		require.NoError(t, err)
		assert.False(t, ts.Before(before))
		assert.False(t, ts.After(after))
		assert.Equal(t, domain.AspectRatio("16:9"), env.gen.lastReq.AspectRatio)
	})

	t.Run("複数の引数はスペースで連結してプロンプトにする", func(t *testing.T) {
		env := newTestEnv(t)

		code := env.run(Nanobanana, "a", "red", "fox", "-o", "fox.png")

		require.Equal(t, 0, code, env.stderr.String())
		assert.Equal(t, "a red fox", env.gen.lastReq.Prompt)
	})

	t.Run("モデルが返したテキストを表示する", func(t *testing.T) {
		env := newTestEnv(t)
		env.gen.resp.Text = "Here is your cat."

		code := env.run(Nanobanana, "a cat", "-o", "cat.png")

		require.Equal(t, 0, code)
		assert.Contains(t, env.stdout.String(), "Gemini: Here is your cat.\nImage saved to: cat.png\n")
	})

	t.Run("フラグがリクエストに反映される", func(t *testing.T) {
		env := newTestEnv(t)

		code := env.run(Nanobanana, "complex prompt", "-s", "-i", "-t", "high", "-r", "0.5K", "-a", "1:8",
			"-ref", "a.png", "b.png", "-o", "out.png")

		require.Equal(t, 0, code, env.stderr.String())
		req := env.gen.lastReq
		assert.True(t, req.Grounding.Has(domain.GroundingSearch))
		assert.True(t, req.Grounding.Has(domain.GroundingImageSearch))
		assert.Equal(t, domain.ThinkingHigh, req.Thinking)
		assert.Equal(t, domain.ResolutionHalfK, req.Resolution)
		assert.Equal(t, domain.AspectRatio("1:8"), req.AspectRatio)
		assert.Equal(t, []string{"a.png", "b.png"}, env.loader.loaded)
	})

	t.Run("--reference=PATHの後に続くプロンプトは参照画像にならない", func(t *testing.T) {
		env := newTestEnv(t)

		code := env.run(Nanobanana, "--reference=style.png", "a cat in this style", "-o", "out.png")

		require.Equal(t, 0, code, env.stderr.String())
		assert.Equal(t, "a cat in this style", env.gen.lastReq.Prompt)
		assert.Equal(t, []string{"style.png"}, env.loader.loaded)
	})
}

func TestExecute_Edit(t *testing.T) {
	t.Run("-aなしの編集は比率を上書きしない", func(t *testing.T) {
		env := newTestEnv(t)

		code := env.run(Nanobanana, "add sunglasses", "-e", "photo.png", "-o", "edited.png")

		require.Equal(t, 0, code, env.stderr.String())
		req := env.gen.lastReq
		assert.Equal(t, domain.ModeEdit, req.Mode)
		require.NotNil(t, req.InputImage)
		assert.Equal(t, "photo.png", req.InputImage.Path)
		assert.Empty(t, req.AspectRatio)
	})

	t.Run("-a付きの編集は指定した比率を使う", func(t *testing.T) {
		env := newTestEnv(t)

		code := env.run(Nanobanana, "make it wide", "-e", "photo.png", "-a", "21:9", "-o", "wide.png")

		require.Equal(t, 0, code, env.stderr.String())
		assert.Equal(t, domain.AspectRatio("21:9"), env.gen.lastReq.AspectRatio)
	})

	t.Run("編集対象が存在しなければAPIを呼ばずに失敗する", func(t *testing.T) {
		env := newTestEnv(t)
		env.deps.Loader = resolver.FileLoader{}

		code := env.run(Nanobanana, "add sunglasses", "-e", "missing.png")

		assert.Equal(t, 1, code)
		assert.Contains(t, env.stderr.String(), "file not found: missing.png")
		assert.Zero(t, env.factoryCalls)
		assert.Zero(t, env.gen.calls)
	})
}

func TestExecute_Failures(t *testing.T) {
	t.Run("APIキーがなければファイルを読まずAPIも呼ばない", func(t *testing.T) {
		env := newTestEnv(t)
		t.Setenv("GEMINI_API_KEY", "")

		code := env.run(Nanobanana, "add sunglasses", "-e", "photo.png", "-ref", "a.png")

		assert.Equal(t, 1, code)
		assert.Contains(t, env.stderr.String(), "GEMINI_API_KEY environment variable not set")
		assert.Empty(t, env.loader.loaded)
		assert.Zero(t, env.factoryCalls)
	})

	t.Run("参照画像が14枚を超えるとAPIを呼ばない", func(t *testing.T) {
		env := newTestEnv(t)
		args := []string{"a collage", "-ref"}
		for i := 0; i < domain.MaxReferenceImages+1; i++ {
			args = append(args, fmt.Sprintf("ref%02d.png", i))
		}

		code := env.run(Nanobanana, args...)

		assert.Equal(t, 1, code)
		assert.Contains(t, env.stderr.String(), "too many reference images: 15")
		assert.Empty(t, env.loader.loaded)
		assert.Zero(t, env.gen.calls)
	})

	t.Run("proで非対応のフラグは拒否される", func(t *testing.T) {
		env := newTestEnv(t)

		code := env.run(Nanobanana, "a dog", "-p", "-t", "minimal", "-i")

		assert.Equal(t, 1, code)
		assert.Contains(t, env.stderr.String(), "not supported with the Gemini 3 Pro model: -i, -t minimal")
		assert.Zero(t, env.gen.calls)
	})

	t.Run("プロンプトがなければ使い方エラー", func(t *testing.T) {
		env := newTestEnv(t)

		code := env.run(Nanobanana, "-o", "x.png")

		assert.Equal(t, 1, code)
		assert.Contains(t, env.stderr.String(), "a prompt is required")
	})

	t.Run("API のエラーはそのまま表示しファイルは作らない", func(t *testing.T) {
		env := newTestEnv(t)
		env.gen.err = domain.RemoteError("image generation failed", errors.New("Error 429, Message: quota exceeded"))
		env.gen.resp = nil

		code := env.run(Nanobanana, "a cat", "-o", "cat.png")

		assert.Equal(t, 1, code)
		assert.Contains(t, env.stderr.String(), "quota exceeded")
		_, err := os.Stat("cat.png")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("書き込めない出力先はFileError", func(t *testing.T) {
		env := newTestEnv(t)
		out := filepath.Join(t.TempDir(), "missing-dir", "cat.png")

		code := env.run(Nanobanana, "a cat", "-o", out)

		assert.Equal(t, 1, code)
		assert.Contains(t, env.stderr.String(), out)
	})
}

func TestExecute_NBP(t *testing.T) {
	t.Run("常にproモデルで -s は解像度を表す", func(t *testing.T) {
		env := newTestEnv(t)

		code := env.run(NBP, "city skyline", "-a", "9:21", "-s", "4K")

		require.Equal(t, 0, code, env.stderr.String())
		req := env.gen.lastReq
		assert.Equal(t, domain.ModelPro, req.Model)
		assert.Equal(t, domain.Resolution4K, req.Resolution)
		assert.Equal(t, domain.AspectRatio("9:21"), req.AspectRatio)

		matches, _ := filepath.Glob("nbp_*.png")
		assert.Len(t, matches, 1)
	})

	t.Run("nbpは0.5Kを受け付けない", func(t *testing.T) {
		env := newTestEnv(t)

		code := env.run(NBP, "x", "-s", "0.5K")

		assert.Equal(t, 1, code)
		assert.Contains(t, env.stderr.String(), `invalid resolution "0.5K"`)
	})

	t.Run("nbpには編集フラグがない", func(t *testing.T) {
		env := newTestEnv(t)

		code := env.run(NBP, "x", "-e", "photo.png")

		assert.Equal(t, 1, code)
		assert.Zero(t, env.gen.calls)
	})
}

func TestExecute_ConfigDefaults(t *testing.T) {
	t.Run("NANOBANANA_環境変数の既定値はフラグで上書きできる", func(t *testing.T) {
		env := newTestEnv(t)
		t.Setenv("NANOBANANA_RESOLUTION", "2K")
		t.Setenv("NANOBANANA_OUTPUT_PREFIX", "art")

		require.Equal(t, 0, env.run(Nanobanana, "x"), env.stderr.String())
		assert.Equal(t, domain.Resolution2K, env.gen.lastReq.Resolution)
		matches, _ := filepath.Glob("art_*.png")
		assert.Len(t, matches, 1)

		require.Equal(t, 0, env.run(Nanobanana, "x", "-r", "4K", "-o", "y.png"), env.stderr.String())
		assert.Equal(t, domain.Resolution4K, env.gen.lastReq.Resolution)
	})
	t.Run("環境変数の0.5Kをproで拒否するときは-rではなく環境変数名を示す", func(t *testing.T) {
		env := newTestEnv(t)
		t.Setenv("NANOBANANA_RESOLUTION", "0.5K")

		code := env.run(Nanobanana, "a dog", "-p")

		assert.Equal(t, 1, code)
		assert.Contains(t, env.stderr.String(), "resolution 0.5K (from NANOBANANA_RESOLUTION)")
		assert.NotContains(t, env.stderr.String(), "-r 0.5K")
		assert.Zero(t, env.gen.calls)
	})
}
