package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shouni/nano-banana-cli/internal/config"
	"github.com/shouni/nano-banana-cli/pkg/adapters"
	"github.com/shouni/nano-banana-cli/pkg/domain"
	"github.com/shouni/nano-banana-cli/pkg/generator"
	"github.com/shouni/nano-banana-cli/pkg/output"
	"github.com/shouni/nano-banana-cli/pkg/resolver"
)

// GeneratorFactory は API キーから ImageGenerator を作ります。
type GeneratorFactory func(ctx context.Context, apiKey string, timeout time.Duration) (generator.ImageGenerator, error)

// Deps はコマンドが利用する外部依存です。テストで差し替えます。
type Deps struct {
	NewGenerator GeneratorFactory
	Loader       resolver.ImageLoader
	Now          func() time.Time
	ConfigDir    string // 空なら config.Dir()
	Stdout       io.Writer
	Stderr       io.Writer
}

// DefaultDeps は本番用の依存関係を返します。
func DefaultDeps() Deps {
	return Deps{
		NewGenerator: newGeminiGenerator,
		Loader:       resolver.FileLoader{},
		Now:          time.Now,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	}
}

func newGeminiGenerator(ctx context.Context, apiKey string, timeout time.Duration) (generator.ImageGenerator, error) {
	client, err := adapters.NewGeminiClient(ctx, adapters.ClientConfig{APIKey: apiKey, Timeout: timeout})
	if err != nil {
		return nil, domain.RemoteError("failed to create Gemini client", err)
	}
	gen, err := generator.NewGeminiGenerator(client)
	if err != nil {
		return nil, err
	}
	return gen, nil
}

type flags struct {
	opts    resolver.Options
	output  string
	verbose bool
}

// NewRootCommand は variant のフラグ構成でコマンドを組み立てます。
func NewRootCommand(v Variant, deps Deps) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:           v.Name + " [flags] PROMPT",
		Short:         v.Short,
		Long:          v.Short,
		Example:       v.Example,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.opts.Prompt = strings.Join(args, " ")
			return run(cmd, v, deps, f)
		},
	}

	fs := cmd.Flags()
	fs.SortFlags = false
	fs.StringVarP(&f.output, "output", "o", "", fmt.Sprintf("output path (default: %s_TIMESTAMP.png)", v.Prefix))
	fs.StringVarP(&f.opts.AspectRatio, "aspect-ratio", "a", "", "aspect ratio: "+join(v.Profile.AspectRatios)+" (default: 1:1)")
	fs.StringVarP(&f.opts.Resolution, v.ResolutionFlag, v.ResolutionShorthand, "", "resolution: "+join(v.Profile.Resolutions)+" (default: "+string(v.Profile.DefaultResolution)+")")

	if v.Extended {
		fs.StringVarP(&f.opts.EditPath, "edit", "e", "", "edit an existing image instead of generating a new one")
		fs.StringArrayVar(&f.opts.References, "reference", nil, "one or more reference images to guide generation (-ref FILE [FILE ...], max 14)")
		fs.BoolVarP(&f.opts.Search, "search", "s", false, "use Google Search grounding")
		fs.BoolVarP(&f.opts.ImageSearch, "image-search", "i", false, "use Google Image Search grounding (flash only)")
		fs.StringVarP(&f.opts.Thinking, "thinking", "t", "", "thinking level: minimal or high (flash only)")
	}
	if !v.ProOnly {
		fs.BoolVarP(&f.opts.Pro, "pro", "p", false, "use the Gemini 3 Pro model instead of 3.1 Flash")
	}
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log progress to stderr")

	return cmd
}

func run(cmd *cobra.Command, v Variant, deps Deps, f *flags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(deps.ConfigDir)
	if err != nil {
		return domain.ConfigurationError("%v", err)
	}
	setupLogger(deps.Stderr, cfg.LogLevel, f.verbose)

	opts := f.opts
	if v.ProOnly {
		opts.Pro = true
	} else if !cmd.Flags().Changed("pro") && cfg.Pro {
		opts.Pro = true
	}
	if !cmd.Flags().Changed(v.ResolutionFlag) && cfg.Resolution != "" {
		opts.Resolution = cfg.Resolution
		opts.ResolutionSource = cfg.ResolutionSource
	}
	prefix := v.Prefix
	if cfg.OutputPrefix != "" {
		prefix = cfg.OutputPrefix
	}

	res, err := resolver.NewResolver(v.Profile, deps.Loader)
	if err != nil {
		return err
	}
	// フラグの検証 → API キー → ファイル読み込み → API 呼び出しの順を守る
	if err := res.Validate(opts); err != nil {
		return err
	}

	apiKey, err := config.APIKey()
	if err != nil {
		return err
	}

	req, err := res.Resolve(ctx, opts)
	if err != nil {
		return err
	}

	gen, err := deps.NewGenerator(ctx, apiKey, cfg.Timeout)
	if err != nil {
		return err
	}

	resp, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}

	if resp.Text != "" {
		fmt.Fprintf(deps.Stdout, "Gemini: %s\n", resp.Text)
	}

	target := output.ResolveTarget(f.output, prefix, deps.Now)
	return output.NewWriter(deps.Stdout).Write(target, resp.Data)
}

// Execute はコマンドを実行し、プロセスの終了コードを返します。
func Execute(ctx context.Context, v Variant, args []string, deps Deps) int {
	if v.Extended {
		normalized, err := normalizeArgs(args)
		if err != nil {
			printError(deps.Stderr, err)
			return 1
		}
		args = normalized
	}

	cmd := NewRootCommand(v, deps)
	cmd.SetArgs(args)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		printError(deps.Stderr, err)
		return 1
	}
	return 0
}

func printError(w io.Writer, err error) {
	if w == nil {
		w = os.Stderr
	}
	var de *domain.Error
	if errors.As(err, &de) && de.Kind == domain.KindUsage {
		fmt.Fprintf(w, "Error: %v\nRun with --help for usage.\n", err)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func setupLogger(w io.Writer, level string, verbose bool) {
	if w == nil {
		w = os.Stderr
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	if verbose && lvl > slog.LevelInfo {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
}

func join[T ~string](vals []T) string {
	s := make([]string, len(vals))
	for i, v := range vals {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}
