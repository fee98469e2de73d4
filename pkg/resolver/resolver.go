package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/shouni/nano-banana-cli/pkg/domain"
	"github.com/shouni/nano-banana-cli/pkg/imgutil"
)

// Options は CLI から受け取った未検証のオプションです。
type Options struct {
	Prompt      string
	AspectRatio string // 空なら未指定
	Resolution  string // 空なら Profile.DefaultResolution
	EditPath    string
	References  []string
	Search      bool
	ImageSearch bool
	Pro         bool
	Thinking    string

	// ResolutionSource はエラーメッセージで解像度の指定元を示す名前です。空なら -r フラグとみなします。
	ResolutionSource string
}

// Profile は CLI バリアントごとに異なる列挙値の集合です。
type Profile struct {
	AspectRatios      []domain.AspectRatio
	Resolutions       []domain.Resolution
	DefaultResolution domain.Resolution
}

// DefaultProfile は nanobanana コマンドの列挙値です。
var DefaultProfile = Profile{
	AspectRatios:      domain.AspectRatios,
	Resolutions:       []domain.Resolution{domain.ResolutionHalfK, domain.Resolution1K, domain.Resolution2K, domain.Resolution4K},
	DefaultResolution: domain.Resolution1K,
}

// ImageLoader は入力画像・参照画像を読み込みます。
type ImageLoader interface {
	Load(ctx context.Context, path string) (domain.ImageInput, error)
}

// Resolver は Options を検証して GenerationRequest を組み立てます。
type Resolver struct {
	profile Profile
	loader  ImageLoader
}

// NewResolver は依存関係を注入して Resolver を初期化します。
func NewResolver(profile Profile, loader ImageLoader) (*Resolver, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if len(profile.AspectRatios) == 0 || len(profile.Resolutions) == 0 {
		return nil, fmt.Errorf("profile must list aspect ratios and resolutions")
	}
	return &Resolver{profile: profile, loader: loader}, nil
}

// Validate はファイルやネットワークに触れずにフラグの組み合わせを検証します。
func (r *Resolver) Validate(opts Options) error {
	if strings.TrimSpace(opts.Prompt) == "" {
		return domain.UsageError("a prompt is required")
	}

	if opts.AspectRatio != "" && !slices.Contains(r.profile.AspectRatios, domain.AspectRatio(opts.AspectRatio)) {
		return domain.UsageError("invalid aspect ratio %q (choose from %s)", opts.AspectRatio, joinValues(r.profile.AspectRatios))
	}

	res := r.resolution(opts)
	if !slices.Contains(r.profile.Resolutions, res) {
		return domain.UsageError("invalid resolution %q (choose from %s)", res, joinValues(r.profile.Resolutions))
	}

	if opts.Thinking != "" && !slices.Contains(domain.ThinkingLevels, domain.ThinkingLevel(opts.Thinking)) {
		return domain.UsageError("invalid thinking level %q (choose from %s)", opts.Thinking, joinValues(domain.ThinkingLevels))
	}

	if n := len(opts.References); n > domain.MaxReferenceImages {
		return domain.UsageError("too many reference images: %d (maximum is %d)", n, domain.MaxReferenceImages)
	}

	if opts.Pro {
		var invalid []string
		if res == domain.ResolutionHalfK {
			invalid = append(invalid, resolutionLabel(opts.ResolutionSource, res))
		}
		if domain.AspectRatio(opts.AspectRatio).IsExtreme() {
			invalid = append(invalid, "-a "+opts.AspectRatio)
		}
		if opts.ImageSearch {
			invalid = append(invalid, "-i")
		}
		if opts.Thinking != "" {
			invalid = append(invalid, "-t "+opts.Thinking)
		}
		if len(invalid) > 0 {
			return domain.UsageError("the following options are not supported with the Gemini 3 Pro model: %s", strings.Join(invalid, ", "))
		}
	}
	return nil
}

// Resolve は Validate の後に入力画像と参照画像を読み込み、リクエストを組み立てます。
func (r *Resolver) Resolve(ctx context.Context, opts Options) (*domain.GenerationRequest, error) {
	if err := r.Validate(opts); err != nil {
		return nil, err
	}

	req := &domain.GenerationRequest{
		Prompt:     opts.Prompt,
		Mode:       domain.ModeGenerate,
		Resolution: r.resolution(opts),
		Model:      domain.ModelFlash,
		Thinking:   domain.ThinkingLevel(opts.Thinking),
	}
	if opts.Pro {
		req.Model = domain.ModelPro
	}
	if opts.Search {
		req.Grounding |= domain.GroundingSearch
	}
	if opts.ImageSearch {
		req.Grounding |= domain.GroundingImageSearch
	}

	if opts.EditPath != "" {
		in, err := r.loader.Load(ctx, opts.EditPath)
		if err != nil {
			return nil, err
		}
		req.Mode = domain.ModeEdit
		req.InputImage = &in
	}
	req.AspectRatio = ResolveAspectRatio(req.Mode, opts.AspectRatio)

	if req.Mode == domain.ModeEdit && req.AspectRatio == "" {
		slog.InfoContext(ctx, "入力画像のアスペクト比を維持します",
			"path", req.InputImage.Path,
			"width", req.InputImage.Width,
			"height", req.InputImage.Height,
			"nearest", imgutil.NearestAspectRatio(req.InputImage.Width, req.InputImage.Height, stringValues(r.profile.AspectRatios)))
	}

	for _, p := range opts.References {
		ref, err := r.loader.Load(ctx, p)
		if err != nil {
			return nil, err
		}
		req.ReferenceImages = append(req.ReferenceImages, ref)
	}

	if n, limit := len(req.ReferenceImages), req.Model.SoftReferenceLimit(); n > limit {
		slog.WarnContext(ctx, "参照画像がモデルの推奨数を超えています。品質が下がる可能性があります",
			"model", req.Model.String(), "count", n, "recommended", limit)
	}

	return req, nil
}

// ResolveAspectRatio は明示指定があればそれを、なければ生成時は 1:1、編集時は空（入力画像の比率を維持）を返します。
func ResolveAspectRatio(mode domain.Mode, explicit string) domain.AspectRatio {
	if explicit != "" {
		return domain.AspectRatio(explicit)
	}
	if mode == domain.ModeEdit {
		return ""
	}
	return domain.DefaultAspectRatio
}

func resolutionLabel(source string, res domain.Resolution) string {
	if source == "" {
		return "-r " + string(res)
	}
	return fmt.Sprintf("resolution %s (from %s)", res, source)
}

func (r *Resolver) resolution(opts Options) domain.Resolution {
	if opts.Resolution == "" {
		return r.profile.DefaultResolution
	}
	return domain.Resolution(opts.Resolution)
}

func stringValues[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

func joinValues[T ~string](vals []T) string {
	return strings.Join(stringValues(vals), ", ")
}
