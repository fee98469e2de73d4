package domain

import "strings"

// Mode は生成か編集かを表します。
type Mode int

const (
	ModeGenerate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "generate"
}

// Model は利用する Gemini 画像モデルの種別です。
type Model int

const (
	ModelFlash Model = iota
	ModelPro
)

const (
	FlashModelID = "gemini-3.1-flash-image-preview"
	ProModelID   = "gemini-3-pro-image-preview"
)

// ID は API に渡すモデル名を返します。
func (m Model) ID() string {
	if m == ModelPro {
		return ProModelID
	}
	return FlashModelID
}

func (m Model) String() string {
	if m == ModelPro {
		return "pro"
	}
	return "flash"
}

// SoftReferenceLimit はモデルごとの推奨参照画像数です。超えても拒否はしません。
func (m Model) SoftReferenceLimit() int {
	if m == ModelPro {
		return 6
	}
	return 10
}

// MaxReferenceImages は API が受け付ける参照画像の上限です。
const MaxReferenceImages = 14

// Grounding は検索グラウンディングの種類をビット集合で保持します。
// -s と -i は同時に指定できます。
type Grounding uint8

const (
	GroundingSearch Grounding = 1 << iota
	GroundingImageSearch

	GroundingNone Grounding = 0
)

func (g Grounding) Has(flag Grounding) bool { return g&flag != 0 }

func (g Grounding) String() string {
	var names []string
	if g.Has(GroundingSearch) {
		names = append(names, "search")
	}
	if g.Has(GroundingImageSearch) {
		names = append(names, "image-search")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "+")
}

// ThinkingLevel は flash モデルの推論レベルです。
type ThinkingLevel string

const (
	ThinkingNone    ThinkingLevel = ""
	ThinkingMinimal ThinkingLevel = "minimal"
	ThinkingHigh    ThinkingLevel = "high"
)

// ThinkingLevels は CLI で指定できる推論レベルの一覧です。
var ThinkingLevels = []ThinkingLevel{ThinkingMinimal, ThinkingHigh}

// Resolution は出力解像度です。
type Resolution string

const (
	ResolutionHalfK Resolution = "0.5K"
	Resolution1K    Resolution = "1K"
	Resolution2K    Resolution = "2K"
	Resolution4K    Resolution = "4K"
)

// AspectRatio は "16:9" 形式のアスペクト比です。空文字は「指定なし」を意味します。
type AspectRatio string

const DefaultAspectRatio AspectRatio = "1:1"

// AspectRatios は flash モデルが受け付けるアスペクト比の全集合です。
var AspectRatios = []AspectRatio{
	"1:1", "2:3", "3:2", "3:4", "4:3", "4:5", "5:4",
	"9:16", "16:9", "21:9", "1:4", "4:1", "1:8", "8:1",
}

// IsExtreme は flash 専用の極端なアスペクト比かどうかを返します。
func (a AspectRatio) IsExtreme() bool {
	switch a {
	case "1:4", "4:1", "1:8", "8:1":
		return true
	}
	return false
}

// ImageInput は読み込み済みの入力画像または参照画像です。
type ImageInput struct {
	Path     string
	Data     []byte
	MIMEType string
	Width    int // 0 は不明
	Height   int
}

// GenerationRequest は1回の呼び出しで送る生成・編集要求です。
// InputImage は Mode が ModeEdit のときだけ設定されます。
type GenerationRequest struct {
	Prompt          string
	Mode            Mode
	AspectRatio     AspectRatio // 空なら API に比率を渡さない（編集時は入力画像の比率を維持）
	Resolution      Resolution
	Model           Model
	ReferenceImages []ImageInput
	InputImage      *ImageInput
	Grounding       Grounding
	Thinking        ThinkingLevel
}

// ImageResponse は生成された画像データと付随するテキストです。
type ImageResponse struct {
	Data     []byte
	MimeType string
	Text     string // モデルが画像と一緒に返したテキスト
}

// OutputTarget は書き込み先のパスです。Defaulted はタイムスタンプ名で補完された場合に true です。
type OutputTarget struct {
	Path      string
	Defaulted bool
}
