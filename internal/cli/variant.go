package cli

import (
	"github.com/shouni/nano-banana-cli/pkg/domain"
	"github.com/shouni/nano-banana-cli/pkg/resolver"
)

// Variant は同じパイプラインを共有する CLI エントリポイントごとの差分です。
type Variant struct {
	Name    string
	Prefix  string // デフォルト出力ファイル名の接頭辞
	Short   string
	Example string
	Profile resolver.Profile

	// ResolutionFlag / ResolutionShorthand は解像度フラグの名前です。
	ResolutionFlag      string
	ResolutionShorthand string

	// ProOnly なら常に pro モデルを使い、モデル切り替えフラグを持ちません。
	ProOnly bool
	// Extended は編集・参照画像・グラウンディング・推論レベルの各フラグを有効にします。
	Extended bool
}

// Nanobanana は flash/pro の両モデルと全フラグを扱うメインの CLI です。
var Nanobanana = Variant{
	Name:                "nanobanana",
	Prefix:              "nanobanana",
	Short:               "Nano Banana - Generate and edit images with Gemini 3 Pro and 3.1 Flash",
	Profile:             resolver.DefaultProfile,
	ResolutionFlag:      "resolution",
	ResolutionShorthand: "r",
	Extended:            true,
	Example: `  nanobanana "a cat wearing a hat"                   Generate new image
  nanobanana "sunset over mountains" -a 16:9         Widescreen landscape
  nanobanana "portrait photo" -r 4K -o portrait.png  High-res with custom output
  nanobanana "add sunglasses" -e photo.png           Edit existing image
  nanobanana "visualize today's weather in NYC" -s   Use Google Search grounding
  nanobanana "a detailed painting of a Timareta butterfly" -i
                                                     Use Image Search grounding
  nanobanana "a cat in this style" -ref s.png        Use reference image
  nanobanana "complex prompt" -t high                Use high thinking level
  nanobanana "a dog" -p                              Use 3 Pro model`,
}

// NBP は pro モデル専用の簡易版 CLI です。
var NBP = Variant{
	Name:   "nbp",
	Prefix: "nbp",
	Short:  "Nano Banana Pro - Generate images with Gemini",
	Profile: resolver.Profile{
		AspectRatios:      []domain.AspectRatio{"1:1", "16:9", "9:16", "4:3", "3:4", "21:9", "9:21"},
		Resolutions:       []domain.Resolution{domain.Resolution1K, domain.Resolution2K, domain.Resolution4K},
		DefaultResolution: domain.Resolution1K,
	},
	ResolutionFlag:      "size",
	ResolutionShorthand: "s",
	ProOnly:             true,
	Example: `  nbp "a lighthouse at dusk"
  nbp "city skyline" -a 21:9 -s 4K -o skyline.png`,
}
