package imgutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"net/http"
	"path/filepath"
	"strings"
)

// Info は画像ヘッダから読み取れる情報です。
// Width/Height が 0 の場合は寸法を取得できなかったことを示します。
type Info struct {
	MIMEType string
	Width    int
	Height   int
}

var extMIMETypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
}

// DetectMIMEType は内容から MIME タイプを判定し、判定できない形式（HEIC 等）だけ拡張子を使います。
// 画像でないデータはエラーになります。
func DetectMIMEType(path string, data []byte) (string, error) {
	mt := http.DetectContentType(data)
	if strings.HasPrefix(mt, "image/") {
		return mt, nil
	}
	if extMT, ok := extMIMETypes[strings.ToLower(filepath.Ext(path))]; ok {
		return extMT, nil
	}
	return "", fmt.Errorf("not an image (detected %s)", mt)
}

// Inspect は画像をデコードせずにヘッダだけを読みます。
// image.DecodeConfig が対応しない形式（WebP 等）は寸法 0 で返します。
func Inspect(path string, data []byte) (Info, error) {
	mt, err := DetectMIMEType(path, data)
	if err != nil {
		return Info{}, err
	}
	info := Info{MIMEType: mt}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		info.Width, info.Height = cfg.Width, cfg.Height
	}
	return info, nil
}

// NearestAspectRatio は w:h に最も近い比率を candidates ("16:9" 形式) から選びます。
// 寸法が不明な場合や候補がない場合は空文字を返します。
func NearestAspectRatio(w, h int, candidates []string) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	target := math.Log(float64(w) / float64(h))
	best, bestDiff := "", math.Inf(1)
	for _, c := range candidates {
		r, ok := ratioValue(c)
		if !ok {
			continue
		}
		if d := math.Abs(math.Log(r) - target); d < bestDiff {
			best, bestDiff = c, d
		}
	}
	return best
}

func ratioValue(s string) (float64, bool) {
	var a, b int
	if _, err := fmt.Sscanf(s, "%d:%d", &a, &b); err != nil || a <= 0 || b <= 0 {
		return 0, false
	}
	return float64(a) / float64(b), true
}
