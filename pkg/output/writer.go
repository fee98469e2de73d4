package output

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/shouni/nano-banana-cli/pkg/domain"
)

// TimestampLayout はデフォルトファイル名に埋め込む日時の書式です。
const TimestampLayout = "20060102_150405"

// DefaultFilename は prefix_YYYYMMDD_HHMMSS.png を返します。
func DefaultFilename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.png", prefix, now.Format(TimestampLayout))
}

// ResolveTarget は指定パスがあればそれを、なければタイムスタンプ名を返します。
func ResolveTarget(path, prefix string, now func() time.Time) domain.OutputTarget {
	if path != "" {
		return domain.OutputTarget{Path: path}
	}
	if now == nil {
		now = time.Now
	}
	return domain.OutputTarget{Path: DefaultFilename(prefix, now()), Defaulted: true}
}

// Writer は画像バイト列をそのままファイルに書き込みます。
type Writer struct {
	out       io.Writer
	writeFile func(name string, data []byte, perm os.FileMode) error
}

// NewWriter は保存完了メッセージの出力先を指定して Writer を作ります。
func NewWriter(out io.Writer) *Writer {
	if out == nil {
		out = io.Discard
	}
	return &Writer{out: out, writeFile: os.WriteFile}
}

// Write は data を target.Path に書き込み、保存先を表示します。
// 中間ディレクトリは作成しません。失敗した場合、この呼び出しで作成したファイルは削除します。
func (w *Writer) Write(target domain.OutputTarget, data []byte) error {
	_, statErr := os.Lstat(target.Path)
	existed := statErr == nil

	if err := w.writeFile(target.Path, data, 0o644); err != nil {
		if !existed {
			if rmErr := os.Remove(target.Path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				slog.Warn("書きかけのファイルを削除できませんでした", "path", target.Path, "error", rmErr)
			}
		}
		return domain.WriteError(target.Path, err)
	}
	slog.Info("画像を保存しました", "path", target.Path, "bytes", len(data), "defaulted", target.Defaulted)
	fmt.Fprintf(w.out, "Image saved to: %s\n", target.Path)
	return nil
}
