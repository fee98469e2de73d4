package resolver

import (
	"context"
	"os"

	"github.com/shouni/nano-banana-cli/pkg/domain"
	"github.com/shouni/nano-banana-cli/pkg/imgutil"
)

// FileLoader はローカルファイルから画像を読み込む ImageLoader です。
type FileLoader struct{}

func (FileLoader) Load(ctx context.Context, path string) (domain.ImageInput, error) {
	if err := ctx.Err(); err != nil {
		return domain.ImageInput{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ImageInput{}, domain.FileError(path, err)
	}
	info, err := imgutil.Inspect(path, data)
	if err != nil {
		return domain.ImageInput{}, domain.FileError(path, err)
	}
	return domain.ImageInput{
		Path:     path,
		Data:     data,
		MIMEType: info.MIMEType,
		Width:    info.Width,
		Height:   info.Height,
	}, nil
}
