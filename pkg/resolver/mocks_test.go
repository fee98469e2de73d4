package resolver

import (
	"context"
	"io/fs"

	"github.com/shouni/nano-banana-cli/pkg/domain"
)

// mockLoader は読み込まれたパスを記録する ImageLoader です。
type mockLoader struct {
	files  map[string][]byte
	loaded []string
}

func (m *mockLoader) Load(ctx context.Context, path string) (domain.ImageInput, error) {
	m.loaded = append(m.loaded, path)
	data, ok := m.files[path]
	if !ok {
		return domain.ImageInput{}, domain.FileError(path, errNotExist(path))
	}
	return domain.ImageInput{Path: path, Data: data, MIMEType: "image/png", Width: 16, Height: 9}, nil
}

func errNotExist(path string) error {
	return &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
}
