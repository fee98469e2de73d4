package generator

const (
	modalityText  = "TEXT"
	modalityImage = "IMAGE"
)

// ImageOutput はレスポンス解析の内部結果です。
type ImageOutput struct {
	Data     []byte
	MimeType string
	Text     string
}
