package generator

import (
	"strings"

	"github.com/shouni/nano-banana-cli/pkg/domain"
	"google.golang.org/genai"
)

// buildContents はリクエストを1つのユーザーターンに組み立てます。
// 生成: [プロンプト, 参照画像...]、編集: [入力画像, 参照画像..., プロンプト]
func buildContents(req *domain.GenerationRequest) []*genai.Content {
	parts := make([]*genai.Part, 0, len(req.ReferenceImages)+2)

	if req.Mode == domain.ModeEdit {
		parts = append(parts, toPart(*req.InputImage))
	} else {
		parts = append(parts, genai.NewPartFromText(req.Prompt))
	}

	for _, ref := range req.ReferenceImages {
		parts = append(parts, toPart(ref))
	}

	if req.Mode == domain.ModeEdit {
		parts = append(parts, genai.NewPartFromText(req.Prompt))
	}

	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

func toPart(in domain.ImageInput) *genai.Part {
	return genai.NewPartFromBytes(in.Data, in.MIMEType)
}

// BuildConfig はリクエストから GenerateContentConfig を作ります。
// AspectRatio が空の場合は ImageConfig に比率を含めません。
func BuildConfig(req *domain.GenerationRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{modalityText, modalityImage},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: string(req.AspectRatio),
			ImageSize:   string(req.Resolution),
		},
	}

	if tool := searchTool(req.Grounding); tool != nil {
		cfg.Tools = []*genai.Tool{tool}
	}

	if req.Thinking != domain.ThinkingNone {
		cfg.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingLevel:   thinkingLevel(req.Thinking),
			IncludeThoughts: false,
		}
	}
	return cfg
}

func searchTool(g domain.Grounding) *genai.Tool {
	if g == domain.GroundingNone {
		return nil
	}
	st := &genai.SearchTypes{}
	if g.Has(domain.GroundingSearch) {
		st.WebSearch = &genai.WebSearch{}
	}
	if g.Has(domain.GroundingImageSearch) {
		st.ImageSearch = &genai.ImageSearch{}
	}
	return &genai.Tool{GoogleSearch: &genai.GoogleSearch{SearchTypes: st}}
}

func thinkingLevel(l domain.ThinkingLevel) genai.ThinkingLevel {
	return genai.ThinkingLevel(strings.ToUpper(string(l)))
}

// parseToResponse は最初の候補から画像とテキストを取り出します。
func parseToResponse(resp *genai.GenerateContentResponse) (*ImageOutput, error) {
	if resp == nil {
		return nil, domain.RemoteError("no response from Gemini", nil)
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		msg := "prompt was blocked (" + string(fb.BlockReason) + ")"
		if fb.BlockReasonMessage != "" {
			msg += ": " + fb.BlockReasonMessage
		}
		return nil, domain.RemoteError(msg, nil)
	}
	if len(resp.Candidates) == 0 {
		return nil, domain.RemoteError("no image was generated: empty response", nil)
	}

	// 最初の候補のみを利用する
	candidate := resp.Candidates[0]
	var texts []string
	var out *ImageOutput

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			if part.Text != "" {
				texts = append(texts, part.Text)
			}
			if out == nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				out = &ImageOutput{Data: part.InlineData.Data, MimeType: part.InlineData.MIMEType}
			}
		}
	}

	if out != nil {
		out.Text = strings.Join(texts, "\n")
		return out, nil
	}

	// 安全フィルター等によるブロックの確認
	switch fr := candidate.FinishReason; fr {
	case "", genai.FinishReasonUnspecified, genai.FinishReasonStop:
	default:
		return nil, domain.RemoteError("no image was generated (finish reason: "+string(fr)+")", nil)
	}
	if len(texts) > 0 {
		return nil, domain.RemoteError("no image was generated; model replied: "+strings.Join(texts, " "), nil)
	}
	return nil, domain.RemoteError("no image was generated", nil)
}
