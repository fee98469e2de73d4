package cli

import (
	"strings"

	"github.com/shouni/nano-banana-cli/pkg/domain"
)

// normalizeArgs は -ref を --reference に書き換え、1つのフラグの後に続く複数のパスを
// それぞれ --reference=PATH に展開します。pflag は複数文字の短縮フラグを扱えないためです。
// -ref=PATH / --reference=PATH の形式は後続の引数を取り込みません。
func normalizeArgs(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	greedy := false

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			return append(out, args[i:]...), nil
		case a == "-ref" || a == "--reference":
			if i+1 >= len(args) || isFlag(args[i+1]) {
				return nil, domain.UsageError("argument -ref/--reference: expected at least one argument")
			}
			i++
			out = append(out, "--reference="+args[i])
			greedy = true
		case strings.HasPrefix(a, "-ref="):
			// = で値を付けた形式は1つの値だけを取る
			out = append(out, "--reference="+strings.TrimPrefix(a, "-ref="))
			greedy = false
		case strings.HasPrefix(a, "--reference="):
			out = append(out, a)
			greedy = false
		case greedy && !isFlag(a):
			out = append(out, "--reference="+a)
		default:
			greedy = false
			out = append(out, a)
		}
	}
	return out, nil
}

func isFlag(a string) bool {
	return len(a) > 1 && strings.HasPrefix(a, "-")
}
