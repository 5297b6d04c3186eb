package bench

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/Hakuto4838/OrderedDict.git/dict"
	"github.com/Hakuto4838/OrderedDict.git/dict/avl"
	"github.com/Hakuto4838/OrderedDict.git/dict/basic"
	"github.com/Hakuto4838/OrderedDict.git/dict/skip"
)

const (
	ImplAVL   = "avl"
	ImplSkip  = "skip"
	ImplBasic = "basic"
)

var ErrUnknownImpl = errors.New("unknown implementation")

// AllImpls lists the engines in report order.
func AllImpls() []string {
	return []string{ImplAVL, ImplSkip, ImplBasic}
}

// Title is the heading used for an engine in reports.
func Title(impl string) string {
	switch impl {
	case ImplAVL:
		return "AVL Tree"
	case ImplSkip:
		return "Skip List"
	case ImplBasic:
		return "Basic Skip List"
	default:
		return impl
	}
}

// NewImpl builds an empty engine. seed drives the promotion coin of the
// skip lists and is ignored by the AVL tree.
func NewImpl(impl string, seed int64) (dict.Analyable, error) {
	switch impl {
	case ImplAVL:
		return avl.New(), nil
	case ImplSkip:
		return skip.New(skip.WithSeed(seed)), nil
	case ImplBasic:
		return basic.NewBasicSkipList(seed), nil
	default:
		return nil, errors.Wrapf(ErrUnknownImpl, "%q", impl)
	}
}

// ParseImpls 解析逗號分隔的實作清單，空字串或 all 代表全部
func ParseImpls(s string) ([]string, error) {
	if s == "" || s == "all" {
		return AllImpls(), nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	seen := map[string]bool{}
	for _, p := range parts {
		t := strings.TrimSpace(strings.ToLower(p))
		if t == "" || seen[t] {
			continue
		}
		switch t {
		case ImplAVL, ImplSkip, ImplBasic:
			out = append(out, t)
			seen[t] = true
		default:
			return nil, errors.Wrapf(ErrUnknownImpl, "%q", t)
		}
	}
	if len(out) == 0 {
		return AllImpls(), nil
	}
	return out, nil
}
