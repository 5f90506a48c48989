// filter.go — Filter criteria for GetRequests. An invalid URL pattern
// degrades to a case-insensitive substring match rather than erroring.
package queries

import (
	"regexp"
	"strings"

	"github.com/netcausal/browsercausality/internal/types"
)

// Filter narrows GetRequests results. Zero-value fields are not applied;
// a MaxStatus <= 0 means no upper bound on the status.
type Filter struct {
	URLPattern   string
	Method       string
	MinStatus    int
	MaxStatus    int // <= 0 means unbounded
	ResourceKind types.ResourceKind
	MinStartMs   int64
	Limit        int // <= 0 means unbounded
}

// matcher resolves a URL pattern once so repeated filtering doesn't
// recompile the regex per record.
type matcher struct {
	re        *regexp.Regexp
	substring string
}

func newMatcher(pattern string) *matcher {
	if pattern == "" {
		return nil
	}
	if re, err := regexp.Compile(pattern); err == nil {
		return &matcher{re: re}
	}
	return &matcher{substring: pattern}
}

func (m *matcher) matches(url string) bool {
	if m == nil {
		return true
	}
	if m.re != nil {
		return m.re.MatchString(url)
	}
	return strings.Contains(strings.ToLower(url), strings.ToLower(m.substring))
}

// Predicate returns a per-record test function equivalent to this
// filter's matching rules, for callers that walk records one at a time
// (e.g. cursor-based streaming) instead of filtering a full snapshot.
func (f Filter) Predicate() func(*types.RequestRecord) bool {
	urlMatcher := newMatcher(f.URLPattern)
	return func(req *types.RequestRecord) bool {
		return f.matches(req, urlMatcher)
	}
}

func (f Filter) matches(req *types.RequestRecord, urlMatcher *matcher) bool {
	if !urlMatcher.matches(req.URL) {
		return false
	}
	if f.Method != "" && !strings.EqualFold(req.Method, f.Method) {
		return false
	}
	if f.MinStatus != 0 && req.Status < f.MinStatus {
		return false
	}
	if f.MaxStatus > 0 && req.Status > f.MaxStatus {
		return false
	}
	if f.ResourceKind != "" && req.ResourceKind != f.ResourceKind {
		return false
	}
	if f.MinStartMs != 0 && req.StartMs < f.MinStartMs {
		return false
	}
	return true
}
