// exclude.go — URL exclusion matching for events entering the Ingester.
// Invalid patterns degrade to substring matching rather than erroring,
// matching the Query Layer's regex-filter policy.
package capture

import "regexp"

type excludeMatcher struct {
	re        *regexp.Regexp
	substring string
}

func compileExcludeMatchers(patterns []string) []excludeMatcher {
	matchers := make([]excludeMatcher, 0, len(patterns))
	for _, p := range patterns {
		if re, err := regexp.Compile(p); err == nil {
			matchers = append(matchers, excludeMatcher{re: re})
			continue
		}
		matchers = append(matchers, excludeMatcher{substring: p})
	}
	return matchers
}

func (i *Ingester) urlExcluded(url string) bool {
	for _, m := range i.excludeMatchers {
		if m.re != nil {
			if m.re.MatchString(url) {
				return true
			}
			continue
		}
		if containsFold(url, m.substring) {
			return true
		}
	}
	return false
}
