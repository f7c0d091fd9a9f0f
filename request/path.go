package request

import "strings"

// PathInfo is a request path split the way a content resolver sees it:
//
//	/content/site/page.selector1.selector2.json/suffix/path
//
// ResourcePath is /content/site/page, Selectors are [selector1 selector2],
// Extension is json and Suffix is /suffix/path.
type PathInfo struct {
	ResourcePath string
	Selectors    []string
	Extension    string
	Suffix       string
}

// ParsePath treats the last segment that contains a dot as the one
// carrying selectors and extension; the segments after it form the suffix.
// Suffix segments therefore must not contain dots.
func ParsePath(p string) PathInfo {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	segments := strings.Split(p, "/")
	for i := len(segments) - 1; i > 0; i-- {
		dot := strings.Index(segments[i], ".")
		if dot < 0 {
			continue
		}

		info := PathInfo{
			ResourcePath: strings.Join(append(segments[:i:i], segments[i][:dot]), "/"),
		}
		if i < len(segments)-1 {
			info.Suffix = "/" + strings.Join(segments[i+1:], "/")
		}

		parts := strings.Split(segments[i][dot+1:], ".")
		info.Extension = parts[len(parts)-1]
		for _, selector := range parts[:len(parts)-1] {
			if selector != "" {
				info.Selectors = append(info.Selectors, selector)
			}
		}
		return info
	}

	return PathInfo{ResourcePath: p}
}

func (p PathInfo) HasSelector(selector string) bool {
	for _, s := range p.Selectors {
		if s == selector {
			return true
		}
	}
	return false
}
