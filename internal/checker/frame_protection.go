package checker

import "strings"

const (
	headerXFrameOptions     = "x-frame-options"
	headerCSP               = "content-security-policy"
	directiveFrameAncestors = "frame-ancestors"
)

// xfoProtectiveValues are X-Frame-Options values that block framing outright.
var xfoProtectiveValues = map[string]bool{
	"DENY":       true,
	"SAMEORIGIN": true,
}

// cspProtectiveTokens are plain substrings searched in the lowercased
// frame-ancestors directive. Any hit counts as protection.
var cspProtectiveTokens = []string{
	"'none'",
	"'self'",
	"https://",
}

// Classification is the verdict of Classify for one set of response headers.
type Classification struct {
	Vulnerable        bool
	XFrameOptions     *string // uppercased header value, nil when absent or empty
	CSPFrameAncestors *string // first frame-ancestors directive, trimmed, original case
	Reasons           []string
}

// Classify decides whether the given headers protect a page from being framed.
// X-Frame-Options and CSP frame-ancestors are evaluated independently; either
// one is enough, and Reasons lists every protection that applied.
func Classify(h Headers) Classification {
	c := Classification{Reasons: []string{}}

	xfo := ""
	if v, ok := h.Get(headerXFrameOptions); ok {
		xfo = strings.ToUpper(v)
		if xfo != "" {
			value := xfo
			c.XFrameOptions = &value
		}
	}

	if policy, ok := h.Get(headerCSP); ok {
		c.CSPFrameAncestors = frameAncestorsDirective(policy)
	}

	if xfoProtects(xfo) {
		c.Reasons = append(c.Reasons, "X-Frame-Options: "+xfo)
	}

	if c.CSPFrameAncestors != nil && cspProtects(*c.CSPFrameAncestors) {
		c.Reasons = append(c.Reasons, "CSP: "+*c.CSPFrameAncestors)
	}

	c.Vulnerable = len(c.Reasons) == 0
	return c
}

// xfoProtects expects an already uppercased value. ALLOW-FROM is deprecated in
// browsers but still counts here.
func xfoProtects(xfo string) bool {
	return xfoProtectiveValues[xfo] || strings.HasPrefix(xfo, "ALLOW-FROM")
}

func cspProtects(directive string) bool {
	lower := strings.ToLower(directive)
	for _, token := range cspProtectiveTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// frameAncestorsDirective returns the first ';'-separated segment of policy
// mentioning frame-ancestors. Later matches are ignored.
func frameAncestorsDirective(policy string) *string {
	if !strings.Contains(strings.ToLower(policy), directiveFrameAncestors) {
		return nil
	}
	for _, segment := range strings.Split(policy, ";") {
		if strings.Contains(strings.ToLower(segment), directiveFrameAncestors) {
			directive := strings.TrimSpace(segment)
			return &directive
		}
	}
	return nil
}
