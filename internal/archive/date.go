package archive

import (
	"fmt"
	"regexp"
)

// datedPathPattern matches the /YYYY/MM/DD/ segment of a permalink path.
var datedPathPattern = regexp.MustCompile(`/(\d{4})/(\d{2})/(\d{2})/`)

// DateFromURL extracts an ISO date from a permalink like /2025/12/13/slug/.
// It returns nil when the URL carries no dated path segment.
func DateFromURL(url string) *string {
	m := datedPathPattern.FindStringSubmatch(url)
	if m == nil {
		return nil
	}
	date := fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
	return &date
}
