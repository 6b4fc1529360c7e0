// In file: internal/planner/subject.go
package planner

import "regexp"

// UnknownSubject is used when a message names no subject.
const UnknownSubject = "Unknown"

// subjectPattern captures the word after "for", as in "weather for Paris".
var subjectPattern = regexp.MustCompile(`for\s+(\w+)`)

// ExtractSubject returns the first word following "for" in content, or
// UnknownSubject when there is none.
func ExtractSubject(content string) string {
	m := subjectPattern.FindStringSubmatch(content)
	if m == nil {
		return UnknownSubject
	}
	return m[1]
}
