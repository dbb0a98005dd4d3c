// Package redact holds the shared sensitive-data patterns used by both the
// capture-time redactor and the validation-time scanner. The two sides must
// agree exactly; a pattern that exists on one side only produces false
// negatives or false positives, so every pattern is defined once here.
package redact

import (
	"fmt"
	"regexp"
)

// HomePlaceholder replaces /Users/<name> and /home/<name> prefixes.
const HomePlaceholder = "/home/USER"

var (
	homePattern = regexp.MustCompile(`/(Users|home)/[^/]+`)
	uuidPattern = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\b`)
	hexPattern  = regexp.MustCompile(`(?i)\b[0-9a-f]{32,}\b`)
)

// Scan reports every sensitive pattern class present in value, one message
// per class, labelled with the field the value came from. It is applied only
// to provenance free-text fields, never to file contents or digest fields.
func Scan(value, label string) []string {
	var violations []string
	if homePattern.MatchString(value) {
		violations = append(violations, fmt.Sprintf("%s contains unredacted home path", label))
	}
	if uuidPattern.MatchString(value) {
		violations = append(violations, fmt.Sprintf("%s contains unredacted UUID", label))
	}
	if hexPattern.MatchString(value) {
		violations = append(violations, fmt.Sprintf("%s contains unredacted hex id", label))
	}
	return violations
}

// Path scrubs home-directory prefixes from value.
func Path(value string) string {
	return homePattern.ReplaceAllString(value, HomePlaceholder)
}

// ID scrubs UUIDs and long hex identifiers from value. UUIDs are replaced
// first so their hex groups are never re-matched as bare hex.
func ID(value string) string {
	value = uuidPattern.ReplaceAllString(value, "<UUID>")
	value = hexPattern.ReplaceAllString(value, "<HEX>")
	return value
}

// CommandLine applies all substitutions to one command-line token.
func CommandLine(value string) string {
	return ID(Path(value))
}

// Values applies CommandLine to every element.
func Values(values []string) []string {
	redacted := make([]string, 0, len(values))
	for _, value := range values {
		redacted = append(redacted, CommandLine(value))
	}
	return redacted
}
