package model

import "regexp"

// sourcePattern matches owner/repo locators: two non-empty segments of
// letters, digits, underscore, period, or hyphen, separated by one slash.
var sourcePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+/[a-zA-Z0-9_.-]+$`)

// IsValidSource reports whether source is a well-formed owner/repo locator.
// Records with invalid sources may legally appear in a sync plan; callers
// run this check before attempting any install.
func IsValidSource(source string) bool {
	return sourcePattern.MatchString(source)
}
