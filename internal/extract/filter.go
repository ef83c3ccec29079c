package extract

import (
	"path/filepath"
	"strings"
)

// IsAllowed reports whether a filename's extension passes the configured
// allow and deny lists. The deny list wins when an extension appears on
// both. Extensions are matched case-insensitively and include the dot.
func IsAllowed(filename string, allowed, excluded []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range excluded {
		if ext == strings.ToLower(e) {
			return false
		}
	}
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return true
		}
	}
	return false
}
