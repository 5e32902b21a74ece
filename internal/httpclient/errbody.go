package httpclient

import (
	"strings"

	"github.com/tidwall/gjson"
)

var messagePaths = []string{"message", "error.message", "error", "msg"}

// errorMessage reduces an error response body to something worth logging:
// the message field of a JSON body when one exists, otherwise the trimmed
// body text.
func errorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if gjson.ValidBytes(body) {
		for _, path := range messagePaths {
			res := gjson.GetBytes(body, path)
			if res.Exists() && res.Type == gjson.String && strings.TrimSpace(res.Str) != "" {
				return strings.TrimSpace(res.Str)
			}
		}
	}
	return strings.TrimSpace(string(body))
}
