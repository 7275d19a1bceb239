package htmlutil

import (
	"encoding/json"
	"strings"
)

// ScriptJSON decodes the JSON value assigned right after `marker` in a
// page, as in `var ytInitialData = {...};`. Trailing script is ignored.
func ScriptJSON(page, marker string, v any) bool {
	idx := strings.Index(page, marker)
	if idx < 0 {
		return false
	}
	rest := strings.TrimLeft(page[idx+len(marker):], " \t\r\n=")
	if rest == "" {
		return false
	}
	return json.NewDecoder(strings.NewReader(rest)).Decode(v) == nil
}
