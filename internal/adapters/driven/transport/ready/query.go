package ready

import (
	"net/url"
	"strings"
)

// Query parameter names the reporting API recognises.
const (
	templateParam  = "template"
	requestIDParam = "request"
	startDateParam = "startDate"
	endDateParam   = "endDate"
)

// param is one query parameter/value pair.
type param struct {
	key   string
	value string
}

// encodeQuery renders parameters in exactly the order given. The
// reporting API depends on parameter order in the query string
// (undocumented but load-bearing), so url.Values, which sorts keys,
// must not be used here. Values are form-encoded: spaces become '+',
// which the server accepts.
func encodeQuery(params ...param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}
