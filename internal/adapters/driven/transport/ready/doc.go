// Package ready implements the driven.RequestAPI port against the
// ReADY reporting REST API.
//
// The client owns every wire detail the core is not allowed to know:
// basic-auth credentials, the fixed request timeout, proactive rate
// limiting, JSON decoding, and query construction. The reporting API
// depends on the order of query parameters, so URLs are assembled with
// explicit ordering rather than url.Values.
package ready
