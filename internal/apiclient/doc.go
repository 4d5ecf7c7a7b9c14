// Package apiclient is the HTTP transport shared by the projectboard API
// clients.
//
// Every request carries a bearer token (when configured), an X-Request-ID
// header, waits on the client-side rate limiter and is recorded as an
// OpenTelemetry span. Responses use the envelope
//
//	{"success": bool, "message": string, "data": ...}
//
// and failures surface as *APIError carrying the server's message.
package apiclient
