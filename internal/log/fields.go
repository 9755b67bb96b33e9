// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"

	FieldReceiver   = "receiver"
	FieldServiceRef = "service_ref"
	FieldView       = "view"
	FieldQuery      = "query"
	FieldEndpoint   = "endpoint"

	FieldStatus   = "status"
	FieldDuration = "duration_ms"
)
