package logging

import "log/slog"

// Structured field keys shared by the service, the HTTP layer and the CLI.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldError      = "error"
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
	FieldTeamID     = "team_id"
	FieldLineupID   = "lineup_id"
	FieldInnings    = "innings"
	FieldSetting    = "setting"
	FieldIssues     = "issues"
)

// ServiceAttrs returns the attributes stamped on every record. Empty values
// are left out.
func ServiceAttrs(service, version string) []slog.Attr {
	var attrs []slog.Attr
	for _, kv := range [][2]string{{FieldService, service}, {FieldVersion, version}} {
		if kv[1] != "" {
			attrs = append(attrs, slog.String(kv[0], kv[1]))
		}
	}
	return attrs
}
