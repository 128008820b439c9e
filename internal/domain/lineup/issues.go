package lineup

import "fmt"

// Severity separates issues that reject a lineup from ones that are only shown to the manager.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IssueCode is a stable machine-readable identifier for a rule violation.
type IssueCode string

const (
	IssueDuplicatePlayer    IssueCode = "duplicate_player"
	IssueUnknownPlayer      IssueCode = "unknown_player"
	IssueMissingPlayer      IssueCode = "missing_player"
	IssuePositionConflict   IssueCode = "position_conflict"
	IssueMissingPosition    IssueCode = "missing_position"
	IssueInvalidPosition    IssueCode = "invalid_position"
	IssueInningCount        IssueCode = "inning_count"
	IssueGenderRun          IssueCode = "gender_run"
	IssueBelowMinimumRoster IssueCode = "below_minimum_roster"
	IssueLockedViolation    IssueCode = "locked_violation"
	IssueLockConflict       IssueCode = "lock_conflict"
	IssueOutCapExceeded     IssueCode = "out_cap_exceeded"
)

// Issue is a structured validation message suitable for showing to a manager.
// Inning is 1-based; zero means the issue is not tied to a single inning.
type Issue struct {
	Code     IssueCode    `json:"code"`
	Severity Severity     `json:"severity"`
	Message  string       `json:"message"`
	PlayerID string       `json:"playerId,omitempty"`
	Position PositionCode `json:"position,omitempty"`
	Inning   int          `json:"inning,omitempty"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s [%s]: %s", i.Severity, i.Code, i.Message)
}

// Warning builds a warning-level issue.
func Warning(code IssueCode, format string, args ...any) Issue {
	return Issue{Code: code, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// Error builds an error-level issue.
func Error(code IssueCode, format string, args ...any) Issue {
	return Issue{Code: code, Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

// AsWarnings downgrades every issue to a warning.
func AsWarnings(issues []Issue) []Issue {
	out := make([]Issue, len(issues))
	for i, issue := range issues {
		issue.Severity = SeverityWarning
		out[i] = issue
	}
	return out
}

// WithPlayer attaches a player id.
func (i Issue) WithPlayer(id string) Issue {
	i.PlayerID = id
	return i
}

// WithPosition attaches a position.
func (i Issue) WithPosition(pos PositionCode) Issue {
	i.Position = pos
	return i
}

// AtInning attaches a zero-based inning index, stored 1-based.
func (i Issue) AtInning(index int) Issue {
	i.Inning = index + 1
	return i
}
