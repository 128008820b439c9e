// Package validate checks lineups against the roster rules. The same checks
// run on generated lineups (where everything is surfaced as a warning) and on
// externally proposed candidates (where error-level issues reject).
package validate

import (
	"errors"
	"fmt"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
)

// ErrRejected is wrapped by every RejectionError.
var ErrRejected = errors.New("lineup rejected")

// RejectionError carries the issues that caused a lineup to be rejected.
type RejectionError struct {
	Issues []lineup.Issue
}

func (e *RejectionError) Error() string {
	switch len(e.Issues) {
	case 0:
		return ErrRejected.Error()
	case 1:
		return fmt.Sprintf("%s: %s", ErrRejected, e.Issues[0].Message)
	default:
		return fmt.Sprintf("%s: %s (and %d more)", ErrRejected, e.Issues[0].Message, len(e.Issues)-1)
	}
}

func (e *RejectionError) Unwrap() error { return ErrRejected }

// Report is the ordered list of issues found by a check.
type Report struct {
	Issues []lineup.Issue `json:"issues"`
}

// Merge concatenates reports in order.
func Merge(reports ...Report) Report {
	var out Report
	for _, r := range reports {
		out.Issues = append(out.Issues, r.Issues...)
	}
	return out
}

// Accepted reports whether no error-level issue was found.
func (r Report) Accepted() bool {
	return len(r.Errors()) == 0
}

// Errors returns the error-level issues.
func (r Report) Errors() []lineup.Issue {
	return r.filter(lineup.SeverityError)
}

// Warnings returns the warning-level issues.
func (r Report) Warnings() []lineup.Issue {
	return r.filter(lineup.SeverityWarning)
}

// Err returns a *RejectionError when the report holds errors, nil otherwise.
func (r Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	return &RejectionError{Issues: errs}
}

// Has reports whether any issue carries code.
func (r Report) Has(code lineup.IssueCode) bool {
	for _, issue := range r.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

func (r Report) filter(sev lineup.Severity) []lineup.Issue {
	var out []lineup.Issue
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

func (r *Report) add(issue lineup.Issue) {
	r.Issues = append(r.Issues, issue)
}
