package interfaces

// Severity ranks lint findings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single lint finding against an article source.
type Issue struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	// Line is 1-based; zero when the finding applies to the whole document.
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

// Report aggregates lint findings for one document.
type Report struct {
	FilePath string  `json:"file_path"`
	Issues   []Issue `json:"issues"`
}

// Ok reports whether the document passed with no error-severity findings.
func (r Report) Ok() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Errors returns the error-severity findings only.
func (r Report) Errors() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			out = append(out, issue)
		}
	}
	return out
}
