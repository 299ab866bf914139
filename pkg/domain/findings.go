package domain

// Severity ranks validation outcomes.
type Severity string

// Severities form a total order: OK < WARN < BLOCK. A BLOCK finding makes a
// layout/program combination unrunnable; WARN flags soft-quality issues.
const (
	SeverityOK    Severity = "OK"
	SeverityWarn  Severity = "WARN"
	SeverityBlock Severity = "BLOCK"
)

var severityRank = map[Severity]int{
	SeverityOK:    1,
	SeverityWarn:  2,
	SeverityBlock: 3,
}

// Rank returns the numeric position of the severity in the total order.
// Unknown severities rank below OK so they never mask real findings.
func (s Severity) Rank() int {
	return severityRank[s]
}

// MaxSeverity returns the more severe of the two.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Finding is a single validation outcome.
type Finding struct {
	Code    string         `json:"code"`
	Level   Severity       `json:"level"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	// Program names the program (or "A + B" program pair) the finding belongs
	// to; empty for layout-level findings.
	Program string `json:"program,omitempty"`
}

// Result aggregates findings from rule evaluation.
type Result struct {
	Findings []Finding `json:"findings"`
}

// Add appends a finding.
func (r *Result) Add(f Finding) {
	r.Findings = append(r.Findings, f)
}

// Merge appends findings from another result.
func (r *Result) Merge(other Result) {
	if len(other.Findings) == 0 {
		return
	}
	r.Findings = append(r.Findings, other.Findings...)
}

// Overall returns the maximum severity across all findings, OK when empty.
func (r Result) Overall() Severity {
	overall := SeverityOK
	for _, f := range r.Findings {
		overall = MaxSeverity(overall, f.Level)
	}
	return overall
}

// HasBlocking reports whether the result contains a blocking finding.
func (r Result) HasBlocking() bool {
	for _, f := range r.Findings {
		if f.Level == SeverityBlock {
			return true
		}
	}
	return false
}

// ProgramResult is the verdict for a single validated program.
type ProgramResult struct {
	Program  string    `json:"program"`
	Overall  Severity  `json:"overall"`
	Findings []Finding `json:"findings"`
}

// CheckResult is the full verdict for one evaluation request.
type CheckResult struct {
	Overall    Severity        `json:"overall"`
	Findings   []Finding       `json:"findings"`
	PerProgram []ProgramResult `json:"per_program"`
	Selected   []string        `json:"selected"`
}

// RuleViolationError is returned when a transaction is rejected because a
// structural rule produced a blocking finding.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
