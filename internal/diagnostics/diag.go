// Package diagnostics describes problems and events reported to preview
// clients, and the fixed strip test patterns.
package diagnostics

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// Codes used by the runner.
const (
	CodeCmdInvalidValue   = "CMD.INVALID_VALUE"
	CodeCmdInvalidCommand = "CMD.INVALID_COMMAND"
	CodeCmdOutOfMemory    = "CMD.OUT_OF_MEMORY"
	CodeDriverWrite       = "DRIVER.WRITE"
	CodePowerLimited      = "POWER.LIMITED"
	CodeSeqClip           = "SEQ.CLIP"
	CodeTestRunning       = "TEST.RUNNING"
	CodeTestDone          = "TEST.DONE"
)
