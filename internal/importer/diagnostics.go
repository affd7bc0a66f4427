package importer

// DiagnosticCode identifies one expected business outcome during parse
// or reconciliation. These are never Go errors; rows that trigger them
// are dropped and the batch continues.
type DiagnosticCode string

const (
	// Parser codes.
	CodeMissingCourse    DiagnosticCode = "MissingCourse"
	CodeMissingScheduler DiagnosticCode = "MissingScheduler"
	CodeInvalidDate      DiagnosticCode = "InvalidDate"
	CodeMissingStartTime DiagnosticCode = "MissingStartTime"
	CodeInvalidStartTime DiagnosticCode = "InvalidStartTime"

	// Reconciler codes.
	CodeCourseNotFound           DiagnosticCode = "CourseNotFound"
	CodeInvalidDuration          DiagnosticCode = "InvalidDuration"
	CodeCourseHasNoTeacher       DiagnosticCode = "CourseHasNoTeacher"
	CodeCourseHasNoScheduler     DiagnosticCode = "CourseHasNoSchedulerActivity"
	CodeSchedulerNameInvalid     DiagnosticCode = "SchedulerNameInvalid"
	CodeInvalidRemoteMeetingUser DiagnosticCode = "InvalidRemoteMeetingUser"
	CodeDuplicateSession         DiagnosticCode = "DuplicateSession"
	CodeInvalidStudent           DiagnosticCode = "InvalidStudent"
	CodeRemoteLookupFailed       DiagnosticCode = "RemoteLookupFailed"

	// Run summary.
	CodeSessionsGenerated DiagnosticCode = "SessionsGenerated"
)

// EntryKind classifies ledger entries for display.
type EntryKind string

const (
	KindProblem EntryKind = "problem"
	KindMessage EntryKind = "message"
	KindSuccess EntryKind = "success"
)

// Entry is one human-readable line in the import ledger.
type Entry struct {
	Kind EntryKind      `json:"kind"`
	Code DiagnosticCode `json:"code"`
	Text string         `json:"text"`
}

// Ledger accumulates diagnostics during an import run, preserving
// insertion order, and is flushed to the caller once at the end.
type Ledger struct {
	entries []Entry
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) Problem(code DiagnosticCode, text string) {
	l.entries = append(l.entries, Entry{Kind: KindProblem, Code: code, Text: text})
}

func (l *Ledger) Message(code DiagnosticCode, text string) {
	l.entries = append(l.entries, Entry{Kind: KindMessage, Code: code, Text: text})
}

func (l *Ledger) Success(code DiagnosticCode, text string) {
	l.entries = append(l.entries, Entry{Kind: KindSuccess, Code: code, Text: text})
}

// Entries returns the accumulated entries in insertion order.
func (l *Ledger) Entries() []Entry {
	return l.entries
}

// Problems counts entries recorded as problems.
func (l *Ledger) Problems() int {
	n := 0
	for _, e := range l.entries {
		if e.Kind == KindProblem {
			n++
		}
	}
	return n
}
