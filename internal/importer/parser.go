package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Record status values.
const (
	StatusUnprocessed = 0
	StatusResolved    = 1
	StatusRejected    = 2
)

// SessionImportRecord is one validated row of import data. Records are
// ephemeral: created during parse, consumed once during reconciliation,
// never persisted.
type SessionImportRecord struct {
	CourseRef        string
	SchedulerRef     string
	Date             time.Time // midnight, date component only
	StartHour        int
	StartMinute      int
	DurationMinutes  int
	WantsMeeting     bool
	StudentFirstName string
	StudentLastName  string
	Status           int
}

// StartAt combines the date and time-of-day columns.
func (r *SessionImportRecord) StartAt() time.Time {
	return r.Date.Add(time.Duration(r.StartHour)*time.Hour + time.Duration(r.StartMinute)*time.Minute)
}

// RowResult is the outcome of parsing one row: either a record or a
// diagnostic, never both.
type RowResult struct {
	Row        int // 1-based data row number, header excluded
	Record     *SessionImportRecord
	Diagnostic *Entry
}

// Rejected reports whether the row was dropped.
func (r RowResult) Rejected() bool {
	return r.Diagnostic != nil
}

// RowParser turns raw rows into session records. It is a pure
// string-to-struct transform; it never touches persisted state.
type RowParser struct {
	mapping        ColumnMapping
	meetingEnabled bool
}

func NewRowParser(mapping ColumnMapping, meetingEnabled bool) *RowParser {
	return &RowParser{mapping: mapping, meetingEnabled: meetingEnabled}
}

// Date layouts accepted by the date column, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseRow validates one raw row. On rejection the returned result
// carries a problem entry and a nil record; rejections never abort the
// batch.
func (p *RowParser) ParseRow(row []string) RowResult {
	rec := &SessionImportRecord{Status: StatusUnprocessed}

	rec.CourseRef = strings.TrimSpace(columnData(row, p.mapping.Course))
	if rec.CourseRef == "" {
		return reject(CodeMissingCourse, "course shortname is missing")
	}

	rec.SchedulerRef = strings.TrimSpace(columnData(row, p.mapping.Scheduler))
	if rec.SchedulerRef == "" {
		return reject(CodeMissingScheduler, "scheduler name is missing")
	}

	date, err := parseDate(strings.TrimSpace(columnData(row, p.mapping.Date)))
	if err != nil {
		return reject(CodeInvalidDate, fmt.Sprintf("cannot parse session date %q", columnData(row, p.mapping.Date)))
	}
	rec.Date = date

	timeCell := strings.TrimSpace(columnData(row, p.mapping.Time))
	if timeCell == "" {
		return reject(CodeMissingStartTime, "session start time is missing")
	}
	hour, minute, err := parseClock(timeCell)
	if err != nil {
		return reject(CodeInvalidStartTime, fmt.Sprintf("cannot parse session start time %q", timeCell))
	}
	rec.StartHour = hour
	rec.StartMinute = minute

	// Duration is cleaned to a non-negative integer here; range
	// validation belongs to slot creation, not parsing.
	rec.DurationMinutes = cleanInt(columnData(row, p.mapping.Duration))

	if p.meetingEnabled {
		rec.WantsMeeting = cleanBool(columnData(row, p.mapping.RemoteMeeting))
	}

	rec.StudentFirstName = strings.TrimSpace(columnData(row, p.mapping.StudentFirstName))
	rec.StudentLastName = strings.TrimSpace(columnData(row, p.mapping.StudentLastName))

	return RowResult{Record: rec}
}

// ParseCSV reads delimited text with a header row and parses every data
// row in order. Row-level failures become diagnostics in the results;
// only a malformed stream is an error.
func (p *RowParser) ParseCSV(r io.Reader, delimiter rune) ([]RowResult, error) {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.FieldsPerRecord = -1 // rows may be ragged, mapping handles it

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("import file is empty")
		}
		return nil, fmt.Errorf("read header row: %w", err)
	}

	var results []RowResult
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rowNum+1, err)
		}
		rowNum++
		res := p.ParseRow(row)
		res.Row = rowNum
		results = append(results, res)
	}

	return results, nil
}

func reject(code DiagnosticCode, text string) RowResult {
	return RowResult{Diagnostic: &Entry{Kind: KindProblem, Code: code, Text: text}}
}

func parseDate(cell string) (time.Time, error) {
	if cell == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", cell)
}

// parseClock splits strictly on ':' with plain integer parts. "2:5"
// therefore means 02:05; there is no fallback to other formats.
func parseClock(cell string) (int, int, error) {
	parts := strings.Split(cell, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected H:MM, got %q", cell)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("bad hour in %q", cell)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("bad minute in %q", cell)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock out of range in %q", cell)
	}
	return hour, minute, nil
}

// cleanInt coerces a cell to a non-negative integer. Garbage and
// negatives collapse to 0.
func cleanInt(cell string) int {
	n, err := strconv.Atoi(strings.TrimSpace(cell))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// cleanBool accepts the usual truthy spellings; anything else is false.
func cleanBool(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "1", "yes", "true", "on", "y":
		return true
	}
	return false
}
