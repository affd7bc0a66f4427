package importer

// ColumnMapping assigns a column index to every logical import field.
// A negative index means the field is absent from the file. The field
// set is fixed, so the mapping is a struct rather than a map.
type ColumnMapping struct {
	Course           int `json:"course"`
	Scheduler        int `json:"scheduler"`
	Date             int `json:"date"`
	Time             int `json:"time"`
	Duration         int `json:"duration"`
	StudentFirstName int `json:"student_first_name"`
	StudentLastName  int `json:"student_last_name"`

	// RemoteMeeting is consumed only when the remote-meeting
	// integration is enabled for the deployment.
	RemoteMeeting int `json:"remote_meeting"`
}

// DefaultMapping is the fixed column order used when the caller
// supplies no explicit mapping: course, scheduler, date, time,
// duration, first name, last name, remote-meeting flag.
func DefaultMapping() ColumnMapping {
	return ColumnMapping{
		Course:           0,
		Scheduler:        1,
		Date:             2,
		Time:             3,
		Duration:         4,
		StudentFirstName: 5,
		StudentLastName:  6,
		RemoteMeeting:    7,
	}
}

// RequiredHeaders lists the expected header labels in default order.
// The remote-meeting column appears only when the integration is on.
func RequiredHeaders(remoteMeetingEnabled bool) []string {
	headers := []string{
		"Course shortname",
		"Scheduler name",
		"Date",
		"Time",
		"Duration",
		"Student first name",
		"Student last name",
	}
	if remoteMeetingEnabled {
		headers = append(headers, "Schedule meeting")
	}
	return headers
}

// columnData returns the mapped cell, or "" when the index is negative
// or the row is too short.
func columnData(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}
