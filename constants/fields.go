package constants

// Canonical column names the detector set knows how to fill. Templates may
// request any subset, superset, or reordering of these; unknown columns
// resolve to empty values.
const (
	FieldFileName         = "File Name"
	FieldCourse           = "Course Number and Name"
	FieldFaculty          = "Faculty Name"
	FieldEmail            = "CPP Email Listed"
	FieldOfficeHours      = "Office Hours Listed"
	FieldOfficeLocation   = "Office Location Listed"
	FieldClassLocation    = "Class Location Listed"
	FieldModality         = "Modality"
	FieldGradeComponents  = "Grade Components Listed"
	FieldWeeklySchedule   = "Weekly Schedule Listed"
	FieldInPersonRatio    = "50% In-Person Sessions"
	FieldLearningOutcomes = "Learning Outcomes Listed"
	FieldTextbook         = "Textbook Listed"
	FieldNotes            = "Notes"
)

// YesNo string values stored in records. Empty string means "not found";
// values are never null.
const (
	Yes = "Yes"
	No  = "No"
)

// RunStatus is the canonical status for batch run rows in the history store.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "RUNNING"
	RunStatusFinished RunStatus = "FINISHED"
	RunStatusAborted  RunStatus = "ABORTED"
)

// DocStatus is the per-document outcome recorded in the history store.
type DocStatus string

const (
	DocStatusOK        DocStatus = "OK"         // text extracted, fields analyzed
	DocStatusNoText    DocStatus = "NO_TEXT"    // extraction produced empty text
	DocStatusDetectErr DocStatus = "DETECT_ERR" // a detector failed; record emitted empty
)
