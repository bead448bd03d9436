package model

import (
	"sort"
	"strings"
	"time"
)

// Dataset is the logical name of a Notion database the app reads or writes.
type Dataset string

const (
	DatasetTeachers       Dataset = "teachers"
	DatasetStudents       Dataset = "students"
	DatasetScores         Dataset = "scores"
	DatasetExamSchedule   Dataset = "examSchedule"
	DatasetEnrollment     Dataset = "enrollment"
	DatasetMakeup         Dataset = "makeup"
	DatasetDMMessages     Dataset = "dmMessages"
	DatasetExams          Dataset = "exams"
	DatasetAbsenceHistory Dataset = "absenceHistory"
	DatasetNotifications  Dataset = "notifications"
)

// RequiredDatasets must all carry a database id for a workspace to be valid.
var RequiredDatasets = []Dataset{
	DatasetTeachers,
	DatasetStudents,
	DatasetScores,
	DatasetExamSchedule,
	DatasetEnrollment,
	DatasetMakeup,
	DatasetDMMessages,
}

// Workspace is the validated configuration: the Notion integration key and
// the database id behind every dataset.
type Workspace struct {
	APIKey      string             `json:"api_key"`
	Databases   map[Dataset]string `json:"databases"`
	AcademyName string             `json:"academy_name,omitempty"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Missing lists required datasets without a database id.
func (w *Workspace) Missing() []Dataset {
	var missing []Dataset
	for _, ds := range RequiredDatasets {
		if strings.TrimSpace(w.Databases[ds]) == "" {
			missing = append(missing, ds)
		}
	}
	return missing
}

// Summary is the key-free view of a workspace returned to the renderer.
func (w *Workspace) Summary() WorkspaceSummary {
	datasets := make([]Dataset, 0, len(w.Databases))
	for ds, id := range w.Databases {
		if id != "" {
			datasets = append(datasets, ds)
		}
	}
	sort.Slice(datasets, func(i, j int) bool { return datasets[i] < datasets[j] })
	return WorkspaceSummary{
		AcademyName: w.AcademyName,
		APIKeyHint:  maskKey(w.APIKey),
		Datasets:    datasets,
		UpdatedAt:   w.UpdatedAt,
	}
}

// WorkspaceSummary describes the configured workspace without secrets.
type WorkspaceSummary struct {
	AcademyName string    `json:"academy_name,omitempty"`
	APIKeyHint  string    `json:"api_key_hint"`
	Datasets    []Dataset `json:"datasets"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

// WorkspaceDocument is the uploaded configuration file, field names as the
// setup file has always used them.
type WorkspaceDocument struct {
	NotionAPIKey           string `json:"notionApiKey" binding:"required,max=256"`
	NotionTeachersDb       string `json:"notionTeachersDb" binding:"required,max=128"`
	NotionStudentsDb       string `json:"notionStudentsDb" binding:"required,max=128"`
	NotionScoresDb         string `json:"notionScoresDb" binding:"required,max=128"`
	NotionExamScheduleDb   string `json:"notionExamScheduleDb" binding:"required,max=128"`
	NotionEnrollmentDb     string `json:"notionEnrollmentDb" binding:"required,max=128"`
	NotionMakeupDb         string `json:"notionMakeupDb" binding:"required,max=128"`
	NotionDmMessagesDb     string `json:"notionDmMessagesDb" binding:"required,max=128"`
	NotionExamsDb          string `json:"notionExamsDb" binding:"omitempty,max=128"`
	NotionAbsenceHistoryDb string `json:"notionAbsenceHistoryDb" binding:"omitempty,max=128"`
	NotionNotificationsDb  string `json:"notionNotificationsDb" binding:"omitempty,max=128"`
	AcademyName            string `json:"academyName" binding:"omitempty,max=100"`
}

// Normalize trims surrounding whitespace from every field so a blank value
// fails the required check.
func (d *WorkspaceDocument) Normalize() {
	for _, f := range []*string{
		&d.NotionAPIKey, &d.NotionTeachersDb, &d.NotionStudentsDb, &d.NotionScoresDb,
		&d.NotionExamScheduleDb, &d.NotionEnrollmentDb, &d.NotionMakeupDb,
		&d.NotionDmMessagesDb, &d.NotionExamsDb, &d.NotionAbsenceHistoryDb,
		&d.NotionNotificationsDb, &d.AcademyName,
	} {
		*f = strings.TrimSpace(*f)
	}
}

// Workspace converts a validated document.
func (d *WorkspaceDocument) Workspace() *Workspace {
	dbs := map[Dataset]string{
		DatasetTeachers:     d.NotionTeachersDb,
		DatasetStudents:     d.NotionStudentsDb,
		DatasetScores:       d.NotionScoresDb,
		DatasetExamSchedule: d.NotionExamScheduleDb,
		DatasetEnrollment:   d.NotionEnrollmentDb,
		DatasetMakeup:       d.NotionMakeupDb,
		DatasetDMMessages:   d.NotionDmMessagesDb,
	}
	optional := map[Dataset]string{
		DatasetExams:          d.NotionExamsDb,
		DatasetAbsenceHistory: d.NotionAbsenceHistoryDb,
		DatasetNotifications:  d.NotionNotificationsDb,
	}
	for ds, id := range optional {
		if id != "" {
			dbs[ds] = id
		}
	}
	return &Workspace{
		APIKey:      d.NotionAPIKey,
		Databases:   dbs,
		AcademyName: d.AcademyName,
	}
}
