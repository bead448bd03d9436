package model

// ExamSchedule is the exam date assigned to a student for a month.
type ExamSchedule struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	YearMonth string `json:"year_month"`
	ExamDate  string `json:"exam_date"`
}

// BulkExamDateRequest assigns one exam date to many students.
type BulkExamDateRequest struct {
	StudentIDs []string `json:"student_ids" binding:"required,min=1,max=200,dive,required,max=64"`
	YearMonth  string   `json:"year_month" binding:"required,datetime=2006-01"`
	ExamDate   string   `json:"exam_date" binding:"required,datetime=2006-01-02"`
}

// BulkResult reports the outcome of a bulk write.
type BulkResult struct {
	Created int               `json:"created"`
	Updated int               `json:"updated"`
	Failed  map[string]string `json:"failed,omitempty"`
}
