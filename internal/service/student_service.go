package service

import (
	"context"
	"slices"

	"github.com/wawa-academy/erp-server/internal/model"
	"github.com/wawa-academy/erp-server/internal/notion"
)

// NotionProvider hands out the Notion client of the current workspace.
type NotionProvider interface {
	Client() (*notion.Client, error)
}

// StudentService reads students and their class slots.
type StudentService struct {
	notion NotionProvider
}

// NewStudentService creates a new StudentService.
func NewStudentService(np NotionProvider) *StudentService {
	return &StudentService{notion: np}
}

// List returns the students session may see, sorted by name. Admins see
// everyone; other teachers see students sharing one of their subjects.
func (s *StudentService) List(ctx context.Context, session *model.Session, q model.StudentListQuery) ([]model.Student, error) {
	client, err := s.notion.Client()
	if err != nil {
		return nil, err
	}
	pages, err := client.Query(ctx, model.DatasetStudents, &notion.QueryRequest{
		Sorts: []notion.Sort{notion.SortBy(colStudentName, notion.Ascending)},
	})
	if err != nil {
		return nil, err
	}

	students := make([]model.Student, 0, len(pages))
	for i := range pages {
		st := studentFromPage(&pages[i])
		if st.Name == "" {
			continue
		}
		if !st.Active && !q.IncludeInactive {
			continue
		}
		if q.Subject != "" && !slices.Contains(st.Subjects, q.Subject) {
			continue
		}
		if !visibleTo(session, st) {
			continue
		}
		students = append(students, st)
	}
	return students, nil
}

// Enrollments returns the weekly class slots of a student.
func (s *StudentService) Enrollments(ctx context.Context, studentID string) ([]model.Enrollment, error) {
	client, err := s.notion.Client()
	if err != nil {
		return nil, err
	}
	pages, err := client.Query(ctx, model.DatasetEnrollment, &notion.QueryRequest{
		Filter: notion.And(notion.RelationContains(colEnrollmentStudent, studentID)),
		Sorts:  []notion.Sort{notion.SortBy(colEnrollmentDay, notion.Ascending)},
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.Enrollment, 0, len(pages))
	for i := range pages {
		p := &pages[i]
		out = append(out, model.Enrollment{
			ID:        p.ID,
			StudentID: p.FirstRelation(colEnrollmentStudent),
			Subject:   p.FlexibleText(colEnrollmentSubject),
			Day:       p.FlexibleText(colEnrollmentDay),
			StartTime: p.Text(colEnrollmentStart),
			EndTime:   p.Text(colEnrollmentEnd),
		})
	}
	return out, nil
}

func studentFromPage(p *notion.Page) model.Student {
	return model.Student{
		ID:          p.ID,
		Name:        p.Text(colStudentName),
		Grade:       p.FlexibleText(colStudentGrade),
		Subjects:    p.MultiSelectNames(colStudentSubjects),
		TeacherIDs:  p.RelationIDs(colStudentTeachers),
		ParentName:  p.Text(colStudentParent),
		ParentPhone: studentPhone(p),
		Active:      p.SelectName(colStudentStatus) != studentInactive,
		CreatedAt:   p.CreatedTime,
		UpdatedAt:   p.LastEditedTime,
	}
}

func studentPhone(p *notion.Page) string {
	if phone := p.Phone(colStudentPhone); phone != "" {
		return phone
	}
	return p.Text(colStudentPhone)
}

// visibleTo reports whether a non-admin teacher shares a subject with st.
func visibleTo(session *model.Session, st model.Student) bool {
	if session == nil {
		return false
	}
	if session.IsAdmin {
		return true
	}
	for _, subj := range st.Subjects {
		if slices.Contains(session.Subjects, subj) {
			return true
		}
	}
	return false
}
