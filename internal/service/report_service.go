package service

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wawa-academy/erp-server/internal/model"
)

// ReportService assembles monthly report cards.
type ReportService struct {
	students *StudentService
	scores   *ScoreService
	log      zerolog.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(students *StudentService, scores *ScoreService, log zerolog.Logger) *ReportService {
	return &ReportService{
		students: students,
		scores:   scores,
		log:      log.With().Str("component", "report").Logger(),
	}
}

// Monthly returns the report of every student visible to session for a month.
// Students without any score are included with an empty score list.
func (s *ReportService) Monthly(ctx context.Context, session *model.Session, yearMonth string) (*model.MonthlyReport, error) {
	var (
		students []model.Student
		scores   []model.Score
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		students, err = s.students.List(gctx, session, model.StudentListQuery{})
		return err
	})
	g.Go(func() error {
		var err error
		scores, err = s.scores.List(gctx, yearMonth)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return buildMonthlyReport(yearMonth, students, scores), nil
}

func buildMonthlyReport(yearMonth string, students []model.Student, scores []model.Score) *model.MonthlyReport {
	byStudent := make(map[string]*model.StudentReport, len(students))
	report := &model.MonthlyReport{YearMonth: yearMonth, Students: make([]model.StudentReport, 0, len(students))}
	for _, st := range students {
		report.Students = append(report.Students, model.StudentReport{
			StudentID:   st.ID,
			StudentName: st.Name,
			Grade:       st.Grade,
			YearMonth:   yearMonth,
			Scores:      []model.Score{},
		})
	}
	for i := range report.Students {
		byStudent[report.Students[i].StudentID] = &report.Students[i]
	}

	subjects := map[string]struct{}{}
	for _, sc := range scores {
		r, ok := byStudent[sc.StudentID]
		if !ok {
			continue
		}
		if sc.Subject == totalCommentSubject {
			r.TotalComment = sc.Comment
			continue
		}
		r.Scores = append(r.Scores, sc)
		subjects[sc.Subject] = struct{}{}
	}

	for i := range report.Students {
		r := &report.Students[i]
		sort.Slice(r.Scores, func(a, b int) bool { return r.Scores[a].Subject < r.Scores[b].Subject })
		r.Average = average(r.Scores)
	}

	report.Subjects = make([]string, 0, len(subjects))
	for subj := range subjects {
		report.Subjects = append(report.Subjects, subj)
	}
	sort.Strings(report.Subjects)
	return report
}

// average is the mean of the set scores rounded to one decimal, nil when no
// score is set.
func average(scores []model.Score) *float64 {
	var sum float64
	var n int
	for _, sc := range scores {
		if sc.Score != nil {
			sum += *sc.Score
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := math.Round(sum/float64(n)*10) / 10
	return &avg
}

// Export writes the monthly report as an .xlsx workbook: one row per student,
// one column per subject.
func (s *ReportService) Export(ctx context.Context, session *model.Session, yearMonth string, w io.Writer) error {
	report, err := s.Monthly(ctx, session, yearMonth)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.log.Warn().Err(err).Msg("Close workbook")
		}
	}()

	sheet := yearMonth
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := []any{"이름", "학년"}
	for _, subj := range report.Subjects {
		header = append(header, subj)
	}
	header = append(header, "평균", "총평")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range report.Students {
		row := []any{r.StudentName, r.Grade}
		bySubject := make(map[string]*float64, len(r.Scores))
		for _, sc := range r.Scores {
			bySubject[sc.Subject] = sc.Score
		}
		for _, subj := range report.Subjects {
			if v := bySubject[subj]; v != nil {
				row = append(row, *v)
			} else {
				row = append(row, "")
			}
		}
		if r.Average != nil {
			row = append(row, *r.Average)
		} else {
			row = append(row, "")
		}
		row = append(row, r.TotalComment)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
