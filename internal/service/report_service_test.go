package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wawa-academy/erp-server/internal/model"
)

func ptr(f float64) *float64 { return &f }

func TestBuildMonthlyReport(t *testing.T) {
	students := []model.Student{
		{ID: "s-1", Name: "홍길동", Grade: "중2"},
		{ID: "s-2", Name: "김영희"},
	}
	scores := []model.Score{
		{StudentID: "s-1", Subject: "수학", Score: ptr(92)},
		{StudentID: "s-1", Subject: "과학", Score: ptr(85)},
		{StudentID: "s-1", Subject: "영어"},
		{StudentID: "s-1", Subject: totalCommentSubject, Comment: "성실함"},
		{StudentID: "s-9", Subject: "국어", Score: ptr(70)},
	}

	report := buildMonthlyReport("2026-10", students, scores)
	assert.Equal(t, []string{"과학", "수학", "영어"}, report.Subjects)
	require.Len(t, report.Students, 2)

	hong := report.Students[0]
	assert.Equal(t, "성실함", hong.TotalComment)
	require.Len(t, hong.Scores, 3)
	assert.Equal(t, "과학", hong.Scores[0].Subject)
	require.NotNil(t, hong.Average)
	assert.Equal(t, 88.5, *hong.Average)

	kim := report.Students[1]
	assert.NotNil(t, kim.Scores)
	assert.Empty(t, kim.Scores)
	assert.Nil(t, kim.Average)
}

func TestAverageRoundsToOneDecimal(t *testing.T) {
	avg := average([]model.Score{{Score: ptr(90)}, {Score: ptr(85)}, {Score: ptr(81)}})
	require.NotNil(t, avg)
	assert.Equal(t, 85.3, *avg)
}

func newReportService(t *testing.T) *ReportService {
	t.Helper()
	fn := newFakeNotion(t)
	serveStudents(fn)
	fn.handle("POST /databases/db-scores/query", func(map[string]any) (int, any) {
		return results(
			page("sc-1", map[string]any{
				colScoreStudent:   relationProp("s-1"),
				colScoreYearMonth: textProp("2026-10"),
				colScoreSubject:   selectProp("수학"),
				colScoreValue:     numberProp(92),
			}),
			page("sc-2", map[string]any{
				colScoreStudent:   relationProp("s-1"),
				colScoreYearMonth: textProp("2026-10"),
				colScoreSubject:   selectProp(totalCommentSubject),
				colScoreComment:   textProp("집중력이 좋아짐"),
			}),
		)
	})
	np := staticProvider{fn.client()}
	return NewReportService(NewStudentService(np), NewScoreService(np), testLog)
}

func TestReportMonthly(t *testing.T) {
	svc := newReportService(t)

	report, err := svc.Monthly(context.Background(), &model.Session{Subjects: []string{"수학"}}, "2026-10")
	require.NoError(t, err)
	require.Len(t, report.Students, 1)
	assert.Equal(t, "홍길동", report.Students[0].StudentName)
	assert.Equal(t, "집중력이 좋아짐", report.Students[0].TotalComment)
	assert.Equal(t, []string{"수학"}, report.Subjects)
}

func TestReportExport(t *testing.T) {
	svc := newReportService(t)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &model.Session{IsAdmin: true}, "2026-10", &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"2026-10"}, f.GetSheetList())
	rows, err := f.GetRows("2026-10")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"이름", "학년", "수학", "평균", "총평"}, rows[0])
	assert.Equal(t, []string{"홍길동", "중2", "92", "92", "집중력이 좋아짐"}, rows[1])
	assert.Equal(t, "김영희", rows[2][0])
}
