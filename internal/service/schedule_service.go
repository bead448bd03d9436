package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/wawa-academy/erp-server/internal/model"
	"github.com/wawa-academy/erp-server/internal/notion"
)

// ScheduleService manages monthly exam dates.
type ScheduleService struct {
	notion NotionProvider
	log    zerolog.Logger
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(np NotionProvider, log zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		notion: np,
		log:    log.With().Str("component", "schedule").Logger(),
	}
}

// List returns the exam dates of a month.
func (s *ScheduleService) List(ctx context.Context, yearMonth string) ([]model.ExamSchedule, error) {
	client, err := s.notion.Client()
	if err != nil {
		return nil, err
	}
	pages, err := client.Query(ctx, model.DatasetExamSchedule, &notion.QueryRequest{
		Filter: notion.And(notion.TextEquals(colScheduleYearMonth, yearMonth)),
		Sorts:  []notion.Sort{notion.SortBy(colScheduleExamDate, notion.Ascending)},
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.ExamSchedule, 0, len(pages))
	for i := range pages {
		p := &pages[i]
		out = append(out, model.ExamSchedule{
			ID:        p.ID,
			StudentID: p.FirstRelation(colScheduleStudent),
			YearMonth: p.Text(colScheduleYearMonth),
			ExamDate:  p.DateStart(colScheduleExamDate),
		})
	}
	return out, nil
}

// BulkAssign sets the exam date of every listed student for a month. At most
// bulkConcurrency writes run at once. A rejected key or an unreachable Notion
// aborts the batch; other per-student failures are reported in the result.
func (s *ScheduleService) BulkAssign(ctx context.Context, req model.BulkExamDateRequest) (*model.BulkResult, error) {
	client, err := s.notion.Client()
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	result := &model.BulkResult{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)
	for _, studentID := range uniqueIDs(req.StudentIDs) {
		g.Go(func() error {
			created, err := s.assignOne(gctx, client, studentID, req.YearMonth, req.ExamDate)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil && created:
				result.Created++
			case err == nil:
				result.Updated++
			case isRemoteFailure(err):
				return err
			default:
				if result.Failed == nil {
					result.Failed = map[string]string{}
				}
				result.Failed[studentID] = err.Error()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("year_month", req.YearMonth).
		Str("exam_date", req.ExamDate).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("failed", len(result.Failed)).
		Msg("Exam dates assigned")
	return result, nil
}

func (s *ScheduleService) assignOne(ctx context.Context, client *notion.Client, studentID, yearMonth, examDate string) (bool, error) {
	existing, err := client.First(ctx, model.DatasetExamSchedule, &notion.QueryRequest{
		Filter: notion.And(
			notion.RelationContains(colScheduleStudent, studentID),
			notion.TextEquals(colScheduleYearMonth, yearMonth),
		),
	})
	if err != nil {
		return false, err
	}

	if existing != nil {
		_, err := client.UpdatePage(ctx, existing.ID, notion.Properties{
			colScheduleExamDate: notion.Date(examDate),
		})
		return false, err
	}

	_, err = client.CreatePage(ctx, model.DatasetExamSchedule, notion.Properties{
		colScheduleName:      notion.Title(fmt.Sprintf("%s_%s", yearMonth, studentID)),
		colScheduleStudent:   notion.Relation(studentID),
		colScheduleYearMonth: notion.Text(yearMonth),
		colScheduleExamDate:  notion.Date(examDate),
	})
	return true, err
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
