package service

import (
	"context"
	"fmt"

	"github.com/wawa-academy/erp-server/internal/model"
	"github.com/wawa-academy/erp-server/internal/notion"
)

// ScoreService reads and writes monthly scores.
type ScoreService struct {
	notion NotionProvider
}

// NewScoreService creates a new ScoreService.
func NewScoreService(np NotionProvider) *ScoreService {
	return &ScoreService{notion: np}
}

// List returns every score row of a month, total comment rows included.
func (s *ScoreService) List(ctx context.Context, yearMonth string) ([]model.Score, error) {
	client, err := s.notion.Client()
	if err != nil {
		return nil, err
	}
	pages, err := client.Query(ctx, model.DatasetScores, &notion.QueryRequest{
		Filter: notion.And(notion.TextEquals(colScoreYearMonth, yearMonth)),
	})
	if err != nil {
		return nil, err
	}

	scores := make([]model.Score, 0, len(pages))
	for i := range pages {
		sc := scoreFromPage(&pages[i])
		if sc.StudentID == "" {
			continue
		}
		scores = append(scores, sc)
	}
	return scores, nil
}

// Save writes the score of (student, month, subject): the existing row is
// updated, otherwise a row is created. teacherID is recorded as the grader.
func (s *ScoreService) Save(ctx context.Context, teacherID string, req model.SaveScoreRequest) (*model.Score, error) {
	client, err := s.notion.Client()
	if err != nil {
		return nil, err
	}

	existing, err := client.First(ctx, model.DatasetScores, &notion.QueryRequest{
		Filter: notion.And(
			notion.RelationContains(colScoreStudent, req.StudentID),
			notion.TextEquals(colScoreYearMonth, req.YearMonth),
			notion.SelectEquals(colScoreSubject, req.Subject),
		),
	})
	if err != nil {
		return nil, err
	}

	props := notion.Properties{
		colScoreName:      notion.Title(fmt.Sprintf("%s_%s_%s", req.StudentName, req.Subject, req.YearMonth)),
		colScoreYearMonth: notion.Text(req.YearMonth),
		colScoreSubject:   notion.Select(req.Subject),
		colScoreComment:   notion.Text(req.Comment),
	}
	if req.Score != nil {
		props[colScoreValue] = notion.Number(*req.Score)
	}
	if req.Difficulty != "" {
		props[colScoreDifficulty] = notion.Select(req.Difficulty)
	}
	if teacherID != "" {
		props[colScoreTeacher] = notion.Relation(teacherID)
	}

	var page *notion.Page
	if existing != nil {
		page, err = client.UpdatePage(ctx, existing.ID, props)
	} else {
		props[colScoreStudent] = notion.Relation(req.StudentID)
		page, err = client.CreatePage(ctx, model.DatasetScores, props)
	}
	if err != nil {
		return nil, err
	}

	return &model.Score{
		ID:         page.ID,
		StudentID:  req.StudentID,
		TeacherID:  teacherID,
		YearMonth:  req.YearMonth,
		Subject:    req.Subject,
		Score:      req.Score,
		Comment:    req.Comment,
		Difficulty: req.Difficulty,
		UpdatedAt:  page.LastEditedTime,
	}, nil
}

func scoreFromPage(p *notion.Page) model.Score {
	sc := model.Score{
		ID:         p.ID,
		StudentID:  p.FirstRelation(colScoreStudent),
		TeacherID:  p.FirstRelation(colScoreTeacher),
		YearMonth:  p.Text(colScoreYearMonth),
		Subject:    p.SelectName(colScoreSubject),
		Comment:    p.Text(colScoreComment),
		Difficulty: p.SelectName(colScoreDifficulty),
		UpdatedAt:  p.LastEditedTime,
	}
	if n, ok := p.Number(colScoreValue); ok {
		sc.Score = &n
	}
	return sc
}
