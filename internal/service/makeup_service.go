package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/wawa-academy/erp-server/internal/model"
	"github.com/wawa-academy/erp-server/internal/notion"
)

// MakeupService manages missed classes and their makeup appointments.
type MakeupService struct {
	notion NotionProvider
}

// NewMakeupService creates a new MakeupService.
func NewMakeupService(np NotionProvider) *MakeupService {
	return &MakeupService{notion: np}
}

// List returns makeup records, newest first, optionally with one status.
func (s *MakeupService) List(ctx context.Context, status model.MakeupStatus) ([]model.Makeup, error) {
	client, err := s.notion.Client()
	if err != nil {
		return nil, err
	}
	q := &notion.QueryRequest{Sorts: []notion.Sort{notion.SortByCreated(notion.Descending)}}
	if status != "" {
		q.Filter = notion.And(notion.MultiSelectContains(colMakeupStatus, string(status)))
	}
	pages, err := client.Query(ctx, model.DatasetMakeup, q)
	if err != nil {
		return nil, err
	}

	out := make([]model.Makeup, 0, len(pages))
	for i := range pages {
		out = append(out, makeupFromPage(&pages[i]))
	}
	return out, nil
}

// Create records an absence. New records start as MakeupPending.
func (s *MakeupService) Create(ctx context.Context, req model.CreateMakeupRequest) (*model.Makeup, error) {
	client, err := s.notion.Client()
	if err != nil {
		return nil, err
	}

	props := notion.Properties{
		colMakeupName:         notion.Title(fmt.Sprintf("%s_%s", req.StudentName, req.AbsentDate)),
		colMakeupStudent:      notion.Relation(req.StudentID),
		colMakeupSubject:      notion.Text(req.Subject),
		colMakeupAbsentDate:   notion.Date(req.AbsentDate),
		colMakeupAbsentReason: notion.Text(req.AbsentReason),
		colMakeupStatus:       notion.MultiSelect(string(model.MakeupPending)),
	}
	if req.TeacherID != "" {
		props[colMakeupTeacher] = notion.Relation(req.TeacherID)
	}
	if req.MakeupDate != "" {
		props[colMakeupDate] = notion.Date(req.MakeupDate)
	}
	if req.MakeupTime != "" {
		props[colMakeupTime] = notion.Text(req.MakeupTime)
	}
	if req.Memo != "" {
		props[colMakeupMemo] = notion.Text(req.Memo)
	}

	page, err := client.CreatePage(ctx, model.DatasetMakeup, props)
	if err != nil {
		return nil, err
	}
	return &model.Makeup{
		ID:           page.ID,
		StudentID:    req.StudentID,
		StudentName:  req.StudentName,
		Subject:      req.Subject,
		TeacherID:    req.TeacherID,
		AbsentDate:   req.AbsentDate,
		AbsentReason: req.AbsentReason,
		MakeupDate:   req.MakeupDate,
		MakeupTime:   req.MakeupTime,
		Status:       model.MakeupPending,
		Memo:         req.Memo,
		CreatedAt:    page.CreatedTime,
	}, nil
}

// Update changes the fields present in req.
func (s *MakeupService) Update(ctx context.Context, id string, req model.UpdateMakeupRequest) (*model.Makeup, error) {
	client, err := s.notion.Client()
	if err != nil {
		return nil, err
	}

	props := notion.Properties{}
	if req.MakeupDate != nil {
		if *req.MakeupDate == "" {
			props[colMakeupDate] = notion.ClearDate()
		} else {
			props[colMakeupDate] = notion.Date(*req.MakeupDate)
		}
	}
	if req.MakeupTime != nil {
		props[colMakeupTime] = notion.Text(*req.MakeupTime)
	}
	if req.Status != nil {
		props[colMakeupStatus] = notion.MultiSelect(string(*req.Status))
	}
	if req.Memo != nil {
		props[colMakeupMemo] = notion.Text(*req.Memo)
	}

	var page *notion.Page
	if len(props) == 0 {
		page, err = client.Retrieve(ctx, id)
	} else {
		page, err = client.UpdatePage(ctx, id, props)
	}
	if err != nil {
		return nil, err
	}
	m := makeupFromPage(page)
	return &m, nil
}

// Delete archives a makeup record.
func (s *MakeupService) Delete(ctx context.Context, id string) error {
	client, err := s.notion.Client()
	if err != nil {
		return err
	}
	return client.ArchivePage(ctx, id)
}

func makeupFromPage(p *notion.Page) model.Makeup {
	m := model.Makeup{
		ID:           p.ID,
		StudentID:    p.FirstRelation(colMakeupStudent),
		StudentName:  p.Text(colMakeupName),
		Subject:      p.FlexibleText(colMakeupSubject),
		TeacherID:    p.FirstRelation(colMakeupTeacher),
		AbsentDate:   p.DateStart(colMakeupAbsentDate),
		AbsentReason: p.Text(colMakeupAbsentReason),
		MakeupDate:   p.DateStart(colMakeupDate),
		MakeupTime:   p.Text(colMakeupTime),
		Status:       model.MakeupStatus(p.SelectName(colMakeupStatus)),
		Memo:         p.Text(colMakeupMemo),
		CreatedAt:    p.CreatedTime,
	}
	// Titles are "<student>_<absent date>".
	m.StudentName = strings.TrimSuffix(m.StudentName, "_"+m.AbsentDate)
	if m.Status == "" {
		m.Status = model.MakeupPending
	}
	return m
}
