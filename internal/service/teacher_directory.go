package service

import (
	"context"
	"sort"
	"strconv"

	"github.com/wawa-academy/erp-server/internal/model"
	"github.com/wawa-academy/erp-server/internal/notion"
)

// defaultPIN is used for teachers whose PIN cell is empty.
const defaultPIN = "0000"

// NotionTeacherDirectory reads the teachers database.
type NotionTeacherDirectory struct {
	client *notion.Client
}

func NewNotionTeacherDirectory(client *notion.Client) *NotionTeacherDirectory {
	return &NotionTeacherDirectory{client: client}
}

func (d *NotionTeacherDirectory) ListTeachers(ctx context.Context) ([]model.TeacherRecord, error) {
	pages, err := d.client.Query(ctx, model.DatasetTeachers, nil)
	if err != nil {
		return nil, err
	}

	teachers := make([]model.TeacherRecord, 0, len(pages))
	for i := range pages {
		t := teacherFromPage(&pages[i])
		if t.Name == "" {
			continue
		}
		teachers = append(teachers, t)
	}
	sort.SliceStable(teachers, func(i, j int) bool { return teachers[i].Name < teachers[j].Name })
	return teachers, nil
}

func teacherFromPage(p *notion.Page) model.TeacherRecord {
	return model.TeacherRecord{
		ID:       p.ID,
		Name:     p.Text(colTeacherName),
		Subjects: p.MultiSelectNames(colTeacherSubject),
		PIN:      pinFromPage(p),
		IsAdmin:  p.SelectName(colTeacherIsAdmin) == adminFlagTrue || p.Checkbox(colTeacherIsAdmin),
	}
}

// pinFromPage renders the PIN cell, a number column in most workspaces and a
// text column in older ones.
func pinFromPage(p *notion.Page) string {
	if n, ok := p.Number(colTeacherPIN); ok {
		if n == 0 {
			return defaultPIN
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	if s := p.FlexibleText(colTeacherPIN); s != "" {
		return s
	}
	return defaultPIN
}
