package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wawa-academy/erp-server/internal/model"
)

// filterClauses returns the clauses of a query body's top-level "and" filter.
func filterClauses(body map[string]any) []map[string]any {
	filter, _ := body["filter"].(map[string]any)
	raw, ok := filter["and"].([]any)
	if !ok {
		return []map[string]any{filter}
	}
	out := make([]map[string]any, 0, len(raw))
	for _, c := range raw {
		m, _ := c.(map[string]any)
		out = append(out, m)
	}
	return out
}

// relationFilter returns the page id a query filters a relation on.
func relationFilter(body map[string]any) string {
	for _, c := range filterClauses(body) {
		if rel, ok := c["relation"].(map[string]any); ok {
			id, _ := rel["contains"].(string)
			return id
		}
	}
	return ""
}

// relationProperty returns the first id of a relation in a create body.
func relationProperty(body map[string]any, column string) string {
	props, _ := body["properties"].(map[string]any)
	prop, _ := props[column].(map[string]any)
	refs, _ := prop["relation"].([]any)
	if len(refs) == 0 {
		return ""
	}
	ref, _ := refs[0].(map[string]any)
	id, _ := ref["id"].(string)
	return id
}

func TestScoreList(t *testing.T) {
	fn := newFakeNotion(t)
	fn.handle("POST /databases/db-scores/query", func(body map[string]any) (int, any) {
		return results(
			page("sc-1", map[string]any{
				colScoreStudent:    relationProp("s-1"),
				colScoreYearMonth:  textProp("2026-10"),
				colScoreSubject:    selectProp("수학"),
				colScoreValue:      numberProp(92),
				colScoreDifficulty: selectProp("B"),
			}),
			page("sc-orphan", map[string]any{
				colScoreYearMonth: textProp("2026-10"),
				colScoreSubject:   selectProp("영어"),
			}),
		)
	})

	scores, err := NewScoreService(staticProvider{fn.client()}).List(context.Background(), "2026-10")
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "s-1", scores[0].StudentID)
	require.NotNil(t, scores[0].Score)
	assert.Equal(t, 92.0, *scores[0].Score)
	assert.Equal(t, "B", scores[0].Difficulty)

	calls := fn.calls(http.MethodPost, "/databases/db-scores/query")
	require.Len(t, calls, 1)
	clause := filterClauses(calls[0].Body)[0]
	assert.Equal(t, colScoreYearMonth, clause["property"])
}

func TestScoreSaveCreatesRow(t *testing.T) {
	fn := newFakeNotion(t)
	fn.handle("POST /databases/db-scores/query", func(map[string]any) (int, any) { return results() })
	fn.handle("POST /pages", func(map[string]any) (int, any) {
		return http.StatusOK, page("sc-new", map[string]any{})
	})

	score := 88.5
	got, err := NewScoreService(staticProvider{fn.client()}).Save(context.Background(), "t-seo", model.SaveScoreRequest{
		StudentID:   "s-1",
		StudentName: "홍길동",
		YearMonth:   "2026-10",
		Subject:     "수학",
		Score:       &score,
		Difficulty:  "C",
	})
	require.NoError(t, err)
	assert.Equal(t, "sc-new", got.ID)
	assert.Equal(t, "t-seo", got.TeacherID)

	created := fn.calls(http.MethodPost, "/pages")
	require.Len(t, created, 1)
	body := created[0].Body
	assert.Equal(t, "s-1", relationProperty(body, colScoreStudent))
	assert.Equal(t, "t-seo", relationProperty(body, colScoreTeacher))

	props := body["properties"].(map[string]any)
	title := props[colScoreName].(map[string]any)["title"].([]any)[0].(map[string]any)
	assert.Equal(t, "홍길동_수학_2026-10", title["text"].(map[string]any)["content"])
	assert.Equal(t, 88.5, props[colScoreValue].(map[string]any)["number"])

	query := fn.calls(http.MethodPost, "/databases/db-scores/query")
	require.Len(t, query, 1)
	assert.Equal(t, "s-1", relationFilter(query[0].Body))
	assert.EqualValues(t, 1, query[0].Body["page_size"])
}

func TestScoreSaveUpdatesExistingRow(t *testing.T) {
	fn := newFakeNotion(t)
	fn.handle("POST /databases/db-scores/query", func(map[string]any) (int, any) {
		return results(page("sc-1", map[string]any{colScoreStudent: relationProp("s-1")}))
	})
	fn.handle("PATCH /pages/sc-1", func(map[string]any) (int, any) {
		return http.StatusOK, page("sc-1", map[string]any{})
	})

	got, err := NewScoreService(staticProvider{fn.client()}).Save(context.Background(), "", model.SaveScoreRequest{
		StudentID:   "s-1",
		StudentName: "홍길동",
		YearMonth:   "2026-10",
		Subject:     totalCommentSubject,
		Comment:     "꾸준히 성장 중",
	})
	require.NoError(t, err)
	assert.Equal(t, "sc-1", got.ID)
	assert.Nil(t, got.Score)

	assert.Empty(t, fn.calls(http.MethodPost, "/pages"))
	patched := fn.calls(http.MethodPatch, "/pages/sc-1")
	require.Len(t, patched, 1)
	props := patched[0].Body["properties"].(map[string]any)
	assert.NotContains(t, props, colScoreStudent)
	assert.NotContains(t, props, colScoreValue)
	assert.NotContains(t, props, colScoreTeacher)
}

func TestScoreServiceUnconfigured(t *testing.T) {
	svc, _, _ := newWorkspaceService(t)
	_, err := NewScoreService(svc).List(context.Background(), "2026-10")
	assert.ErrorIs(t, err, ErrUnconfigured)
}
