package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wawa-academy/erp-server/internal/model"
)

func TestMakeupList(t *testing.T) {
	fn := newFakeNotion(t)
	fn.handle("POST /databases/db-makeup/query", func(map[string]any) (int, any) {
		return results(
			page("mk-1", map[string]any{
				colMakeupName:       titleProp("홍길동_2026-10-10"),
				colMakeupStudent:    relationProp("s-1"),
				colMakeupSubject:    selectProp("수학"),
				colMakeupAbsentDate: dateProp("2026-10-10"),
				colMakeupStatus:     multiProp("진행 중"),
				colMakeupTime:       textProp("18:00"),
			}),
			page("mk-2", map[string]any{
				colMakeupName:       titleProp("김철수_2026-10-11"),
				colMakeupAbsentDate: dateProp("2026-10-11"),
			}),
		)
	})

	svc := NewMakeupService(staticProvider{fn.client()})
	got, err := svc.List(context.Background(), model.MakeupInProgress)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "홍길동", got[0].StudentName)
	assert.Equal(t, "수학", got[0].Subject)
	assert.Equal(t, model.MakeupInProgress, got[0].Status)
	assert.Equal(t, "18:00", got[0].MakeupTime)
	assert.Equal(t, "김철수", got[1].StudentName)
	assert.Equal(t, model.MakeupPending, got[1].Status)

	body := fn.calls(http.MethodPost, "/databases/db-makeup/query")[0].Body
	filter := body["filter"].(map[string]any)
	assert.Equal(t, colMakeupStatus, filter["property"])
	assert.Equal(t, "진행 중", filter["multi_select"].(map[string]any)["contains"])
}

func TestMakeupCreate(t *testing.T) {
	fn := newFakeNotion(t)
	fn.handle("POST /pages", func(map[string]any) (int, any) {
		return http.StatusOK, page("mk-new", map[string]any{})
	})

	got, err := NewMakeupService(staticProvider{fn.client()}).Create(context.Background(), model.CreateMakeupRequest{
		StudentID:    "s-1",
		StudentName:  "홍길동",
		Subject:      "영어",
		AbsentDate:   "2026-10-10",
		AbsentReason: "병결",
	})
	require.NoError(t, err)
	assert.Equal(t, "mk-new", got.ID)
	assert.Equal(t, model.MakeupPending, got.Status)

	props := fn.calls(http.MethodPost, "/pages")[0].Body["properties"].(map[string]any)
	assert.Contains(t, props, colMakeupStatus)
	assert.NotContains(t, props, colMakeupDate)
	assert.NotContains(t, props, colMakeupTeacher)
	assert.Equal(t, "s-1", relationProperty(fn.calls(http.MethodPost, "/pages")[0].Body, colMakeupStudent))
}

func TestMakeupUpdate(t *testing.T) {
	fn := newFakeNotion(t)
	fn.handle("PATCH /pages/mk-1", func(map[string]any) (int, any) {
		return http.StatusOK, page("mk-1", map[string]any{colMakeupStatus: multiProp("완료")})
	})
	fn.handle("GET /pages/mk-1", func(map[string]any) (int, any) {
		return http.StatusOK, page("mk-1", map[string]any{})
	})
	svc := NewMakeupService(staticProvider{fn.client()})

	empty := ""
	done := model.MakeupCompleted
	got, err := svc.Update(context.Background(), "mk-1", model.UpdateMakeupRequest{MakeupDate: &empty, Status: &done})
	require.NoError(t, err)
	assert.Equal(t, model.MakeupCompleted, got.Status)

	props := fn.calls(http.MethodPatch, "/pages/mk-1")[0].Body["properties"].(map[string]any)
	cleared := props[colMakeupDate].(map[string]any)
	assert.Contains(t, cleared, "date")
	assert.Nil(t, cleared["date"])
	assert.NotContains(t, props, colMakeupMemo)

	// Nothing to change reads the row back.
	_, err = svc.Update(context.Background(), "mk-1", model.UpdateMakeupRequest{})
	require.NoError(t, err)
	assert.Len(t, fn.calls(http.MethodGet, "/pages/mk-1"), 1)
	assert.Len(t, fn.calls(http.MethodPatch, "/pages/mk-1"), 1)
}

func TestMakeupDeleteArchives(t *testing.T) {
	fn := newFakeNotion(t)
	fn.handle("PATCH /pages/mk-1", func(map[string]any) (int, any) {
		return http.StatusOK, page("mk-1", map[string]any{})
	})

	require.NoError(t, NewMakeupService(staticProvider{fn.client()}).Delete(context.Background(), "mk-1"))
	assert.Equal(t, true, fn.calls(http.MethodPatch, "/pages/mk-1")[0].Body["archived"])

	err := NewMakeupService(staticProvider{fn.client()}).Delete(context.Background(), "mk-gone")
	assert.Error(t, err)
}
