package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotionTeacherDirectory(t *testing.T) {
	fn := newFakeNotion(t)
	fn.handle("POST /databases/db-teachers/query", func(map[string]any) (int, any) {
		return results(
			page("t-ji", map[string]any{
				colTeacherName:    titleProp("지혜영"),
				colTeacherSubject: multiProp("영어"),
				colTeacherPIN:     numberProp(8520),
			}),
			page("t-seo", map[string]any{
				colTeacherName:    titleProp("서재용"),
				colTeacherSubject: multiProp("수학", "과학"),
				colTeacherPIN:     numberProp(1141),
				colTeacherIsAdmin: selectProp("True"),
			}),
			page("t-blank", map[string]any{
				colTeacherName: titleProp(""),
				colTeacherPIN:  numberProp(1234),
			}),
			page("t-text", map[string]any{
				colTeacherName: titleProp("김민수"),
				colTeacherPIN:  textProp("0420"),
			}),
			page("t-nopin", map[string]any{
				colTeacherName: titleProp("박서연"),
			}),
		)
	})

	teachers, err := NewNotionTeacherDirectory(fn.client()).ListTeachers(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 4)

	names := []string{}
	for _, tc := range teachers {
		names = append(names, tc.Name)
	}
	assert.Equal(t, []string{"김민수", "박서연", "서재용", "지혜영"}, names)

	byID := map[string]int{}
	for i, tc := range teachers {
		byID[tc.ID] = i
	}
	seo := teachers[byID["t-seo"]]
	assert.Equal(t, "1141", seo.PIN)
	assert.True(t, seo.IsAdmin)
	assert.Equal(t, []string{"수학", "과학"}, seo.Subjects)

	assert.False(t, teachers[byID["t-ji"]].IsAdmin)
	assert.Equal(t, "0420", teachers[byID["t-text"]].PIN)
	assert.Equal(t, defaultPIN, teachers[byID["t-nopin"]].PIN)
}

func TestNotionTeacherDirectoryRemoteFailure(t *testing.T) {
	fn := newFakeNotion(t)
	fn.handle("POST /databases/db-teachers/query", func(map[string]any) (int, any) {
		return http.StatusServiceUnavailable, map[string]any{"code": "service_unavailable"}
	})

	_, err := NewNotionTeacherDirectory(fn.client()).ListTeachers(context.Background())
	assert.True(t, isRemoteFailure(err))
}
