package notion

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const studentPageJSON = `{
	"id": "s1",
	"created_time": "2026-10-01T00:00:00.000Z",
	"properties": {
		"이름": {"type": "title", "title": [{"plain_text": "홍"}, {"plain_text": "길동"}]},
		"학년": {"type": "rollup", "rollup": {"type": "array", "array": [
			{"type": "multi_select", "multi_select": [{"name": "중2"}]}
		]}},
		"수강과목": {"type": "multi_select", "multi_select": [{"name": "수학"}, {"name": "영어"}]},
		"상태": {"type": "select", "select": {"name": "활성"}},
		"점수": {"type": "number", "number": 87.5},
		"시험일": {"type": "date", "date": {"start": "2026-10-20"}},
		"담당선생님": {"type": "relation", "relation": [{"id": "t1"}, {"id": "t2"}]},
		"전화번호": {"type": "phone_number", "phone_number": "010-1234-5678"},
		"시험지": {"type": "files", "files": [{"name": "a.pdf", "type": "external", "external": {"url": "https://x/a.pdf"}}]},
		"PIN": {"type": "number", "number": null}
	}
}`

func TestPageReaders(t *testing.T) {
	var p Page
	require.NoError(t, json.Unmarshal([]byte(studentPageJSON), &p))

	assert.Equal(t, "홍길동", p.Text("이름"))
	assert.Equal(t, "중2", p.FlexibleText("학년"))
	assert.Equal(t, []string{"수학", "영어"}, p.MultiSelectNames("수강과목"))
	assert.Equal(t, "활성", p.SelectName("상태"))
	assert.Equal(t, "2026-10-20", p.DateStart("시험일"))
	assert.Equal(t, []string{"t1", "t2"}, p.RelationIDs("담당선생님"))
	assert.Equal(t, "t1", p.FirstRelation("담당선생님"))
	assert.Equal(t, "010-1234-5678", p.Phone("전화번호"))
	assert.Equal(t, "https://x/a.pdf", p.FileURL("시험지"))

	n, ok := p.Number("점수")
	assert.True(t, ok)
	assert.Equal(t, 87.5, n)

	_, ok = p.Number("PIN")
	assert.False(t, ok)
}

func TestPageReadersOnMissingProperties(t *testing.T) {
	var p Page
	assert.Equal(t, "", p.Text("이름"))
	assert.Equal(t, "", p.SelectName("상태"))
	assert.Empty(t, p.RelationIDs("학생"))
	assert.Equal(t, "", p.FirstRelation("학생"))
	assert.Equal(t, "", p.FlexibleText("학년"))
}

func TestWriteBuildersShape(t *testing.T) {
	props := Properties{
		"이름":   Title("홍길동_수학_2026-10"),
		"과목":   Select("수학"),
		"점수":   Number(92),
		"학생":   Relation("s1"),
		"보강예정일": ClearDate(),
	}
	raw, err := json.Marshal(props)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"이름": {"title": [{"text": {"content": "홍길동_수학_2026-10"}}]},
		"과목": {"select": {"name": "수학"}},
		"점수": {"number": 92},
		"학생": {"relation": [{"id": "s1"}]},
		"보강예정일": {"date": null}
	}`, string(raw))
}
