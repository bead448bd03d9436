package navigation

// Link is a sidebar entry.
type Link struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Icon      string `json:"icon"`
	Path      string `json:"path"`
	adminOnly bool
}

// Module is a header tab and its sidebar.
type Module struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Path  string `json:"path"`
	Title string `json:"title"`
	links []Link
}

// modules is the static route table, in header order.
var modules = []Module{
	{
		ID: "timer", Label: "시간표", Icon: "schedule", Path: "/timer", Title: "시간표 관리",
		links: []Link{
			{ID: "day", Label: "요일별 보기", Icon: "view_week", Path: "/timer/day"},
			{ID: "realtime", Label: "실시간 관리", Icon: "timer", Path: "/timer/realtime"},
			{ID: "student", Label: "학생별 보기", Icon: "person", Path: "/timer/student"},
			{ID: "timeslot", Label: "시간대별 보기", Icon: "schedule", Path: "/timer/timeslot"},
			{ID: "settings", Label: "설정", Icon: "settings", Path: "/timer/settings", adminOnly: true},
		},
	},
	{
		ID: "report", Label: "리포트", Icon: "description", Path: "/report", Title: "리포트 시스템",
		links: []Link{
			{ID: "dashboard", Label: "대시보드", Icon: "dashboard", Path: "/report"},
			{ID: "students", Label: "학생 관리", Icon: "groups", Path: "/report/students"},
			{ID: "exams", Label: "시험 관리", Icon: "quiz", Path: "/report/exams"},
			{ID: "input", Label: "성적 입력", Icon: "edit_note", Path: "/report/input"},
			{ID: "preview", Label: "리포트 미리보기", Icon: "preview", Path: "/report/preview"},
			{ID: "send", Label: "리포트 전송", Icon: "send", Path: "/report/send"},
			{ID: "settings", Label: "설정", Icon: "settings", Path: "/report/settings", adminOnly: true},
		},
	},
	{
		ID: "grader", Label: "채점", Icon: "grading", Path: "/grader", Title: "채점 시스템",
		links: []Link{
			{ID: "single", Label: "단건 채점", Icon: "document_scanner", Path: "/grader"},
			{ID: "batch", Label: "일괄 채점", Icon: "library_books", Path: "/grader/batch"},
			{ID: "history", Label: "채점 이력", Icon: "history", Path: "/grader/history"},
			{ID: "stats", Label: "통계", Icon: "analytics", Path: "/grader/stats"},
			{ID: "settings", Label: "설정", Icon: "settings", Path: "/grader/settings", adminOnly: true},
		},
	},
	{
		ID: "schedule", Label: "시험일정", Icon: "event", Path: "/schedule", Title: "시험 일정",
		links: []Link{
			{ID: "today", Label: "오늘 시험", Icon: "today", Path: "/schedule"},
			{ID: "pending", Label: "미지정 학생", Icon: "pending_actions", Path: "/schedule/pending"},
			{ID: "upcoming", Label: "예정된 시험", Icon: "event_upcoming", Path: "/schedule/upcoming"},
			{ID: "history", Label: "시험 이력", Icon: "history", Path: "/schedule/history"},
			{ID: "settings", Label: "설정", Icon: "settings", Path: "/schedule/settings", adminOnly: true},
		},
	},
	{
		ID: "makeup", Label: "보강", Icon: "event_repeat", Path: "/makeup", Title: "보강 관리",
		links: []Link{
			{ID: "dashboard", Label: "대시보드", Icon: "dashboard", Path: "/makeup"},
			{ID: "pending", Label: "진행 대기", Icon: "pending_actions", Path: "/makeup/pending"},
			{ID: "calendar", Label: "캘린더", Icon: "calendar_month", Path: "/makeup/calendar"},
			{ID: "completed", Label: "완료", Icon: "task_alt", Path: "/makeup/completed"},
			{ID: "settings", Label: "설정", Icon: "settings", Path: "/makeup/settings", adminOnly: true},
		},
	},
	{
		ID: "messages", Label: "쪽지", Icon: "chat", Path: "/messages", Title: "쪽지",
		links: []Link{
			{ID: "inbox", Label: "받은 쪽지", Icon: "inbox", Path: "/messages"},
		},
	},
}

// globalLinks sit outside any module, in the header's account menu.
var globalLinks = []Link{
	{ID: "students", Label: "학생 목록", Icon: "groups", Path: "/students"},
	{ID: "settings", Label: "전체 설정", Icon: "settings", Path: "/settings", adminOnly: true},
}
