package service

// Column names of the Notion databases. They are part of the workspace
// contract: renaming a column in Notion breaks the matching feature.
const (
	colTeacherName    = "선생님"
	colTeacherSubject = "과목"
	colTeacherPIN     = "PIN"
	colTeacherIsAdmin = "isAdmin"

	colStudentName     = "이름"
	colStudentGrade    = "학년"
	colStudentSubjects = "수강과목"
	colStudentParent   = "학부모"
	colStudentPhone    = "전화번호"
	colStudentStatus   = "상태"
	colStudentTeachers = "담당선생님"

	colScoreName       = "이름"
	colScoreYearMonth  = "시험년월"
	colScoreSubject    = "과목"
	colScoreValue      = "점수"
	colScoreComment    = "코멘트"
	colScoreDifficulty = "난이도"
	colScoreStudent    = "학생"
	colScoreTeacher    = "선생님"

	colScheduleName      = "이름"
	colScheduleStudent   = "학생"
	colScheduleYearMonth = "년월"
	colScheduleExamDate  = "시험일"

	colEnrollmentStudent = "학생"
	colEnrollmentDay     = "요일"
	colEnrollmentStart   = "시작시간"
	colEnrollmentEnd     = "종료시간"
	colEnrollmentSubject = "과목"

	colMakeupName         = "이름"
	colMakeupStudent      = "학생"
	colMakeupSubject      = "과목"
	colMakeupTeacher      = "담당선생님"
	colMakeupAbsentDate   = "결석일"
	colMakeupAbsentReason = "결석사유"
	colMakeupDate         = "보강예정일"
	colMakeupTime         = "보강시간"
	colMakeupStatus       = "상태"
	colMakeupMemo         = "메모"

	colDMSender   = "SenderID"
	colDMReceiver = "ReceiverID"
	colDMContent  = "Content"
	colDMReadAt   = "ReadAt"
)

const (
	adminFlagTrue   = "True"
	studentInactive = "비활성"

	// totalCommentSubject marks the score row that holds a student's overall
	// comment for the month instead of a subject score.
	totalCommentSubject = "__TOTAL_COMMENT__"

	// bulkConcurrency bounds parallel Notion writes of one bulk operation.
	bulkConcurrency = 10
)
