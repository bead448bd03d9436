package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Configuration ─────────────────────────────────────────────────
	ErrInvalidConfigFormat ErrCode = "INVALID_CONFIG_FORMAT"
	ErrNotConfigured       ErrCode = "NOT_CONFIGURED"

	// ─── Notion ────────────────────────────────────────────────────────
	ErrNotionUnauthorized ErrCode = "NOTION_UNAUTHORIZED"
	ErrNotionUnavailable  ErrCode = "NOTION_UNAVAILABLE"
	ErrNotionRejected     ErrCode = "NOTION_REJECTED"

	// ─── Authentication ────────────────────────────────────────────────
	ErrTeachersLoading    ErrCode = "TEACHERS_LOADING"
	ErrTeacherNotFound    ErrCode = "TEACHER_NOT_FOUND"
	ErrPinMismatch        ErrCode = "PIN_MISMATCH"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Upload ────────────────────────────────────────────────────────
	ErrFileRequired         ErrCode = "FILE_REQUIRED"
	ErrFileTooLarge         ErrCode = "FILE_TOO_LARGE"
	ErrUnsupportedMediaType ErrCode = "UNSUPPORTED_MEDIA_TYPE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Configuration ─────────────────────────────────────────────────
	case ErrInvalidConfigFormat:
		return "설정 파일 형식이 올바르지 않습니다. 누락된 항목을 확인해주세요."
	case ErrNotConfigured:
		return "설정 파일을 먼저 업로드해주세요."

	// ─── Notion ────────────────────────────────────────────────────────
	case ErrNotionUnauthorized:
		return "Notion API 키가 거부되었습니다. 설정을 다시 업로드해주세요."
	case ErrNotionUnavailable:
		return "Notion 서버에 연결할 수 없습니다. 잠시 후 다시 시도해주세요."
	case ErrNotionRejected:
		return "Notion이 요청을 거부했습니다."

	// ─── Authentication ────────────────────────────────────────────────
	case ErrTeachersLoading:
		return "선생님 목록을 불러오는 중입니다."
	case ErrTeacherNotFound:
		return "선택한 선생님을 찾을 수 없습니다."
	case ErrPinMismatch:
		return "PIN 번호가 일치하지 않습니다."
	case ErrSessionActive:
		return "이미 로그인되어 있습니다."
	case ErrSessionInvalidated:
		return "세션이 만료되었습니다. 다시 로그인해주세요."
	case ErrTokenRequired:
		return "인증 토큰이 필요합니다."
	case ErrTokenInvalid:
		return "인증 토큰이 유효하지 않습니다."
	case ErrTokenExpired:
		return "인증 토큰이 만료되었습니다."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrAdminAccessOnly:
		return "관리자만 사용할 수 있습니다."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "입력값을 확인해주세요."
	case ErrInvalidPayload:
		return "요청 형식이 올바르지 않습니다."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "데이터를 찾을 수 없습니다."

	// ─── Upload ────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "설정 파일을 첨부해주세요."
	case ErrFileTooLarge:
		return "파일 크기가 제한을 초과했습니다."
	case ErrUnsupportedMediaType:
		return "JSON 파일 또는 multipart 업로드만 지원합니다."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "요청이 너무 많습니다. 잠시 후 다시 시도해주세요."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "서버 내부 오류가 발생했습니다."
	default:
		return "알 수 없는 오류가 발생했습니다."
	}
}
