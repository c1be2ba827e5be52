package errors

// ErrorCode phân loại lỗi cho client
type ErrorCode string

const (
	ErrorCode_HTTP_OK           ErrorCode = "OK"
	ErrorCode_INTERNAL          ErrorCode = "INTERNAL"
	ErrorCode_INVALID_ARGUMENT  ErrorCode = "INVALID_ARGUMENT"
	ErrorCode_NOT_FOUND         ErrorCode = "NOT_FOUND"
	ErrorCode_ALREADY_EXISTS    ErrorCode = "ALREADY_EXISTS"
	ErrorCode_PERMISSION_DENIED ErrorCode = "PERMISSION_DENIED"
	ErrorCode_UNAUTHENTICATED   ErrorCode = "UNAUTHENTICATED"
	ErrorCode_INVALID_PAYLOAD   ErrorCode = "INVALID_PAYLOAD"
	ErrorCode_FORBIDDEN         ErrorCode = "FORBIDDEN"

	ErrorCode_AUTH_INVALID_TOKEN       ErrorCode = "AUTH_INVALID_TOKEN"
	ErrorCode_AUTH_TOKEN_EXPIRED       ErrorCode = "AUTH_TOKEN_EXPIRED"
	ErrorCode_AUTH_INVALID_CREDENTIALS ErrorCode = "AUTH_INVALID_CREDENTIALS"
	ErrorCode_AUTH_USER_NOT_FOUND      ErrorCode = "AUTH_USER_NOT_FOUND"
	ErrorCode_AUTH_USER_ALREADY_EXISTS ErrorCode = "AUTH_USER_ALREADY_EXISTS"

	ErrorCode_GRAM_SABHA_NOT_FOUND          ErrorCode = "GRAM_SABHA_NOT_FOUND"
	ErrorCode_GRAM_SABHA_INVALID_TRANSITION ErrorCode = "GRAM_SABHA_INVALID_TRANSITION"
	ErrorCode_CONFERENCE_FAILED             ErrorCode = "CONFERENCE_FAILED"

	ErrorCode_SUMMARIZER_FAILED    ErrorCode = "SUMMARIZER_FAILED"
	ErrorCode_SUMMARY_IN_PROGRESS  ErrorCode = "SUMMARY_IN_PROGRESS"
	ErrorCode_TRANSLATION_FAILED   ErrorCode = "TRANSLATION_FAILED"
	ErrorCode_TRANSCRIPTION_FAILED ErrorCode = "TRANSCRIPTION_FAILED"

	ErrorCode_INTEGRATION_STORAGE_FAILED      ErrorCode = "INTEGRATION_STORAGE_FAILED"
	ErrorCode_INTEGRATION_CACHE_FAILED        ErrorCode = "INTEGRATION_CACHE_FAILED"
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED ErrorCode = "INTEGRATION_EXTERNAL_API_FAILED"

	ErrorCode_DB_CONNECTION_FAILED  ErrorCode = "DB_CONNECTION_FAILED"
	ErrorCode_DB_TRANSACTION_FAILED ErrorCode = "DB_TRANSACTION_FAILED"
)

func (c ErrorCode) String() string {
	return string(c)
}
