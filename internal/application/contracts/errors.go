package contracts

// ErrorCode 业务错误码
type ErrorCode string

const (
	ErrorCodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrorCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrorCodeConflict           ErrorCode = "CONFLICT"
	ErrorCodeInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrorCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrorCodeRateLimit          ErrorCode = "RATE_LIMIT"
)

// ServiceError 业务错误
type ServiceError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

func (e *ServiceError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// NewServiceError 创建业务错误
func NewServiceError(code ErrorCode, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithCause 创建带原因的业务错误
func NewServiceErrorWithCause(code ErrorCode, message string, cause error) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewServiceErrorWithDetails 创建带详情的业务错误
func NewServiceErrorWithDetails(code ErrorCode, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// ErrMissingField 提交请求缺少必填字段
func ErrMissingField(field string) *ServiceError {
	return NewServiceErrorWithDetails(ErrorCodeInvalidRequest,
		"Missing required field: "+field,
		map[string]interface{}{"field": field})
}

// ErrDuplicateTask 队列中已存在相同主标识的任务
func ErrDuplicateTask(identifier string) *ServiceError {
	return NewServiceErrorWithDetails(ErrorCodeConflict,
		"Task already exists in queue",
		map[string]interface{}{"identifier": identifier})
}

// ErrEmptyQueue 队列为空
func ErrEmptyQueue() *ServiceError {
	return NewServiceError(ErrorCodeNotFound, "Queue is empty")
}

// ErrIndexOutOfRange 任务序号越界
func ErrIndexOutOfRange(index int) *ServiceError {
	return NewServiceErrorWithDetails(ErrorCodeNotFound,
		"Invalid task ID",
		map[string]interface{}{"index": index})
}

// ErrAlreadyRunning 已有任务在执行
func ErrAlreadyRunning() *ServiceError {
	return NewServiceError(ErrorCodeConflict, "A task is already running")
}

// ErrInvalidTimeFormat 闲时时间格式错误
func ErrInvalidTimeFormat(value string) *ServiceError {
	return NewServiceErrorWithDetails(ErrorCodeInvalidRequest,
		"Invalid time format, expected HH:MM",
		map[string]interface{}{"value": value})
}
