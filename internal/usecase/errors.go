package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// クライアントが分岐に使う安定コード
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeOrderNotFound       = "ORDER_NOT_FOUND"
	CodeVariantNotFound     = "VARIANT_NOT_FOUND"
	CodeInvalidVariant      = "INVALID_VARIANT"
	CodeOutOfStock          = "OUT_OF_STOCK"
	CodeInvalidOrderStatus  = "INVALID_ORDER_STATUS"
	CodeReturnNotAllowed    = "RETURN_NOT_ALLOWED"
	CodeReturnAlreadyExists = "RETURN_ALREADY_EXISTS"
	CodeForbidden           = "FORBIDDEN"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInternal            = "INTERNAL"
)

// HTTPステータス＋安定コード＋表示用メッセージ＋詳細（対象IDなど）
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func NewHTTPError(status int, code string, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: map[string]interface{}{},
	}
}

func NewHTTPErrorWithDetails(status int, code string, message string, details map[string]interface{}) error {
	if details == nil {
		details = map[string]interface{}{}
	}
	return &HTTPError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// DBエラーは詳細を漏らさず500に落とす
func errDB() error {
	return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
}
