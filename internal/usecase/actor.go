package usecase

import (
	"net/http"
	"time"

	"app/internal/domain/model"
)

// usecaseに渡す時計とID発行。テストで差し替える
type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID() string
}

// 認証済みの操作主体（外部の認証レイヤがJWTで渡してくる）
type Actor struct {
	UserID int64
	Role   model.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// 所有者か管理者だけ通す
func ensureOwnerOrAdmin(a Actor, orderUserID int64) error {
	if a.IsAdmin() {
		return nil
	}
	if a.UserID != orderUserID {
		return NewHTTPError(http.StatusForbidden, CodeForbidden, "forbidden")
	}
	return nil
}
