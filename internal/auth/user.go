package auth

import (
	"context"

	"github.com/frahmantamala/contractor-management/internal/workflow"
)

// User is the authenticated actor attached to a request. Role carries
// the contractor-side role used for workflow gating.
type User struct {
	ID    int64         `json:"id"`
	Email string        `json:"email"`
	Name  string        `json:"name,omitempty"`
	Role  workflow.Role `json:"role"`
}

// IsManager reports whether the user sits on the manager ladder.
func (u *User) IsManager() bool {
	return u.Role == workflow.RoleContractor ||
		u.Role == workflow.RoleJuniorManager ||
		u.Role == workflow.RoleSeniorManager
}

func (u *User) IsContractor() bool {
	return u.Role == workflow.RoleContractor
}

type ctxKey string

const userContextKey ctxKey = "authUser"

func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok
}
