// internal/app/policy/projectpolicy/projectpolicy.go
package projectpolicy

import (
	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"github.com/devcollab/devcollab/internal/domain/models"
)

// CanRead reports whether uid may read the project. Any signed-in caller
// may; visibility only affects the linked repository.
func CanRead(uid string, p models.Project) bool {
	return uid != ""
}

// CanModify reports whether uid may change the project's collaborators,
// repository link or README: only the owner can.
func CanModify(uid string, p models.Project) bool {
	return uid != "" && uid == p.OwnerID
}

// RequireOwner returns ErrForbidden unless uid owns p.
func RequireOwner(uid string, p models.Project) error {
	if !CanModify(uid, p) {
		return apperr.Forbidden("Only the project owner can do this")
	}
	return nil
}
