package authz

import "raglite/raglite/utils/apperrors"

// CheckOwnership compares the resource owner with the requesting user.
// Pure comparison, no side effects; call it before any mutating or
// cover-revealing operation.
func CheckOwnership(ownerID, requesterID, resource string) error {
	if ownerID != requesterID {
		return apperrors.Authorization(resource)
	}
	return nil
}
