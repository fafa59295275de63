package service

// Identity is the authenticated caller of a request. A nil *Identity is an
// anonymous caller.
type Identity struct {
	UserID  uint
	Email   string
	IsAdmin bool
}

// IsOwnerOrAdmin reports whether id may modify a resource created by authorID
func IsOwnerOrAdmin(authorID uint, id *Identity) bool {
	if id == nil {
		return false
	}

	return id.UserID == authorID || id.IsAdmin
}

func requireAdmin(id *Identity) error {
	if id == nil || !id.IsAdmin {
		return ErrForbidden
	}

	return nil
}
