package services

// Actor is the authenticated identity performing an operation. The zero value
// is an anonymous caller.
type Actor struct {
	UserID   uint
	Username string
	Admin    bool
}

// Authenticated reports whether the actor carries an identity.
func (a Actor) Authenticated() bool {
	return a.UserID != 0
}

// RequireAuthenticated allows any identified actor.
func RequireAuthenticated(a Actor) error {
	if !a.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

// RequireOwner allows the actor that owns the row.
func RequireOwner(a Actor, ownerID uint) error {
	if err := RequireAuthenticated(a); err != nil {
		return err
	}
	if a.UserID != ownerID {
		return ErrForbidden
	}
	return nil
}

// RequireAdmin allows configured administrators only.
func RequireAdmin(a Actor) error {
	if err := RequireAuthenticated(a); err != nil {
		return err
	}
	if !a.Admin {
		return ErrForbidden
	}
	return nil
}
