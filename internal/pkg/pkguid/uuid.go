package pkguid

import "github.com/google/uuid"

// UUID generates time-ordered UUIDv7 strings, falling back to v4 if the
// v7 clock read fails.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// IsUUID reports whether s parses as a UUID in any of the accepted forms.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
