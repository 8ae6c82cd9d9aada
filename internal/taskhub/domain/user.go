package domain

import "time"

// DateLayout is the wire and storage format of a date of birth.
const DateLayout = "2006-01-02"

// User is the profile of the signed in account. ID is the identity id
// assigned by the remote identity service.
type User struct {
	ID    string
	Name  string
	Email string
	DOB   *time.Time // nil when not provided
}

// DOBString renders DOB in DateLayout or "" when unset.
func (u User) DOBString() string {
	if u.DOB == nil {
		return ""
	}
	return u.DOB.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date of birth. An empty string yields nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
