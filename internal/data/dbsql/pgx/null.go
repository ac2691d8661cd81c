package db

// ToNullString maps the empty string to a SQL NULL.
func ToNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// FromNullString maps a SQL NULL to the empty string.
func FromNullString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
