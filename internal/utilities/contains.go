package utilities

// Contains checks if a string is present in a slice of strings.
func Contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

// OrderClause maps an ordering query such as -created_at to an ORDER BY clause.
// Fields outside allowed fall back to fallback.
func OrderClause(ordering string, allowed []string, fallback string) string {
	desc := len(ordering) > 0 && ordering[0] == '-'
	field := ordering
	if desc {
		field = ordering[1:]
	}
	if !Contains(allowed, field) {
		return fallback
	}
	if desc {
		return field + " DESC"
	}
	return field + " ASC"
}
