package repository

import "strings"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a LIKE pattern (with '!' as the escape character)
// matching any value that contains q. Both q and the column it is compared
// against must be lowered; see database.Open for SQLite's Unicode LOWER.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}
