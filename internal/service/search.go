package service

import "strings"

// SearchHit is one result of a module search, the gateway merges them.
type SearchHit struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

// LikeEscape is appended to every LIKE built from Like.
const LikeEscape = "ESCAPE '!'"

// Like returns a lower case LIKE pattern matching q anywhere, the LIKE
// wildcards of q are escaped with "!".
func Like(q string) string {
	r := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(q))) + "%"
}

// WantType reports whether a search restricted to typ includes results of kind.
func WantType(typ, kind string) bool {
	return typ == "" || strings.EqualFold(typ, kind)
}
