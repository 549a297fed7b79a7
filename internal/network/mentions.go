package network

import "regexp"

// mentionPattern matches @name references in post text. A name is a run of
// word characters (letters, digits, underscore) immediately after the @.
var mentionPattern = regexp.MustCompile(`@(\w+)`)

// ExtractMentions returns every username referenced with @name syntax in post,
// in order of appearance. Duplicates are retained so that repeated mentions
// can be counted as separate edges. A post without mentions yields an empty
// slice, never nil-panics or errors.
func ExtractMentions(post string) []string {
	matches := mentionPattern.FindAllStringSubmatch(post, -1)
	mentions := make([]string, 0, len(matches))
	for _, m := range matches {
		mentions = append(mentions, m[1])
	}
	return mentions
}
