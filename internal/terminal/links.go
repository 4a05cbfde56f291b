package terminal

import (
	"regexp"
	"unicode/utf8"
)

// LinkPattern matches http and https URLs.
var LinkPattern = regexp.MustCompile(`(?i)https?://[^\s]+`)

// Link is a URL found in a line of terminal text. Start and End are
// column offsets, End exclusive.
type Link struct {
	URI   string
	Start int
	End   int
}

// FindLinks returns the links in line in order of appearance.
func FindLinks(line string) []Link {
	var links []Link
	for _, loc := range LinkPattern.FindAllStringIndex(line, -1) {
		start := utf8.RuneCountInString(line[:loc[0]])
		uri := line[loc[0]:loc[1]]
		links = append(links, Link{
			URI:   uri,
			Start: start,
			End:   start + utf8.RuneCountInString(uri),
		})
	}
	return links
}

// LinkAt returns the link covering column col of line.
func LinkAt(line string, col int) (Link, bool) {
	for _, l := range FindLinks(line) {
		if col >= l.Start && col < l.End {
			return l, true
		}
	}
	return Link{}, false
}
