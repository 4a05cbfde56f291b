package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindLinks(t *testing.T) {
	links := FindLinks("open HTTPS://a.io/x or http://b.io?q=1, done")
	assert.Equal(t, []Link{
		{URI: "HTTPS://a.io/x", Start: 5, End: 19},
		{URI: "http://b.io?q=1,", Start: 23, End: 39},
	}, links)

	assert.Empty(t, FindLinks("ftp://nope and https:// only"))
	assert.Empty(t, FindLinks(""))
}

func TestLinkAtCountsRunes(t *testing.T) {
	line := "→ https://x.dev"
	l, ok := LinkAt(line, 2)
	assert.True(t, ok)
	assert.Equal(t, "https://x.dev", l.URI)

	_, ok = LinkAt(line, 1)
	assert.False(t, ok)
	_, ok = LinkAt(line, 15)
	assert.False(t, ok)
}
