package microblog

import (
	"regexp"
	"strings"
)

var (
	mentionRe = regexp.MustCompile(`@\w+`)
	linkRe    = regexp.MustCompile(`https?://\S+`)
	rtRe      = regexp.MustCompile(`^RT\s+`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// CleanText strips retweet prefixes, mentions, links, and hashtag markers
// so the sentiment classifier sees only the post's own words. Hashtag
// words themselves are kept; only the '#' marker is noise.
func CleanText(text string) string {
	text = rtRe.ReplaceAllString(text, "")
	text = mentionRe.ReplaceAllString(text, "")
	text = linkRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "#", "")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
