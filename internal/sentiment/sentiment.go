package sentiment

import (
	_ "embed"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// Label is the three-way classification result.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

//go:embed lexicon.txt
var lexiconData string

var (
	lexiconOnce sync.Once
	lexicon     map[string]float64
)

// negators flip the polarity of a nearby sentiment-bearing word.
var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "neither": {}, "nor": {},
	"without": {}, "hardly": {}, "barely": {},
	"isn't": {}, "aren't": {}, "wasn't": {}, "weren't": {},
	"don't": {}, "doesn't": {}, "didn't": {}, "won't": {},
	"can't": {}, "couldn't": {}, "shouldn't": {}, "wouldn't": {},
	"ain't": {},
}

const negationWindow = 3

func loadLexicon() map[string]float64 {
	lexiconOnce.Do(func() {
		lexicon = make(map[string]float64)
		for _, line := range strings.Split(lexiconData, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			word, scoreStr, ok := strings.Cut(line, "\t")
			if !ok {
				continue
			}
			score, err := strconv.ParseFloat(strings.TrimSpace(scoreStr), 64)
			if err != nil {
				continue
			}
			lexicon[strings.ToLower(strings.TrimSpace(word))] = score
		}
	})
	return lexicon
}

// Classify labels free text by lexicon polarity. It is a pure function of
// the input: positive and negative magnitudes are accumulated
// independently and compared, with ties (including empty input) resolving
// to neutral.
func Classify(text string) Label {
	lex := loadLexicon()
	tokens := tokenize(text)

	var pos, neg float64
	for i, token := range tokens {
		score, ok := lex[token]
		if !ok {
			continue
		}
		if negated(tokens, i) {
			score = -score
		}
		if score > 0 {
			pos += score
		} else {
			neg += -score
		}
	}

	switch {
	case pos > neg:
		return Positive
	case neg > pos:
		return Negative
	default:
		return Neutral
	}
}

func negated(tokens []string, i int) bool {
	start := i - negationWindow
	if start < 0 {
		start = 0
	}
	for _, token := range tokens[start:i] {
		if _, ok := negators[token]; ok {
			return true
		}
	}
	return false
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.ToLower(strings.Trim(field, "'"))
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
