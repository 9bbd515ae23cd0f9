package artifact

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Level is a quiz question difficulty.
type Level string

const (
	LevelEasy   Level = "facil"
	LevelMedium Level = "medio"
	LevelHard   Level = "dificil"
)

var Levels = []Level{LevelEasy, LevelMedium, LevelHard}

var levelAliases = map[string]Level{
	"facil":   LevelEasy,
	"easy":    LevelEasy,
	"medio":   LevelMedium,
	"media":   LevelMedium,
	"medium":  LevelMedium,
	"dificil": LevelHard,
	"hard":    LevelHard,
}

// ParseLevel folds case and accents, so "Fácil" and "easy" both parse.
func ParseLevel(s string) (Level, error) {
	key, _, err := transform.String(foldAccents(), strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return "", fmt.Errorf("normalize level %q: %w", s, err)
	}
	if l, ok := levelAliases[key]; ok {
		return l, nil
	}
	return "", fmt.Errorf("unknown quiz level %q", s)
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Transformers are stateful, so each call builds its own chain.
func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
