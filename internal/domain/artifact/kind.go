package artifact

import "fmt"

// Kind tags the payload variant of an artifact.
type Kind string

const (
	KindChat       Kind = "chat"
	KindQuiz       Kind = "quiz"
	KindEvaluation Kind = "evaluation"
	KindMindMap    Kind = "mindmap"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindChat, KindQuiz, KindEvaluation, KindMindMap}

func (k Kind) String() string {
	return string(k)
}

// ParseKind rejects anything outside Kinds.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
