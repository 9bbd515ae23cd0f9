package artifact

import (
	"fmt"
	"strings"
)

// Payload is the validated body of an artifact. The set of implementations
// is closed: ChatReply, Quiz, AnswerEvaluation and MindMap.
type Payload interface {
	Kind() Kind
	sealed()
}

// ChatReply is a free-form answer with its sanitized HTML rendering.
type ChatReply struct {
	Text string `json:"text"`
	HTML string `json:"html,omitempty"`
}

func (ChatReply) Kind() Kind { return KindChat }
func (ChatReply) sealed()    {}

// QuizSize and QuizPerLevel fix the quiz layout.
const (
	QuizSize     = 15
	QuizPerLevel = 5
)

// Quiz is a fixed set of multiple-choice questions.
type Quiz struct {
	Questions []QuizQuestion `json:"questions" validate:"len=15,dive"`
}

func (Quiz) Kind() Kind { return KindQuiz }
func (Quiz) sealed()    {}

// QuizQuestion keeps the provider's Portuguese field names on the wire.
type QuizQuestion struct {
	Level    Level       `json:"nivel" validate:"required"`
	Question string      `json:"pergunta" validate:"required"`
	Options  QuizOptions `json:"alternativas"`
	Correct  string      `json:"correta" validate:"required,oneof=a b c d e"`
}

type QuizOptions struct {
	A string `json:"a" validate:"required"`
	B string `json:"b" validate:"required"`
	C string `json:"c" validate:"required"`
	D string `json:"d" validate:"required"`
	E string `json:"e" validate:"required"`
}

// CheckLevels enforces QuizPerLevel questions at each level.
func (q Quiz) CheckLevels() error {
	counts := make(map[Level]int, len(Levels))
	for _, question := range q.Questions {
		counts[question.Level]++
	}
	var wrong []string
	for _, l := range Levels {
		if counts[l] != QuizPerLevel {
			wrong = append(wrong, fmt.Sprintf("%s=%d", l, counts[l]))
		}
	}
	if len(wrong) > 0 {
		return fmt.Errorf("expected %d questions per level, got %s", QuizPerLevel, strings.Join(wrong, ", "))
	}
	return nil
}

// AnswerEvaluation is the provider's verdict on a learner's answer.
type AnswerEvaluation struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
	Correct  *bool  `json:"correta" validate:"required"`
	Feedback string `json:"feedback" validate:"required"`
	Improve  string `json:"melhorar" validate:"required"`
}

func (AnswerEvaluation) Kind() Kind { return KindEvaluation }
func (AnswerEvaluation) sealed()    {}

// MindMap is a forest of labelled nodes linked by parent ids.
type MindMap struct {
	Nodes []MindMapNode `json:"nodes" validate:"required,min=1,dive"`
}

type MindMapNode struct {
	ID     string  `json:"id" validate:"required"`
	Label  string  `json:"label" validate:"required"`
	Parent *string `json:"parent,omitempty"`
}

func (MindMap) Kind() Kind { return KindMindMap }
func (MindMap) sealed()    {}

// CheckLinks requires unique ids and parents that name an existing node.
func (m MindMap) CheckLinks() error {
	ids := make(map[string]struct{}, len(m.Nodes))
	for _, n := range m.Nodes {
		if _, dup := ids[n.ID]; dup {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		ids[n.ID] = struct{}{}
	}
	for _, n := range m.Nodes {
		if n.Parent == nil || *n.Parent == "" {
			continue
		}
		if *n.Parent == n.ID {
			return fmt.Errorf("node %q is its own parent", n.ID)
		}
		if _, ok := ids[*n.Parent]; !ok {
			return fmt.Errorf("node %q references unknown parent %q", n.ID, *n.Parent)
		}
	}
	return nil
}
