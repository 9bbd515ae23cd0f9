package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforge/studyforge/internal/domain/artifact"
)

func quizJSON(levels ...string) string {
	var items []string
	for i, level := range levels {
		items = append(items, fmt.Sprintf(
			`{"nivel":%q,"pergunta":"Pergunta %d [sobre {chaves}]?","alternativas":{"a":"um","b":"dois","c":"três","d":"quatro","e":"cinco"},"correta":"C"}`,
			level, i+1))
	}
	return "[" + strings.Join(items, ",") + "]"
}

func validQuizJSON() string {
	var levels []string
	for _, l := range []string{"fácil", "médio", "difícil"} {
		for i := 0; i < 5; i++ {
			levels = append(levels, l)
		}
	}
	return quizJSON(levels...)
}

func TestExtractQuiz_RoundTrip(t *testing.T) {
	e := NewExtractor()
	body := validQuizJSON()
	raw := "here is your result: " + body + " thanks"

	quiz, err := e.ExtractQuiz(raw)
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 15)

	var want []artifact.QuizQuestion
	require.NoError(t, json.Unmarshal([]byte(body), &want))
	for i := range want {
		want[i].Correct = "c"
	}
	assert.Equal(t, want, quiz.Questions)
	assert.Equal(t, artifact.LevelEasy, quiz.Questions[0].Level)
	assert.Equal(t, artifact.LevelHard, quiz.Questions[14].Level)
	assert.Equal(t, "Pergunta 1 [sobre {chaves}]?", quiz.Questions[0].Question)
}

func TestExtractQuiz_Failures(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name    string
		raw     string
		want    error
		message string
	}{
		{"no array", "Desculpe, não consegui gerar o quiz.", ErrNotFound, ""},
		{"object instead of array", `{"quiz": 1}`, ErrNotFound, ""},
		{"unclosed array", "[{" + `"nivel":"fácil"`, ErrParse, ""},
		{"balanced but invalid", "[not, json]", ErrParse, ""},
		{"too few questions", quizJSON("fácil", "médio"), ErrSchemaInvalid, "exactly 15"},
		{"wrong level mix", quizJSON(strings.Split(strings.Repeat("fácil,", 15), ",")[:15]...), ErrSchemaInvalid, "per level"},
		{"unknown level", quizJSON("épico"), ErrSchemaInvalid, "unknown quiz level"},
		{"wrong type", `[1,2,3]`, ErrSchemaInvalid, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ExtractQuiz(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var xerr *Error
			require.True(t, errors.As(err, &xerr))
			assert.Equal(t, SchemaQuiz, xerr.Schema)
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestExtractQuiz_InvalidCorrectOption(t *testing.T) {
	body := strings.ReplaceAll(validQuizJSON(), `"correta":"C"`, `"correta":"f"`)

	_, err := NewExtractor().ExtractQuiz(body)
	assert.True(t, errors.Is(err, ErrSchemaInvalid))
	assert.Contains(t, err.Error(), "correta must be one of")
}

func TestExtractEvaluation(t *testing.T) {
	e := NewExtractor()

	eval, err := e.ExtractEvaluation("```json\n{\"correta\": false, \"feedback\": \"Faltou citar a {anáfase}.\", \"melhorar\": \"Revise as fases.\"}\n```")
	require.NoError(t, err)
	require.NotNil(t, eval.Correct)
	assert.False(t, *eval.Correct)
	assert.Equal(t, "Faltou citar a {anáfase}.", eval.Feedback)
	assert.Equal(t, "Revise as fases.", eval.Improve)
}

func TestExtractEvaluation_Failures(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"no object", "A resposta está correta.", ErrNotFound},
		{"not json", "{not json", ErrParse},
		{"balanced not json", "{not json}", ErrParse},
		{"missing correta", `{"feedback": "ok", "melhorar": "nada"}`, ErrSchemaInvalid},
		{"correta wrong type", `{"correta": "sim", "feedback": "ok"}`, ErrSchemaInvalid},
		{"missing feedback", `{"correta": true}`, ErrSchemaInvalid},
		{"missing melhorar", `{"correta": true, "feedback": "ok"}`, ErrSchemaInvalid},
		{"empty melhorar", `{"correta": true, "feedback": "ok", "melhorar": ""}`, ErrSchemaInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ExtractEvaluation(tt.raw)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestExtractMindMap(t *testing.T) {
	e := NewExtractor()
	raw := `Claro! {"nodes":[{"id":"1","label":"Fotossíntese"},{"id":"2","label":"Luz","parent":"1"},{"id":"3","label":"Clorofila","parent":"1"}]} Bons estudos.`

	mm, err := e.ExtractMindMap(raw)
	require.NoError(t, err)
	require.Len(t, mm.Nodes, 3)
	assert.Nil(t, mm.Nodes[0].Parent)
	assert.Equal(t, "1", *mm.Nodes[2].Parent)

	_, err = e.ExtractMindMap(`{"nodes":[{"id":"1","label":"a"},{"id":"2","label":"b","parent":"7"}]}`)
	assert.True(t, errors.Is(err, ErrSchemaInvalid))

	_, err = e.ExtractMindMap(`{"nodes":[]}`)
	assert.True(t, errors.Is(err, ErrSchemaInvalid))

	_, err = e.ExtractMindMap(`{"nodes":[{"id":"1"}]}`)
	assert.True(t, errors.Is(err, ErrSchemaInvalid))
}

func TestExtractText(t *testing.T) {
	e := NewExtractor()

	text, err := e.ExtractText("  **Olá**  \n")
	require.NoError(t, err)
	assert.Equal(t, "**Olá**", text)

	_, err = e.ExtractText(" \n\t")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestExtract_Dispatch(t *testing.T) {
	e := NewExtractor()

	p, err := e.Extract(validQuizJSON(), SchemaQuiz)
	require.NoError(t, err)
	assert.Equal(t, artifact.KindQuiz, p.Kind())

	p, err = e.Extract("oi", SchemaChat)
	require.NoError(t, err)
	assert.Equal(t, artifact.ChatReply{Text: "oi"}, p)

	_, err = e.Extract("{}", Schema("essay"))
	assert.Error(t, err)
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		shape Shape
		want  string
		err   error
	}{
		{"nested arrays", `x [[1],[2]] y`, ShapeArray, `[[1],[2]]`, nil},
		{"bracket in string", `{"a":"}"} tail}`, ShapeObject, `{"a":"}"}`, nil},
		{"escaped quote", `{"a":"say \"}\""}`, ShapeObject, `{"a":"say \"}\""}`, nil},
		{"first of two", `[1] and [2]`, ShapeArray, `[1]`, nil},
		{"no opening", `plain text`, ShapeObject, "", errNoOpening},
		{"unclosed", `{"a": {"b": 1}`, ShapeObject, "", errUnclosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := locate(tt.text, tt.shape)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func FuzzExtractMindMap(f *testing.F) {
	f.Add(`{"nodes":[{"id":"1","label":"a"}]}`)
	f.Add(`{"a":"\"}`)
	f.Add(`}{`)
	f.Fuzz(func(t *testing.T, raw string) {
		_, err := NewExtractor().ExtractMindMap(raw)
		if err == nil {
			return
		}
		n := 0
		for _, target := range []error{ErrNotFound, ErrParse, ErrSchemaInvalid} {
			if errors.Is(err, target) {
				n++
			}
		}
		if n != 1 {
			t.Fatalf("error %v matches %d stage sentinels", err, n)
		}
	})
}
