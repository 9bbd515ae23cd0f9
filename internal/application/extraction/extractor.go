// Package extraction reduces free-form provider text to a validated
// structured payload, or explains precisely why it could not.
package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/studyforge/studyforge/internal/domain/artifact"
	"github.com/studyforge/studyforge/internal/shared/utils"
)

// Schema names an expected payload.
type Schema string

const (
	SchemaChat       Schema = "chat"
	SchemaQuiz       Schema = "quiz"
	SchemaEvaluation Schema = "evaluation"
	SchemaMindMap    Schema = "mindmap"
)

// Shape returns the container kind the schema is searched for.
func (s Schema) Shape() Shape {
	if s == SchemaQuiz {
		return ShapeArray
	}
	return ShapeObject
}

// Extractor is stateless apart from its validator, which is safe for
// concurrent use.
type Extractor struct {
	validate *validator.Validate
}

func NewExtractor() *Extractor {
	return &Extractor{validate: utils.NewValidator()}
}

// ExtractText accepts any non-blank chat reply.
func (e *Extractor) ExtractText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", notFound(SchemaChat, errors.New("empty reply"))
	}
	return text, nil
}

// ExtractQuiz expects an array of exactly 15 questions, 5 per level.
func (e *Extractor) ExtractQuiz(raw string) (artifact.Quiz, error) {
	var questions []artifact.QuizQuestion
	if err := e.decode(raw, SchemaQuiz, &questions); err != nil {
		return artifact.Quiz{}, err
	}
	for i := range questions {
		questions[i].Correct = strings.ToLower(strings.TrimSpace(questions[i].Correct))
	}

	quiz := artifact.Quiz{Questions: questions}
	if err := e.check(SchemaQuiz, quiz); err != nil {
		return artifact.Quiz{}, err
	}
	if err := quiz.CheckLevels(); err != nil {
		return artifact.Quiz{}, schemaInvalid(SchemaQuiz, err)
	}
	return quiz, nil
}

// ExtractEvaluation expects an object with correta, feedback and melhorar.
func (e *Extractor) ExtractEvaluation(raw string) (artifact.AnswerEvaluation, error) {
	var eval artifact.AnswerEvaluation
	if err := e.decode(raw, SchemaEvaluation, &eval); err != nil {
		return artifact.AnswerEvaluation{}, err
	}
	if err := e.check(SchemaEvaluation, eval); err != nil {
		return artifact.AnswerEvaluation{}, err
	}
	return eval, nil
}

// ExtractMindMap expects {"nodes": [...]} with unique ids and known parents.
func (e *Extractor) ExtractMindMap(raw string) (artifact.MindMap, error) {
	var mm artifact.MindMap
	if err := e.decode(raw, SchemaMindMap, &mm); err != nil {
		return artifact.MindMap{}, err
	}
	if err := e.check(SchemaMindMap, mm); err != nil {
		return artifact.MindMap{}, err
	}
	if err := mm.CheckLinks(); err != nil {
		return artifact.MindMap{}, schemaInvalid(SchemaMindMap, err)
	}
	return mm, nil
}

// Extract dispatches on schema and returns the payload variant.
func (e *Extractor) Extract(raw string, schema Schema) (artifact.Payload, error) {
	switch schema {
	case SchemaChat:
		text, err := e.ExtractText(raw)
		if err != nil {
			return nil, err
		}
		return artifact.ChatReply{Text: text}, nil
	case SchemaQuiz:
		return e.ExtractQuiz(raw)
	case SchemaEvaluation:
		return e.ExtractEvaluation(raw)
	case SchemaMindMap:
		return e.ExtractMindMap(raw)
	default:
		return nil, fmt.Errorf("unknown extraction schema %q", schema)
	}
}

// decode runs the search and parse stages, then decodes into dst. Once the
// text is known to be valid JSON, any decode failure is a schema mismatch.
func (e *Extractor) decode(raw string, schema Schema, dst any) error {
	candidate, err := locate(raw, schema.Shape())
	switch {
	case errors.Is(err, errNoOpening):
		return notFound(schema, err)
	case err != nil:
		return parseFailure(schema, err)
	}

	if !json.Valid([]byte(candidate)) {
		var probe any
		return parseFailure(schema, json.Unmarshal([]byte(candidate), &probe))
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(candidate)))
	if err := dec.Decode(dst); err != nil {
		return schemaInvalid(schema, err)
	}
	return nil
}

func (e *Extractor) check(schema Schema, v any) error {
	if err := e.validate.Struct(v); err != nil {
		return schemaInvalid(schema, errors.New(utils.DescribeValidationError(err)))
	}
	return nil
}
