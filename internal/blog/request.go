package blog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/alkime/writeablog/pkg/collections"
	"github.com/go-playground/validator/v10"
)

// Tones lists the writing tones offered to users.
var Tones = []string{"professional", "casual", "formal", "friendly", "humorous"}

// WordCounts lists the allowed target lengths. Keep in sync with the
// oneof rule on Request.WordCount.
var WordCounts = []int{300, 500, 750, 1000, 1500}

// DefaultWordCount is used by callers that do not pick a length.
const DefaultWordCount = 500

// Request holds the user's options for one blog post generation.
type Request struct {
	Topic           string   `json:"topic" validate:"required"`
	SeedContent     string   `json:"seedContent"`
	Tones           []string `json:"tones" validate:"required,min=1,dive,required"`
	WordCount       int      `json:"wordCount" validate:"oneof=300 500 750 1000 1500"`
	IncludeResearch bool     `json:"includeResearch"`
	IncludeImages   bool     `json:"includeImages"`
}

//nolint:gochecknoglobals // validator caches struct metadata and is safe for concurrent use
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names so messages match what API callers sent.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	return v
}

// Normalize trims the topic and turns Tones into an ordered set: blank
// entries are dropped, duplicates keep their first position. Seed content is
// left verbatim.
func (r Request) Normalize() Request {
	r.Topic = strings.TrimSpace(r.Topic)

	tones := collections.Apply(r.Tones, strings.TrimSpace)
	tones = collections.Filter(tones, func(t string) bool { return t != "" })
	r.Tones = collections.Unique(tones)

	return r
}

// Validate checks the request invariants. Callers should Normalize first;
// whitespace-only topics and tones are only caught after normalization.
func (r Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	msgs := collections.Apply(fieldErrs, describeFieldError)
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
}

// ToneList joins the tones with a comma, preserving order.
func (r Request) ToneList() string {
	return strings.Join(r.Tones, ", ")
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		if fe.Field() == "tones" {
			return "at least one tone is required"
		}
		return fe.Field() + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
