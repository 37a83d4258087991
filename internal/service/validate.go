package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/larderhq/larder/pkg/types"
)

// validate is the shared validator instance. validator.Validate caches
// struct metadata and is safe for concurrent use.
var validate = validator.New()

// ValidationError reports one or more schema violations in a payload.
type ValidationError struct {
	Fields []string // "field: problem" messages
}

func (e *ValidationError) Error() string {
	return "invalid recipe: " + strings.Join(e.Fields, "; ")
}

// Decode parses a recipe payload. Unknown fields are rejected, matching the
// strict schema of the wire format.
func Decode(r io.Reader) (types.Recipe, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var recipe types.Recipe
	if err := dec.Decode(&recipe); err != nil {
		return types.Recipe{}, &ValidationError{Fields: []string{"body: " + decodeProblem(err)}}
	}
	return recipe, nil
}

// decodeProblem normalizes decoder failures into a short message without
// leaking Go type names for well-formed-but-wrong payloads.
func decodeProblem(err error) string {
	if ute, ok := err.(*json.UnmarshalTypeError); ok {
		return fmt.Sprintf("field %q has wrong type", ute.Field)
	}
	msg := err.Error()
	if strings.HasPrefix(msg, "json: unknown field") {
		return "unknown " + strings.TrimPrefix(msg, "json: unknown ")
	}
	return "malformed JSON"
}

// validateRecipe checks r against the recipe schema: required fields,
// numeric ranges, date format, and non-empty list elements.
func validateRecipe(r types.Recipe) error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &ValidationError{Fields: []string{"payload: " + err.Error()}}
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldProblem(fe))
	}
	return &ValidationError{Fields: fields}
}

// fieldProblem renders a single validator failure as "field: problem" using
// the wire (JSON) field names.
func fieldProblem(fe validator.FieldError) string {
	field := wireName(fe)
	switch fe.Tag() {
	case "required":
		return field + ": required"
	case "min":
		return fmt.Sprintf("%s: must have at least %s", field, minUnit(fe))
	case "max":
		return fmt.Sprintf("%s: must have at most %s", field, maxUnit(fe))
	case "gte":
		return fmt.Sprintf("%s: must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s: must be at most %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s: must match %s", field, types.DateLayout)
	default:
		return fmt.Sprintf("%s: failed %s", field, fe.Tag())
	}
}

// wireName converts the validator's struct namespace ("Recipe.Nutrition.ServingSize")
// to the JSON wire name ("nutrition.servingSize").
func wireName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:] // drop the root struct name
	}
	for i, p := range parts {
		parts[i] = jsonNames[p]
		if parts[i] == "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}

// jsonNames maps struct field names to their JSON tags where lowering the
// first letter is not enough.
var jsonNames = map[string]string{
	"DatePublished": "datePublished",
	"PrepTime":      "prepTime",
	"CookTime":      "cookTime",
	"ServingSize":   "servingSize",
}

// minUnit and maxUnit phrase min/max violations per field kind: character
// counts for strings, element counts for slices.
func minUnit(fe validator.FieldError) string {
	if _, ok := fe.Value().(string); ok {
		return fe.Param() + " characters"
	}
	return fe.Param() + " elements"
}

func maxUnit(fe validator.FieldError) string {
	if _, ok := fe.Value().(string); ok {
		return fe.Param() + " characters"
	}
	return fe.Param() + " elements"
}
