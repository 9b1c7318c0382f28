package profile

import (
	_ "embed"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// validateSchema unifies the decoded document with the embedded schema
// and reports every violation with its field path.
func validateSchema(raw any) []*Error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource)
	if err := schema.Err(); err != nil {
		return []*Error{NewSchemaViolation("schema", err.Error())}
	}

	value := ctx.Encode(raw)
	if err := value.Err(); err != nil {
		return []*Error{NewSchemaViolation("document", err.Error())}
	}

	unified := schema.Unify(value)
	err := unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var out []*Error
	for _, e := range cueerrors.Errors(err) {
		field := strings.Join(e.Path(), ".")
		if field == "" {
			field = "document"
		}
		out = append(out, NewSchemaViolation(field, strings.TrimSpace(cueerrors.Details(e, nil))))
	}
	return out
}
