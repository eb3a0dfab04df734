// In file: internal/decision/schema.go
package decision

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed data/analysis.schema.json
var analysisSchemaJSON []byte

var analysisSchema = mustCompileSchema(analysisSchemaJSON)

func mustCompileSchema(raw []byte) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("decision: invalid analysis schema: %v", err))
	}
	return s
}

// ValidateSchema checks that a is complete: at least four non-empty pros and
// cons, non-empty reasoning strings and scores within 0..100.
func ValidateSchema(a *Analysis) error {
	if a == nil {
		return fmt.Errorf("analysis is nil")
	}
	result, err := analysisSchema.Validate(gojsonschema.NewGoLoader(a))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("analysis validation failed: %v", errs)
	}
	return nil
}
