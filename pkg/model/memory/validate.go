package memory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-xmlform/pkg/model"
)

// ParseSchema decodes an OpenAPI 3 schema object from JSON.
func ParseSchema(raw []byte) (*openapi3.Schema, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, nil
	}
	schema := openapi3.NewSchema()
	if err := json.Unmarshal(raw, schema); err != nil {
		return nil, fmt.Errorf("memory: parse schema: %w", err)
	}
	return schema, nil
}

// schemaViolations validates data against schema and converts every failure
// into a violation keyed by the canonical path of the offending node.
func schemaViolations(schema *openapi3.Schema, data any) []model.Violation {
	if schema == nil {
		return nil
	}
	err := schema.VisitJSON(data, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	var out []model.Violation
	collectSchemaErrors(err, &out)
	return out
}

func collectSchemaErrors(err error, out *[]model.Violation) {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			collectSchemaErrors(inner, out)
		}
	case *openapi3.SchemaError:
		message := strings.TrimSpace(e.Reason)
		if message == "" {
			message = strings.TrimSpace(e.Error())
		}
		*out = append(*out, model.Violation{
			Path:    pointerPath(e.JSONPointer()),
			Message: message,
		})
	default:
		*out = append(*out, model.Violation{Path: "/", Message: strings.TrimSpace(err.Error())})
	}
}
