package config

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-scorecard/internal/scorecard"
)

// GenerateSchema generates the JSON schema of the scorecard document.
func GenerateSchema() *jsonschema.Schema {
	weights := (&jsonschema.Reflector{ExpandedStruct: true, DoNotReference: true}).Reflect(&scorecard.Weights{})
	weights.Version = ""

	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case reflect.TypeOf(optional.Option[float64]{}):
				return &jsonschema.Schema{Type: "number", Minimum: json.Number("0")}
			case reflect.TypeOf(optional.Option[int]{}):
				return &jsonschema.Schema{Type: "integer", Minimum: json.Number("0")}
			case reflect.TypeOf(optional.Option[scorecard.Weights]{}):
				return weights
			}

			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{Type: "string", Format: "date-time"}
			}

			return nil
		},
	}

	schema := reflector.Reflect(&Config{})
	schema.Title = "argo-scorecard-config"
	schema.Description = "Configuration schema for the strategy scorecard"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON returns the indented JSON schema.
func GenerateSchemaJSON() (string, error) {
	data, err := json.MarshalIndent(GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(data), nil
}
