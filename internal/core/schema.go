package core

import (
	"encoding/json"
	"sort"

	"github.com/google/generative-ai-go/genai"
	"github.com/invopop/jsonschema"
)

// Shapes the model is asked to produce. Decoding never goes through these
// structs; normalize.go reads each field on its own so one bad field cannot
// discard the rest.
type questionsShape struct {
	Questions []string `json:"questions"`
}

type strengthShape struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type profileShape struct {
	EntityName          string          `json:"entityName"`
	Strengths           []strengthShape `json:"strengths"`
	UnrealizedPotential string          `json:"unrealizedPotential"`
	PoeticSummary       string          `json:"poeticSummary"`
	ShadowEcho          string          `json:"shadowEcho"`
}

var (
	questionsSchema = generateSchema[questionsShape]()
	profileSchema   = generateSchema[profileShape]()
)

func generateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	delete(m, "$schema")
	delete(m, "$id")
	strictObjects(m)
	return m
}

// strictObjects marks every object closed with all properties required, which
// strict structured output insists on.
func strictObjects(schema map[string]any) {
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false
		if props, ok := schema["properties"].(map[string]any); ok {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			sort.Strings(required)
			if len(required) > 0 {
				schema["required"] = required
			}
		}
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		for _, prop := range props {
			if m, ok := prop.(map[string]any); ok {
				strictObjects(m)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		strictObjects(items)
	}
}

var geminiTypes = map[string]genai.Type{
	"object":  genai.TypeObject,
	"array":   genai.TypeArray,
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
}

// geminiSchema converts a reflected JSON schema into Gemini's response
// schema. Keywords Gemini does not know, like additionalProperties, are
// dropped.
func geminiSchema(schema map[string]any) *genai.Schema {
	if schema == nil {
		return nil
	}
	out := &genai.Schema{}
	if t, ok := schema["type"].(string); ok {
		out.Type = geminiTypes[t]
	}
	if desc, ok := schema["description"].(string); ok {
		out.Description = desc
	}
	if items, ok := schema["items"].(map[string]any); ok {
		out.Items = geminiSchema(items)
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, prop := range props {
			if m, ok := prop.(map[string]any); ok {
				out.Properties[name] = geminiSchema(m)
			}
		}
	}
	switch required := schema["required"].(type) {
	case []string:
		out.Required = append([]string(nil), required...)
	case []any:
		for _, r := range required {
			if name, ok := r.(string); ok {
				out.Required = append(out.Required, name)
			}
		}
	}
	return out
}
