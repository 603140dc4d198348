package llm

import "encoding/json"

// SchemaType enumerates the JSON types a declared output may use.
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
)

// Schema is a provider-neutral declaration of an expected JSON output shape.
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	// Order preserves declaration order; Gemini uses it for property ordering.
	Order    []string
	Required []string
	Items    *Schema
	Enum     []string
}

// Field is a named object property.
type Field struct {
	Name     string
	Schema   *Schema
	Optional bool
}

// Prop declares a required property.
func Prop(name string, s *Schema) Field {
	return Field{Name: name, Schema: s}
}

// OptionalProp declares a property the model may omit.
func OptionalProp(name string, s *Schema) Field {
	return Field{Name: name, Schema: s, Optional: true}
}

// Object declares an object with the given fields in order.
func Object(description string, fields ...Field) *Schema {
	s := &Schema{
		Type:        TypeObject,
		Description: description,
		Properties:  make(map[string]*Schema, len(fields)),
	}
	for _, f := range fields {
		s.Properties[f.Name] = f.Schema
		s.Order = append(s.Order, f.Name)
		if !f.Optional {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}

// Array declares a list of items.
func Array(description string, items *Schema) *Schema {
	return &Schema{Type: TypeArray, Description: description, Items: items}
}

// String declares a string value.
func String(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

// Number declares a floating point value.
func Number(description string) *Schema {
	return &Schema{Type: TypeNumber, Description: description}
}

// Integer declares an integer value.
func Integer(description string) *Schema {
	return &Schema{Type: TypeInteger, Description: description}
}

// Boolean declares a boolean value.
func Boolean(description string) *Schema {
	return &Schema{Type: TypeBoolean, Description: description}
}

// JSONSchema renders s as a JSON-Schema document.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Type == TypeObject {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.JSONSchema()
		}
		out["properties"] = props
		if len(s.Required) > 0 {
			out["required"] = s.Required
		}
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	return out
}

// MarshalJSON renders the schema as JSON-Schema.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.JSONSchema())
}
