package screen

import "fmt"

// FieldSpec declares one storable field of an entity: whether the store
// rejects records created without it, and the value it defaults to when a
// creation payload omits it.
type FieldSpec struct {
	Name     string `json:"name"`
	Required bool   `json:"required,omitempty"`
	Default  any    `json:"default,omitempty"`
}

// EntitySchema declares the field set of one entity bucket. The store
// consults it on every create: required fields missing from the input fail
// the transaction with ValidationError, defaults fill absent optional fields.
type EntitySchema struct {
	Entity Entity      `json:"entity"`
	Fields []FieldSpec `json:"fields"`
}

// Apply validates the input fields and returns a copy with defaults filled
// in. The first missing required field aborts with ValidationError.
func (s EntitySchema) Apply(fields map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	for _, spec := range s.Fields {
		if v, ok := out[spec.Name]; ok && v != nil {
			continue
		}
		if spec.Default != nil {
			out[spec.Name] = spec.Default
			continue
		}
		if spec.Required {
			return nil, ValidationError{
				Field:   string(s.Entity) + "." + spec.Name,
				Rule:    "required",
				Message: "field is required",
			}
		}
	}
	return out, nil
}

// SchemaSet registers the entity schemas a store enforces. It is assembled
// once at configuration time, before any store opens.
type SchemaSet struct {
	schemas map[Entity]EntitySchema
}

// NewSchemaSet constructs an empty schema set.
func NewSchemaSet() *SchemaSet {
	return &SchemaSet{schemas: make(map[Entity]EntitySchema)}
}

// Register adds an entity schema; registering the same entity twice is a
// configuration error.
func (s *SchemaSet) Register(schema EntitySchema) error {
	if schema.Entity == "" {
		return fmt.Errorf("schema entity name cannot be empty")
	}
	if _, ok := s.schemas[schema.Entity]; ok {
		return fmt.Errorf("schema for entity %s already registered", schema.Entity)
	}
	s.schemas[schema.Entity] = schema
	return nil
}

// Lookup returns the schema registered for an entity.
func (s *SchemaSet) Lookup(entity Entity) (EntitySchema, bool) {
	if s == nil {
		return EntitySchema{}, false
	}
	schema, ok := s.schemas[entity]
	return schema, ok
}

// Apply runs the entity's schema against the input when one is registered;
// unknown entities pass through unchanged.
func (s *SchemaSet) Apply(entity Entity, fields map[string]any) (map[string]any, error) {
	schema, ok := s.Lookup(entity)
	if !ok {
		if fields == nil {
			return map[string]any{}, nil
		}
		return fields, nil
	}
	return schema.Apply(fields)
}
