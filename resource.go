package waxhub

import (
	"encoding/json"
	"fmt"
)

// ResourceIdentifier uniquely identifies a resource on the wire.
type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func (ri ResourceIdentifier) complete() bool {
	return ri.Type != "" && ri.ID != ""
}

// Relationship links a resource to exactly one other resource or to an
// ordered collection of resources. Build values with [ToOne] or [ToMany];
// the zero value marshals as an empty to-many relationship.
type Relationship struct {
	one  *ResourceIdentifier
	many []ResourceIdentifier
}

// ToOne builds a relationship to a single resource.
func ToOne(target ResourceIdentifier) Relationship {
	return Relationship{one: &target}
}

// ToMany builds a relationship to an ordered collection of resources.
// The order of targets is preserved on the wire.
func ToMany(targets ...ResourceIdentifier) Relationship {
	return Relationship{many: targets}
}

// MarshalJSON implements the [json.Marshaler] interface.
func (r Relationship) MarshalJSON() ([]byte, error) {
	if r.one != nil {
		return json.Marshal(struct {
			Data *ResourceIdentifier `json:"data"`
		}{Data: r.one})
	}

	many := r.many
	if many == nil {
		// An empty to-many relationship is "data": [], never null.
		many = []ResourceIdentifier{}
	}

	return json.Marshal(struct {
		Data []ResourceIdentifier `json:"data"`
	}{Data: many})
}

// validate checks every identifier the relationship references.
func (r Relationship) validate(name string) error {
	if r.one != nil {
		if !r.one.complete() {
			return fmt.Errorf("relationship %q: %w", name, ErrMalformedRelationship)
		}

		return nil
	}

	for i, target := range r.many {
		if !target.complete() {
			return fmt.Errorf("relationship %q[%d]: %w", name, i, ErrMalformedRelationship)
		}
	}

	return nil
}

// ResourceObject is the data member of a [Document].
type ResourceObject struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id,omitempty"`
	Attributes    map[string]any          `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// Document is a single-resource JSON:API document as sent to the API for
// create and update calls.
type Document struct {
	Data ResourceObject `json:"data"`
}

// NewResource assembles a document from a resource type, an optional id,
// attributes, and relationships. The id is omitted from the wire format
// when empty so the server assigns one on creation. Attribute and
// relationship names live in separate namespaces and may overlap.
//
// Every relationship identifier must carry a non-empty type and id;
// incomplete identifiers fail with [ErrMalformedRelationship].
func NewResource(
	resourceType, id string,
	attributes map[string]any,
	relationships map[string]Relationship,
) (*Document, error) {
	if resourceType == "" {
		return nil, fmt.Errorf("resource type must not be empty")
	}

	obj := ResourceObject{Type: resourceType, ID: id}

	if len(attributes) > 0 {
		obj.Attributes = make(map[string]any, len(attributes))
		for key, value := range attributes {
			obj.Attributes[key] = value
		}
	}

	if len(relationships) > 0 {
		obj.Relationships = make(map[string]Relationship, len(relationships))
		for name, rel := range relationships {
			if err := rel.validate(name); err != nil {
				return nil, err
			}
			obj.Relationships[name] = rel
		}
	}

	return &Document{Data: obj}, nil
}

// Params bridges the document into the request parameter map expected by
// [Client.Request].
func (d *Document) Params() map[string]any {
	return map[string]any{"data": d.Data}
}

// attributes flattens a typed resource struct into the attribute map for
// [NewResource]. ID fields carry a json:"-" tag on all resource types so
// they never leak into attributes.
func attributes(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}

	var attrs map[string]any
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}

	return attrs, nil
}
