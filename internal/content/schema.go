package content

import (
	"strings"

	"github.com/byteedoc/portfolio-api/internal/store"
)

// Field describes one editable document field.
type Field struct {
	Name     string
	Required bool
	List     bool // list-valued (experience points, project tags)
}

// Schema configures the generalized editor for one content type: target
// collection, field list, and where staged assets go. One schema per admin
// screen.
type Schema struct {
	Name        string
	Collection  string
	SingletonID string // non-empty: a single fixed-id document
	Fields      []Field
	// AssetFields maps a URL-holding field to the bucket folder its
	// uploads land in.
	AssetFields map[string]string
	// TimestampField, when set, is filled with a server timestamp on create.
	TimestampField string
	// WriteOnce documents are never merged after creation (contact messages).
	WriteOnce bool
}

// Validate checks required text fields. It runs before any network call.
func (s Schema) Validate(fields store.Fields) error {
	for _, f := range s.Fields {
		if !f.Required {
			continue
		}
		v, ok := fields[f.Name]
		if !ok {
			return &ValidationError{Schema: s.Name, Field: f.Name}
		}
		if sv, isStr := v.(string); isStr && strings.TrimSpace(sv) == "" {
			return &ValidationError{Schema: s.Name, Field: f.Name}
		}
	}
	return nil
}

// Singleton reports whether the schema addresses one fixed document.
func (s Schema) Singleton() bool { return s.SingletonID != "" }

// HasField reports whether the schema declares the named field.
func (s Schema) HasField(name string) bool {
	for _, f := range s.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Schemas returns the content types of the portfolio site. Collections and
// asset folders match the production document layout.
func Schemas() map[string]Schema {
	return map[string]Schema{
		"hero": {
			Name:        "hero",
			Collection:  "heroSection",
			SingletonID: "1",
			Fields: []Field{
				{Name: "heading", Required: true},
				{Name: "subheading", Required: true},
				{Name: "imageUrl"},
				{Name: "cvUrl"},
			},
			AssetFields: map[string]string{"imageUrl": "hero-images", "cvUrl": "hero-cv"},
		},
		"about": {
			Name:        "about",
			Collection:  "byteedocabout",
			SingletonID: "byteedocaboutText",
			Fields:      []Field{{Name: "text", Required: true}},
		},
		"services": {
			Name:       "services",
			Collection: "byteedocservices",
			Fields: []Field{
				{Name: "title", Required: true},
				{Name: "icon"},
			},
			AssetFields: map[string]string{"icon": "byteedocservice_icons"},
		},
		"experiences": {
			Name:       "experiences",
			Collection: "experiences",
			Fields: []Field{
				{Name: "title", Required: true},
				{Name: "company_name", Required: true},
				{Name: "date", Required: true},
				{Name: "points", List: true},
				{Name: "image"},
			},
			AssetFields: map[string]string{"image": "experiences"},
		},
		"projects": {
			Name:       "projects",
			Collection: "projects",
			Fields: []Field{
				{Name: "name", Required: true},
				{Name: "description", Required: true},
				{Name: "tags", List: true},
				{Name: "image"},
				{Name: "githubLink"},
				{Name: "liveDemoLink"},
			},
			AssetFields: map[string]string{"image": "project-screenshots"},
		},
		"testimonials": {
			Name:       "testimonials",
			Collection: "testimonials",
			Fields: []Field{
				{Name: "testimonial", Required: true},
				{Name: "name", Required: true},
				{Name: "designation"},
				{Name: "company"},
				{Name: "image"},
			},
			AssetFields: map[string]string{"image": "testimonials"},
		},
		"technologies": {
			Name:       "technologies",
			Collection: "technologies",
			Fields: []Field{
				{Name: "name", Required: true},
				{Name: "icon"},
			},
			AssetFields: map[string]string{"icon": "technologies"},
		},
		"contacts": {
			Name:       "contacts",
			Collection: "byteedoccontacts",
			Fields: []Field{
				{Name: "name", Required: true},
				{Name: "email", Required: true},
				{Name: "message", Required: true},
			},
			TimestampField: "timestamp",
			WriteOnce:      true,
		},
	}
}
