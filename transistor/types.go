package transistor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Document is a JSON:API top-level document.
type Document struct {
	Data     json.RawMessage `json:"data"`
	Included []Resource      `json:"included,omitempty"`
	Meta     map[string]any  `json:"meta,omitempty"`
	Errors   []ErrorObject   `json:"errors,omitempty"`
}

// Resource is a JSON:API resource object.
type Resource struct {
	ID            string         `json:"id" yaml:"id"`
	Type          string         `json:"type" yaml:"type"`
	Attributes    map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Relationships map[string]any `json:"relationships,omitempty" yaml:"relationships,omitempty"`
}

// Attr returns an attribute, or nil when it is absent.
func (r *Resource) Attr(name string) any {
	return r.Attributes[name]
}

// ErrorObject is one entry of a JSON:API errors array.
type ErrorObject struct {
	Status string `json:"status,omitempty"`
	Title  string `json:"title,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Resources returns the primary data as a list. A single resource becomes a list of
// one; null or absent data yields nil.
func (d *Document) Resources() ([]Resource, error) {
	data := bytes.TrimSpace(d.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	if data[0] == '[' {
		var list []Resource
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("failed to decode resources: %w", err)
		}
		return list, nil
	}

	var single Resource
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("failed to decode resource: %w", err)
	}
	return []Resource{single}, nil
}

// User represents the Transistor account owning an API key
type User struct {
	ID        string
	Name      string
	TimeZone  string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// userAttributes mirrors the attributes block of a user resource
type userAttributes struct {
	Name      string    `json:"name"`
	TimeZone  string    `json:"time_zone"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DecodeUser extracts the user from a CurrentUser outcome.
func DecodeUser(o *Outcome) (*User, error) {
	var doc struct {
		Data struct {
			ID         string         `json:"id"`
			Type       string         `json:"type"`
			Attributes userAttributes `json:"attributes"`
		} `json:"data"`
	}
	if err := o.Decode(&doc); err != nil {
		return nil, err
	}
	if doc.Data.Type != "" && doc.Data.Type != "user" {
		return nil, fmt.Errorf("unexpected resource type %q", doc.Data.Type)
	}

	return &User{
		ID:        doc.Data.ID,
		Name:      doc.Data.Attributes.Name,
		TimeZone:  doc.Data.Attributes.TimeZone,
		ImageURL:  doc.Data.Attributes.ImageURL,
		CreatedAt: doc.Data.Attributes.CreatedAt,
		UpdatedAt: doc.Data.Attributes.UpdatedAt,
	}, nil
}

// DecodeDocument decodes an outcome's body as a JSON:API document.
func DecodeDocument(o *Outcome) (*Document, error) {
	var doc Document
	if err := o.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DisplayName returns the best available label for the user
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}
