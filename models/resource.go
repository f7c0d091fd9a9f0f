package models

import (
	"fmt"
	"strings"
	"time"
)

// Resource is a node of the content tree, addressed by its path.
type Resource struct {
	Path         string                 `json:"path" binding:"required,startswith=/"`
	ResourceType string                 `json:"resource_type" binding:"required"`
	Title        string                 `json:"title,omitempty"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
	LastModified Date                   `json:"last_modified"`
}

// Property returns the named property, or nil.
func (r *Resource) Property(name string) interface{} {
	if r == nil || r.Properties == nil {
		return nil
	}
	return r.Properties[name]
}

// Name is the last segment of the resource path.
func (r *Resource) Name() string {
	if r == nil {
		return ""
	}
	return r.Path[strings.LastIndex(r.Path, "/")+1:]
}

const LAST_MODIFIED_TIME_FORMAT = "2006-01-02"

type Date time.Time

func Today() Date {
	return Date(time.Now().UTC().Truncate(24 * time.Hour))
}

// UnmarshalJSON Parses the json string in the custom format
func (ct *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*ct = Date{}
		return nil
	}
	nt, err := time.Parse(LAST_MODIFIED_TIME_FORMAT, s)
	if err != nil {
		return err
	}
	*ct = Date(nt)
	return nil
}

// MarshalJSON writes a quoted string in the custom format
func (ct Date) MarshalJSON() ([]byte, error) {
	return []byte(ct.String()), nil
}

// String returns the time in the custom format
func (ct Date) String() string {
	t := time.Time(ct)
	return fmt.Sprintf("%q", t.Format(LAST_MODIFIED_TIME_FORMAT))
}
