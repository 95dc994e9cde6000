// Package destination contains the destination record passed between layers.
package destination

import (
	"fmt"
	"strings"
	"time"
)

// Placeholders shown when optional fields are absent.
const (
	NoDescription = "No description provided."
	NotScheduled  = "Not scheduled"
)

// Destination is a single travel destination as seen by API consumers.
type Destination struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Date        *Date     `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Fields is the writable part of a destination (request body for create and update).
type Fields struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description,omitempty"`
	Date        *Date  `json:"date,omitempty"`
}

// Normalize returns a copy with surrounding whitespace trimmed.
func (f Fields) Normalize() Fields {
	f.Name = strings.TrimSpace(f.Name)
	f.Location = strings.TrimSpace(f.Location)
	f.Description = strings.TrimSpace(f.Description)
	if f.Date != nil && f.Date.IsZero() {
		f.Date = nil
	}
	return f
}

// Validate reports every missing required field. Call Normalize first.
func (f Fields) Validate() error {
	var missing []string
	if f.Name == "" {
		missing = append(missing, "name")
	}
	if f.Location == "" {
		missing = append(missing, "location")
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Missing: missing}
}

// Fields extracts the writable part of d.
func (d Destination) Fields() Fields {
	return Fields{
		Name:        d.Name,
		Location:    d.Location,
		Description: d.Description,
		Date:        d.Date,
	}
}

// Apply overwrites the writable part of d with f.
func (d Destination) Apply(f Fields) Destination {
	d.Name = f.Name
	d.Location = f.Location
	d.Description = f.Description
	d.Date = f.Date
	return d
}

// DisplayDescription returns the description or its placeholder.
func (d Destination) DisplayDescription() string {
	if d.Description == "" {
		return NoDescription
	}
	return d.Description
}

// DisplayDate returns a human readable date or its placeholder.
func (d Destination) DisplayDate() string {
	if d.Date == nil || d.Date.IsZero() {
		return NotScheduled
	}
	return d.Date.Time().Format("Jan 2, 2006")
}

// ValidationError lists the required fields a request left empty.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Unwrap lets callers match the error with errors.Is(err, ErrInvalid).
func (e *ValidationError) Unwrap() error { return ErrInvalid }
