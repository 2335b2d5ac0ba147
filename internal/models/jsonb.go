package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Embedded collections are stored as JSONB columns in Postgres.
// Values are handed to the driver as strings: lib/pq would send []byte as bytea.

type (
	Likes       []Like
	Comments    []Comment
	Images      []Image
	Experiences []Experience
	Educations  []Education
)

func scanJSON(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}

func valueJSON(v any, empty string) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return empty, nil
	}
	return string(b), nil
}

func (l Likes) Value() (driver.Value, error) { return valueJSON([]Like(l), "[]") }
func (l *Likes) Scan(src any) error           { return scanJSON(src, (*[]Like)(l)) }

func (c Comments) Value() (driver.Value, error) { return valueJSON([]Comment(c), "[]") }
func (c *Comments) Scan(src any) error           { return scanJSON(src, (*[]Comment)(c)) }

func (i Images) Value() (driver.Value, error) { return valueJSON([]Image(i), "[]") }
func (i *Images) Scan(src any) error           { return scanJSON(src, (*[]Image)(i)) }

func (e Experiences) Value() (driver.Value, error) { return valueJSON([]Experience(e), "[]") }
func (e *Experiences) Scan(src any) error           { return scanJSON(src, (*[]Experience)(e)) }

func (e Educations) Value() (driver.Value, error) { return valueJSON([]Education(e), "[]") }
func (e *Educations) Scan(src any) error           { return scanJSON(src, (*[]Education)(e)) }

func (s Social) Value() (driver.Value, error) { return valueJSON(s, "{}") }
func (s *Social) Scan(src any) error           { return scanJSON(src, s) }
