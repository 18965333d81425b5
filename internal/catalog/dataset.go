package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// CourseRecord is one element of the scraped dataset.
type CourseRecord struct {
	Code          string `json:"course code"`
	Name          Text   `json:"course name,omitempty"`
	Description   Text   `json:"description,omitempty"`
	Hours         Text   `json:"hours,omitempty"`
	Prerequisites Text   `json:"prerequisites"`
	Corequisites  Text   `json:"corequisites"`
	Exclusions    Text   `json:"exclusions"`
	Breadth       Text   `json:"breadth,omitempty"`
	Distribution  Text   `json:"distribution,omitempty"`
	Delivery      Text   `json:"mode of delivery,omitempty"`
}

// Text is a dataset string field. The scraper sometimes emits a list or null
// instead of a string; list items are treated as alternatives, composite items are
// bracketed so they stay grouped, and all are joined with "|".
type Text string

// UnmarshalJSON accepts a string, null or a list of strings.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := items[:0]
		for _, item := range items {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				if strings.ContainsAny(trimmed, "^|") {
					trimmed = "(" + trimmed + ")"
				}
				parts = append(parts, trimmed)
			}
		}
		*t = Text(strings.Join(parts, "|"))
		return nil
	default:
		// Numbers and booleans show up in the hours column.
		*t = Text(string(data))
		return nil
	}
}

func (t Text) String() string {
	return string(t)
}

// Decode reads a JSON array of course records.
func Decode(r io.Reader) ([]CourseRecord, error) {
	var records []CourseRecord
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	for i := range records {
		records[i].Code = strings.TrimSpace(records[i].Code)
	}
	return records, nil
}
