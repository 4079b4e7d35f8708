package sections

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
)

const (
	TableSections  = "sections"
	RelationEmbeds = "section_embeds"
	RelationCasts  = "section_codecasts"

	columnID       = "id"
	columnMarkdown = "markdown"
)

// Record is one row exactly as the data service returned it, column by column.
type Record map[string]json.RawMessage

// String returns a text or numeric column as a string. Null, missing and
// structured values yield "".
func (r Record) String(key string) string {
	raw, ok := r[key]
	if !ok {
		return ""
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}

	var number json.Number
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&number); err == nil {
		return number.String()
	}

	return ""
}

type Section struct {
	ID        string
	Markdown  string
	Embeds    []Record
	Codecasts []Record
	// Fields holds every selected column of the section row, including id
	// and markdown, but not the embedded relations.
	Fields Record
}

func (s *Section) UnmarshalJSON(data []byte) error {
	var row Record
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}

	embeds, err := decodeRelation(row, RelationEmbeds)
	if err != nil {
		return err
	}
	codecasts, err := decodeRelation(row, RelationCasts)
	if err != nil {
		return err
	}

	delete(row, RelationEmbeds)
	delete(row, RelationCasts)

	*s = Section{
		ID:        row.String(columnID),
		Markdown:  row.String(columnMarkdown),
		Embeds:    embeds,
		Codecasts: codecasts,
		Fields:    row,
	}
	return nil
}

func (s Section) MarshalJSON() ([]byte, error) {
	row := make(map[string]interface{}, len(s.Fields)+4)
	for key, value := range s.Fields {
		row[key] = value
	}
	if _, ok := row[columnID]; !ok {
		row[columnID] = s.ID
	}
	if _, ok := row[columnMarkdown]; !ok {
		row[columnMarkdown] = s.Markdown
	}
	row[RelationEmbeds] = nonNilRecords(s.Embeds)
	row[RelationCasts] = nonNilRecords(s.Codecasts)

	return json.Marshal(row)
}

// PageData is what a section page is rendered from. Markdown is always the
// rendering of Section.Markdown.
type PageData struct {
	Section  Section       `json:"section"`
	Markdown template.HTML `json:"markdown"`
}

func decodeRelation(row Record, name string) ([]Record, error) {
	raw, ok := row[name]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return []Record{}, nil
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		// A to-one relation comes back as a single object.
		var single Record
		if singleErr := json.Unmarshal(raw, &single); singleErr != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return []Record{single}, nil
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func nonNilRecords(records []Record) []Record {
	if records == nil {
		return []Record{}
	}
	return records
}

func recordFromValues(columns []string, values []interface{}) (Record, error) {
	record := make(Record, len(columns))
	for idx, column := range columns {
		value := values[idx]
		if raw, ok := value.([]byte); ok {
			value = string(raw)
		}

		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode column %q: %w", column, err)
		}
		record[column] = encoded
	}
	return record, nil
}
