package importer

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotAnObject is returned for a record that parses as YAML but is not
// a mapping (a bare string, a list, ...).
var ErrNotAnObject = errors.New("is not a valid YAML object")

// SectionError reports a record that could not be parsed. Index is
// 1-based and counts non-blank records only.
type SectionError struct {
	Section Section
	Index   int
	Err     error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("There was a problem parsing the '%s' section. Please check your YAML syntax. Details: Item #%d: %v",
		e.Section, e.Index, e.Err)
}

func (e *SectionError) Unwrap() error { return e.Err }

const recordDelimiter = "---"

// splitRecords cuts a section body on lines made only of "---".
// Blank records are dropped.
func splitRecords(body string) []string {
	var (
		records []string
		buf     strings.Builder
	)
	push := func() {
		if rec := buf.String(); strings.TrimSpace(rec) != "" {
			records = append(records, rec)
		}
		buf.Reset()
	}

	for _, line := range strings.Split(body, "\n") {
		if strings.TrimRight(line, " \t\r") == recordDelimiter {
			push()
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	push()

	return records
}

// parseRecords decodes every record of a list section into T.
// An empty body yields an empty, non-nil slice.
func parseRecords[T any](body string, section Section) ([]T, error) {
	out := []T{}
	if strings.TrimSpace(body) == "" {
		return out, nil
	}

	for i, raw := range splitRecords(body) {
		var node yaml.Node
		if err := yaml.Unmarshal([]byte(raw), &node); err != nil {
			return nil, &SectionError{Section: section, Index: i + 1, Err: err}
		}
		if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
			return nil, &SectionError{Section: section, Index: i + 1, Err: ErrNotAnObject}
		}

		var rec T
		if err := node.Decode(&rec); err != nil {
			return nil, &SectionError{Section: section, Index: i + 1, Err: err}
		}
		out = append(out, rec)
	}

	return out, nil
}

// parseSkills turns a bullet list into entries, one per non-blank line.
func parseSkills(body string) []string {
	skills := []string{}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		for _, bullet := range []string{"- ", "* ", "+ "} {
			if strings.HasPrefix(line, bullet) {
				line = strings.TrimSpace(line[len(bullet):])
				break
			}
		}
		if line != "" {
			skills = append(skills, line)
		}
	}
	return skills
}
