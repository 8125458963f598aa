package importer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/folio/internal/domain"
)

// Export renders data as an import document. Importing the result onto
// any state reproduces data.
func Export(data *domain.PortfolioData) ([]byte, error) {
	var buf bytes.Buffer

	fm, err := encodeYAML(frontmatterOf(data))
	if err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")

	fmt.Fprintf(&buf, "# %s\n\n", SectionSkills.Heading())
	for _, skill := range data.Skills {
		fmt.Fprintf(&buf, "- %s\n", skill)
	}
	buf.WriteString("\n")

	if err := writeRecords(&buf, SectionTestimonials, data.Testimonials); err != nil {
		return nil, err
	}
	if err := writeRecords(&buf, SectionPortfolioItems, data.PortfolioItems); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writeRecords[T any](buf *bytes.Buffer, section Section, records []T) error {
	fmt.Fprintf(buf, "# %s\n\n", section.Heading())
	for i, rec := range records {
		if i > 0 {
			buf.WriteString(recordDelimiter + "\n")
		}
		out, err := encodeYAML(rec)
		if err != nil {
			return fmt.Errorf("encode %s item #%d: %w", section, i+1, err)
		}
		buf.Write(out)
	}
	buf.WriteString("\n")
	return nil
}

func encodeYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
