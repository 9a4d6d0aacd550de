package importer

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/topicserve/internal/dataset"
)

// TextImporter handles plain text files. Each blank-line separated paragraph
// becomes its own topic.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (*dataset.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	o := &outline{title: stem(filename)}
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			o.sections = append(o.sections, &section{text: current.String()})
			current.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return o.document(), nil
}
