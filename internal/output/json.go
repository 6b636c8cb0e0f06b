package output

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/PentesterFlow/seochecker/internal/state"
)

// JSONWriter writes the report as a single JSON document.
type JSONWriter struct {
	mu     sync.Mutex
	writer io.Writer
	pretty bool
}

// NewJSONWriter creates a new JSON writer.
func NewJSONWriter(w io.Writer, pretty bool) *JSONWriter {
	return &JSONWriter{
		writer: w,
		pretty: pretty,
	}
}

// WriteAudit implements Writer.
func (j *JSONWriter) WriteAudit(audit *state.Audit) error {
	return j.encode(BuildReport(audit))
}

// WriteMessage implements Writer.
func (j *JSONWriter) WriteMessage(msg string) error {
	return j.encode(struct {
		Message string `json:"message"`
	}{msg})
}

func (j *JSONWriter) encode(v interface{}) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var data []byte
	var err error

	if j.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	if _, err = j.writer.Write(data); err != nil {
		return err
	}
	_, err = j.writer.Write([]byte("\n"))
	return err
}
