// Package decisionlog records which flow each resolution took.
//
// The log is newline-delimited JSON, one record per resolution that reached
// the logging step. Records are only ever appended.
package decisionlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf16"
)

// Action names the extraction flow a resolution took.
type Action string

// GenericAction is logged when no carrier handler matched and the nested
// frame or raw page fallback ran.
const GenericAction Action = "iframe_flow"

// CarrierAction returns the action logged for a carrier handler, e.g. "hmm_flow".
func CarrierAction(carrier string) Action {
	return Action(carrier + "_flow")
}

// Record is one line of the decision log.
type Record struct {
	Query          string `json:"query"`
	Action         Action `json:"action"`
	ContainerFound string `json:"container_found"`
}

// Log appends records to a file.
type Log struct {
	path string
	mu   sync.Mutex
}

// Open returns a log writing to path. The file is created on first append.
func Open(path string) *Log {
	return &Log{path: path}
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// Append writes rec as a single JSON line, in the layout Python's
// json.dumps produces with default settings:
//
//	{"query": "ID SINI25432400", "action": "hmm_flow", "container_found": "SINI25432400"}
//
// Fields keep their declared order and everything outside printable ASCII
// is written as a \uXXXX escape.
func (l *Log) Append(rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	line, err := encodeLine(rec)
	if err != nil {
		return fmt.Errorf("decisionlog: encode: %w", err)
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("decisionlog: create directory: %w", err)
		}
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("decisionlog: open %s: %w", l.path, err)
	}
	// one write per record keeps concurrent appends line-atomic on local filesystems
	if _, err := file.Write(line); err != nil {
		_ = file.Close()
		return fmt.Errorf("decisionlog: write: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("decisionlog: close: %w", err)
	}
	return nil
}

func encodeLine(rec Record) ([]byte, error) {
	fields := []struct {
		key   string
		value string
	}{
		{"query", rec.Query},
		{"action", string(rec.Action)},
		{"container_found", rec.ContainerFound},
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteString(", ")
		}
		key, err := quoteASCII(f.key)
		if err != nil {
			return nil, err
		}
		value, err := quoteASCII(f.value)
		if err != nil {
			return nil, err
		}
		buf.WriteString(key)
		buf.WriteString(": ")
		buf.WriteString(value)
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// quoteASCII returns s as a JSON string literal with every rune from U+007F
// up escaped. Runes above the BMP become UTF-16 surrogate pairs.
func quoteASCII(s string) (string, error) {
	var quoted bytes.Buffer
	encoder := json.NewEncoder(&quoted)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(s); err != nil {
		return "", err
	}

	var out strings.Builder
	for _, r := range strings.TrimSuffix(quoted.String(), "\n") {
		switch {
		case r < 0x7f:
			out.WriteRune(r)
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&out, "\\u%04x\\u%04x", hi, lo)
		default:
			fmt.Fprintf(&out, "\\u%04x", r)
		}
	}
	return out.String(), nil
}

// ReadAll parses every record in the log at path. A missing file yields no records.
func ReadAll(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("decisionlog: open %s: %w", path, err)
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for line := 1; scanner.Scan(); line++ {
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("decisionlog: line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("decisionlog: scan: %w", err)
	}
	return records, nil
}
