package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

// fallbackEncodings is the ordered list of text encodings tried when
// reading an upload. The first one that yields parseable CSV wins.
var fallbackEncodings = []struct {
	Name    string
	Decoder *encoding.Decoder
}{
	{"utf-8", nil},
	{"latin-1", charmap.ISO8859_1.NewDecoder()},
	{"iso-8859-1", charmap.ISO8859_1.NewDecoder()},
	{"windows-1252", charmap.Windows1252.NewDecoder()},
}

// LoadRaw reads CSV/TSV bytes into an untyped RawTable with no header
// assumption, trying each fallback encoding in order. Purely functional
// over the input; nothing is persisted.
func LoadRaw(data []byte, filename string) (*table.RawTable, error) {
	delim := sniffDelimiter(filename)
	var attempted []string
	var lastErr error
	for _, enc := range fallbackEncodings {
		attempted = append(attempted, enc.Name)
		text, err := decodeWith(data, enc.Decoder)
		if err != nil {
			lastErr = err
			continue
		}
		raw, err := readCSV(text, delim)
		if err != nil {
			lastErr = err
			continue
		}
		return raw, nil
	}
	return nil, &DecodeError{Attempted: attempted, Last: lastErr}
}

func decodeWith(data []byte, dec *encoding.Decoder) (string, error) {
	if dec == nil {
		if !utf8.Valid(data) {
			return "", errors.New("invalid UTF-8")
		}
		// Strip a UTF-8 BOM some exports carry.
		return string(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})), nil
	}
	out, err := dec.Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func readCSV(text string, delim rune) (*table.RawTable, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	raw := &table.RawTable{}
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		row := make([]string, len(rec))
		copy(row, rec)
		raw.Rows = append(raw.Rows, row)
	}
	raw.Pad()
	return raw, nil
}

func sniffDelimiter(filename string) rune {
	if strings.HasSuffix(strings.ToLower(filename), ".tsv") {
		return '\t'
	}
	return ','
}

// Preview returns up to n raw lines of the input for error diagnostics.
func Preview(data []byte, n int) []string {
	lines := strings.Split(string(data), "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, strings.TrimRight(l, "\r"))
	}
	return out
}
