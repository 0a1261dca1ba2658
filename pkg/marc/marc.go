// Package marc reads bibliographic records in ISO 2709 or MARC-in-JSON form
// and pulls the ISBNs out of their standard-number fields.
package marc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	subfieldDelimiter = 0x1f
	fieldTerminator   = 0x1e
	recordTerminator  = 0x1d

	leaderLength = 24
	entryLength  = 12
)

var (
	ErrTooShort     = errors.New("marc: record shorter than leader")
	ErrBadLeader    = errors.New("marc: bad base address in leader")
	ErrBadDirectory = errors.New("marc: bad directory")
)

type Subfield struct {
	Code  string `json:"code"`
	Value string `json:"value"`
}

// Field is one variable field. Control fields (001-009) carry Value only.
type Field struct {
	Tag        string     `json:"tag"`
	Indicators string     `json:"indicators,omitempty"`
	Value      string     `json:"value,omitempty"`
	Subfields  []Subfield `json:"subfields,omitempty"`
}

// Subfield returns the values of every subfield with the given code.
func (f Field) Subfield(code string) []string {
	var out []string
	for _, s := range f.Subfields {
		if s.Code == code {
			out = append(out, s.Value)
		}
	}
	return out
}

// Text flattens the field into one space-joined string.
func (f Field) Text() string {
	if len(f.Subfields) == 0 {
		return f.Value
	}
	parts := make([]string, 0, len(f.Subfields))
	for _, s := range f.Subfields {
		parts = append(parts, s.Value)
	}
	return strings.Join(parts, " ")
}

type Record struct {
	Leader string  `json:"leader"`
	Fields []Field `json:"fields"`
}

// Field returns the first field with tag.
func (r *Record) Field(tag string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Tag == tag {
			return f, true
		}
	}
	return Field{}, false
}

// FieldsByTag returns every field with tag in record order.
func (r *Record) FieldsByTag(tag string) []Field {
	var out []Field
	for _, f := range r.Fields {
		if f.Tag == tag {
			out = append(out, f)
		}
	}
	return out
}

// ID returns the control number in 001.
func (r *Record) ID() string {
	f, _ := r.Field("001")
	return f.Value
}

// Title returns the first $a of the profile's title field.
func (r *Record) Title(p Profile) string {
	f, ok := r.Field(p.TitleTag)
	if !ok {
		return ""
	}
	if a := f.Subfield("a"); len(a) > 0 {
		return strings.TrimRight(strings.TrimSpace(a[0]), " /:")
	}
	return f.Text()
}

// Parse reads an ISO 2709 record, or a MARC-in-JSON document when data starts
// with '{'. Field text is decoded with dec; a nil dec sniffs the charset.
func Parse(data []byte, dec *Decoder) (*Record, error) {
	if len(bytes.TrimSpace(data)) > 0 && bytes.TrimSpace(data)[0] == '{' {
		return ParseJSON(data)
	}
	if len(data) < leaderLength {
		return nil, ErrTooShort
	}
	leader := string(data[:leaderLength])
	baseAddr, err := strconv.Atoi(leader[12:17])
	if err != nil {
		return nil, ErrBadLeader
	}
	dirEnd := baseAddr - 1
	if dirEnd > len(data) || dirEnd < leaderLength {
		return nil, ErrBadDirectory
	}
	directory := data[leaderLength:dirEnd]

	rec := &Record{Leader: leader}
	for i := 0; i+entryLength <= len(directory); i += entryLength {
		entry := directory[i : i+entryLength]
		tag := string(entry[:3])
		length, err1 := strconv.Atoi(string(entry[3:7]))
		start, err2 := strconv.Atoi(string(entry[7:12]))
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("%w: entry %q", ErrBadDirectory, entry)
		}
		fieldStart, fieldEnd := baseAddr+start, baseAddr+start+length
		if fieldEnd > len(data) {
			continue
		}
		raw := bytes.TrimSuffix(data[fieldStart:fieldEnd], []byte{fieldTerminator})
		rec.Fields = append(rec.Fields, parseField(tag, raw, dec))
	}
	return rec, nil
}

func parseField(tag string, raw []byte, dec *Decoder) Field {
	f := Field{Tag: tag}
	if isControlTag(tag) {
		f.Value = dec.Decode(raw)
		return f
	}
	// Some writers omit the indicators and start straight at a delimiter.
	if len(raw) >= 2 && raw[0] != subfieldDelimiter {
		f.Indicators = string(raw[:2])
		raw = raw[2:]
	}
	for _, chunk := range bytes.Split(raw, []byte{subfieldDelimiter}) {
		if len(chunk) == 0 {
			continue
		}
		f.Subfields = append(f.Subfields, Subfield{
			Code:  string(chunk[:1]),
			Value: dec.Decode(chunk[1:]),
		})
	}
	return f
}

func isControlTag(tag string) bool {
	return strings.HasPrefix(tag, "00")
}

// ParseJSON reads the MARC-in-JSON layout:
// {"leader": "...", "fields": [{"001": "..."}, {"020": {"ind1": " ", "ind2": " ", "subfields": [{"a": "..."}]}}]}
func ParseJSON(data []byte) (*Record, error) {
	var doc struct {
		Leader string                       `json:"leader"`
		Fields []map[string]json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode marc json: %w", err)
	}

	rec := &Record{Leader: doc.Leader}
	for _, m := range doc.Fields {
		for tag, content := range m {
			var value string
			if err := json.Unmarshal(content, &value); err == nil {
				rec.Fields = append(rec.Fields, Field{Tag: tag, Value: value})
				continue
			}
			var df struct {
				Ind1      string              `json:"ind1"`
				Ind2      string              `json:"ind2"`
				Subfields []map[string]string `json:"subfields"`
			}
			if err := json.Unmarshal(content, &df); err != nil {
				return nil, fmt.Errorf("field %s: %w", tag, err)
			}
			f := Field{Tag: tag, Indicators: df.Ind1 + df.Ind2}
			for _, sm := range df.Subfields {
				for code, v := range sm {
					f.Subfields = append(f.Subfields, Subfield{Code: code, Value: v})
				}
			}
			rec.Fields = append(rec.Fields, f)
		}
	}
	return rec, nil
}

// Build writes a minimal ISO 2709 record with a control number, a title and
// one ISBN field per entry in isbns.
func Build(p Profile, id, title string, isbns ...string) []byte {
	var data, dir bytes.Buffer
	addControl := func(tag, v string) {
		if v == "" {
			return
		}
		start := data.Len()
		data.WriteString(v)
		data.WriteByte(fieldTerminator)
		fmt.Fprintf(&dir, "%s%04d%05d", tag, data.Len()-start, start)
	}
	addData := func(tag string, subs ...Subfield) {
		start := data.Len()
		data.WriteString("  ")
		for _, s := range subs {
			if s.Value == "" {
				continue
			}
			data.WriteByte(subfieldDelimiter)
			data.WriteString(s.Code)
			data.WriteString(s.Value)
		}
		data.WriteByte(fieldTerminator)
		fmt.Fprintf(&dir, "%s%04d%05d", tag, data.Len()-start, start)
	}

	addControl("001", id)
	for _, n := range isbns {
		addData(p.ISBNTag, Subfield{Code: p.ISBNCode, Value: n})
	}
	if title != "" {
		addData(p.TitleTag, Subfield{Code: "a", Value: title})
	}

	base := leaderLength + dir.Len() + 1
	leader := fmt.Sprintf("%05dnam a22%05d z 4500", base+data.Len()+1, base)
	out := make([]byte, 0, base+data.Len()+1)
	out = append(out, leader...)
	out = append(out, dir.Bytes()...)
	out = append(out, fieldTerminator)
	out = append(out, data.Bytes()...)
	return append(out, recordTerminator)
}
