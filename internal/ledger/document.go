package ledger

import (
	"encoding/json"
	"maps"
	"path/filepath"
)

const (
	keyDirectory = "directory"
	keyFiles     = "files"
	indent       = "    "
)

// Document is the persisted form of a ledger:
//
//	{"directory": "<path>", "files": {"<filename>": "<label>"}}
//
// Unknown top-level keys are kept so merge-writes never drop them. A nil
// Files map or an empty Directory means the key is not set.
type Document struct {
	Directory string
	Files     map[string]string
	extra     map[string]json.RawMessage
}

// SameDirectory reports whether a and b name the same directory once
// cleaned, so "/photos/" and "/photos" match.
func SameDirectory(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

// NewDocument returns a document for dir holding a copy of files.
func NewDocument(dir string, files map[string]string) *Document {
	if files == nil {
		files = map[string]string{}
	}
	return &Document{Directory: dir, Files: maps.Clone(files)}
}

// State returns the annotations of the document.
func (d *Document) State() State {
	if d == nil {
		return Empty()
	}
	return FromFiles(d.Files)
}

// Extra returns the raw value of an unknown top-level key.
func (d *Document) Extra(key string) (json.RawMessage, bool) {
	v, ok := d.extra[key]
	return v, ok
}

func (d *Document) fields() (map[string]json.RawMessage, error) {
	out := maps.Clone(d.extra)
	if out == nil {
		out = make(map[string]json.RawMessage)
	}
	if d.Directory != "" {
		raw, err := json.Marshal(d.Directory)
		if err != nil {
			return nil, err
		}
		out[keyDirectory] = raw
	}
	if d.Files != nil {
		raw, err := json.Marshal(d.Files)
		if err != nil {
			return nil, err
		}
		out[keyFiles] = raw
	}
	return out, nil
}

// MarshalJSON implements json.Marshaler.
func (d *Document) MarshalJSON() ([]byte, error) {
	fields, err := d.fields()
	if err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	return d.fromFields(fields)
}

func (d *Document) fromFields(fields map[string]json.RawMessage) error {
	*d = Document{}
	for key, raw := range fields {
		switch key {
		case keyDirectory:
			if err := json.Unmarshal(raw, &d.Directory); err != nil {
				return err
			}
		case keyFiles:
			if err := json.Unmarshal(raw, &d.Files); err != nil {
				return err
			}
		default:
			if d.extra == nil {
				d.extra = make(map[string]json.RawMessage)
			}
			d.extra[key] = raw
		}
	}
	return nil
}

// encode renders top-level fields as pretty-printed JSON with sorted keys.
func encode(fields map[string]json.RawMessage) ([]byte, error) {
	data, err := json.MarshalIndent(fields, "", indent)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func decode(data []byte) (map[string]json.RawMessage, error) {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}
	return fields, nil
}
