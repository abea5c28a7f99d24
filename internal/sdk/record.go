package sdk

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/magiconair/properties"
)

const (
	// RecordFileName is the install record written into every installed directory
	RecordFileName = "source.properties"

	recordHeader = "## Android Tool: Source of this archive."
)

// Record is the flat key/value snapshot persisted with an install. Keys keep
// their insertion order when written.
type Record struct {
	props *properties.Properties
}

// NewRecord creates an empty record
func NewRecord() *Record {
	p := properties.NewProperties()
	p.DisableExpansion = true
	return &Record{props: p}
}

// ParseRecord parses record text
func ParseRecord(data []byte) (*Record, error) {
	l := &properties.Loader{Encoding: properties.ISO_8859_1, DisableExpansion: true}
	p, err := l.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse install record: %w", err)
	}
	return &Record{props: p}, nil
}

// ParseRecordFile reads a record from disk. A missing file or one without
// any property yields a nil record and no error.
func ParseRecordFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	r, err := ParseRecord(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if r.Len() == 0 {
		return nil, nil
	}
	return r, nil
}

// ParseRecordDir reads the record stored in an installed directory
func ParseRecordDir(dir string) (*Record, error) {
	return ParseRecordFile(filepath.Join(dir, RecordFileName))
}

// Len returns the number of properties
func (r *Record) Len() int {
	return r.props.Len()
}

// Keys returns the property keys in insertion order
func (r *Record) Keys() []string {
	return r.props.Keys()
}

// Get returns a property and whether it was set
func (r *Record) Get(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	return r.props.Get(key)
}

// GetString returns a property or def
func (r *Record) GetString(key, def string) string {
	if r == nil {
		return def
	}
	return r.props.GetString(key, def)
}

// GetInt returns an integer property, or def when unset or malformed
func (r *Record) GetInt(key string, def int) int {
	if r == nil {
		return def
	}
	s, ok := r.props.Get(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// GetBool returns a boolean property, or def when unset
func (r *Record) GetBool(key string, def bool) bool {
	if r == nil {
		return def
	}
	return r.props.GetBool(key, def)
}

// Set stores a property
func (r *Record) Set(key, value string) {
	// expansion is disabled so Set cannot fail on circular references
	_, _, _ = r.props.Set(key, value)
}

// SetInt stores an integer property
func (r *Record) SetInt(key string, value int) {
	r.Set(key, strconv.Itoa(value))
}

// WriteTo writes the record with its header comment
func (r *Record) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("#" + recordHeader + "\n")
	if _, err := r.props.Write(&buf, properties.ISO_8859_1); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

// Save writes the record into dir as RecordFileName
func (r *Record) Save(dir string) error {
	f, err := os.Create(filepath.Join(dir, RecordFileName))
	if err != nil {
		return fmt.Errorf("failed to create install record: %w", err)
	}
	defer f.Close()

	if _, err := r.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write install record: %w", err)
	}
	return f.Sync()
}
