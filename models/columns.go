package models

import (
	"database/sql/driver"
	"fmt"

	"facetag/faces"

	jsoniter "github.com/json-iterator/go"
)

// Labels and descriptors are stored as JSON text so they stay readable in the database
// and can be searched with plain substring functions. HTML escaping is off so a label
// like "Tom & Jerry" is stored, and found, verbatim.
var json = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// Encoding is a faces.Descriptor persisted as a JSON array of numbers
type Encoding faces.Descriptor

func (e Encoding) Value() (driver.Value, error) {
	data, err := json.Marshal(e[:])
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (e *Encoding) Scan(value interface{}) error {
	data, err := columnBytes(value)
	if err != nil {
		return err
	}
	var values []float32
	if err = json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("%w: encoding: %v", ErrInvalidRecord, err)
	}
	if len(values) != faces.DescriptorSize {
		return fmt.Errorf("%w: encoding has %d values, want %d", ErrInvalidRecord, len(values), faces.DescriptorSize)
	}
	copy(e[:], values)
	return nil
}

// LabelList is the ordered list of labels assigned to the faces of one photo
type LabelList []string

func (l LabelList) String() string {
	if l == nil {
		l = LabelList{}
	}
	data, _ := json.Marshal([]string(l))
	return string(data)
}

func (l LabelList) Value() (driver.Value, error) {
	return l.String(), nil
}

func (l *LabelList) Scan(value interface{}) error {
	data, err := columnBytes(value)
	if err != nil {
		return err
	}
	result := []string{}
	if err = json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("%w: label list: %v", ErrInvalidRecord, err)
	}
	*l = result
	return nil
}

// Contains reports whether any label equals the given one
func (l LabelList) Contains(label string) bool {
	for _, cur := range l {
		if cur == label {
			return true
		}
	}
	return false
}

func columnBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case nil:
		return nil, fmt.Errorf("%w: unexpected NULL column", ErrInvalidRecord)
	}
	return nil, fmt.Errorf("%w: unsupported column type %T", ErrInvalidRecord, value)
}
