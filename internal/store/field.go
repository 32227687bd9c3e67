package store

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidField = errors.New("invalid field")

// Field enumerates the mutable encounter attributes. Backends map each value
// to a column or property name; nothing outside this set can reach an
// update statement.
type Field int

const (
	FieldTitle Field = iota + 1
	FieldDescription
	FieldBackdrop
	FieldCharacter1
	FieldCharacter2
)

var fieldNames = map[Field]string{
	FieldTitle:       "Title",
	FieldDescription: "Description",
	FieldBackdrop:    "Backdrop",
	FieldCharacter1:  "Character1",
	FieldCharacter2:  "Character2",
}

var fieldColumns = map[Field]string{
	FieldTitle:       "title",
	FieldDescription: "description",
	FieldBackdrop:    "backdrop_id",
	FieldCharacter1:  "character1_id",
	FieldCharacter2:  "character2_id",
}

var fieldAliases = map[string]Field{
	"title":         FieldTitle,
	"description":   FieldDescription,
	"backdrop":      FieldBackdrop,
	"backdrop_id":   FieldBackdrop,
	"backdropid":    FieldBackdrop,
	"character1":    FieldCharacter1,
	"character1_id": FieldCharacter1,
	"character1id":  FieldCharacter1,
	"character2":    FieldCharacter2,
	"character2_id": FieldCharacter2,
	"character2id":  FieldCharacter2,
}

// ParseField resolves an external field name, case-insensitively.
func ParseField(name string) (Field, error) {
	f, ok := fieldAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidField, name)
	}
	return f, nil
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Column returns the storage name of the field. Valid reports false for
// values outside the enumeration.
func (f Field) Column() (string, bool) {
	col, ok := fieldColumns[f]
	return col, ok
}

func (f Field) Valid() bool {
	_, ok := fieldColumns[f]
	return ok
}

// IsImageRef reports whether the field holds a nullable image reference
// rather than text.
func (f Field) IsImageRef() bool {
	return f == FieldBackdrop || f == FieldCharacter1 || f == FieldCharacter2
}

// FieldValue carries either text or a nullable image reference.
type FieldValue struct {
	Text  string
	Ref   *int64
	isRef bool
}

func TextValue(s string) FieldValue { return FieldValue{Text: s} }

func RefValue(ref *int64) FieldValue { return FieldValue{Ref: ref, isRef: true} }

func (v FieldValue) IsRef() bool { return v.isRef }

// Arg returns the value in a form database drivers accept.
func (v FieldValue) Arg() any {
	if !v.isRef {
		return v.Text
	}
	if v.Ref == nil {
		return nil
	}
	return *v.Ref
}

// Check reports whether the value kind matches the field.
func (v FieldValue) Check(f Field) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidField, f)
	}
	if f.IsImageRef() != v.isRef {
		return fmt.Errorf("value kind does not match field %s", f)
	}
	return nil
}
