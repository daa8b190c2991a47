// Package filter provides pure tree-to-tree transforms applied between
// parsing and rendering. Transforms always rebuild; the input tree is
// never mutated.
package filter

import (
	"github.com/iancoleman/strcase"

	"github.com/mcncl/jsonview/internal/models"
)

// RemoveNulls rebuilds the tree without null values: array elements that
// are null are dropped, object members whose value is null are dropped,
// and survivors are filtered recursively. Every other kind passes through
// unchanged. The function is total and idempotent; containers left empty
// by the filter are kept.
func RemoveNulls(v *models.Value) *models.Value {
	switch v.Kind() {
	case models.KindArray:
		out := models.NewArray()
		for _, item := range v.Items() {
			if item.Kind() == models.KindNull {
				continue
			}
			out.Append(RemoveNulls(item))
		}
		return out
	case models.KindObject:
		out := models.NewObject()
		for _, m := range v.Members() {
			if m.Value.Kind() == models.KindNull {
				continue
			}
			out.Set(m.Key, RemoveNulls(m.Value))
		}
		return out
	default:
		return v
	}
}

// KeyCase names a key-casing convention for RenameKeys.
type KeyCase string

const (
	KeyCaseNone  KeyCase = ""
	KeyCaseCamel KeyCase = "camel"
	KeyCaseSnake KeyCase = "snake"
	KeyCaseKebab KeyCase = "kebab"
)

// caser returns the strcase conversion for the key case, or nil for none.
func (k KeyCase) caser() func(string) string {
	switch k {
	case KeyCaseCamel:
		return strcase.ToLowerCamel
	case KeyCaseSnake:
		return strcase.ToSnake
	case KeyCaseKebab:
		return strcase.ToKebab
	default:
		return nil
	}
}

// Valid reports whether k is a known key case.
func (k KeyCase) Valid() bool {
	return k == KeyCaseNone || k.caser() != nil
}

// RenameKeys rebuilds the tree with every object key rewritten to the
// given casing convention. Values and member order are untouched. When
// two keys collapse to the same casing the later one wins, keeping the
// earlier position, matching object duplicate-key semantics elsewhere.
func RenameKeys(v *models.Value, kc KeyCase) *models.Value {
	convert := kc.caser()
	if convert == nil {
		return v
	}
	return renameKeys(v, convert)
}

func renameKeys(v *models.Value, convert func(string) string) *models.Value {
	switch v.Kind() {
	case models.KindArray:
		out := models.NewArray()
		for _, item := range v.Items() {
			out.Append(renameKeys(item, convert))
		}
		return out
	case models.KindObject:
		out := models.NewObject()
		for _, m := range v.Members() {
			out.Set(convert(m.Key), renameKeys(m.Value, convert))
		}
		return out
	default:
		return v
	}
}
