package codec

import (
	"reflect"
	"slices"
	"strings"
	"sync"
)

const structTagKey = "metapack"

// fieldInfo describes one struct field mapped to a record field.
type fieldInfo struct {
	name      string
	index     []int
	omitEmpty bool
}

// fieldCache maps reflect.Type to its []fieldInfo. Entries are immutable once stored.
var fieldCache sync.Map

// structFields returns the record fields of struct type t in declaration order.
//
// Exported fields are included under their Go name unless renamed by the
// `metapack:"name"` tag; `metapack:"-"` excludes a field. Embedded structs
// without a tag name are flattened into the parent.
func structFields(t reflect.Type) []fieldInfo {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]fieldInfo) //nolint: forcetypeassert
	}

	fields := collectFields(t, nil)
	cached, _ := fieldCache.LoadOrStore(t, fields)

	return cached.([]fieldInfo) //nolint: forcetypeassert
}

func collectFields(t reflect.Type, parent []int) []fieldInfo {
	fields := make([]fieldInfo, 0, t.NumField())

	for i := range t.NumField() {
		sf := t.Field(i)

		tag := sf.Tag.Get(structTagKey)
		if tag == "-" {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")
		index := append(slices.Clone(parent), i)

		if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct && sf.Type != timeType {
			fields = append(fields, collectFields(sf.Type, index)...)
			continue
		}

		if !sf.IsExported() {
			continue
		}

		if name == "" {
			name = sf.Name
		}

		fields = append(fields, fieldInfo{
			name:      name,
			index:     index,
			omitEmpty: hasOption(opts, "omitempty"),
		})
	}

	return fields
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == want {
			return true
		}
	}

	return false
}
