package codec

import (
	"reflect"
	"time"
)

// valueKind is the closed classification of a value to encode. Every value maps
// to exactly one kind; anything not otherwise recognized is kindRecord.
type valueKind uint8

const (
	kindNull valueKind = iota
	kindBool
	kindInt
	kindUint
	kindFloat
	kindString
	kindBytes
	kindRaw
	kindTime
	kindScalarMarshaler
	kindRecordMarshaler
	kindSequenceMarshaler
	kindSetMarshaler
	kindMapMarshaler
	kindPointer
	kindSequence
	kindMap
	kindRecord
)

var (
	timeType    = reflect.TypeFor[time.Time]()
	rawDataType = reflect.TypeFor[RawData]()

	capabilityTypes = []reflect.Type{
		reflect.TypeFor[RecordMarshaler](),
		reflect.TypeFor[SequenceMarshaler](),
		reflect.TypeFor[SetMarshaler](),
		reflect.TypeFor[MapMarshaler](),
		reflect.TypeFor[ScalarMarshaler](),
	}
)

func (k valueKind) isScalar() bool {
	return k <= kindTime
}

// classify determines the kind of v.
//
// It returns the value to serialize, which differs from v only when v's pointer
// type carries the capability methods; v is then copied into addressable memory.
func classify(v any) (valueKind, any) {
	if v == nil {
		return kindNull, nil
	}

	rv := reflect.ValueOf(v)
	rt := rv.Type()

	if rt.Kind() == reflect.Pointer && rv.IsNil() {
		return kindNull, v
	}

	if k, ok := classifyCapability(v); ok {
		return k, v
	}

	if rt.Kind() != reflect.Pointer && hasPointerCapability(rt) {
		p := reflect.New(rt)
		p.Elem().Set(rv)
		pv := p.Interface()
		k, _ := classifyCapability(pv)

		return k, pv
	}

	switch rt {
	case timeType:
		return kindTime, v
	case rawDataType:
		if rv.IsNil() {
			return kindNull, v
		}

		return kindRaw, v
	}

	switch rv.Kind() { //nolint: exhaustive
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return kindNull, v
		}

		return kindPointer, v
	case reflect.Bool:
		return kindBool, v
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return kindInt, v
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return kindUint, v
	case reflect.Float32, reflect.Float64:
		return kindFloat, v
	case reflect.String:
		return kindString, v
	case reflect.Slice:
		if rv.IsNil() {
			return kindNull, v
		}
		if rt.Elem().Kind() == reflect.Uint8 {
			return kindBytes, v
		}

		return kindSequence, v
	case reflect.Array:
		if rt.Elem().Kind() == reflect.Uint8 {
			return kindBytes, v
		}

		return kindSequence, v
	case reflect.Map:
		if rv.IsNil() {
			return kindNull, v
		}

		return kindMap, v
	default:
		return kindRecord, v
	}
}

func classifyCapability(v any) (valueKind, bool) {
	switch v.(type) {
	case RecordMarshaler:
		return kindRecordMarshaler, true
	case SetMarshaler:
		return kindSetMarshaler, true
	case SequenceMarshaler:
		return kindSequenceMarshaler, true
	case MapMarshaler:
		return kindMapMarshaler, true
	case ScalarMarshaler:
		return kindScalarMarshaler, true
	default:
		return 0, false
	}
}

func hasPointerCapability(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	for _, c := range capabilityTypes {
		if pt.Implements(c) {
			return true
		}
	}

	return false
}
