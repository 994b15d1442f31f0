package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/metapack/codec"
)

// object is a document mapping, encoded as a record with fields in key order.
type object map[string]any

func (o object) MarshalRecord(enc *codec.RecordEncoder) error {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if err := enc.Field(k, o[k]); err != nil {
			return err
		}
	}

	return nil
}

// parseDocument decodes a JSON or YAML document into encodable values.
func parseDocument(data []byte, format string) (any, error) {
	var v any

	switch format {
	case formatYAML:
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
			return nil, errors.New("parse json: trailing data after document")
		}
	}

	return normalize(v)
}

func normalize(v any) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		out := make(object, len(x))
		for k, e := range x {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}

		return out, nil

	case map[any]any:
		out := make(map[any]any, len(x))
		for k, e := range x {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}

		return out, nil

	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}

		return out, nil

	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}

		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %s: %w", x, err)
		}

		return f, nil

	default:
		return v, nil
	}
}

// plain converts dynamically decoded values into ones JSON can represent.
func plain(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = plain(e)
		}

		return out

	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = plain(e)
		}

		return out

	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}

		return out

	case codec.RawData:
		return []byte(x)

	default:
		return v
	}
}

func writeDocument(w io.Writer, v any, format string) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("write yaml: %w", err)
		}

		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write json: %w", err)
	}

	return nil
}
