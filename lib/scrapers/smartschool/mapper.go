package smartschool

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// converts raw elements into typed records, preserving input order.
// the optional post strategy runs first and may rewrite the element
// in place (used to flatten representational quirks before binding).
func mapRecords[T any](els []RawElement, post func(RawElement) error) ([]T, error) {
	out := make([]T, 0, len(els))
	for _, el := range els {
		if post != nil {
			err := post(el)
			if err != nil {
				return nil, err
			}
		}
		record, err := mapRecord[T](el)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

func mapRecord[T any](el RawElement) (T, error) {
	var out T

	err := requireFields(reflect.TypeOf(out), el)
	if err != nil {
		return out, err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &out,
		// declared int fields coerce from the portal's strings,
		// everything else passes through verbatim
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.DateOnly),
	})
	if err != nil {
		return out, err
	}
	err = decoder.Decode(el)
	if err != nil {
		return out, fmt.Errorf("%w: %T: %s", MappingError, out, err)
	}
	return out, nil
}

// every declared field is required unless its tag carries omitempty.
// extra keys in the element are fine, mapstructure ignores them.
func requireFields(t reflect.Type, el RawElement) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		optional := false
		tag := field.Tag.Get("mapstructure")
		if tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" {
					optional = true
				}
			}
		}
		if optional {
			continue
		}

		_, present := el[name]
		if !present {
			return fmt.Errorf("%w: %s requires %q", MappingError, t.Name(), name)
		}
	}
	return nil
}
