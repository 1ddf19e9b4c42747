package interpolation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// TagName marks fields to expand: `env_interpolation:"yes"`.
const TagName = "env_interpolation"

// InterpolateStruct expands tagged string, []string and map[string]string
// fields of the struct v points to, in place, using the process environment.
// Nested structs, pointers to structs and slices of structs are walked whether
// or not they are tagged.
func InterpolateStruct(v any) error {
	return InterpolateStructWith(v, ExpandEnvVars)
}

// InterpolateStructWith is InterpolateStruct with a custom expander.
func InterpolateStructWith(v any, expand func(string) (string, error)) error {
	if v == nil {
		return nil
	}
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr {
		return fmt.Errorf("expected pointer to struct, got %T", v)
	}
	if val.IsNil() {
		return nil
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("expected pointer to struct, got %T", v)
	}
	return walkStruct(val, "", expand)
}

func walkStruct(val reflect.Value, prefix string, expand func(string) (string, error)) error {
	typ := val.Type()
	var errs []error
	for i := range val.NumField() {
		field := val.Field(i)
		sf := typ.Field(i)
		if !field.CanSet() {
			continue
		}
		name := prefix + sf.Name
		tagged := strings.EqualFold(sf.Tag.Get(TagName), "yes")

		switch field.Kind() {
		case reflect.String:
			if tagged {
				errs = append(errs, expandString(field, name, expand))
			}

		case reflect.Slice:
			switch field.Type().Elem().Kind() {
			case reflect.String:
				if !tagged {
					continue
				}
				for j := range field.Len() {
					errs = append(errs, expandString(field.Index(j), fmt.Sprintf("%s[%d]", name, j), expand))
				}
			case reflect.Struct:
				for j := range field.Len() {
					errs = append(errs, walkStruct(field.Index(j), fmt.Sprintf("%s[%d].", name, j), expand))
				}
			case reflect.Ptr:
				for j := range field.Len() {
					elem := field.Index(j)
					if !elem.IsNil() && elem.Elem().Kind() == reflect.Struct {
						errs = append(errs, walkStruct(elem.Elem(), fmt.Sprintf("%s[%d].", name, j), expand))
					}
				}
			}

		case reflect.Map:
			if !tagged || field.IsNil() ||
				field.Type().Key().Kind() != reflect.String ||
				field.Type().Elem().Kind() != reflect.String {
				continue
			}
			for _, key := range field.MapKeys() {
				expanded, err := expand(field.MapIndex(key).String())
				if err != nil {
					errs = append(errs, fmt.Errorf("field %s[%s]: %w", name, key.String(), err))
					continue
				}
				field.SetMapIndex(key, reflect.ValueOf(expanded).Convert(field.Type().Elem()))
			}

		case reflect.Struct:
			errs = append(errs, walkStruct(field, name+".", expand))

		case reflect.Ptr:
			if !field.IsNil() && field.Elem().Kind() == reflect.Struct {
				errs = append(errs, walkStruct(field.Elem(), name+".", expand))
			}
		}
	}
	return errors.Join(errs...)
}

func expandString(field reflect.Value, name string, expand func(string) (string, error)) error {
	original := field.String()
	if original == "" {
		return nil
	}
	expanded, err := expand(original)
	if err != nil {
		return fmt.Errorf("field %s: %w", name, err)
	}
	field.SetString(expanded)
	return nil
}
