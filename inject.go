package locator

import (
	"reflect"
)

// Field is an exported struct field taking part in property injection.
type Field struct {
	Name  string
	Type  reflect.Type
	Tag   reflect.StructTag
	Value reflect.Value
}

// InjectableFields returns the exported, settable, non-embedded fields of the
// struct pointed to by instance, in declaration order.
//
// A nil instance yields no fields. Anything other than a struct pointer fails
// with ErrNotInjectable.
func InjectableFields(instance any) ([]Field, error) {
	if IsNil(instance) {
		return nil, nil
	}

	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, ErrNotInjectable
	}

	fields := exportedFields(v.Elem())

	settable := fields[:0]
	for _, f := range fields {
		if f.Value.CanSet() {
			settable = append(settable, f)
		}
	}

	return settable, nil
}

// ExportedFields returns the exported, non-embedded fields of a struct or
// struct pointer for reading. Other values yield no fields.
func ExportedFields(instance any) []Field {
	if IsNil(instance) {
		return nil
	}

	v := reflect.ValueOf(instance)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil
	}

	return exportedFields(v)
}

func exportedFields(v reflect.Value) []Field {
	t := v.Type()

	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous || !sf.IsExported() {
			continue
		}

		fields = append(fields, Field{
			Name:  sf.Name,
			Type:  sf.Type,
			Tag:   sf.Tag,
			Value: v.Field(i),
		})
	}

	return fields
}
