package diglocator

import (
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/dig"
)

var (
	inType    = reflect.TypeOf(dig.In{})
	outType   = reflect.TypeOf(dig.Out{})
	errorType = reflect.TypeOf((*error)(nil)).Elem()

	groupNameReplacer = strings.NewReplacer(",", ";", `"`, "'")
)

// GroupName returns the value group that every registration of serviceType
// made through the registrar joins. Constructors provided directly on the
// dig container can opt in with dig.Group(GroupName(t)).
func GroupName(serviceType reflect.Type) string {
	return "locator:" + groupNameReplacer.Replace(serviceType.String())
}

// paramField is one field of a parameter object built at runtime.
type paramField struct {
	Type     reflect.Type
	Name     string
	Group    string
	Optional bool
}

func (f paramField) tag() reflect.StructTag {
	parts := make([]string, 0, 3)
	if f.Name != "" {
		parts = append(parts, fmt.Sprintf("name:%q", f.Name))
	}
	if f.Group != "" {
		parts = append(parts, fmt.Sprintf("group:%q", f.Group))
	}
	if f.Optional {
		parts = append(parts, `optional:"true"`)
	}

	return reflect.StructTag(strings.Join(parts, " "))
}

// paramObject builds a struct type embedding dig.In with one field per entry.
// Field i of the list is struct field i+1.
func paramObject(fields ...paramField) reflect.Type {
	structFields := make([]reflect.StructField, 0, len(fields)+1)
	structFields = append(structFields, reflect.StructField{
		Name:      "In",
		Type:      inType,
		Anonymous: true,
	})

	for i, f := range fields {
		structFields = append(structFields, reflect.StructField{
			Name: fmt.Sprintf("Field%d", i),
			Type: f.Type,
			Tag:  f.tag(),
		})
	}

	return reflect.StructOf(structFields)
}

// invokeWith runs an invocation whose only parameter is the object described
// by fields and returns the populated object.
// Panics raised by constructors are returned as errors, including for
// containers built without dig.RecoverFromPanics.
func invokeWith(c *dig.Container, fields ...paramField) (captured reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			captured = reflect.Value{}
			err = fmt.Errorf("container panicked: %v", r)
		}
	}()

	paramType := paramObject(fields...)

	fn := reflect.MakeFunc(
		reflect.FuncOf([]reflect.Type{paramType}, nil, false),
		func(args []reflect.Value) []reflect.Value {
			captured = args[0]
			return nil
		},
	)

	if err := c.Invoke(fn.Interface()); err != nil {
		return reflect.Value{}, err
	}

	return captured, nil
}

// groupFeeder returns a constructor that adds the registration of
// serviceType under key to the type's value group.
func groupFeeder(serviceType reflect.Type, key string) any {
	paramType := paramObject(paramField{Type: serviceType, Name: key})

	fn := reflect.MakeFunc(
		reflect.FuncOf([]reflect.Type{paramType}, []reflect.Type{serviceType}, false),
		func(args []reflect.Value) []reflect.Value {
			return []reflect.Value{args[0].Field(1)}
		},
	)

	return fn.Interface()
}

// injectable reports whether a field of type t may take part in an invocation.
func injectable(t reflect.Type) bool {
	if t == errorType {
		return false
	}

	return !embeds(t, inType) && !embeds(t, outType)
}

func embeds(t, target reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return false
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == target {
			return true
		}
	}

	return false
}
