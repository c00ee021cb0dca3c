package lox

import (
	"sort"

	"github.com/google/uuid"
)

// Instance is a class-tagged bag of fields. Fields are never declared up
// front; assignment creates them.
type Instance struct {
	id     uuid.UUID
	class  *Class
	fields map[string]Value
}

func newInstance(cl *Class) *Instance {
	return &Instance{id: uuid.New(), class: cl, fields: make(map[string]Value)}
}

// ID identifies the instance in diagnostics. It plays no part in equality.
func (i *Instance) ID() uuid.UUID { return i.id }

func (i *Instance) Class() *Class { return i.class }

// Get reads a property: fields shadow methods, and a method found along the
// class chain comes back bound to i.
func (i *Instance) Get(name string) (Value, error) {
	if val, ok := i.fields[name]; ok {
		return val, nil
	}
	bound, err := ResolveMethod(i, name)
	if err != nil {
		return NewNil(), err
	}
	return NewBoundMethod(bound), nil
}

func (i *Instance) Set(name string, val Value) {
	i.fields[name] = val
}

func (i *Instance) Field(name string) (Value, bool) {
	val, ok := i.fields[name]
	return val, ok
}

func (i *Instance) FieldNames() []string {
	names := make([]string, 0, len(i.fields))
	for name := range i.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (i *Instance) String() string {
	return i.class.name + " instance"
}
