package lox

// ResolveMethod finds name starting at the receiver's own class.
func ResolveMethod(receiver *Instance, name string) (*BoundMethod, error) {
	return resolveFrom(receiver.class, name, receiver)
}

// ResolveSuper finds name starting one level above definingClass and binds
// the result to the unchanged receiver.
func ResolveSuper(definingClass *Class, name string, receiver *Instance) (*BoundMethod, error) {
	if definingClass.superclass == nil {
		return nil, &NoSuperclassError{Class: definingClass.name}
	}
	return resolveFrom(definingClass.superclass, name, receiver)
}

func resolveFrom(start *Class, name string, receiver *Instance) (*BoundMethod, error) {
	method, owner := start.FindMethod(name)
	if method == nil {
		return nil, &UndefinedPropertyError{Name: name, Class: receiver.class.name}
	}
	return bind(method, owner, receiver), nil
}
