package lox

// BoundMethod pairs a method with the instance it was looked up on and the
// class whose table supplied it. `super` inside the body resolves from
// definingClass.Superclass(), never from the receiver's own class.
type BoundMethod struct {
	receiver      *Instance
	definingClass *Class
	method        *Method
}

func bind(method *Method, definingClass *Class, receiver *Instance) *BoundMethod {
	return &BoundMethod{receiver: receiver, definingClass: definingClass, method: method}
}

func (b *BoundMethod) Receiver() *Instance { return b.receiver }

func (b *BoundMethod) DefiningClass() *Class { return b.definingClass }

func (b *BoundMethod) Method() *Method { return b.method }

func (b *BoundMethod) Name() string { return b.method.Name }

func (b *BoundMethod) Arity() int { return b.method.Arity() }

func (b *BoundMethod) qualifiedName() string {
	return b.definingClass.name + "." + b.method.Name
}

func (b *BoundMethod) String() string { return "fun " + b.method.Name }
