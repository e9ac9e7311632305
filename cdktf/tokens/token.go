// Package tokens implements the lazy-expression token system: reversible
// encoding of deferred Terraform expressions inside ordinary strings and
// numbers, with a two-phase create -> resolve protocol (spec §3, §4.B).
package tokens

// Token is one of four variants: Ref, Fn, Raw, Lazy.
type Token interface {
	isToken()
}

// Ref encodes "${<fqn>.<attribute>}", a reference to another element's
// attribute. SourceStack, when set, names the stack the referenced
// element belongs to; the cross-stack rewriter (cdktf/crossstack) uses it
// to detect a reference crossing a stack boundary (spec §4.F). It plays
// no part in string rendering.
type Ref struct {
	FQN         string
	Attribute   string
	SourceStack string
}

func (Ref) isToken() {}

// Fn encodes "${<name>(<arg>, ...)}", a Terraform function call; args are
// recursively stringified.
type Fn struct {
	Name string
	Args []interface{}
}

func (Fn) isToken() {}

// Raw carries arbitrary expression text emitted verbatim.
type Raw struct {
	Expression string
}

func (Raw) isToken() {}

// Producer is invoked to compute a lazily-deferred value; it may return
// another Token, a primitive value, or an error.
type Producer func() (interface{}, error)

// Lazy defers a computation; resolution invokes Producer repeatedly,
// recursively resolving the result, until a concrete (non-lazy) value or
// token remains.
type Lazy struct {
	Producer Producer
}

func (Lazy) isToken() {}
