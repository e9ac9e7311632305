package tokens

// DefaultResolver returns a ConcreteResolver that renders every token via
// TokenToString, with no cross-stack indirection. Stack synthesis uses
// this directly when a Ref token's defining construct lives in the same
// stack as the one being resolved; cdktf/crossstack wraps this resolver
// to intercept foreign references first.
func (t *Table) DefaultResolver() ConcreteResolver {
	var resolver ConcreteResolver
	resolver = func(tok Token) (interface{}, error) {
		return t.TokenToString(tok, resolver)
	}
	return resolver
}
