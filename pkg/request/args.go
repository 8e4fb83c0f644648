package request

// Kind identifies which request component a field binding feeds.
type Kind string

const (
	KindPath  Kind = "path"
	KindQuery Kind = "query"
	KindBody  Kind = "body"
)

// Binding associates a declared key with the value read from an input.
type Binding struct {
	Kind  Kind
	Key   string
	Value Value
}

// Args is an ordered key to Value mapping. Keys enumerate the way the browser
// host enumerates object properties: array-index keys ascending, then the rest
// in insertion order. Setting an existing key replaces the value in place. The
// zero Args is ready to use.
type Args struct {
	keys   []string
	values map[string]Value
}

// NewArgs builds Args from pairs, applying them in order.
func NewArgs(pairs ...Pair) Args {
	var args Args
	for _, p := range pairs {
		args.Set(p.Key, p.Value)
	}
	return args
}

// Pair is a key/value entry used to seed Args.
type Pair struct {
	Key   string
	Value Value
}

// P is shorthand for a present-valued Pair.
func P(key, value string) Pair {
	return Pair{Key: key, Value: Some(value)}
}

// Set stores value under key.
func (a *Args) Set(key string, value Value) {
	if a.values == nil {
		a.values = make(map[string]Value)
	}
	if _, exists := a.values[key]; !exists {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Lookup returns the value for key; missing keys yield null.
func (a Args) Lookup(key string) (Value, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Get returns the value for key, null when absent.
func (a Args) Get(key string) Value {
	return a.values[key]
}

// Len reports the number of distinct keys.
func (a Args) Len() int {
	return len(a.keys)
}

// Keys returns the keys in enumeration order.
func (a Args) Keys() []string {
	return hostOrder(a.keys)
}

// Each visits entries in enumeration order until fn returns false.
func (a Args) Each(fn func(key string, value Value) bool) {
	for _, key := range hostOrder(a.keys) {
		if !fn(key, a.values[key]) {
			return
		}
	}
}

// Collect splits bindings by kind. Path and query bindings collapse into Args
// (a repeated key overwrites in place); body bindings stay a sequence because
// every occurrence takes part in body assembly.
func Collect(bindings []Binding) (path, query Args, body []Pair) {
	for _, b := range bindings {
		switch b.Kind {
		case KindPath:
			path.Set(b.Key, b.Value)
		case KindQuery:
			query.Set(b.Key, b.Value)
		case KindBody:
			body = append(body, Pair{Key: b.Key, Value: b.Value})
		}
	}
	return path, query, body
}
