package value

// Symbol is an identifier with an optional namespace (ns/name).
type Symbol struct {
	Namespace string
	Name      string
}

func (s Symbol) Kind() Kind { return KindSymbol }
func (s Symbol) String() string {
	if s.Namespace != "" {
		return s.Namespace + "/" + s.Name
	}
	return s.Name
}

// NewSymbol builds a Symbol from an already-split namespace (empty for a
// bare symbol) and name; it does not parse "ns/name" text itself.
func NewSymbol(namespace, name string) Symbol {
	return Symbol{Namespace: namespace, Name: name}
}

// Keyword is like Symbol but a distinct variant; its lexeme excludes the
// leading colon.
type Keyword struct {
	Namespace string
	Name      string
}

func (k Keyword) Kind() Kind { return KindKeyword }
func (k Keyword) String() string {
	if k.Namespace != "" {
		return ":" + k.Namespace + "/" + k.Name
	}
	return ":" + k.Name
}
