package value

// Tagged is a pair (tag-symbol, wrapped Value) representing `#tag value`.
type Tagged struct {
	Tag     Symbol
	Wrapped Value
}

func (t Tagged) Kind() Kind { return KindTagged }
func (t Tagged) String() string {
	return "#" + t.Tag.String() + " " + t.Wrapped.String()
}
