package fill

// Segment is one piece of a rich replacement: literal text with an
// independent bold flag. Newlines inside Text become line breaks on emit.
type Segment struct {
	Text string
	Bold bool
}

// Lit returns a plain segment.
func Lit(text string) Segment {
	return Segment{Text: text}
}

// Bold returns a bold segment.
func Bold(text string) Segment {
	return Segment{Text: text, Bold: true}
}

type valueKind int

const (
	kindScalar valueKind = iota
	kindRich
	kindClause
)

// Value is a tagged union over the three replacement shapes the engine
// supports. The substitution pass switches on the tag: scalars and rich
// values replace their token in place, a clause consumes the whole
// paragraph.
type Value struct {
	kind     valueKind
	scalar   string
	segments []Segment
}

// String binds a plain scalar replacement.
func String(s string) Value {
	return Value{kind: kindScalar, scalar: s}
}

// Rich binds an inline multi-segment replacement with independent
// formatting per segment.
func Rich(segments ...Segment) Value {
	return Value{kind: kindRich, segments: segments}
}

// Clause binds a composite replacement that regenerates the entire
// paragraph from its segments. An empty segment list elides the paragraph
// content entirely.
func Clause(segments ...Segment) Value {
	return Value{kind: kindClause, segments: segments}
}

// IsClause reports whether the value consumes the whole paragraph.
func (v Value) IsClause() bool {
	return v.kind == kindClause
}

// Segments returns the rich or clause segments.
func (v Value) Segments() []Segment {
	return v.segments
}

// Scalar returns the scalar text; empty for non-scalar values.
func (v Value) Scalar() string {
	return v.scalar
}

// Binding is the key-to-value mapping driving one generation pass. Keys
// absent from the binding leave their placeholder untouched.
type Binding map[string]Value
