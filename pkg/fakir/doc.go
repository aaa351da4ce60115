// Package fakir provides combinators for generating correlated synthetic
// data.
//
// A generator is a graph of Node objects. Leaves draw values from a
// random.Source (Uniform, Normal, Choice, RngFn) or provide constants
// (Fixed). Combinators (Add, Eq, IfElse, Tupled, Map, Bind, ...) build
// new nodes from existing ones.
//
// Node identity is significant. During a single Generate call every node
// is realized at most once: if the same node is referenced twice, both
// references observe the same value. IID wraps a node to request an
// independent realization instead:
//
//	area := Must(Normal(40, 10))
//	row := Tupled(area, Mul(area, Fixed(2.0)), area.IID())
//
// Here the first two elements are correlated, while the third is an
// independent draw of the same distribution. Every Generate call starts
// with an empty cache, so values vary from row to row.
//
// Graphs are immutable and can be shared among goroutines. A source
// must be used exclusively by one evaluation at a time.
package fakir
