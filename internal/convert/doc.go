// Package convert turns Tailwind-styled markup fragments into a plain
// HTML, CSS and JavaScript triple.
//
// The conversion is deliberately shallow. Class attributes are found with
// regular expressions, each utility token is looked up in a fixed
// TokenTable, and a left-to-right gradient is composed from its color stops
// through a ColorTable. Everything else is dropped without complaint.
//
// # Contract
//
// Every operation is total: any input string, well-formed or not, produces
// a Result. Unknown tokens never produce CSS, unknown gradient colors are
// emitted verbatim, and markup with literal braces may come back altered.
// Callers that need a real compiler should use the Tailwind CLI instead.
//
// # Tables
//
// TokenTable and ColorTable are immutable after construction. Build them
// once at startup (optionally merging user entries from configuration) and
// share them between converters and goroutines freely.
//
// # Usage
//
//	conv := convert.New(convert.Options{})
//	res := conv.Convert(`<button className="px-4 py-2">Go</button>`)
//	fmt.Println(res.HTML) // <button>Go</button>
package convert
