package universe

// Numeric type names of the built-in universe.
const (
	Boolean    = "boolean"
	Int8       = "int8"
	Int16      = "int16"
	Int32      = "int32"
	Int64      = "int64"
	Uint8      = "uint8"
	Uint16     = "uint16"
	Uint32     = "uint32"
	Uint64     = "uint64"
	Float32    = "float32"
	Float64    = "float64"
	Complex64  = "complex64"
	Complex128 = "complex128"
)

// DefaultTable is the numeric universe of a 64-bit target: widening inside
// a kind is a promotion, int to a wide enough float is safe, the way back
// is unsafe.
func DefaultTable() *Table {
	return &Table{
		Name: "numeric",
		Types: []string{
			Boolean,
			Int8, Int16, Int32, Int64,
			Uint8, Uint16, Uint32, Uint64,
			Float32, Float64,
			Complex64, Complex128,
		},
		Aliases: map[string]string{
			"bool":   Boolean,
			"intp":   Int64,
			"uintp":  Uint64,
			"int":    Int64,
			"float":  Float64,
			"double": Float64,
		},
		Rules: []Rule{
			{From: Boolean, To: Int8, Kind: "safe", Reverse: "unsafe"},
			{From: Boolean, To: Uint8, Kind: "safe", Reverse: "unsafe"},

			{From: Int8, To: Int16, Kind: "promote", Reverse: "unsafe"},
			{From: Int16, To: Int32, Kind: "promote", Reverse: "unsafe"},
			{From: Int32, To: Int64, Kind: "promote", Reverse: "unsafe"},
			{From: Uint8, To: Uint16, Kind: "promote", Reverse: "unsafe"},
			{From: Uint16, To: Uint32, Kind: "promote", Reverse: "unsafe"},
			{From: Uint32, To: Uint64, Kind: "promote", Reverse: "unsafe"},

			{From: Uint8, To: Int16, Kind: "safe", Reverse: "unsafe"},
			{From: Uint16, To: Int32, Kind: "safe", Reverse: "unsafe"},
			{From: Uint32, To: Int64, Kind: "safe", Reverse: "unsafe"},
			{From: Uint64, To: Int64, Kind: "unsafe", Reverse: "unsafe"},

			{From: Int16, To: Float32, Kind: "safe", Reverse: "unsafe"},
			{From: Int32, To: Float64, Kind: "safe", Reverse: "unsafe"},
			{From: Int32, To: Float32, Kind: "unsafe", Reverse: "unsafe"},
			{From: Int64, To: Float64, Kind: "unsafe", Reverse: "unsafe"},
			{From: Uint64, To: Float64, Kind: "unsafe", Reverse: "unsafe"},

			{From: Float32, To: Float64, Kind: "promote", Reverse: "unsafe"},
			{From: Complex64, To: Complex128, Kind: "promote", Reverse: "unsafe"},
			{From: Float32, To: Complex64, Kind: "safe", Reverse: "unsafe"},
			{From: Float64, To: Complex128, Kind: "safe", Reverse: "unsafe"},
		},
		Functions: []Function{
			{Name: "add", Overloads: []string{
				"int64, int64", "uint64, uint64", "float64, float64", "complex128, complex128",
			}},
			{Name: "abs", Overloads: []string{"int64", "float32", "float64"}},
			{Name: "sqrt", Overloads: []string{"float32", "float64", "complex128"}},
		},
	}
}
