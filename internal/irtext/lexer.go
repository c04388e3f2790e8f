package irtext

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// IRLexer tokenizes the textual IR format: one module per document,
// line-oriented declarations, quoted strings for free-form text
// (tags, constant names, diagnostic messages).
var IRLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `#[^\n]*`, nil},
		{"String", `"(\\.|[^"\\])*"`, nil},
		{"Float", `-?[0-9]+\.[0-9]+`, nil},
		{"Int", `-?[0-9]+`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_.]*`, nil},
		{"Punct", `[={}\[\],:;]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
