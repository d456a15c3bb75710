package token

var keywords = map[string]Kind{
	"using":    KwUsing,
	"if":       KwIf,
	"else":     KwElse,
	"for":      KwFor,
	"while":    KwWhile,
	"switch":   KwSwitch,
	"case":     KwCase,
	"default":  KwDefault,
	"break":    KwBreak,
	"continue": KwContinue,
	"return":   KwReturn,
	"var":      KwVar,
	"fn":       KwFn,
	"goto":     KwGoto,
	"select":   KwSelect,
	"where":    KwWhere,
	"from":     KwFrom,
	"true":     KwTrue,
	"false":    KwFalse,
}

// directiveKeywords are recognized only while lexing a # directive line.
var directiveKeywords = map[string]Kind{
	"region":    KwRegion,
	"endregion": KwEndRegion,
}

// LookupKeyword returns the keyword kind for an identifier spelling.
// Keywords are case sensitive; only lowercase spellings are recognized.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// LookupDirectiveKeyword returns the directive keyword kind for a spelling.
func LookupDirectiveKeyword(ident string) (Kind, bool) {
	k, ok := directiveKeywords[ident]
	return k, ok
}
