package diag

// Catalog of stable diagnostic IDs (spec.md §6.6).  Registered at package
// init so every part of the compiler can issue them by id without needing to
// know the wording, matching the teacher's approach of keeping diagnostic
// text out of the call sites (pkg/corset/compiler/*.go issue errors by
// constructing a SyntaxError with a message built close to the point of
// failure; here the message lives centrally so it can be reused and tested).
func init() {
	// Tokenizer errors.
	Register("invalid-char", Error, "invalid character ${char raw}")
	Register("unmatched-bracket", Error, "unmatched bracket ${bracket raw}")
	Register("unmatched-bracket-pair", Error, "bracket ${open raw} closed by ${close raw}")
	Register("unclosed-fexpr", Error, "unclosed formatted expression")
	Register("unclosed-long-comment", Error, "unclosed long comment")
	Register("unclosed-long-command", Error, "unclosed long command")
	Register("unclosed-bracket", Error, "unclosed bracket ${bracket raw}")
	Register("eof-after-continuation", Error, "end of file immediately after line continuation")
	Register("char-after-continuation", Error, "unexpected character after line continuation")
	Register("interface-path-expected", Error, "expected an interface path")
	Register("invalid-dedent", Error, "dedent does not match any outer indentation level")
	Register("integer-expected", Error, "expected an integer literal")
	Register("invalid-number-char", Error, "invalid character ${char raw} in numeric literal")
	Register("unclosed-font", Error, "unclosed font specifier")
	Register("invalid-font", Error, "unknown font name ${name raw}")
	Register("incomplete-unicode-escape", Error, "incomplete unicode escape")
	Register("invalid-unicode-code-point", Error, "invalid unicode code point ${value raw}")
	Register("unclosed-quote", Error, "unclosed string literal")
	Register("incomplete-escape", Error, "incomplete escape sequence")
	Register("invalid-escape", Error, "invalid escape sequence ${char raw}")
	Register("integer-literal-overflow", Error, "integer literal ${value raw} overflows 32-bit range")

	// Parser errors.
	Register("unexpected-token", Error, "unexpected token ${found raw}, expected ${kind raw}")
	Register("empty-block", Error, "block must contain at least one statement")
	Register("non-default-arg-after-default", Error, "non-default argument ${name raw} follows a default argument")
	Register("dont-know-arg-type", Error, "cannot infer type of argument ${name raw}; an annotation is required")
	Register("duplicate-arg", Error, "duplicate argument name ${name raw}")
	Register("duplicate-keyword-args", Error, "keyword argument ${name raw} given multiple times")
	Register("invalid-valpassing", Error, "invalid value-passing mode for ${name raw}")
	Register("const-new-method", Error, "the \"new\" method cannot be declared const")
	Register("non-static-const-method", Error, "const methods must be static")
	Register("positional-arg-after-keyword", Error, "positional argument follows a keyword argument")
	Register("multiple-new-methods", Error, "template declares more than one \"new\" method")
	Register("multiple-new-methods-note", Note, "previous definition here")
	Register("duplicate-entity-attr", Error, "duplicate entity attribute ${name raw}")
	Register("duplicate-entity-attr-note", Note, "previous definition here")
	Register("duplicate-struct-attr", Error, "duplicate struct attribute ${name raw}")
	Register("duplicate-struct-attr-note", Note, "previous definition here")
	Register("return-scope", Error, "\"result\" may only appear inside a function body")
	Register("interface-return-value", Error, "an interface body may not produce a result")

	// Resolver errors.
	Register("module-not-found", Error, "module ${name raw} not found")
	Register("undefined-name", Error, "undefined name ${name raw}")
	Register("name-redefinition", Error, "name ${name raw} is already defined in this scope")
	Register("name-redefinition-note", Note, "previous definition here")
	Register("cannot-import-name", Error, "cannot import name ${name raw} from module ${module raw}")
	Register("imported-here", Note, "imported here")

	// Warnings.
	Register("new-font", Warning, "font ${name raw} requires a newer game version than configured")
	Register("unused-name", Warning, "unused name ${name raw}")
	Register("partial-wildcard-import", Warning, "wildcard import of partially-loaded module ${module raw}")

	// Generator / const-folding errors.
	Register("const-arithmetic", Error, "compile-time arithmetic error: ${reason raw}")
	Register("endless-while-loop", Error, "while loop with literal true condition never terminates")
	Register("invalid-op", Error, "operation ${op raw} not supported on type ${type raw}")
	Register("type-mismatch", Error, "expected type ${expected raw}, got ${actual raw}")
	Register("mro", Error, "cannot linearize template ${name raw}: inconsistent parent order")

	// Binary module (Axe) errors, spec.md §7/§9.
	Register("wrong-arg-type", Error, "argument ${name raw} has the wrong type: expected ${expected raw}")
	Register("too-many-args", Error, "too many positional arguments given")
	Register("missing-arg", Error, "missing required argument ${name raw}")
	Register("arg-multiple-values", Error, "argument ${name raw} given multiple values")
	Register("unexpected-keyword-arg", Error, "unexpected keyword argument ${name raw}")
	Register("binary-module-error", Error, "${message raw}")
}
