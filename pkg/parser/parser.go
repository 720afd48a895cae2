// Package parser implements the Acacia recursive-descent parser: operator
// precedence climbing for expressions, and statement-level parsing for the
// full statement grammar (spec.md §4.3).
package parser

import (
	"github.com/CBerJun/acacia/pkg/ast"
	"github.com/CBerJun/acacia/pkg/diag"
	"github.com/CBerJun/acacia/pkg/lexer"
	"github.com/CBerJun/acacia/pkg/source"
	"github.com/CBerJun/acacia/pkg/token"
)

// Parse tokenizes and parses one source file into a Module. It reports
// diagnostics into sink and recovers from errors by skipping to the next
// line-start token, so a single module with errors still yields a partial
// AST and as many diagnostics as can be found (spec.md §4.3, §7).
func Parse(file *source.File, sink *diag.Sink, cfg lexer.Config) *ast.Module {
	toks := lexer.Tokenize(file, sink, cfg)
	p := &parser{toks: toks, sink: sink, file: file}
	stmts := p.parseStmts(func() bool { return p.at(token.END_MARKER) })
	rng := source.NewRange(file, 0, len(file.Text()))
	return ast.NewModule(rng, stmts)
}

type parser struct {
	toks []token.Token
	pos  int
	sink *diag.Sink
	file *source.File
}

// ---------------------------------------------------------------------
// Token stream helpers
// ---------------------------------------------------------------------

func (p *parser) cur() token.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return p.toks[len(p.toks)-1] // END_MARKER
}

func (p *parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) accept(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// expect consumes a token of kind k, reporting unexpected-token without
// consuming anything if it is absent; parseStmts then skips the rest of the
// failed statement's line.
func (p *parser) expect(k token.Kind) token.Token {
	if t, ok := p.accept(k); ok {
		return t
	}
	p.errorHere("unexpected-token", map[string]any{"kind": k.String(), "found": p.cur().Kind.String()})
	return p.cur()
}

func (p *parser) errorHere(id diag.ID, args map[string]any) {
	p.sink.Report(id, p.cur().Range, args)
}

// recover skips tokens until the next NEWLINE/END_MARKER/DEDENT, used after
// a statement-level parse error so the parser can keep collecting
// diagnostics in the rest of the file.
func (p *parser) recover() {
	for !p.at(token.NEWLINE) && !p.at(token.END_MARKER) && !p.at(token.DEDENT) {
		p.advance()
	}
	p.accept(token.NEWLINE)
}

func (p *parser) rangeFrom(begin source.Range) source.Range {
	if p.pos == 0 {
		return begin
	}
	return begin.Union(p.toks[p.pos-1].Range)
}

// ---------------------------------------------------------------------
// Blocks and statement sequences
// ---------------------------------------------------------------------

// parseStmts parses statements until stop() is true, skipping blank
// NEWLINE-only lines.
func (p *parser) parseStmts(stop func() bool) []ast.Stmt {
	var stmts []ast.Stmt
	for !stop() {
		if _, ok := p.accept(token.NEWLINE); ok {
			continue
		}
		errs := len(p.sink.Errors())
		s := p.parseStmt()
		if s != nil {
			stmts = append(stmts, s)
		}
		if len(p.sink.Errors()) > errs && p.pos > 0 {
			switch p.toks[p.pos-1].Kind {
			case token.NEWLINE, token.INDENT, token.DEDENT:
			default:
				p.recover()
			}
		}
	}
	return stmts
}

// parseBlock parses `:` NEWLINE INDENT stmt+ DEDENT, the suite introducer
// shared by if/while/for/def/interface (entity and struct bodies have
// their own loops).
func (p *parser) parseBlock() *ast.Block {
	begin := p.cur().Range
	p.expect(token.COLON)
	p.expect(token.NEWLINE)
	if !p.at(token.INDENT) {
		p.errorHere("empty-block", nil)
		return ast.NewBlock(begin, nil)
	}
	p.advance()
	stmts := p.parseStmts(func() bool { return p.at(token.DEDENT) || p.at(token.END_MARKER) })
	p.accept(token.DEDENT)
	return ast.NewBlock(p.rangeFrom(begin), stmts)
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

func (p *parser) parseStmt() ast.Stmt {
	begin := p.cur().Range
	switch p.cur().Kind {
	case token.KW_PASS:
		p.advance()
		p.expect(token.NEWLINE)
		return ast.NewPassStmt(begin)
	case token.KW_IF:
		return p.parseIf()
	case token.KW_WHILE:
		return p.parseWhile()
	case token.KW_FOR:
		return p.parseFor()
	case token.KW_DEF, token.KW_INLINE, token.KW_CONST:
		if p.cur().Kind == token.KW_CONST && p.peekIsDef() {
			return p.parseFuncDef(ast.QualNone)
		}
		if p.cur().Kind == token.KW_CONST {
			return p.parseConstStmt()
		}
		return p.parseFuncDef(ast.QualNone)
	case token.KW_INTERFACE:
		return p.parseInterface()
	case token.KW_ENTITY:
		return p.parseEntity()
	case token.KW_STRUCT:
		return p.parseStruct()
	case token.KW_IMPORT:
		return p.parseImport()
	case token.KW_FROM:
		return p.parseImportFrom()
	case token.KW_RESULT:
		p.advance()
		v := p.parseExpr()
		p.expect(token.NEWLINE)
		return ast.NewResultStmt(p.rangeFrom(begin), v)
	case token.REF:
		return p.parseReferenceAssign()
	case token.KW_VIRTUAL, token.KW_OVERRIDE, token.KW_STATIC:
		return p.parseQualifiedMethod()
	default:
		return p.parseExprOrAssignStmt()
	}
}

// peekIsDef reports whether the token after the current KW_CONST is KW_DEF,
// distinguishing `const def` from `const name := expr`.
func (p *parser) peekIsDef() bool {
	save := p.pos
	defer func() { p.pos = save }()
	p.advance()
	return p.at(token.KW_DEF)
}

func (p *parser) parseQualifiedMethod() ast.Stmt {
	qual := ast.QualNone
	switch p.cur().Kind {
	case token.KW_VIRTUAL:
		qual = ast.QualVirtual
	case token.KW_OVERRIDE:
		qual = ast.QualOverride
	case token.KW_STATIC:
		qual = ast.QualStatic
	}
	p.advance()
	return p.parseFuncDef(qual)
}

func (p *parser) parseIf() ast.Stmt {
	begin := p.cur().Range
	p.advance()
	cond := p.parseExpr()
	body := p.parseBlock()
	var elifs []ast.ElifClause
	for p.at(token.KW_ELIF) {
		p.advance()
		c := p.parseExpr()
		b := p.parseBlock()
		elifs = append(elifs, ast.ElifClause{Cond: c, Body: b})
	}
	var els *ast.Block
	if _, ok := p.accept(token.KW_ELSE); ok {
		els = p.parseBlock()
	}
	return ast.NewIfStmt(p.rangeFrom(begin), cond, body, elifs, els)
}

func (p *parser) parseWhile() ast.Stmt {
	begin := p.cur().Range
	p.advance()
	cond := p.parseExpr()
	body := p.parseBlock()
	return ast.NewWhileStmt(p.rangeFrom(begin), cond, body)
}

func (p *parser) parseFor() ast.Stmt {
	begin := p.cur().Range
	p.advance()
	name := p.parseIdentifierDef()
	p.expect(token.KW_IN)
	iter := p.parseExpr()
	body := p.parseBlock()
	return ast.NewForStmt(p.rangeFrom(begin), name, iter, body)
}

func (p *parser) parseIdentifierDef() *ast.IdentifierDef {
	t := p.expect(token.IDENTIFIER)
	text, _ := t.Value.(string)
	return ast.NewIdentifierDef(t.Range, text)
}

func (p *parser) parseConstStmt() ast.Stmt {
	begin := p.cur().Range
	p.advance() // const
	name := p.parseIdentifierDef()
	var typ ast.Expr
	if _, ok := p.accept(token.COLON); ok {
		typ = p.parseExpr()
		p.expect(token.ASSIGN)
	} else {
		p.expect(token.WALRUS)
	}
	value := p.parseExpr()
	p.expect(token.NEWLINE)
	return ast.NewConstStmt(p.rangeFrom(begin), name, typ, value)
}

func (p *parser) parseReferenceAssign() ast.Stmt {
	begin := p.cur().Range
	p.advance() // &
	name := p.parseIdentifierDef()
	p.expect(token.WALRUS)
	value := p.parseExpr()
	p.expect(token.NEWLINE)
	return ast.NewAssign(p.rangeFrom(begin), ast.AssignReference, name, nil, value)
}

// parseExprOrAssignStmt handles command literals, bare expression
// statements, plain `=`/`:=`/`: T =` assignment, and augmented assignment.
// All forms start with an expression (possibly just an identifier), so the
// form is disambiguated after parsing the left-hand side.
func (p *parser) parseExprOrAssignStmt() ast.Stmt {
	begin := p.cur().Range
	lhs := p.parseExpr()

	switch p.cur().Kind {
	case token.WALRUS:
		p.advance()
		name := identifierDefFromExpr(p, lhs)
		value := p.parseExpr()
		p.expect(token.NEWLINE)
		return ast.NewAssign(p.rangeFrom(begin), ast.AssignWalrus, name, nil, value)
	case token.COLON:
		p.advance()
		typ := p.parseExpr()
		p.expect(token.ASSIGN)
		value := p.parseExpr()
		p.expect(token.NEWLINE)
		name := identifierDefFromExpr(p, lhs)
		return ast.NewAssign(p.rangeFrom(begin), ast.AssignPlain, name, typ, value)
	case token.ASSIGN:
		p.advance()
		value := p.parseExpr()
		p.expect(token.NEWLINE)
		name := identifierDefFromExpr(p, lhs)
		return ast.NewAssign(p.rangeFrom(begin), ast.AssignPlain, name, nil, value)
	case token.AUG_PLUS, token.AUG_MINUS, token.AUG_STAR, token.AUG_SLASH, token.AUG_PCT:
		op := augOpFor(p.cur().Kind)
		p.advance()
		value := p.parseExpr()
		p.expect(token.NEWLINE)
		return ast.NewAugAssign(p.rangeFrom(begin), op, lhs, value)
	default:
		p.expect(token.NEWLINE)
		return ast.NewExprStmt(p.rangeFrom(begin), lhs)
	}
}

// identifierDefFromExpr converts an already-parsed Identifier expression
// into the IdentifierDef the assignment-target position requires; any other
// expression shape is an unexpected-token error.
func identifierDefFromExpr(p *parser, e ast.Expr) *ast.IdentifierDef {
	if id, ok := e.(*ast.Identifier); ok {
		return ast.NewIdentifierDef(id.Range(), id.Text)
	}
	p.sink.Report("unexpected-token", e.Range(), map[string]any{"kind": "identifier", "found": "expression"})
	return ast.NewIdentifierDef(e.Range(), "")
}

func augOpFor(k token.Kind) ast.AugAssignOp {
	switch k {
	case token.AUG_PLUS:
		return ast.AugAdd
	case token.AUG_MINUS:
		return ast.AugSub
	case token.AUG_STAR:
		return ast.AugMul
	case token.AUG_SLASH:
		return ast.AugDiv
	default:
		return ast.AugMod
	}
}

func (p *parser) parseFuncDef(qual ast.FuncQualifier) ast.Stmt {
	begin := p.cur().Range
	kind := ast.FuncRegular
	switch p.cur().Kind {
	case token.KW_INLINE:
		kind = ast.FuncInline
		p.advance()
		p.expect(token.KW_DEF)
	case token.KW_CONST:
		kind = ast.FuncConst
		p.advance()
		p.expect(token.KW_DEF)
	default:
		p.expect(token.KW_DEF)
	}
	name := p.parseIdentifierDef()
	p.expect(token.LPAREN)
	params := p.parseParams()
	p.expect(token.RPAREN)
	var ret ast.Expr
	if _, ok := p.accept(token.ARROW); ok {
		ret = p.parseExpr()
	}
	body := p.parseBlock()
	return ast.NewFuncDef(p.rangeFrom(begin), kind, qual, name, params, ret, body)
}

func (p *parser) parseParams() []*ast.Port {
	var params []*ast.Port
	seenDefault := false
	names := map[string]bool{}
	for !p.at(token.RPAREN) && !p.at(token.END_MARKER) {
		begin := p.cur().Range
		mode := ast.PassByValue
		switch p.cur().Kind {
		case token.REF:
			mode = ast.PassByReference
			p.advance()
		case token.KW_CONST:
			mode = ast.PassConst
			p.advance()
		}
		name := p.parseIdentifierDef()
		if names[name.Text] {
			p.sink.Report("duplicate-arg", name.Range(), map[string]any{"name": name.Text})
		}
		names[name.Text] = true
		var typ, def ast.Expr
		if _, ok := p.accept(token.COLON); ok {
			typ = p.parseExpr()
		}
		if _, ok := p.accept(token.ASSIGN); ok {
			def = p.parseExpr()
			seenDefault = true
		} else if seenDefault {
			p.sink.Report("non-default-arg-after-default", name.Range(), nil)
		}
		params = append(params, ast.NewPort(p.rangeFrom(begin), name, typ, def, mode))
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	return params
}

func (p *parser) parseInterface() ast.Stmt {
	begin := p.cur().Range
	p.advance()
	t := p.expect(token.INTERFACE_PATH)
	path, _ := t.Value.(string)
	body := p.parseBlock()
	return ast.NewInterfaceDef(p.rangeFrom(begin), path, body)
}

func (p *parser) parseEntity() ast.Stmt {
	begin := p.cur().Range
	p.advance()
	name := p.parseIdentifierDef()
	var parents []ast.Expr
	if _, ok := p.accept(token.LPAREN); ok {
		for !p.at(token.RPAREN) && !p.at(token.END_MARKER) {
			parents = append(parents, p.parseExpr())
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
		p.expect(token.RPAREN)
	}
	p.expect(token.COLON)
	p.expect(token.NEWLINE)
	var fields []*ast.FieldDecl
	var methods []*ast.FuncDef
	if !p.at(token.INDENT) {
		p.errorHere("empty-block", nil)
		return ast.NewEntityDef(p.rangeFrom(begin), name, parents, fields, methods)
	}
	p.advance()
	for !p.at(token.DEDENT) && !p.at(token.END_MARKER) {
		if _, ok := p.accept(token.NEWLINE); ok {
			continue
		}
		switch p.cur().Kind {
		case token.KW_DEF, token.KW_INLINE, token.KW_CONST, token.KW_VIRTUAL, token.KW_OVERRIDE, token.KW_STATIC:
			qual := ast.QualNone
			switch p.cur().Kind {
			case token.KW_VIRTUAL:
				qual = ast.QualVirtual
				p.advance()
			case token.KW_OVERRIDE:
				qual = ast.QualOverride
				p.advance()
			case token.KW_STATIC:
				qual = ast.QualStatic
				p.advance()
			}
			if m, ok := p.parseFuncDef(qual).(*ast.FuncDef); ok {
				methods = append(methods, m)
			}
		case token.KW_NEW:
			mbegin := p.cur().Range
			t := p.advance()
			mname := ast.NewIdentifierDef(t.Range, "new")
			p.expect(token.LPAREN)
			params := p.parseParams()
			p.expect(token.RPAREN)
			body := p.parseBlock()
			methods = append(methods, ast.NewFuncDef(p.rangeFrom(mbegin), ast.FuncRegular, ast.QualNone, mname, params, nil, body))
		default:
			fbegin := p.cur().Range
			fname := p.parseIdentifierDef()
			p.expect(token.COLON)
			ftyp := p.parseExpr()
			p.expect(token.NEWLINE)
			fields = append(fields, ast.NewFieldDecl(p.rangeFrom(fbegin), fname, ftyp))
		}
	}
	p.accept(token.DEDENT)
	return ast.NewEntityDef(p.rangeFrom(begin), name, parents, fields, methods)
}

func (p *parser) parseStruct() ast.Stmt {
	begin := p.cur().Range
	p.advance()
	name := p.parseIdentifierDef()
	p.expect(token.COLON)
	p.expect(token.NEWLINE)
	var fields []*ast.FieldDecl
	if !p.at(token.INDENT) {
		p.errorHere("empty-block", nil)
		return ast.NewStructDef(p.rangeFrom(begin), name, fields)
	}
	p.advance()
	for !p.at(token.DEDENT) && !p.at(token.END_MARKER) {
		if _, ok := p.accept(token.NEWLINE); ok {
			continue
		}
		fbegin := p.cur().Range
		fname := p.parseIdentifierDef()
		p.expect(token.COLON)
		ftyp := p.parseExpr()
		p.expect(token.NEWLINE)
		fields = append(fields, ast.NewFieldDecl(p.rangeFrom(fbegin), fname, ftyp))
	}
	p.accept(token.DEDENT)
	return ast.NewStructDef(p.rangeFrom(begin), name, fields)
}

func (p *parser) parseDottedName() []string {
	var parts []string
	t := p.expect(token.IDENTIFIER)
	if s, ok := t.Value.(string); ok {
		parts = append(parts, s)
	}
	for {
		if _, ok := p.accept(token.DOT); !ok {
			break
		}
		t := p.expect(token.IDENTIFIER)
		if s, ok := t.Value.(string); ok {
			parts = append(parts, s)
		}
	}
	return parts
}

func (p *parser) parseImport() ast.Stmt {
	begin := p.cur().Range
	p.advance()
	var names []ast.ImportAlias
	for {
		path := p.parseDottedName()
		var alias *ast.IdentifierDef
		if _, ok := p.accept(token.KW_AS); ok {
			alias = p.parseIdentifierDef()
		}
		names = append(names, ast.ImportAlias{Path: path, Alias: alias})
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.NEWLINE)
	return ast.NewImportStmt(p.rangeFrom(begin), names)
}

func (p *parser) parseImportFrom() ast.Stmt {
	begin := p.cur().Range
	p.advance()
	module := p.parseDottedName()
	p.expect(token.KW_IMPORT)
	if _, ok := p.accept(token.STAR); ok {
		p.expect(token.NEWLINE)
		return ast.NewImportFromStmt(p.rangeFrom(begin), module, true, nil)
	}
	var names []ast.ImportAlias
	for {
		t := p.expect(token.IDENTIFIER)
		s, _ := t.Value.(string)
		var alias *ast.IdentifierDef
		if _, ok := p.accept(token.KW_AS); ok {
			alias = p.parseIdentifierDef()
		}
		names = append(names, ast.ImportAlias{Path: []string{s}, Alias: alias})
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.NEWLINE)
	return ast.NewImportFromStmt(p.rangeFrom(begin), module, false, names)
}

// ---------------------------------------------------------------------
// Expressions: precedence climbing, mirroring Python's binding order
// (spec.md §4.3): unary -> * / % -> + - -> comparison chain -> and -> or.
// ---------------------------------------------------------------------

func (p *parser) parseExpr() ast.Expr { return p.parseOr() }

func (p *parser) parseOr() ast.Expr {
	begin := p.cur().Range
	lhs := p.parseAnd()
	if !p.at(token.KW_OR) {
		return lhs
	}
	operands := []ast.Expr{lhs}
	for {
		if _, ok := p.accept(token.KW_OR); !ok {
			break
		}
		operands = append(operands, p.parseAnd())
	}
	return ast.NewBoolOp(p.rangeFrom(begin), ast.BoolOr, operands)
}

func (p *parser) parseAnd() ast.Expr {
	begin := p.cur().Range
	lhs := p.parseNot()
	if !p.at(token.KW_AND) {
		return lhs
	}
	operands := []ast.Expr{lhs}
	for {
		if _, ok := p.accept(token.KW_AND); !ok {
			break
		}
		operands = append(operands, p.parseNot())
	}
	return ast.NewBoolOp(p.rangeFrom(begin), ast.BoolAnd, operands)
}

func (p *parser) parseNot() ast.Expr {
	if t, ok := p.accept(token.KW_NOT); ok {
		operand := p.parseNot()
		return ast.NewUnaryOp(p.rangeFrom(t.Range), ast.UnaryNot, operand)
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() ast.Expr {
	begin := p.cur().Range
	first := p.parseAdditive()
	var ops []ast.CompareOpKind
	operands := []ast.Expr{first}
	for {
		op, ok := compareOpFor(p.cur().Kind)
		if !ok {
			break
		}
		p.advance()
		operands = append(operands, p.parseAdditive())
		ops = append(ops, op)
	}
	if len(ops) == 0 {
		return first
	}
	return ast.NewCompareChain(p.rangeFrom(begin), operands, ops)
}

func compareOpFor(k token.Kind) (ast.CompareOpKind, bool) {
	switch k {
	case token.LT:
		return ast.CmpLT, true
	case token.GT:
		return ast.CmpGT, true
	case token.LE:
		return ast.CmpLE, true
	case token.GE:
		return ast.CmpGE, true
	case token.EQ:
		return ast.CmpEQ, true
	case token.NE:
		return ast.CmpNE, true
	default:
		return 0, false
	}
}

func (p *parser) parseAdditive() ast.Expr {
	begin := p.cur().Range
	lhs := p.parseMultiplicative()
	for {
		var op ast.BinOpKind
		switch p.cur().Kind {
		case token.PLUS:
			op = ast.BinAdd
		case token.MINUS:
			op = ast.BinSub
		default:
			return lhs
		}
		p.advance()
		rhs := p.parseMultiplicative()
		lhs = ast.NewBinOp(p.rangeFrom(begin), op, lhs, rhs)
	}
}

func (p *parser) parseMultiplicative() ast.Expr {
	begin := p.cur().Range
	lhs := p.parseUnary()
	for {
		var op ast.BinOpKind
		switch p.cur().Kind {
		case token.STAR:
			op = ast.BinMul
		case token.SLASH:
			op = ast.BinDiv
		case token.PERCENT:
			op = ast.BinMod
		default:
			return lhs
		}
		p.advance()
		rhs := p.parseUnary()
		lhs = ast.NewBinOp(p.rangeFrom(begin), op, lhs, rhs)
	}
}

func (p *parser) parseUnary() ast.Expr {
	begin := p.cur().Range
	switch p.cur().Kind {
	case token.MINUS:
		p.advance()
		return ast.NewUnaryOp(p.rangeFrom(begin), ast.UnaryNeg, p.parseUnary())
	case token.PLUS:
		p.advance()
		return ast.NewUnaryOp(p.rangeFrom(begin), ast.UnaryPos, p.parseUnary())
	default:
		return p.parsePostfix()
	}
}

// parsePostfix folds attribute access, calls, and subscripts left.
func (p *parser) parsePostfix() ast.Expr {
	begin := p.cur().Range
	e := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.DOT:
			p.advance()
			t := p.expect(token.IDENTIFIER)
			name, _ := t.Value.(string)
			e = ast.NewAttribute(p.rangeFrom(begin), e, name)
		case token.LPAREN:
			p.advance()
			args := p.parseCallArgs()
			p.expect(token.RPAREN)
			e = ast.NewCall(p.rangeFrom(begin), e, args)
		case token.LBRACKET:
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBRACKET)
			e = ast.NewSubscript(p.rangeFrom(begin), e, idx)
		default:
			return e
		}
	}
}

func (p *parser) parseCallArgs() []ast.Arg {
	var args []ast.Arg
	seenKeyword := false
	for !p.at(token.RPAREN) && !p.at(token.END_MARKER) {
		if p.at(token.IDENTIFIER) && p.peekIsAssignAfterIdent() {
			t := p.advance()
			name, _ := t.Value.(string)
			p.advance() // =
			v := p.parseExpr()
			args = append(args, ast.Arg{Name: name, Value: v})
			seenKeyword = true
		} else {
			if seenKeyword {
				p.errorHere("positional-arg-after-keyword", nil)
			}
			v := p.parseExpr()
			args = append(args, ast.Arg{Value: v})
		}
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	return args
}

func (p *parser) peekIsAssignAfterIdent() bool {
	if p.pos+1 >= len(p.toks) {
		return false
	}
	return p.toks[p.pos+1].Kind == token.ASSIGN
}

func (p *parser) parsePrimary() ast.Expr {
	t := p.cur()
	switch t.Kind {
	case token.INTEGER:
		p.advance()
		v, _ := t.Value.(int64)
		return ast.NewIntLiteral(t.Range, v)
	case token.FLOAT:
		p.advance()
		v, _ := t.Value.(float64)
		return ast.NewFloatLiteral(t.Range, v)
	case token.KW_TRUE:
		p.advance()
		return ast.NewBoolLiteral(t.Range, true)
	case token.KW_FALSE:
		p.advance()
		return ast.NewBoolLiteral(t.Range, false)
	case token.KW_NONE:
		p.advance()
		return ast.NewNoneLiteral(t.Range)
	case token.KW_SELF:
		p.advance()
		return ast.NewSelfExpr(t.Range)
	case token.IDENTIFIER:
		p.advance()
		name, _ := t.Value.(string)
		return ast.NewIdentifier(t.Range, name)
	case token.KW_NEW:
		return p.parseNewCall(nil)
	case token.STRING_BEGIN:
		return p.parseStringLiteral()
	case token.COMMAND_BEGIN:
		return p.parseCommandLiteral()
	case token.LBRACKET:
		return p.parseListLiteral()
	case token.LBRACE:
		return p.parseMapLiteral()
	case token.LPAREN:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RPAREN)
		return e
	default:
		p.errorHere("unexpected-token", map[string]any{"kind": "expression", "found": t.Kind.String()})
		p.advance()
		return ast.NewNoneLiteral(t.Range)
	}
}

func (p *parser) parseNewCall(template ast.Expr) ast.Expr {
	begin := p.cur().Range
	p.expect(token.KW_NEW)
	p.expect(token.LPAREN)
	args := p.parseCallArgs()
	p.expect(token.RPAREN)
	return ast.NewNewExpr(p.rangeFrom(begin), template, args)
}

func (p *parser) parseStringLiteral() ast.Expr {
	begin := p.expect(token.STRING_BEGIN).Range
	parts := p.parseInterpolatedParts(token.STRING_END)
	return ast.NewStringLiteral(p.rangeFrom(begin), parts)
}

func (p *parser) parseCommandLiteral() ast.Expr {
	begin := p.expect(token.COMMAND_BEGIN).Range
	parts := p.parseInterpolatedParts(token.COMMAND_END)
	return ast.NewCommandLiteral(p.rangeFrom(begin), ast.CommandShort, parts)
}

// parseInterpolatedParts consumes TEXT_BODY/DOLLAR_LBRACE...RBRACE-ish
// subtoken runs until the terminating kind is seen. The lexer itself
// consumes the interpolation's closing brace internally (it never emits it
// as a token), so here a DOLLAR_LBRACE is simply followed by an expression
// and then directly by the next TEXT_BODY or the terminator.
func (p *parser) parseInterpolatedParts(end token.Kind) []ast.StringPart {
	var parts []ast.StringPart
	for {
		switch p.cur().Kind {
		case end:
			p.advance()
			return parts
		case token.TEXT_BODY:
			t := p.advance()
			text, _ := t.Value.(string)
			parts = append(parts, ast.TextPart{Text: text})
		case token.DOLLAR_LBRACE:
			p.advance()
			e := p.parseExpr()
			parts = append(parts, ast.InterpPart{Expr: e})
		case token.END_MARKER:
			return parts
		default:
			p.advance()
		}
	}
}

func (p *parser) parseListLiteral() ast.Expr {
	begin := p.expect(token.LBRACKET).Range
	var elems []ast.Expr
	for !p.at(token.RBRACKET) && !p.at(token.END_MARKER) {
		elems = append(elems, p.parseExpr())
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.RBRACKET)
	return ast.NewListLiteral(p.rangeFrom(begin), elems)
}

func (p *parser) parseMapLiteral() ast.Expr {
	begin := p.expect(token.LBRACE).Range
	var entries []ast.MapEntry
	for !p.at(token.RBRACE) && !p.at(token.END_MARKER) {
		k := p.parseExpr()
		p.expect(token.COLON)
		v := p.parseExpr()
		entries = append(entries, ast.MapEntry{Key: k, Value: v})
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.RBRACE)
	return ast.NewMapLiteral(p.rangeFrom(begin), entries)
}
