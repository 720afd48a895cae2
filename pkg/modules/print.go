package modules

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/CBerJun/acacia/pkg/cmds"
	"github.com/CBerJun/acacia/pkg/expr"
	"github.com/CBerJun/acacia/pkg/modules/axe"
	"github.com/CBerJun/acacia/pkg/source"
)

func init() {
	Register("print", buildPrint)
}

const (
	titleMode     = "title"
	subtitleMode  = "subtitle"
	actionbarMode = "actionbar"
	defFadeIn     = 10
	defStayTime   = 70
	defFadeOut    = 20
)

func buildPrint(ctx *Context) (*Module, error) {
	return &Module{Attrs: map[string]any{
		"format":      &BinaryFunc{Chopper: formatChopper, Call: printFormat},
		"tell":        &BinaryFunc{Chopper: tellChopper, Call: printTell},
		"title":       &BinaryFunc{Chopper: titleChopper, Call: printTitle},
		"title_clear": &BinaryFunc{Chopper: titleClearChopper, Call: printTitleClear},
		"TITLE":       &expr.StringLiteral{Value: titleMode},
		"SUBTITLE":    &expr.StringLiteral{Value: subtitleMode},
		"ACTIONBAR":   &expr.StringLiteral{Value: actionbarMode},
	}}, nil
}

// rawtextPart is one element of a `tellraw`/`titleraw` JSON array: either
// {"text": ...} or {"score": {"name": ..., "objective": ...}}, matching
// print.py's _FStrParser.add_text/add_score output shape.
type rawtextPart struct {
	Text  string           `json:"text,omitempty"`
	Score *rawtextPartScore `json:"score,omitempty"`
}

type rawtextPartScore struct {
	Name      string `json:"name"`
	Objective string `json:"objective"`
}

// FStringVal is Acacia's "fstring" — a rawtext template resolved at
// compile time into a JSON array plus the commands (if any) needed to
// populate its scoreboard-backed parts before it is printed (print.py's
// FString). Concatenation is immutable, matching print.py's __add__
// returning a deep copy rather than mutating either operand.
type FStringVal struct {
	Deps []cmds.Command
	Json []rawtextPart
}

var fstringType = expr.NewBrandType(expr.BrandStr)

func (f *FStringVal) DataType() *expr.DataType { return fstringType }
func (f *FStringVal) Export(expr.Storable, *cmds.FunctionsManager) []cmds.Command {
	panic("modules: FStringVal has no backing scoreboard slot")
}

// ExportJSON renders this fstring's `{"rawtext": [...]}` payload.
func (f *FStringVal) ExportJSON() string {
	type rawtext struct {
		Rawtext []rawtextPart `json:"rawtext"`
	}
	data, _ := json.Marshal(rawtext{Rawtext: f.Json})
	return string(data)
}

func (f *FStringVal) addText(text string) {
	if n := len(f.Json); n > 0 && f.Json[n-1].Text != "" {
		f.Json[n-1].Text += text
		return
	}
	f.Json = append(f.Json, rawtextPart{Text: text})
}

// Concat implements `+` between two fstrings, or an fstring and a plain
// string literal, mirroring print.py's FString.__add__/__radd__.
func (f *FStringVal) Concat(rhs expr.Expr) (*FStringVal, error) {
	out := &FStringVal{Deps: append([]cmds.Command{}, f.Deps...), Json: append([]rawtextPart{}, f.Json...)}
	switch r := rhs.(type) {
	case *expr.StringLiteral:
		out.addText(r.Value)
	case *FStringVal:
		out.Deps = append(out.Deps, r.Deps...)
		out.Json = append(out.Json, r.Json...)
	default:
		return nil, &expr.OpError{Op: expr.OpAdd, LHSType: fstringType, RHSType: rhs.DataType()}
	}
	return out, nil
}

// buildFString parses a printf-style pattern against positional/keyword
// arguments into an FStringVal (print.py's _FStrParser.parse): `%%` is a
// literal percent, `%{name}` looks up args[name] (decimal) or kwargs[name],
// and `%0`..`%9` is shorthand for `%{0}`..`%{9}`.
func buildFString(m *cmds.FunctionsManager, pattern string, args []expr.Expr, kwargs map[string]expr.Expr) (*FStringVal, string) {
	out := &FStringVal{}
	runes := []rune(pattern)
	i := 0
	next := func() (rune, bool) {
		if i >= len(runes) {
			return 0, false
		}
		r := runes[i]
		i++
		return r, true
	}
	lookup := func(name string) (expr.Expr, string) {
		if n, err := strconv.Atoi(name); err == nil {
			if n < 0 || n >= len(args) {
				return nil, "format index out of range: " + name
			}
			return args[n], ""
		}
		if v, ok := kwargs[name]; ok {
			return v, ""
		}
		return nil, "invalid format expression: " + name
	}
	addExpr := func(e expr.Expr) string {
		switch v := e.(type) {
		case *expr.IntLiteral:
			out.addText(strconv.FormatInt(int64(v.Value), 10))
		case *expr.BoolLiteral:
			if v.Value {
				out.addText("1")
			} else {
				out.addText("0")
			}
		case *expr.IntVar:
			out.Json = append(out.Json, rawtextPart{Score: &rawtextPartScore{Name: v.Slot.Target, Objective: v.Slot.Objective}})
		case *expr.BoolVar:
			out.Json = append(out.Json, rawtextPart{Score: &rawtextPartScore{Name: v.Slot.Target, Objective: v.Slot.Objective}})
		default:
			slot, setup := materializeInt(m, e)
			out.Deps = append(out.Deps, setup...)
			out.Json = append(out.Json, rawtextPart{Score: &rawtextPartScore{Name: slot.Target, Objective: slot.Objective}})
		}
		return ""
	}
	for {
		c, ok := next()
		if !ok {
			break
		}
		if c != '%' {
			out.addText(string(c))
			continue
		}
		peek, ok := next()
		switch {
		case !ok:
			out.addText("%")
		case peek == '%':
			out.addText("%")
		case peek == '{':
			var sb strings.Builder
			for {
				ch, ok := next()
				if !ok {
					return nil, "unclosed \"{\" in format pattern"
				}
				if ch == '}' {
					break
				}
				sb.WriteRune(ch)
			}
			e, errMsg := lookup(sb.String())
			if errMsg != "" {
				return nil, errMsg
			}
			if errMsg := addExpr(e); errMsg != "" {
				return nil, errMsg
			}
		case peek >= '0' && peek <= '9':
			e, errMsg := lookup(string(peek))
			if errMsg != "" {
				return nil, errMsg
			}
			if errMsg := addExpr(e); errMsg != "" {
				return nil, errMsg
			}
		default:
			out.addText("%" + string(peek))
		}
	}
	return out, ""
}

var formatChopper = axe.Chop(
	axe.Pos("_pattern", axe.LiteralString{}),
	axe.StarArgs("args", axe.AnyValue{}),
	axe.Kwds("kwargs", axe.AnyValue{}),
)

func printFormat(ctx *Context, rng source.Range, args map[string]any) (expr.Expr, []cmds.Command, bool) {
	pattern := args["_pattern"].(string)
	rawArgs, _ := args["args"].([]any)
	fargs := make([]expr.Expr, len(rawArgs))
	for i, a := range rawArgs {
		fargs[i] = a.(expr.Expr)
	}
	rawKwargs, _ := args["kwargs"].(map[string]any)
	fkwargs := make(map[string]expr.Expr, len(rawKwargs))
	for k, v := range rawKwargs {
		fkwargs[k] = v.(expr.Expr)
	}
	fstr, errMsg := buildFString(ctx.M, pattern, fargs, fkwargs)
	if errMsg != "" {
		ArgError(ctx, rng, "_pattern", errMsg)
		return nil, nil, false
	}
	return fstr, nil, true
}

// asFString coerces a str|fstring argument into an FStringVal, matching
// print.py's "convert str to fstring" step in _tell/_title.
func asFString(text expr.Expr) *FStringVal {
	switch v := text.(type) {
	case *FStringVal:
		return v
	case *expr.StringLiteral:
		return &FStringVal{Json: []rawtextPart{{Text: v.Value}}}
	default:
		return &FStringVal{}
	}
}

// strOrFString accepts either a plain string literal or an FStringVal:
// both carry the BrandStr brand (print.py keeps them as distinct Python
// classes but Acacia's type system only has one "str" brand), so a single
// Typed check on that brand covers both without a dedicated union.
var strOrFString = axe.Typed{Type: expr.NewBrandType(expr.BrandStr)}

var tellChopper = axe.Chop(
	axe.PosOrKw("text", strOrFString),
	axe.PosOrKw("target", axe.LiteralString{}).WithDefault("@a"),
)

// printTell is `tell(text: str|fstring, target: str = "@a")` (print.py's
// _tell), backed by `tellraw`.
func printTell(ctx *Context, rng source.Range, args map[string]any) (expr.Expr, []cmds.Command, bool) {
	fstr := asFString(args["text"].(expr.Expr))
	target := args["target"].(string)
	out := append([]cmds.Command{}, fstr.Deps...)
	out = append(out, &cmds.RawtextOutput{Selector: target, JSON: fstr.ExportJSON()})
	return &expr.NoneLiteral{}, out, true
}

var titleChopper = axe.Chop(
	axe.PosOrKw("text", strOrFString),
	axe.PosOrKw("target", axe.LiteralString{}).WithDefault("@a"),
	axe.PosOrKw("mode", axe.LiteralString{}).WithDefault(titleMode),
	axe.PosOrKw("fade_in", axe.LiteralInt{}).WithDefault(int32(defFadeIn)),
	axe.PosOrKw("stay_time", axe.LiteralInt{}).WithDefault(int32(defStayTime)),
	axe.PosOrKw("fade_out", axe.LiteralInt{}).WithDefault(int32(defFadeOut)),
)

// printTitle is `title(...)` (print.py's _title), backed by `titleraw`;
// the times/reset bracketing commands are only emitted when the caller's
// config differs from the Minecraft default, matching the original.
func printTitle(ctx *Context, rng source.Range, args map[string]any) (expr.Expr, []cmds.Command, bool) {
	fstr := asFString(args["text"].(expr.Expr))
	target := args["target"].(string)
	mode := args["mode"].(string)
	fadeIn := args["fade_in"].(int32)
	stayTime := args["stay_time"].(int32)
	fadeOut := args["fade_out"].(int32)

	var action cmds.TitlerawAction
	switch mode {
	case titleMode:
		action = cmds.TitleTitle
	case subtitleMode:
		action = cmds.TitleSubtitle
	case actionbarMode:
		action = cmds.TitleActionbar
	default:
		ArgError(ctx, rng, "mode", "invalid mode: "+mode)
		return nil, nil, false
	}

	isDefault := fadeIn == defFadeIn && stayTime == defStayTime && fadeOut == defFadeOut
	var out []cmds.Command
	if !isDefault {
		out = append(out, &cmds.TitlerawOutput{Selector: target, Action: cmds.TitleTimes, FadeIn: fadeIn, Stay: stayTime, FadeOut: fadeOut})
	}
	out = append(out, fstr.Deps...)
	out = append(out, &cmds.TitlerawOutput{Selector: target, Action: action, JSON: fstr.ExportJSON()})
	if !isDefault {
		out = append(out, &cmds.TitlerawOutput{Selector: target, Action: cmds.TitleReset})
	}
	return &expr.NoneLiteral{}, out, true
}

var titleClearChopper = axe.Chop(
	axe.PosOrKw("target", axe.LiteralString{}).WithDefault("@a"),
)

func printTitleClear(ctx *Context, rng source.Range, args map[string]any) (expr.Expr, []cmds.Command, bool) {
	target := args["target"].(string)
	return &expr.NoneLiteral{}, []cmds.Command{&cmds.TitlerawOutput{Selector: target, Action: cmds.TitleClear}}, true
}
