// Package axe is the declarative argument-parsing DSL binary modules use to
// declare their functions' call signatures (spec.md §9's Axe sketch,
// supplemented from acaciamc/tools/axe.py's "chop" decorator stack). A
// Chopper replaces the Python source's stacked @arg/@slash/@star
// decorators with one ordered list of Param records built by Pos/PosOrKw/
// KwOnly/StarArgs/Kwds, matched against a call's arguments by Call.
package axe

import (
	"github.com/CBerJun/acacia/pkg/diag"
	"github.com/CBerJun/acacia/pkg/expr"
	"github.com/CBerJun/acacia/pkg/source"
)

// ParamKind distinguishes the five shapes of _BuildingParser's decorator
// stack (arg before/after slash/star, star_arg, kwds).
type ParamKind int

const (
	// KindPosOnly marks a parameter that may only be passed positionally
	// (before axe.slash in the original).
	KindPosOnly ParamKind = iota
	// KindPosOrKw marks a parameter passable either way (the default).
	KindPosOrKw
	// KindKwOnly marks a parameter that may only be passed by name (after
	// axe.star in the original).
	KindKwOnly
	// KindStarArgs collects every excess positional argument into a list
	// (axe.star_arg); at most one per Chopper.
	KindStarArgs
	// KindKwds collects every unrecognized keyword argument into a map
	// (axe.kwds); at most one per Chopper, and it must be last.
	KindKwds
)

// Param is one declared parameter of a binary function signature.
type Param struct {
	Name       string    // the name user code passes by keyword
	Rename     string    // the Go-side result key; defaults to Name
	Kind       ParamKind
	Converter  Converter
	Default    any  // used when HasDefault; ignored for KindStarArgs/KindKwds
	HasDefault bool
}

// Pos declares a position-only parameter.
func Pos(name string, c Converter) Param {
	return Param{Name: name, Rename: name, Kind: KindPosOnly, Converter: c}
}

// PosOrKw declares a parameter passable either positionally or by name.
func PosOrKw(name string, c Converter) Param {
	return Param{Name: name, Rename: name, Kind: KindPosOrKw, Converter: c}
}

// KwOnly declares a keyword-only parameter.
func KwOnly(name string, c Converter) Param {
	return Param{Name: name, Rename: name, Kind: KindKwOnly, Converter: c}
}

// StarArgs declares the single catch-all positional parameter.
func StarArgs(name string, c Converter) Param {
	return Param{Name: name, Rename: name, Kind: KindStarArgs, Converter: c}
}

// Kwds declares the single catch-all keyword parameter.
func Kwds(name string, c Converter) Param {
	return Param{Name: name, Rename: name, Kind: KindKwds, Converter: c}
}

// WithDefault attaches a default value, used when the argument is omitted.
func (p Param) WithDefault(v any) Param {
	p.HasDefault = true
	p.Default = v
	return p
}

// WithRename overrides the Go-side result key.
func (p Param) WithRename(name string) Param {
	p.Rename = name
	return p
}

// Chopper is a built, ready-to-match argument parser (spec.md §9's "small
// matcher"), the Go analogue of _Chopper.
type Chopper struct {
	params    []Param
	posOnly   []Param
	posOrKw   []Param
	kwOnly    []Param
	starArgs  *Param
	kwds      *Param
	maxPos    int
}

// Chop builds a Chopper from an ordered parameter list, mirroring
// _Chopper.__init__'s classification pass over the decorator stack. Panics
// on a malformed declaration (more than one StarArgs/Kwds, a positional
// after Kwds, a duplicate name) since these are host-language programming
// errors in a binary module's own source, not user-facing failures.
func Chop(params ...Param) *Chopper {
	c := &Chopper{params: params}
	seen := map[string]bool{}
	for _, p := range params {
		if seen[p.Name] {
			panic("axe: duplicate argument name " + p.Name)
		}
		seen[p.Name] = true
		if c.kwds != nil && p.Kind != KindKwds {
			panic("axe: parameter " + p.Name + " declared after kwds")
		}
		switch p.Kind {
		case KindPosOnly:
			c.posOnly = append(c.posOnly, p)
		case KindPosOrKw:
			c.posOrKw = append(c.posOrKw, p)
		case KindKwOnly:
			c.kwOnly = append(c.kwOnly, p)
		case KindStarArgs:
			if c.starArgs != nil {
				panic("axe: multiple star-args parameters")
			}
			pp := p
			c.starArgs = &pp
		case KindKwds:
			if c.kwds != nil {
				panic("axe: multiple kwds parameters")
			}
			pp := p
			c.kwds = &pp
		}
	}
	c.maxPos = len(c.posOnly) + len(c.posOrKw)
	return c
}

// namedParams returns every named (non-star, non-kwds) parameter, in the
// order missing-argument checks should run: positional-only, then
// positional-or-keyword, then keyword-only — matching _Chopper's own
// chain(pos_only, pos_n_kw, kw_only) iteration order.
func (c *Chopper) namedParams() []Param {
	out := make([]Param, 0, len(c.posOnly)+len(c.posOrKw)+len(c.kwOnly))
	out = append(out, c.posOnly...)
	out = append(out, c.posOrKw...)
	out = append(out, c.kwOnly...)
	return out
}

func (c *Chopper) kwLookup(name string) (Param, bool) {
	for _, p := range c.posOrKw {
		if p.Name == name {
			return p, true
		}
	}
	for _, p := range c.kwOnly {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

func (c *Chopper) isPosOnlyName(name string) bool {
	for _, p := range c.posOnly {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Call matches a call's positional and keyword arguments against this
// signature, converting each to a Go value keyed by its Rename. On any
// mismatch it reports exactly one diagnostic (spec.md §7's binary-function
// ArgumentError translation; spec.md §9's WRONG_ARG_TYPE/TOO_MANY_ARGS/
// MISSING_ARG/ARG_MULTIPLE_VALUES/UNEXPECTED_KEYWORD_ARG wording) to sink
// at callRange and returns ok=false — mirroring _Chopper.__call__ closely,
// including argument-name bookkeeping for the extra-keywords catch-all.
func (c *Chopper) Call(sink *diag.Sink, callRange source.Range, args []expr.Expr, kwargs map[string]expr.Expr) (map[string]any, bool) {
	res := map[string]any{}
	got := map[string]bool{}

	if len(args) > c.maxPos {
		if c.starArgs == nil {
			sink.Report("too-many-args", callRange, nil)
			return nil, false
		}
		var extra []any
		for i := c.maxPos; i < len(args); i++ {
			v, ok := c.convert(sink, callRange, c.starArgs.Converter, args[i], c.starArgs.Name)
			if !ok {
				return nil, false
			}
			extra = append(extra, v)
		}
		res[c.starArgs.Rename] = extra
		got[c.starArgs.Name] = true
	}
	posParams := append(append([]Param{}, c.posOnly...), c.posOrKw...)
	for i, p := range posParams {
		if i >= len(args) {
			break
		}
		v, ok := c.convert(sink, callRange, p.Converter, args[i], p.Name)
		if !ok {
			return nil, false
		}
		res[p.Rename] = v
		got[p.Name] = true
	}

	extraKwds := map[string]any{}
	for name, val := range kwargs {
		if c.isPosOnlyName(name) {
			sink.Report("unexpected-keyword-arg", callRange, map[string]any{"name": name})
			return nil, false
		}
		p, ok := c.kwLookup(name)
		if !ok {
			if c.kwds == nil {
				sink.Report("unexpected-keyword-arg", callRange, map[string]any{"name": name})
				return nil, false
			}
			v, ok := c.convert(sink, callRange, c.kwds.Converter, val, name)
			if !ok {
				return nil, false
			}
			extraKwds[name] = v
			continue
		}
		if got[name] {
			sink.Report("arg-multiple-values", callRange, map[string]any{"name": name})
			return nil, false
		}
		v, ok := c.convert(sink, callRange, p.Converter, val, name)
		if !ok {
			return nil, false
		}
		res[p.Rename] = v
		got[name] = true
	}
	if len(extraKwds) > 0 {
		res[c.kwds.Rename] = extraKwds
		got[c.kwds.Name] = true
	}

	for _, p := range c.namedParams() {
		if !got[p.Name] {
			if !p.HasDefault {
				sink.Report("missing-arg", callRange, map[string]any{"name": p.Name})
				return nil, false
			}
			res[p.Rename] = p.Default
			got[p.Name] = true
		}
	}
	if c.starArgs != nil && !got[c.starArgs.Name] {
		res[c.starArgs.Rename] = []any(nil)
	}
	if c.kwds != nil && !got[c.kwds.Name] {
		res[c.kwds.Rename] = map[string]any{}
	}
	return res, true
}

func (c *Chopper) convert(sink *diag.Sink, rng source.Range, conv Converter, origin expr.Expr, argName string) (any, bool) {
	v, ok := conv.Convert(origin)
	if !ok {
		sink.Report("wrong-arg-type", rng, map[string]any{
			"name": argName, "expected": conv.ShowName(),
		})
		return nil, false
	}
	return v, true
}
