// Package elaborate builds the instance tree from a compile.CompileDesign
// output: it picks the Definitions never instantiated by another
// Definition as the design's top instances, then recursively clones each
// instantiation site compile recorded into a private uhdm.Instance via
// uhdm.CloneInstance, expanding generate regions into uhdm.GenScope/
// GenScopeArray children along the way.
//
// Grounded on the corpus's own link-graph walk (linker.go discovers a
// file's unresolved imports, then recursively resolves and attaches each
// one, the same "start from roots, clone+attach children" shape this
// package generalizes from compiled files to compiled module instances).
package elaborate

import (
	"sort"
	"strconv"

	"github.com/svfront/svfront/uhdm"
)

// Elaborator turns a compiled uhdm.Design's Definitions into an elaborated
// instance tree rooted at design.TopInstances.
type Elaborator struct {
	design       *uhdm.Design
	ser          *uhdm.Serializer
	instantiated map[string]bool
}

func NewElaborator(design *uhdm.Design) *Elaborator {
	return &Elaborator{design: design, ser: design.Serializer, instantiated: map[string]bool{}}
}

// Elaborate discovers top instances and clones each into design.TopInstances
// in name-sorted order, so two runs over the same Design produce the same
// instance order regardless of Go's randomized map iteration.
func (e *Elaborator) Elaborate() {
	e.markInstantiated()

	var tops []string
	for name, def := range e.design.Definitions {
		if e.instantiated[name] {
			continue
		}
		switch def.Kind() {
		case uhdm.KindModule, uhdm.KindInterface, uhdm.KindProgram, uhdm.KindUdp:
			tops = append(tops, name)
		default:
			// packages, classes, and checkers are never instantiation
			// targets themselves; they are referenced, not elaborated.
		}
	}
	sort.Strings(tops)

	for _, name := range tops {
		def := e.design.Definitions[name]
		inst := e.elaborateInstance(def, def.Name(), nil, nil)
		e.design.TopInstances = append(e.design.TopInstances, inst)
	}
}

// markInstantiated records every Definition name referenced as an
// instantiation target anywhere in the design, including inside generate
// regions, so Elaborate's top-instance discovery skips them.
func (e *Elaborator) markInstantiated() {
	for _, def := range e.design.Definitions {
		for _, site := range def.Instantiations {
			e.instantiated[site.TypeName] = true
		}
		for _, region := range def.GenerateRegions {
			for _, site := range region.Body {
				e.instantiated[site.TypeName] = true
			}
			for _, site := range region.Else {
				e.instantiated[site.TypeName] = true
			}
		}
	}
}

// elaborateInstance clones definition into a fresh Instance under parent
// (nil for a top instance) bound to the resolved parameter overrides, then
// recursively elaborates every instantiation site and generate region the
// definition declares.
func (e *Elaborator) elaborateInstance(definition *uhdm.Definition, name string, parent uhdm.Scope, overrides map[string]*uhdm.Expr) uhdm.Instance {
	inst := uhdm.CloneInstance(e.ser, definition, name, parent, e.resolveParams(definition, overrides))

	for _, site := range definition.Instantiations {
		e.elaborateSite(inst, site)
	}
	for _, region := range definition.GenerateRegions {
		e.elaborateGenerateRegion(inst, region)
	}
	return inst
}

// elaborateSite resolves one pending Instantiation against the design's
// Definitions and, if found, clones a child Instance attached as a named
// scope member of parent so bind's scope-chain walk (and any later
// hierarchy traversal) can reach it by instance name. An instantiation of
// an undeclared module type is silently skipped here: package integrity is
// where an unresolved module reference is reported as a diagnostic, not
// elaborate.
func (e *Elaborator) elaborateSite(parent uhdm.Scope, site *uhdm.Instantiation) {
	def, ok := e.design.Definitions[site.TypeName]
	if !ok {
		return
	}
	child := e.elaborateInstance(def, site.Name, parent, site.ParamOverrides)
	parent.Define(site.Name, child)
}

// elaborateGenerateRegion expands an unexpanded generate-if/generate-for
// template compile recorded into actual GenScope/GenScopeArray children of
// parent.
//
// compile never captures a generate-if's guard expression or a
// generate-for's genvar/bound (svparser discards both via skipExprUntil),
// so there is nothing here to constant-fold against the owning instance's
// parameters yet: a generate-if always takes its Body branch (Else is
// still recorded on the region for when guard-folding is implemented,
// rather than discarded), and a generate-for produces exactly one
// GenScope at index 0 so its Body is still reachable instead of being
// elaborated zero times.
func (e *Elaborator) elaborateGenerateRegion(parent uhdm.Scope, region *uhdm.GenerateRegion) {
	if region.RegionKind() == uhdm.GenerateForKind {
		arr := uhdm.NewGenScopeArray(e.ser, region.Label, parent)
		scope := uhdm.NewGenScope(e.ser, region.Label, arr, 0)
		for _, site := range region.Body {
			e.elaborateSite(scope, site)
		}
		arr.Scopes = append(arr.Scopes, scope)
		parent.Define(region.Label, arr)
		return
	}

	scope := uhdm.NewGenScope(e.ser, region.Label, parent, -1)
	for _, site := range region.Body {
		e.elaborateSite(scope, site)
	}
	parent.Define(region.Label, scope)
}

// resolveParams computes definition's elaborated parameter values: an
// override expression wins when it constant-folds to an integer literal,
// otherwise the parameter's own (possibly still zero-valued, pending a
// default-expression const-fold compile does not yet perform) Value is
// used.
func (e *Elaborator) resolveParams(definition *uhdm.Definition, overrides map[string]*uhdm.Expr) map[string]uhdm.ConstValue {
	params := make(map[string]uhdm.ConstValue, len(definition.Parameters))
	for _, p := range definition.Parameters {
		if expr, ok := overrides[p.Name]; ok {
			if v, ok := foldConstExpr(expr); ok {
				params[p.Name] = v
				continue
			}
		}
		params[p.Name] = p.Value
	}
	return params
}

// foldConstExpr recognizes only a bare integer literal, the one shape
// compile can currently produce for a parameter-override expression; any
// richer expression (arithmetic, a reference to another parameter) is left
// unfolded since compile does not yet build those nodes for override
// expressions.
func foldConstExpr(expr *uhdm.Expr) (uhdm.ConstValue, bool) {
	if expr == nil || expr.ExprKind != uhdm.ExprNumberKind {
		return uhdm.ConstValue{}, false
	}
	n, err := strconv.ParseInt(expr.Text, 0, 64)
	if err != nil {
		return uhdm.ConstValue{}, false
	}
	return uhdm.ConstValue{IsInt: true, Int: n}, true
}
