// Package integrity runs the final read-only consistency pass over a
// compiled, elaborated, and bound uhdm.Design, reporting every condition
// left for a human (or a downstream consumer) to act on rather than
// silently tolerating it the way compile/elaborate/bind do at their own
// stage boundaries.
//
// Grounded on the corpus's own post-link consistency pass (the
// unresolved-import and duplicate-symbol checks run once linker.go has
// finished resolving every file): the same "walk the finished graph,
// complain about what never got fixed up" shape, generalized here from an
// import graph to a UHDM design.
//
// None of the uhdm node types carry a source Location (compile never
// threads one through from the fcontent.FileContent tree it reads), so
// every diagnostic below reports reporter.NoLocation; a future compile
// pass that preserves token positions could thread a real Location
// through instead.
package integrity

import (
	"fmt"

	"github.com/svfront/svfront/reporter"
	"github.com/svfront/svfront/uhdm"
)

// Checker runs every consistency rule against a single uhdm.Design.
type Checker struct {
	design *uhdm.Design
}

func NewChecker(design *uhdm.Design) *Checker {
	return &Checker{design: design}
}

// Check reports every violation found into h. It never returns an error
// itself; callers gate on h.Error() the same way every other stage does.
func (c *Checker) Check(h *reporter.Handler) {
	for _, def := range c.design.Definitions {
		c.checkDuplicateMembers(h, def)
		c.checkDuplicateInstanceNames(h, def)
		c.checkInstantiationTargets(h, def)
		c.checkImplicitNets(h, def)
		c.checkBoundReferences(h, def)
	}
	c.checkClassHierarchyCycles(h)
	c.checkTopInstanceFound(h)
}

// checkDuplicateMembers reports a second declaration of the same name
// within one declaration namespace. Ports are checked on their own rather
// than merged with nets/variables: non-ANSI port style declares a port's
// direction in the port list and its storage class as a separate body
// declaration under the same name, so a Port and a Net/Variable sharing a
// name is the normal case, not a collision. Nets and variables do share one
// namespace (a name can't be both); parameters and task/functions are each
// checked within their own namespace.
func (c *Checker) checkDuplicateMembers(h *reporter.Handler, def *uhdm.Definition) {
	report := func(seen map[string]bool, name string) {
		if seen[name] {
			h.Report(reporter.Diagnostic{
				Kind:     reporter.IntegrityCheckDupMember,
				Severity: reporter.Error,
				Message:  fmt.Sprintf("%q: %q already declared in this scope", def.Name(), name),
				Primary:  reporter.NoLocation,
			})
			return
		}
		seen[name] = true
	}

	ports := map[string]bool{}
	for _, p := range def.Ports {
		report(ports, p.Name)
	}

	params := map[string]bool{}
	for _, p := range def.Parameters {
		report(params, p.Name)
	}

	storage := map[string]bool{}
	for _, n := range def.Nets {
		report(storage, n.Name)
	}
	for _, v := range def.Variables {
		report(storage, v.Name)
	}

	taskFuncs := map[string]bool{}
	for _, tf := range def.TaskFuncs {
		report(taskFuncs, tf.Name)
	}
}

// checkDuplicateInstanceNames reports two instantiation sites (whether at
// the Definition's own level or inside a generate region) sharing one
// instance name, which would otherwise silently collapse to one scope
// member when elaborate attaches them by name.
func (c *Checker) checkDuplicateInstanceNames(h *reporter.Handler, def *uhdm.Definition) {
	seen := map[string]bool{}
	report := func(name string) {
		if seen[name] {
			h.Report(reporter.Diagnostic{
				Kind:     reporter.IntegrityCheckDupMember,
				Severity: reporter.Error,
				Message:  fmt.Sprintf("%q: instance name %q used more than once", def.Name(), name),
				Primary:  reporter.NoLocation,
			})
			return
		}
		seen[name] = true
	}
	for _, site := range def.Instantiations {
		report(site.Name)
	}
	for _, region := range def.GenerateRegions {
		for _, site := range region.Body {
			report(site.Name)
		}
		for _, site := range region.Else {
			report(site.Name)
		}
	}
}

// checkInstantiationTargets reports an instantiation naming a module,
// interface, or program that was never compiled into the design.
// elaborate silently skips these sites (they are not its job to report);
// this is where that silence becomes a diagnostic.
func (c *Checker) checkInstantiationTargets(h *reporter.Handler, def *uhdm.Definition) {
	report := func(typeName string) {
		if _, ok := c.design.Definitions[typeName]; ok {
			return
		}
		h.Report(reporter.Diagnostic{
			Kind:     reporter.IntegrityCheckViolation,
			Severity: reporter.Error,
			Message:  fmt.Sprintf("%q: instantiation of undeclared type %q", def.Name(), typeName),
			Primary:  reporter.NoLocation,
		})
	}
	for _, site := range def.Instantiations {
		report(site.TypeName)
	}
	for _, region := range def.GenerateRegions {
		for _, site := range region.Body {
			report(site.TypeName)
		}
		for _, site := range region.Else {
			report(site.TypeName)
		}
	}
}

// checkImplicitNets warns for every net bind synthesized rather than found
// declared, matching the corpus's own "default_nettype none disallows
// this" posture: an implicit net is legal by default but worth flagging.
func (c *Checker) checkImplicitNets(h *reporter.Handler, def *uhdm.Definition) {
	for _, n := range def.Nets {
		if !n.Implicit {
			continue
		}
		h.Report(reporter.Diagnostic{
			Kind:     reporter.ElabIllegalImplicitNet,
			Severity: reporter.Warning,
			Message:  fmt.Sprintf("%q: implicit net %q inferred from an undeclared identifier", def.Name(), n.Name),
			Primary:  reporter.NoLocation,
		})
	}
}

// checkBoundReferences walks every continuous assignment, process body, and
// task/function body in def, reporting any RefObj bind left unresolved and
// any unsupported statement/expression node compile fell back to.
func (c *Checker) checkBoundReferences(h *reporter.Handler, def *uhdm.Definition) {
	for _, ca := range def.ContAssigns {
		c.checkRefObj(h, def, ca.Lhs)
		c.checkExpr(h, def, ca.Rhs)
	}
	for _, p := range def.Processes {
		c.checkStmt(h, def, p.Body)
	}
	for _, tf := range def.TaskFuncs {
		for _, s := range tf.Body {
			c.checkStmt(h, def, s)
		}
	}
}

func (c *Checker) checkRefObj(h *reporter.Handler, def *uhdm.Definition, ref *uhdm.RefObj) {
	if ref == nil {
		return
	}
	if ref.Actual == nil {
		h.Report(reporter.Diagnostic{
			Kind:     reporter.UhdmFailedToBind,
			Severity: reporter.Error,
			Message:  fmt.Sprintf("%q: failed to bind reference %q to a declaration", def.Name(), ref.Name),
			Primary:  reporter.NoLocation,
		})
	}
}

func (c *Checker) checkExpr(h *reporter.Handler, def *uhdm.Definition, expr *uhdm.Expr) {
	if expr == nil {
		return
	}
	if expr.ExprKind == uhdm.ExprUnsupportedKind {
		h.Report(reporter.Diagnostic{
			Kind:     reporter.UhdmUnsupportedType,
			Severity: reporter.Warning,
			Message:  fmt.Sprintf("%q: unsupported expression %q modeled as a raw leaf", def.Name(), expr.Text),
			Primary:  reporter.NoLocation,
		})
	}
	c.checkRefObj(h, def, expr.Ref)
	for _, operand := range expr.Operands {
		c.checkExpr(h, def, operand)
	}
}

func (c *Checker) checkStmt(h *reporter.Handler, def *uhdm.Definition, stmt *uhdm.Stmt) {
	if stmt == nil {
		return
	}
	if stmt.StmtKind == uhdm.StmtUnsupportedKind {
		h.Report(reporter.Diagnostic{
			Kind:     reporter.UhdmUnsupportedStmt,
			Severity: reporter.Warning,
			Message:  fmt.Sprintf("%q: unsupported statement modeled as a raw leaf", def.Name()),
			Primary:  reporter.NoLocation,
		})
	}
	c.checkRefObj(h, def, stmt.Lhs)
	c.checkExpr(h, def, stmt.Rhs)
	c.checkExpr(h, def, stmt.Cond)
	for _, child := range stmt.Children {
		c.checkStmt(h, def, child)
	}
	c.checkStmt(h, def, stmt.Else)
}

// checkClassHierarchyCycles reports a class whose `extends` chain loops
// back on itself, which would otherwise send anything walking
// ClassTypespec.DerivedClasses into an infinite recursion.
func (c *Checker) checkClassHierarchyCycles(h *reporter.Handler) {
	for name, def := range c.design.Definitions {
		if def.Kind() != uhdm.KindClass || def.Extends == "" {
			continue
		}
		visited := map[string]bool{name: true}
		cur := def.Extends
		for cur != "" {
			if visited[cur] {
				h.Report(reporter.Diagnostic{
					Kind:     reporter.IntegrityCheckViolation,
					Severity: reporter.Fatal,
					Message:  fmt.Sprintf("%q: class inheritance cycle through %q", name, cur),
					Primary:  reporter.NoLocation,
				})
				break
			}
			visited[cur] = true
			base, ok := c.design.Definitions[cur]
			if !ok {
				break
			}
			cur = base.Extends
		}
	}
}

// checkTopInstanceFound warns when the design compiled at least one
// instantiable definition but elaborate's top-instance discovery came back
// empty, the usual symptom of every module being mutually instantiated in
// a cycle (no root to elaborate from).
func (c *Checker) checkTopInstanceFound(h *reporter.Handler) {
	if len(c.design.TopInstances) > 0 {
		return
	}
	for _, def := range c.design.Definitions {
		switch def.Kind() {
		case uhdm.KindModule, uhdm.KindInterface, uhdm.KindProgram, uhdm.KindUdp:
			h.Report(reporter.Diagnostic{
				Kind:     reporter.IntegrityCheckViolation,
				Severity: reporter.Warning,
				Message:  "no top-level instance found in design",
				Primary:  reporter.NoLocation,
			})
			return
		}
	}
}
