package analyzer

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/diagnostics"
	"github.com/funvibe/jresolve/internal/symbols"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// Resolver resolves call sites and checks method bodies against a frozen
// catalog. A Resolver holds no per-call state and may be shared by
// goroutines.
type Resolver struct {
	cat    *symbols.Catalog
	opts   config.Options
	logger *slog.Logger
}

// NewResolver creates a resolver over cat using the catalog's options. A nil
// logger means slog.Default().
func NewResolver(cat *symbols.Catalog, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{cat: cat, opts: cat.Options(), logger: logger}
}

// Catalog returns the catalog the resolver works on.
func (r *Resolver) Catalog() *symbols.Catalog { return r.cat }

// Results records what checking a unit found out about its expressions.
type Results struct {
	Types    map[ast.Expression]typesystem.Type
	Calls    map[ast.Expression]*ResolvedMethod // method calls and instance creations
	Lambdas  map[ast.Expression]*FunctionalDescriptor
	Refs     map[ast.Expression]*ResolvedMethod // method reference targets
	Errors   []*ResolutionError
	Warnings []*diagnostics.DiagnosticError
}

func newResults() *Results {
	return &Results{
		Types:   make(map[ast.Expression]typesystem.Type),
		Calls:   make(map[ast.Expression]*ResolvedMethod),
		Lambdas: make(map[ast.Expression]*FunctionalDescriptor),
		Refs:    make(map[ast.Expression]*ResolvedMethod),
	}
}

func (res *Results) merge(o *Results) {
	for k, v := range o.Types {
		res.Types[k] = v
	}
	for k, v := range o.Calls {
		res.Calls[k] = v
	}
	for k, v := range o.Lambdas {
		res.Lambdas[k] = v
	}
	for k, v := range o.Refs {
		res.Refs[k] = v
	}
}

// BuildCatalog declares units in a new catalog with the clash detector
// installed and freezes it.
func BuildCatalog(opts config.Options, units ...*ast.CompilationUnit) (*symbols.Catalog, error) {
	cat := symbols.NewCatalog(opts)
	if err := cat.SetClashDetector(ClashDetector{}); err != nil {
		return nil, err
	}
	for _, u := range units {
		if err := cat.DeclareUnit(u); err != nil {
			return nil, fmt.Errorf("declaring %s: %w", u.File, err)
		}
	}
	if err := cat.Freeze(); err != nil {
		return nil, fmt.Errorf("freezing catalog: %w", err)
	}
	return cat, nil
}

// Resolve selects the method site invokes. The error, when not nil, is a
// *ResolutionError.
func (r *Resolver) Resolve(site *CallSite) (*ResolvedMethod, error) {
	c := r.newChecker(site.From, site.StaticOnly && site.Receiver == nil)
	rm, _, err := c.resolveCall(site, false)
	if err != nil {
		return nil, err
	}
	return rm, nil
}

// CheckLambda checks l against target from inside the type self (nil for
// none). Nothing is reported anywhere; the outcome carries the findings.
func (r *Resolver) CheckLambda(self *symbols.TypeRecord, l *ast.Lambda, target typesystem.Type) *CheckOutcome {
	return r.newChecker(self, false).checkLambda(l, target)
}

// CheckMethodReference checks mr against target from inside the type self.
func (r *Resolver) CheckMethodReference(self *symbols.TypeRecord, mr *ast.MethodReference, target typesystem.Type) *CheckOutcome {
	return r.newChecker(self, false).checkMethodRef(mr, target)
}

// CheckUnit checks the field initializers and method bodies of every type
// declared by unit. Errors and warnings are added to sink, which may be nil.
func (r *Resolver) CheckUnit(unit *ast.CompilationUnit, sink *diagnostics.Collector) *Results {
	start := time.Now()
	res := newResults()
	for _, td := range unit.Types {
		rec, ok := r.cat.Resolve(td.Name)
		if !ok || rec.Decl != td {
			continue
		}
		r.checkType(rec, res)
	}
	if sink != nil {
		for _, err := range res.Errors {
			sink.Add(err.Diagnostic())
		}
		sink.AddAll(res.Warnings)
	}
	r.logger.Debug("unit checked",
		"file", unit.File,
		"types", len(unit.Types),
		"calls", len(res.Calls),
		"errors", len(res.Errors),
		"duration", time.Since(start))
	return res
}

func (r *Resolver) checkType(rec *symbols.TypeRecord, res *Results) {
	for _, f := range rec.Fields {
		if f.Decl == nil || f.Decl.Init == nil {
			continue
		}
		c := r.newChecker(rec, f.IsStatic())
		c.field = f
		c.pushBoundary(nil)
		c.assignTo(f.Decl.Init, f.Type)
		c.popHandler()
		r.collect(c, res)
	}

	methods := make([]*symbols.MethodSignature, 0, len(rec.Methods)+len(rec.Constructors))
	methods = append(methods, rec.Methods...)
	methods = append(methods, rec.Constructors...)
	for _, m := range methods {
		md := m.Node
		if md == nil || md.Body == nil {
			continue
		}
		c := r.newChecker(rec, m.IsStatic())
		for i, p := range md.Params {
			if i < len(m.Params) {
				c.scope.define(p.Name, m.Params[i])
			}
		}
		c.body = &body{ret: m.Return}
		c.pushBoundary(m.Throws)
		c.block(md.Body)
		c.popHandler()
		if !typesystem.IsVoid(m.Return) && ast.CanCompleteNormally(md.Body) {
			c.report(newError(TypeMismatch, md.Token, "This method must return a result of type %s", m.Return))
		}
		r.collect(c, res)
	}
}

func (r *Resolver) collect(c *checker, res *Results) {
	res.merge(c.results)
	res.Errors = append(res.Errors, c.errs...)
	for _, w := range c.warns {
		res.Warnings = append(res.Warnings, w.diagnostic())
	}
}
