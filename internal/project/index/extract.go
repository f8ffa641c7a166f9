package index

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/ast"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/filekind"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/lang"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/scanner"
)

// selfNames never count as identifier occurrences; they are scope keywords,
// not bindings.
var selfNames = map[string]bool{"self": true, "other": true, "global": true}

// ExtractSource builds a fragment from a parsed source file.
//
// Scope rules follow GML: `var` is function-scoped (blocks do not open
// scopes), object event files share one instance scope per object, and bare
// assignments declare instance variables in event files. Bare assignments
// inside script function bodies write fields of whatever instance invokes
// the function; those are recorded as member occurrences and resolved
// softly, since their owner cannot be known statically.
func ExtractSource(info scanner.FileInfo, f *ast.File) *Fragment {
	frag := &Fragment{
		Path:        info.Path,
		Kind:        info.Kind,
		Fingerprint: info.Fingerprint,
		Status:      ParseOK,
	}
	ex := &extractor{frag: frag}

	root := &scopeFrame{index: FragRootScope, locals: map[string]bool{}}
	ex.frames = []*scopeFrame{root}
	if info.Kind == filekind.KindObjectEvent {
		// The event body is function-like: locals declared here are
		// invisible to other events of the same object.
		ex.pushScope(ScopeLocal, eventName(info.Path))
	}

	for _, stmt := range f.Stmts {
		ex.stmt(stmt)
	}
	return frag
}

// FailedFragment records a file whose parse failed. It contributes zero
// occurrences but keeps the failure visible in the index.
func FailedFragment(info scanner.FileInfo, reason error) *Fragment {
	return &Fragment{
		Path:        info.Path,
		Kind:        info.Kind,
		Fingerprint: info.Fingerprint,
		Status:      ParseFailed,
		FailReason:  reason.Error(),
	}
}

// eventName derives the event name from an event file path
// (objects/obj_player/Step_0.gml -> Step_0).
func eventName(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

// ObjectOf returns the owning object name of an object event path
// (objects/obj_player/Step_0.gml -> obj_player), or "" if the path does not
// look like an event file.
func ObjectOf(p string) string {
	parts := strings.Split(path.Clean(p), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "objects" {
			return parts[i+1]
		}
	}
	return ""
}

type scopeFrame struct {
	index  int
	locals map[string]bool
}

type extractor struct {
	frag   *Fragment
	frames []*scopeFrame
}

func (ex *extractor) current() *scopeFrame { return ex.frames[len(ex.frames)-1] }

func (ex *extractor) pushScope(kind ScopeKind, name string) int {
	ex.frag.Scopes = append(ex.frag.Scopes, FragmentScope{
		Kind:   kind,
		Parent: ex.current().index,
		Name:   name,
	})
	idx := len(ex.frag.Scopes) - 1
	ex.frames = append(ex.frames, &scopeFrame{index: idx, locals: map[string]bool{}})
	return idx
}

func (ex *extractor) popScope() {
	ex.frames = ex.frames[:len(ex.frames)-1]
}

// localVisible reports whether name is a var/parameter binding visible from
// the current frame.
func (ex *extractor) localVisible(name string) bool {
	for i := len(ex.frames) - 1; i >= 0; i-- {
		if ex.frames[i].locals[name] {
			return true
		}
	}
	return false
}

func (ex *extractor) emit(o FragmentOccurrence) {
	ex.frag.Occurrences = append(ex.frag.Occurrences, o)
}

func (ex *extractor) declare(id *ast.Ident, cat Category, qualifier string) {
	ex.emit(FragmentOccurrence{
		Name:      id.Name,
		Kind:      Declaration,
		Scope:     ex.current().index,
		Category:  cat,
		Qualifier: qualifier,
		Range:     id.Where,
	})
}

func (ex *extractor) stmt(s ast.Stmt) {
	switch v := s.(type) {
	case *ast.VarDecl:
		for i, name := range v.Names {
			ex.declare(name, CategoryLocal, "")
			ex.current().locals[name.Name] = true
			if i < len(v.Values) && v.Values[i] != nil {
				ex.expr(v.Values[i])
			}
		}

	case *ast.GlobalVarDecl:
		for _, name := range v.Names {
			ex.declare(name, CategoryGlobal, "global")
		}

	case *ast.MacroDecl:
		ex.declare(v.Name, CategoryMacro, "global")

	case *ast.EnumDecl:
		ex.declare(v.Name, CategoryEnum, "global")
		ex.frag.Scopes = append(ex.frag.Scopes, FragmentScope{
			Kind:   ScopeEnum,
			Parent: FragGlobalScope,
			Name:   v.Name.Name,
		})
		enumScope := len(ex.frag.Scopes) - 1
		for _, m := range v.Members {
			ex.emit(FragmentOccurrence{
				Name:     m.Name.Name,
				Kind:     Declaration,
				Scope:    enumScope,
				Category: CategoryEnumMember,
				Range:    m.Name.Where,
			})
			if m.Value != nil {
				ex.expr(m.Value)
			}
		}

	case *ast.FuncDecl:
		ex.declare(v.Name, CategoryFunction, "")
		ex.pushScope(ScopeLocal, v.Name.Name)
		ex.params(v.Params)
		for _, stmt := range v.Body.Stmts {
			ex.stmt(stmt)
		}
		ex.popScope()

	case *ast.Block:
		// Blocks do not open scopes in GML; var stays function-scoped.
		for _, stmt := range v.Stmts {
			ex.stmt(stmt)
		}

	case *ast.AssignStmt:
		ex.assignTarget(v.Target)
		ex.expr(v.Value)

	case *ast.ExprStmt:
		ex.expr(v.X)

	case *ast.IfStmt:
		ex.expr(v.Cond)
		ex.stmt(v.Then)
		if v.Else != nil {
			ex.stmt(v.Else)
		}

	case *ast.LoopStmt:
		if v.Init != nil {
			ex.stmt(v.Init)
		}
		if v.Cond != nil {
			ex.expr(v.Cond)
		}
		if v.Post != nil {
			ex.stmt(v.Post)
		}
		ex.stmt(v.Body)

	case *ast.SwitchStmt:
		ex.expr(v.Tag)
		for _, c := range v.Cases {
			if c.Value != nil {
				ex.expr(c.Value)
			}
			for _, stmt := range c.Body {
				ex.stmt(stmt)
			}
		}

	case *ast.ReturnStmt:
		if v.Value != nil {
			ex.expr(v.Value)
		}
	}
}

// assignTarget classifies the left-hand side of an assignment.
func (ex *extractor) assignTarget(target ast.Expr) {
	switch t := target.(type) {
	case *ast.Ident:
		if selfNames[t.Name] {
			return
		}
		if ex.localVisible(t.Name) {
			ex.reference(t)
			return
		}
		if lang.IsReserved(t.Name) {
			// Writes to builtin variables like sprite_index or x never
			// declare anything.
			ex.reference(t)
			return
		}
		switch {
		case ex.frag.Kind == filekind.KindObjectEvent:
			// Instance variable of the owning object, declared on first
			// write. The accumulator places FragRootScope occurrences in
			// the object's instance scope.
			ex.emit(FragmentOccurrence{
				Name:     t.Name,
				Kind:     Declaration,
				Scope:    FragRootScope,
				Category: CategoryInstance,
				Range:    t.Where,
			})
		case ex.current().index == FragRootScope:
			// Top-level assignment in a script runs at global init time.
			ex.emit(FragmentOccurrence{
				Name:      t.Name,
				Kind:      Declaration,
				Scope:     FragRootScope,
				Category:  CategoryGlobal,
				Qualifier: "global",
				Range:     t.Where,
			})
		default:
			// Self-field write inside a script function; owner unknown.
			ex.member(t, "")
		}

	case *ast.SelectorExpr:
		if base, ok := t.X.(*ast.Ident); ok && base.Name == "global" {
			ex.emit(FragmentOccurrence{
				Name:      t.Sel.Name,
				Kind:      Declaration,
				Scope:     FragRootScope,
				Category:  CategoryGlobal,
				Qualifier: "global",
				Range:     t.Sel.Where,
			})
			return
		}
		ex.expr(t.X)
		ex.memberOf(t)

	case *ast.IndexExpr:
		ex.expr(t.X)
		for _, idx := range t.Indices {
			ex.expr(idx)
		}

	default:
		ex.expr(target)
	}
}

func (ex *extractor) params(params []ast.Param) {
	for _, p := range params {
		ex.declare(p.Name, CategoryParameter, "")
		ex.current().locals[p.Name.Name] = true
		if p.Default != nil {
			ex.expr(p.Default)
		}
	}
}

func (ex *extractor) reference(id *ast.Ident) {
	ex.emit(FragmentOccurrence{
		Name:  id.Name,
		Kind:  Reference,
		Scope: ex.current().index,
		Range: id.Where,
	})
}

// member emits a member-access occurrence: a field read/write through a
// value. Qualifier carries the base identifier when there is one (State in
// State.Idle), which lets enum member references resolve; everything else
// resolves softly.
func (ex *extractor) member(id *ast.Ident, qualifier string) {
	if qualifier == "" {
		qualifier = "?"
	}
	ex.emit(FragmentOccurrence{
		Name:      id.Name,
		Kind:      Reference,
		Scope:     ex.current().index,
		Qualifier: qualifier,
		Range:     id.Where,
	})
}

func (ex *extractor) memberOf(sel *ast.SelectorExpr) {
	qualifier := ""
	if base, ok := sel.X.(*ast.Ident); ok {
		qualifier = base.Name
	}
	ex.member(sel.Sel, qualifier)
}

func (ex *extractor) expr(e ast.Expr) {
	switch v := e.(type) {
	case *ast.Ident:
		if selfNames[v.Name] {
			return
		}
		ex.reference(v)

	case *ast.SelectorExpr:
		if base, ok := v.X.(*ast.Ident); ok && base.Name == "global" {
			ex.emit(FragmentOccurrence{
				Name:      v.Sel.Name,
				Kind:      Reference,
				Scope:     ex.current().index,
				Qualifier: "global",
				Range:     v.Sel.Where,
			})
			return
		}
		ex.expr(v.X)
		ex.memberOf(v)

	case *ast.FuncLit:
		ex.pushScope(ScopeLocal, "")
		ex.params(v.Params)
		for _, stmt := range v.Body.Stmts {
			ex.stmt(stmt)
		}
		ex.popScope()

	case *ast.CallExpr:
		ex.expr(v.Fun)
		for _, a := range v.Args {
			ex.expr(a)
		}

	case *ast.IndexExpr:
		ex.expr(v.X)
		for _, idx := range v.Indices {
			ex.expr(idx)
		}

	case *ast.BinaryExpr:
		ex.expr(v.X)
		ex.expr(v.Y)

	case *ast.UnaryExpr:
		ex.expr(v.X)

	case *ast.TernaryExpr:
		ex.expr(v.Cond)
		ex.expr(v.Then)
		ex.expr(v.Else)

	case *ast.ParenExpr:
		ex.expr(v.X)

	case *ast.ArrayLit:
		for _, el := range v.Elems {
			ex.expr(el)
		}

	case *ast.StructLit:
		for _, val := range v.Values {
			ex.expr(val)
		}
	}
}

// manifest shapes: the subset of the GameMaker .yyp/.yy JSON the indexer
// needs.

type projectManifest struct {
	Resources []struct {
		ID struct {
			Name string `json:"name"`
			Path string `json:"path"`
		} `json:"id"`
	} `json:"resources"`
}

type resourceManifest struct {
	Name         string `json:"name"`
	ResourceType string `json:"resourceType"`
}

var resourceTypeCategories = map[string]ResourceCategory{
	"GMSprite":  ResourceSprite,
	"GMObject":  ResourceObject,
	"GMSound":   ResourceSound,
	"GMRoom":    ResourceRoom,
	"GMScript":  ResourceScript,
	"GMFont":    ResourceFont,
	"GMTileSet": ResourceTileset,
	"GMPath":    ResourcePath,
	"GMShader":  ResourceShader,
}

var resourceDirCategories = map[string]ResourceCategory{
	"sprites":  ResourceSprite,
	"objects":  ResourceObject,
	"sounds":   ResourceSound,
	"rooms":    ResourceRoom,
	"scripts":  ResourceScript,
	"fonts":    ResourceFont,
	"tilesets": ResourceTileset,
	"paths":    ResourcePath,
	"shaders":  ResourceShader,
}

// ExtractManifest builds a fragment from a .yyp or .yy JSON manifest.
// Malformed JSON is a per-file parse failure, not a build failure.
func ExtractManifest(info scanner.FileInfo, data []byte) *Fragment {
	frag := &Fragment{
		Path:        info.Path,
		Kind:        info.Kind,
		Fingerprint: info.Fingerprint,
		Status:      ParseOK,
	}

	switch info.Kind {
	case filekind.KindProject:
		var m projectManifest
		if err := decodeManifest(data, &m); err != nil {
			return FailedFragment(info, err)
		}
		for _, r := range m.Resources {
			if r.ID.Name == "" {
				continue
			}
			frag.Resources = append(frag.Resources, FragmentResource{
				Name:     r.ID.Name,
				Category: categoryForPath(r.ID.Path),
			})
		}

	case filekind.KindResourceManifest:
		var m resourceManifest
		if err := decodeManifest(data, &m); err != nil {
			return FailedFragment(info, err)
		}
		if m.Name != "" {
			cat, ok := resourceTypeCategories[m.ResourceType]
			if !ok {
				cat = categoryForPath(info.Path)
			}
			frag.Resources = append(frag.Resources, FragmentResource{
				Name:     m.Name,
				Category: cat,
			})
		}

	default:
		return FailedFragment(info, fmt.Errorf("not a manifest kind: %s", info.Kind))
	}
	return frag
}

// decodeManifest tolerates the trailing commas GameMaker writes into its
// JSON by stripping them before decoding.
func decodeManifest(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err == nil {
		return nil
	}
	cleaned := stripTrailingCommas(data)
	if err := json.Unmarshal(cleaned, v); err != nil {
		return fmt.Errorf("decoding manifest: %w", err)
	}
	return nil
}

// stripTrailingCommas removes ",}" / ",]" sequences outside string literals.
func stripTrailingCommas(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString := false
	escaped := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out = append(out, c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(data) && (data[j] == ' ' || data[j] == '\t' || data[j] == '\n' || data[j] == '\r') {
				j++
			}
			if j < len(data) && (data[j] == '}' || data[j] == ']') {
				continue // drop the comma
			}
		}
		out = append(out, c)
	}
	return out
}

func categoryForPath(p string) ResourceCategory {
	parts := strings.Split(filepathToSlash(p), "/")
	if len(parts) > 0 {
		if cat, ok := resourceDirCategories[parts[0]]; ok {
			return cat
		}
	}
	return ResourceOther
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
