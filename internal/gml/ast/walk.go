package ast

// Walk traverses the tree rooted at n in depth-first source order, calling fn
// for each node. If fn returns false, the node's children are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch v := n.(type) {
	case *File:
		for _, s := range v.Stmts {
			Walk(s, fn)
		}

	case *VarDecl:
		for i, name := range v.Names {
			Walk(name, fn)
			if i < len(v.Values) && v.Values[i] != nil {
				Walk(v.Values[i], fn)
			}
		}

	case *GlobalVarDecl:
		for _, name := range v.Names {
			Walk(name, fn)
		}

	case *MacroDecl:
		Walk(v.Name, fn)

	case *EnumDecl:
		Walk(v.Name, fn)
		for _, m := range v.Members {
			Walk(m.Name, fn)
			if m.Value != nil {
				Walk(m.Value, fn)
			}
		}

	case *FuncDecl:
		Walk(v.Name, fn)
		walkParams(v.Params, fn)
		Walk(v.Body, fn)

	case *FuncLit:
		walkParams(v.Params, fn)
		Walk(v.Body, fn)

	case *Block:
		for _, s := range v.Stmts {
			Walk(s, fn)
		}

	case *AssignStmt:
		Walk(v.Target, fn)
		Walk(v.Value, fn)

	case *ExprStmt:
		Walk(v.X, fn)

	case *IfStmt:
		Walk(v.Cond, fn)
		Walk(v.Then, fn)
		if v.Else != nil {
			Walk(v.Else, fn)
		}

	case *LoopStmt:
		if v.Init != nil {
			Walk(v.Init, fn)
		}
		if v.Cond != nil {
			Walk(v.Cond, fn)
		}
		if v.Post != nil {
			Walk(v.Post, fn)
		}
		Walk(v.Body, fn)

	case *SwitchStmt:
		Walk(v.Tag, fn)
		for _, c := range v.Cases {
			if c.Value != nil {
				Walk(c.Value, fn)
			}
			for _, s := range c.Body {
				Walk(s, fn)
			}
		}

	case *ReturnStmt:
		if v.Value != nil {
			Walk(v.Value, fn)
		}

	case *SelectorExpr:
		Walk(v.X, fn)
		Walk(v.Sel, fn)

	case *IndexExpr:
		Walk(v.X, fn)
		for _, idx := range v.Indices {
			Walk(idx, fn)
		}

	case *CallExpr:
		Walk(v.Fun, fn)
		for _, a := range v.Args {
			Walk(a, fn)
		}

	case *BinaryExpr:
		Walk(v.X, fn)
		Walk(v.Y, fn)

	case *UnaryExpr:
		Walk(v.X, fn)

	case *TernaryExpr:
		Walk(v.Cond, fn)
		Walk(v.Then, fn)
		Walk(v.Else, fn)

	case *ParenExpr:
		Walk(v.X, fn)

	case *ArrayLit:
		for _, e := range v.Elems {
			Walk(e, fn)
		}

	case *StructLit:
		for _, e := range v.Values {
			Walk(e, fn)
		}
	}
}

func walkParams(params []Param, fn func(Node) bool) {
	for _, p := range params {
		Walk(p.Name, fn)
		if p.Default != nil {
			Walk(p.Default, fn)
		}
	}
}
