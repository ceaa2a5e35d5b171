package rule

// GetStruct extracts r's shape: a copy of the tree with every Choice,
// Op, and Tree node preserved but every leaf-bearing node (Return, Throw,
// Lift, State, and each Tree Branch's Leaf) collapsed to Empty. Two rules
// with the same struct share the same dispatch skeleton even if they
// produce different values; Trim/Mask use this to separate "shape" from
// "content".
func GetStruct[E any, Pat comparable, Tok any, St any, A any](r *Rule[E, Pat, Tok, St, A]) *Rule[E, Pat, Tok, St, A] {
	if r == nil {
		return Empty[E, Pat, Tok, St, A]()
	}
	switch r.kind {
	case kindReturn, kindThrow, kindLift, kindState:
		return Empty[E, Pat, Tok, St, A]()
	case kindOp:
		return &Rule[E, Pat, Tok, St, A]{
			kind:        kindOp,
			opKind:      r.opKind,
			opBestK:     r.opBestK,
			opPruneKeep: r.opPruneKeep,
			child:       GetStruct(r.child),
		}
	case kindChoice:
		return Choice(GetStruct(r.left), GetStruct(r.right))
	case kindTree:
		return FromTree(structOfTree(r.tree))
	default:
		return Empty[E, Pat, Tok, St, A]()
	}
}

func structOfTree[E any, Pat comparable, Tok any, St any, A any](t *Tree[E, Pat, Tok, St, A]) *Tree[E, Pat, Tok, St, A] {
	if t == nil {
		return nil
	}
	out := NewTree[E, Pat, Tok, St, A]()
	seen := map[Pat]*Branch[E, Pat, Tok, St, A]{}
	copyBranch := func(atom Pat, br *Branch[E, Pat, Tok, St, A]) *Branch[E, Pat, Tok, St, A] {
		if b, ok := seen[atom]; ok {
			return b
		}
		nb := &Branch[E, Pat, Tok, St, A]{order: br.order}
		if br.Leaf != nil {
			nb.Leaf = func([]Tok) *Rule[E, Pat, Tok, St, A] { return Empty[E, Pat, Tok, St, A]() }
		}
		if br.Children != nil {
			nb.Children = structOfTree(br.Children)
		}
		seen[atom] = nb
		return nb
	}
	for atom, br := range t.DF {
		out.DF[atom] = copyBranch(atom, br)
	}
	for atom, br := range t.BF {
		out.BF[atom] = copyBranch(atom, br)
	}
	return out
}

// hasTopLevelAtom reports whether r's tree (if r is a Tree or wraps
// one through Op/Choice) declares a branch for atom anywhere at its top
// dispatch level.
func hasTopLevelAtom[E any, Pat comparable, Tok any, St any, A any](r *Rule[E, Pat, Tok, St, A], atom Pat) (*Branch[E, Pat, Tok, St, A], bool) {
	if r == nil {
		return nil, false
	}
	switch r.kind {
	case kindTree:
		if br, ok := r.tree.DF[atom]; ok {
			return br, true
		}
		if br, ok := r.tree.BF[atom]; ok {
			return br, true
		}
		return nil, false
	case kindOp:
		return hasTopLevelAtom(r.child, atom)
	case kindChoice:
		if br, ok := hasTopLevelAtom(r.left, atom); ok {
			return br, true
		}
		return hasTopLevelAtom(r.right, atom)
	default:
		return nil, false
	}
}

// Mask keeps only the parts of r whose shape also appears in structure
// (as produced by GetStruct), dropping every Tree branch atom that
// structure's skeleton does not declare. Op and Choice wrappers are kept
// as-is around the masked child/children. mask(get_struct(r), r) == r
// since get_struct never removes atoms, only leaf content.
func Mask[E any, Pat comparable, Tok any, St any, A any](structure, r *Rule[E, Pat, Tok, St, A]) *Rule[E, Pat, Tok, St, A] {
	if r == nil {
		return Empty[E, Pat, Tok, St, A]()
	}
	switch r.kind {
	case kindOp:
		return &Rule[E, Pat, Tok, St, A]{
			kind:        kindOp,
			opKind:      r.opKind,
			opBestK:     r.opBestK,
			opPruneKeep: r.opPruneKeep,
			child:       Mask(structOfChild(structure), r.child),
		}
	case kindChoice:
		return Choice(Mask(structureSide(structure, true), r.left), Mask(structureSide(structure, false), r.right))
	case kindTree:
		out := NewTree[E, Pat, Tok, St, A]()
		for atom, br := range r.tree.DF {
			if _, ok := hasTopLevelAtom(structure, atom); ok {
				out.DF[atom] = br
			}
		}
		for atom, br := range r.tree.BF {
			if _, ok := hasTopLevelAtom(structure, atom); ok {
				out.BF[atom] = br
			}
		}
		return FromTree(out)
	default:
		return r
	}
}

func structOfChild[E any, Pat comparable, Tok any, St any, A any](structure *Rule[E, Pat, Tok, St, A]) *Rule[E, Pat, Tok, St, A] {
	if structure == nil || structure.kind != kindOp {
		return structure
	}
	return structure.child
}

func structureSide[E any, Pat comparable, Tok any, St any, A any](structure *Rule[E, Pat, Tok, St, A], left bool) *Rule[E, Pat, Tok, St, A] {
	if structure == nil || structure.kind != kindChoice {
		return structure
	}
	if left {
		return structure.left
	}
	return structure.right
}

// Trim removes from r every part whose shape also appears in structure,
// keeping only what structure's skeleton does NOT declare. It is the
// complement of Mask: trim(get_struct(r), r) == Empty, since get_struct's
// skeleton covers everything r has.
func Trim[E any, Pat comparable, Tok any, St any, A any](structure, r *Rule[E, Pat, Tok, St, A]) *Rule[E, Pat, Tok, St, A] {
	if r == nil {
		return Empty[E, Pat, Tok, St, A]()
	}
	switch r.kind {
	case kindOp:
		return &Rule[E, Pat, Tok, St, A]{
			kind:        kindOp,
			opKind:      r.opKind,
			opBestK:     r.opBestK,
			opPruneKeep: r.opPruneKeep,
			child:       Trim(structOfChild(structure), r.child),
		}
	case kindChoice:
		return Choice(Trim(structureSide(structure, true), r.left), Trim(structureSide(structure, false), r.right))
	case kindTree:
		out := NewTree[E, Pat, Tok, St, A]()
		for atom, br := range r.tree.DF {
			if _, ok := hasTopLevelAtom(structure, atom); !ok {
				out.DF[atom] = br
			}
		}
		for atom, br := range r.tree.BF {
			if _, ok := hasTopLevelAtom(structure, atom); !ok {
				out.BF[atom] = br
			}
		}
		return FromTree(out)
	default:
		return Empty[E, Pat, Tok, St, A]()
	}
}
