package semantic

import "github.com/GriffinCanCode/minic-compiler/pkg/types"

// SymbolTable is a stack of scopes mapping variable names to their declared
// kind. The outermost scope lives for the whole program.
type SymbolTable struct {
	scopes []map[string]types.Kind
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{scopes: []map[string]types.Kind{{}}}
}

func (st *SymbolTable) EnterScope() {
	st.scopes = append(st.scopes, map[string]types.Kind{})
}

// ExitScope pops the innermost scope. The global scope is never popped.
func (st *SymbolTable) ExitScope() {
	if len(st.scopes) > 1 {
		st.scopes = st.scopes[:len(st.scopes)-1]
	}
}

// Depth returns the number of open scopes, 1 at global level
func (st *SymbolTable) Depth() int {
	return len(st.scopes)
}

// Declare adds name to the innermost scope. Shadowing an outer scope is
// allowed; redeclaring within the same scope is not and returns false.
func (st *SymbolTable) Declare(name string, kind types.Kind) bool {
	scope := st.scopes[len(st.scopes)-1]
	if _, ok := scope[name]; ok {
		return false
	}
	scope[name] = kind
	return true
}

// Lookup searches from the innermost scope outward
func (st *SymbolTable) Lookup(name string) (types.Kind, bool) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if kind, ok := st.scopes[i][name]; ok {
			return kind, true
		}
	}
	return types.Unknown, false
}
