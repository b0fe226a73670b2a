package tinybasic

import (
	"fmt"
	"sort"
)

//
// The symbol table.  Tiny BASIC has exactly 26 variables, A
// through Z.  A variable that has never been assigned reads back
// as uninitialized with the 0xDEAD default value, and the
// evaluator faults on the access
//

type SymbolInfo struct {
	Initialized bool
	Value       int
}

type SymbolTable struct {
	variables map[string]SymbolInfo
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{variables: make(map[string]SymbolInfo)}
}

func (st *SymbolTable) Set(name string, value int) {
	st.variables[name] = SymbolInfo{Initialized: true, Value: value}
}

func (st *SymbolTable) Get(name string) SymbolInfo {
	if info, ok := st.variables[name]; ok {
		return info
	}
	return SymbolInfo{Initialized: false, Value: defaultUninitializedValue}
}

//
// Build the display string of initialized variables, six to a
// row, in alphabetical order
//

func (st *SymbolTable) ValuesString() string {
	names := make([]string, 0, len(st.variables))
	for name := range st.variables {
		names = append(names, name)
	}
	sort.Strings(names)

	ret := ""
	for index, name := range names {
		ret += fmt.Sprintf("%s=%-10d", name, st.variables[name].Value)
		if (index+1)%6 == 0 {
			ret += "\n"
		}
	}

	if len(ret) > 1 && ret[len(ret)-1] != '\n' {
		ret += "\n"
	}

	return ret
}
