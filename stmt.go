package tinybasic

import (
	"github.com/danswartzendruber/avl"
)

//
// The stored program, an AVL tree keyed by line number.  These
// wrappers hide the AVL interface from the interpreter code.
// Sequential execution and LIST need in-order traversal, and the
// run loop needs "next line after this one" lookups after every
// statement, which is exactly what the in-order iteration gives
// us
//

type programLine struct {
	avl    avl.AvlNode
	number int
	source string
	stmt   Node
}

type programStore struct {
	root  *avl.AvlNode
	count int
}

// An empty tree is a nil root.
func newProgramStore() *programStore {
	return &programStore{}
}

func cmpLineKey(key any, node any) int {
	return cmpLineNumbers(key.(int), node.(*programLine).number)
}

func cmpLineNodes(node1, node2 any) int {
	return cmpLineNumbers(node1.(*programLine).number,
		node2.(*programLine).number)
}

func cmpLineNumbers(item1, item2 int) int {
	if item1 < item2 {
		return -1
	} else if item1 > item2 {
		return 1
	}
	return 0
}

func (ps *programStore) lookup(number int) *programLine {
	p := avl.AvlTreeLookup(ps.root, number, cmpLineKey)
	if p != nil {
		return p.(*programLine)
	}
	return nil
}

func (ps *programStore) has(number int) bool {
	return ps.lookup(number) != nil
}

//
// Insert a line, replacing any line already stored under the
// same number
//

func (ps *programStore) insert(number int, source string, stmt Node) {
	if existing := ps.lookup(number); existing != nil {
		ps.remove(existing.number)
	}

	line := &programLine{number: number, source: source, stmt: stmt}
	p := avl.AvlTreeInsert(&ps.root, &line.avl, line, cmpLineNodes)
	if p != nil {
		// Cannot happen, the duplicate was just removed.
		return
	}
	ps.count++
}

func (ps *programStore) remove(number int) bool {
	line := ps.lookup(number)
	if line == nil {
		return false
	}
	avl.AvlTreeRemove(&ps.root, &line.avl)
	ps.count--
	return true
}

func (ps *programStore) first() *programLine {
	p := avl.AvlTreeFirstInOrder(ps.root)
	if p != nil {
		return p.(*programLine)
	}
	return nil
}

//
// The line following the given one in line number order, or nil
// when the given line is the last
//

func (ps *programStore) next(number int) *programLine {
	line := ps.lookup(number)
	if line == nil {
		return nil
	}
	p := avl.AvlTreeNextInOrder(&line.avl)
	if p != nil {
		return p.(*programLine)
	}
	return nil
}

func (ps *programStore) len() int {
	return ps.count
}

func (ps *programStore) clear() {
	ps.root = nil
	ps.count = 0
}

// each walks the program in line number order.
func (ps *programStore) each(fn func(*programLine)) {
	for line := ps.first(); line != nil; line = ps.next(line.number) {
		fn(line)
	}
}
