// Package table builds and holds LALR(1) parse tables.
package table

import (
	"encoding/json"
	"strconv"
)

// ActionKind is the kind of parser action for a (state, terminal) pair.
type ActionKind uint8

const (
	// ErrorAction means the terminal is not expected in the state.
	ErrorAction ActionKind = iota

	// ShiftAction pushes the terminal and moves to Action.Target state.
	ShiftAction

	// ReduceAction reduces by Action.Target production.
	ReduceAction

	// AcceptAction finishes parsing.
	AcceptAction
)

// Action is a parse table entry. Zero value is ErrorAction.
type Action struct {
	Kind   ActionKind
	Target int
}

func (a Action) String() string {
	switch a.Kind {
	case ShiftAction:
		return "s" + strconv.Itoa(a.Target)
	case ReduceAction:
		return "r" + strconv.Itoa(a.Target)
	case AcceptAction:
		return "acc"
	default:
		return ""
	}
}

// Production is a grammar rule with resolved symbols.
// Terminal symbols are numbered from 0 to Table.TerminalCount()-1, the last one is end of input.
// Nonterminal symbols follow terminals: symbol Table.TerminalCount()+i is Table.Nonterms()[i].
type Production struct {
	// Nonterm is the index in Table.Nonterms or -1 for the augmented start production.
	Nonterm int
	Symbols []int
	// Rule is the index in grammar.Grammar.Rules or -1 for the augmented start production.
	Rule int
	// Prec is the precedence level of the production, 0 if none.
	Prec int
}

// Resolution describes a conflict resolved by precedence, associativity, or rule priority.
type Resolution struct {
	State  int
	Symbol string
	Rule   string
	Chosen string
}

// Table is an immutable LALR(1) parse table, it is safe for concurrent use.
type Table struct {
	start       string
	terminals   []string
	nonterms    []string
	productions []Production
	actions     [][]Action
	gotos       [][]int
	resolutions []Resolution
}

// Start returns the start nonterminal.
func (t *Table) Start() string {
	return t.start
}

// Terminals returns terminal names, the last one is the end-of-input marker.
func (t *Table) Terminals() []string {
	return t.terminals
}

func (t *Table) Nonterms() []string {
	return t.nonterms
}

func (t *Table) TerminalCount() int {
	return len(t.terminals)
}

// EofSymbol returns the terminal number of the end-of-input marker.
func (t *Table) EofSymbol() int {
	return len(t.terminals) - 1
}

func (t *Table) IsTerminal(symbol int) bool {
	return symbol >= 0 && symbol < len(t.terminals)
}

// SymbolName returns the name of terminal or nonterminal symbol.
func (t *Table) SymbolName(symbol int) string {
	if t.IsTerminal(symbol) {
		return t.terminals[symbol]
	}
	i := symbol - len(t.terminals)
	if i >= 0 && i < len(t.nonterms) {
		return t.nonterms[i]
	}
	return ""
}

func (t *Table) Productions() []Production {
	return t.productions
}

func (t *Table) Production(i int) Production {
	return t.productions[i]
}

func (t *Table) StateCount() int {
	return len(t.actions)
}

// Action returns the action for the terminal in the state.
func (t *Table) Action(state, terminal int) Action {
	return t.actions[state][terminal]
}

// Goto returns the state after reducing to the nonterminal (index in Nonterms) or -1.
func (t *Table) Goto(state, nonterm int) int {
	return t.gotos[state][nonterm]
}

// Expected returns names of terminals having actions in the state.
func (t *Table) Expected(state int) []string {
	var result []string
	for i, a := range t.actions[state] {
		if a.Kind != ErrorAction {
			result = append(result, t.terminals[i])
		}
	}
	return result
}

// Resolutions returns conflicts resolved while building the table.
func (t *Table) Resolutions() []Resolution {
	return t.resolutions
}

type jsonProduction struct {
	Nonterm string   `json:"nonterm"`
	Symbols []string `json:"symbols"`
	Prec    int      `json:"prec,omitempty"`
}

type jsonState struct {
	Actions map[string]string `json:"actions"`
	Goto    map[string]int    `json:"goto,omitempty"`
}

type jsonTable struct {
	Start       string           `json:"start"`
	Terminals   []string         `json:"terminals"`
	Nonterms    []string         `json:"nonterms"`
	Productions []jsonProduction `json:"productions"`
	States      []jsonState      `json:"states"`
}

func (t *Table) MarshalJSON() ([]byte, error) {
	jt := jsonTable{
		Start:       t.start,
		Terminals:   t.terminals,
		Nonterms:    t.nonterms,
		Productions: make([]jsonProduction, len(t.productions)),
		States:      make([]jsonState, len(t.actions)),
	}

	for i, p := range t.productions {
		jp := jsonProduction{Symbols: make([]string, len(p.Symbols)), Prec: p.Prec}
		if p.Nonterm >= 0 {
			jp.Nonterm = t.nonterms[p.Nonterm]
		}
		for j, s := range p.Symbols {
			jp.Symbols[j] = t.SymbolName(s)
		}
		jt.Productions[i] = jp
	}

	for i := range t.actions {
		js := jsonState{Actions: make(map[string]string)}
		for term, a := range t.actions[i] {
			if a.Kind != ErrorAction {
				js.Actions[t.terminals[term]] = a.String()
			}
		}
		for nt, target := range t.gotos[i] {
			if target >= 0 {
				if js.Goto == nil {
					js.Goto = make(map[string]int)
				}
				js.Goto[t.nonterms[nt]] = target
			}
		}
		jt.States[i] = js
	}

	return json.Marshal(jt)
}
