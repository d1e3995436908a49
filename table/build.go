package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ava12/playlang"
	"github.com/ava12/playlang/grammar"
	"github.com/ava12/playlang/internal/ints"
	"github.com/ava12/playlang/internal/logging"
	"github.com/ava12/playlang/internal/logging/logfields"
	"github.com/ava12/playlang/internal/queue"
	"github.com/ava12/playlang/lexer"
)

var log = logging.DefaultLogger.WithField(logfields.LogSubsys, "table")

// Error codes used by Build:
const (
	// ConflictError indicates conflicts not resolved by precedence, associativity, or rule priority.
	ConflictError = playlang.GrammarErrors + 40 + iota

	// UnreachableError indicates nonterminals not derivable from the start symbol.
	UnreachableError

	// UnproductiveError indicates nonterminals deriving no finite terminal string.
	UnproductiveError

	// DiscardedTokenError indicates a rule using a token that is never delivered to the parser.
	DiscardedTokenError
)

// Option configures Build.
type Option func(*builder)

// WithLogger sets the logger for conflict resolution reports.
func WithLogger(l *logrus.Entry) Option {
	return func(b *builder) {
		b.log = l
	}
}

type item struct {
	prod, dot int
}

type state struct {
	kernel []item
	index  map[item]int
	la     []*ints.Set
	next   map[int]int
}

type precLevel struct {
	level int
	assoc grammar.Assoc
}

type builder struct {
	g         *grammar.Grammar
	log       *logrus.Entry
	t         *Table
	nt        int
	symbols   map[string]int
	prodsOf   [][]int
	nullable  []bool
	first     []*ints.Set
	prec      map[string]precLevel
	states    []*state
	keys      map[string]int
	conflicts []string
}

// Build validates g and constructs its LALR(1) table.
// All unresolved conflicts are reported in a single ConflictError.
// Building is deterministic: the same grammar always yields the same table.
func Build(g *grammar.Grammar, opts ...Option) (*Table, error) {
	e := g.Validate()
	if e != nil {
		return nil, e
	}

	b := &builder{g: g, log: log}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.WithField(logfields.Grammar, g.Start)

	b.init()
	e = b.check()
	if e != nil {
		return nil, e
	}

	b.computeFirst()
	b.buildStates()
	b.propagate()
	e = b.buildActions()
	if e != nil {
		return nil, e
	}

	b.log.WithFields(logrus.Fields{
		logfields.States:    len(b.t.actions),
		logfields.Conflicts: len(b.t.resolutions),
	}).Debug("parse table built")
	return b.t, nil
}

func (b *builder) init() {
	g := b.g
	t := &Table{start: g.Start}
	b.t = t
	b.symbols = make(map[string]int)
	for i, tok := range g.Tokens {
		t.terminals = append(t.terminals, tok.Name)
		b.symbols[tok.Name] = i
	}
	t.terminals = append(t.terminals, lexer.EofTokenName)
	b.nt = len(t.terminals)

	t.nonterms = g.Nonterms()
	for i, name := range t.nonterms {
		b.symbols[name] = b.nt + i
	}

	b.prec = make(map[string]precLevel)
	for i, p := range g.Precedence {
		for _, s := range p.Symbols {
			b.prec[s] = precLevel{i + 1, p.Assoc}
		}
	}

	b.prodsOf = make([][]int, len(t.nonterms))
	t.productions = []Production{{Nonterm: -1, Symbols: []int{b.symbols[g.Start]}, Rule: -1}}
	for ri, r := range g.Rules {
		p := Production{
			Nonterm: b.symbols[r.Nonterm] - b.nt,
			Symbols: make([]int, len(r.Symbols)),
			Rule:    ri,
			Prec:    b.rulePrec(r),
		}
		for i, s := range r.Symbols {
			p.Symbols[i] = b.symbols[s]
		}
		b.prodsOf[p.Nonterm] = append(b.prodsOf[p.Nonterm], len(t.productions))
		t.productions = append(t.productions, p)
	}
}

func (b *builder) rulePrec(r grammar.Rule) int {
	if r.Precedence != "" {
		return b.prec[r.Precedence].level
	}

	for i := len(r.Symbols) - 1; i >= 0; i-- {
		if b.symbols[r.Symbols[i]] >= b.nt {
			continue
		}
		if p, found := b.prec[r.Symbols[i]]; found {
			return p.level
		}
	}
	return 0
}

func (b *builder) check() error {
	var discarded []string
	for _, r := range b.g.Rules {
		for _, s := range r.Symbols {
			i := b.symbols[s]
			if i < b.nt && b.g.Tokens[i].Flags&grammar.DiscardToken != 0 {
				discarded = append(discarded, fmt.Sprintf("%q in %q", s, r.String()))
			}
		}
	}
	if len(discarded) > 0 {
		return playlang.FormatError(DiscardedTokenError, "discarded tokens used in rules: %s", strings.Join(discarded, ", "))
	}

	reachable := make([]bool, len(b.t.nonterms))
	start := b.symbols[b.g.Start] - b.nt
	reachable[start] = true
	q := queue.New(start)
	for !q.IsEmpty() {
		nt, _ := q.First()
		for _, pi := range b.prodsOf[nt] {
			for _, s := range b.t.productions[pi].Symbols {
				if s >= b.nt && !reachable[s-b.nt] {
					reachable[s-b.nt] = true
					q.Append(s - b.nt)
				}
			}
		}
	}
	if names := b.nontermsWithout(reachable); len(names) > 0 {
		return playlang.FormatError(UnreachableError, "unreachable nonterminals: %s", strings.Join(names, ", "))
	}

	productive := make([]bool, len(b.t.nonterms))
	for changed := true; changed; {
		changed = false
		for _, p := range b.t.productions[1:] {
			if productive[p.Nonterm] {
				continue
			}
			valid := true
			for _, s := range p.Symbols {
				if s >= b.nt && !productive[s-b.nt] {
					valid = false
					break
				}
			}
			if valid {
				productive[p.Nonterm] = true
				changed = true
			}
		}
	}
	if names := b.nontermsWithout(productive); len(names) > 0 {
		return playlang.FormatError(UnproductiveError, "unproductive nonterminals: %s", strings.Join(names, ", "))
	}

	return nil
}

func (b *builder) nontermsWithout(flags []bool) []string {
	var result []string
	for i, f := range flags {
		if !f {
			result = append(result, b.t.nonterms[i])
		}
	}
	return result
}

func (b *builder) computeFirst() {
	n := len(b.t.nonterms)
	b.nullable = make([]bool, n)
	b.first = make([]*ints.Set, n)
	for i := range b.first {
		b.first[i] = ints.NewSet()
	}

	for changed := true; changed; {
		changed = false
		for _, p := range b.t.productions[1:] {
			f := b.first[p.Nonterm]
			nullable := true
			for _, s := range p.Symbols {
				if s < b.nt {
					if !f.Contains(s) {
						f.Add(s)
						changed = true
					}
					nullable = false
					break
				}

				if f.Union(b.first[s-b.nt]) {
					changed = true
				}
				if !b.nullable[s-b.nt] {
					nullable = false
					break
				}
			}
			if nullable && !b.nullable[p.Nonterm] {
				b.nullable[p.Nonterm] = true
				changed = true
			}
		}
	}
}

// firstOf returns FIRST(symbols) followed by la if symbols are nullable.
func (b *builder) firstOf(symbols []int, la *ints.Set) *ints.Set {
	result := ints.NewSet()
	for _, s := range symbols {
		if s < b.nt {
			return result.Add(s)
		}
		result.Union(b.first[s-b.nt])
		if !b.nullable[s-b.nt] {
			return result
		}
	}
	result.Union(la)
	return result
}

func (b *builder) addState(kernel []item) int {
	sort.Slice(kernel, func(i, j int) bool {
		if kernel[i].prod != kernel[j].prod {
			return kernel[i].prod < kernel[j].prod
		}
		return kernel[i].dot < kernel[j].dot
	})
	var sb strings.Builder
	for _, it := range kernel {
		fmt.Fprintf(&sb, "%d.%d ", it.prod, it.dot)
	}
	key := sb.String()
	if i, found := b.keys[key]; found {
		return i
	}

	st := &state{
		kernel: kernel,
		index:  make(map[item]int, len(kernel)),
		la:     make([]*ints.Set, len(kernel)),
		next:   make(map[int]int),
	}
	for i, it := range kernel {
		st.index[it] = i
		st.la[i] = ints.NewSet()
	}
	b.keys[key] = len(b.states)
	b.states = append(b.states, st)
	return len(b.states) - 1
}

func (b *builder) closure0(kernel []item) []item {
	result := append([]item(nil), kernel...)
	added := make([]bool, len(b.t.nonterms))
	for i := 0; i < len(result); i++ {
		it := result[i]
		p := b.t.productions[it.prod]
		if it.dot >= len(p.Symbols) || p.Symbols[it.dot] < b.nt {
			continue
		}

		nt := p.Symbols[it.dot] - b.nt
		if added[nt] {
			continue
		}
		added[nt] = true
		for _, pi := range b.prodsOf[nt] {
			result = append(result, item{pi, 0})
		}
	}
	return result
}

func (b *builder) buildStates() {
	b.keys = make(map[string]int)
	b.addState([]item{{0, 0}})
	for si := 0; si < len(b.states); si++ {
		st := b.states[si]
		groups := make(map[int][]item)
		var syms []int
		for _, it := range b.closure0(st.kernel) {
			p := b.t.productions[it.prod]
			if it.dot >= len(p.Symbols) {
				continue
			}
			s := p.Symbols[it.dot]
			if _, found := groups[s]; !found {
				syms = append(syms, s)
			}
			groups[s] = append(groups[s], item{it.prod, it.dot + 1})
		}

		sort.Ints(syms)
		for _, s := range syms {
			st.next[s] = b.addState(groups[s])
		}
	}
}

// closure1 returns LR(1) closure of state kernel with current lookaheads.
func (b *builder) closure1(st *state) ([]item, []*ints.Set) {
	items := append([]item(nil), st.kernel...)
	las := make([]*ints.Set, len(items))
	index := make(map[item]int, len(items))
	work := queue.New[int]()
	for i, it := range items {
		las[i] = st.la[i].Copy()
		index[it] = i
		work.Append(i)
	}

	for !work.IsEmpty() {
		i, _ := work.First()
		it := items[i]
		p := b.t.productions[it.prod]
		if it.dot >= len(p.Symbols) || p.Symbols[it.dot] < b.nt {
			continue
		}

		la := b.firstOf(p.Symbols[it.dot+1:], las[i])
		for _, pi := range b.prodsOf[p.Symbols[it.dot]-b.nt] {
			ni := item{pi, 0}
			j, found := index[ni]
			if !found {
				index[ni] = len(items)
				items = append(items, ni)
				las = append(las, la.Copy())
				work.Append(len(items) - 1)
			} else if las[j].Union(la) {
				work.Append(j)
			}
		}
	}

	return items, las
}

func (b *builder) propagate() {
	b.states[0].la[0].Add(b.t.EofSymbol())
	queued := make([]bool, len(b.states))
	work := queue.New(0)
	queued[0] = true

	for !work.IsEmpty() {
		si, _ := work.First()
		queued[si] = false
		st := b.states[si]
		items, las := b.closure1(st)
		for k, it := range items {
			p := b.t.productions[it.prod]
			if it.dot >= len(p.Symbols) {
				continue
			}

			ti := st.next[p.Symbols[it.dot]]
			target := b.states[ti]
			if target.la[target.index[item{it.prod, it.dot + 1}]].Union(las[k]) && !queued[ti] {
				queued[ti] = true
				work.Append(ti)
			}
		}
	}
}

func (b *builder) ruleString(prod int) string {
	if prod == 0 {
		return "-start-: " + b.g.Start
	}
	return b.g.Rules[b.t.productions[prod].Rule].String()
}

func (b *builder) buildActions() error {
	t := b.t
	t.actions = make([][]Action, len(b.states))
	t.gotos = make([][]int, len(b.states))

	for si, st := range b.states {
		row := make([]Action, b.nt)
		gotoRow := make([]int, len(t.nonterms))
		for i := range gotoRow {
			gotoRow[i] = -1
		}
		for s, target := range st.next {
			if s < b.nt {
				row[s] = Action{ShiftAction, target}
			} else {
				gotoRow[s-b.nt] = target
			}
		}

		reduces := make([][]int, b.nt)
		items, las := b.closure1(st)
		for k, it := range items {
			if it.dot < len(t.productions[it.prod].Symbols) {
				continue
			}
			for _, term := range las[k].ToSlice() {
				reduces[term] = append(reduces[term], it.prod)
			}
		}
		for term, prods := range reduces {
			if len(prods) > 0 {
				b.resolve(si, term, row, prods)
			}
		}

		t.actions[si] = row
		t.gotos[si] = gotoRow
	}

	if len(b.conflicts) > 0 {
		return playlang.FormatError(ConflictError, "%d unresolved conflict(s):\n%s", len(b.conflicts), strings.Join(b.conflicts, "\n"))
	}
	return nil
}

func (b *builder) resolve(si, term int, row []Action, prods []int) {
	p := prods[0]
	for _, q := range prods[1:] {
		p = b.reduceReduce(si, term, p, q)
		if p < 0 {
			return
		}
	}

	switch {
	case p == 0:
		row[term] = Action{AcceptAction, 0}
	case row[term].Kind == ShiftAction:
		b.shiftReduce(si, term, row, p)
	default:
		row[term] = Action{ReduceAction, p}
	}
}

func (b *builder) reduceReduce(si, term, p, q int) int {
	if p != 0 && q != 0 {
		pp := b.g.Rules[b.t.productions[p].Rule].Priority
		qp := b.g.Rules[b.t.productions[q].Rule].Priority
		if pp != qp {
			winner, loser := p, q
			if qp > pp {
				winner, loser = q, p
			}
			b.resolved(si, term, loser, "reduce "+b.ruleString(winner))
			return winner
		}
	}

	b.conflict(si, term, "reduce/reduce conflict between %q and %q", b.ruleString(p), b.ruleString(q))
	return -1
}

func (b *builder) shiftReduce(si, term int, row []Action, p int) {
	name := b.t.terminals[term]
	tp, found := b.prec[name]
	rp := b.t.productions[p].Prec
	if !found || rp == 0 {
		b.conflict(si, term, "shift/reduce conflict between shift and %q", b.ruleString(p))
		return
	}

	shift := tp.level > rp
	if tp.level == rp {
		switch tp.assoc {
		case grammar.Left:
			shift = false
		case grammar.Right:
			shift = true
		default:
			b.conflict(si, term, "non-associative %s conflicts with %q", name, b.ruleString(p))
			return
		}
	}

	if shift {
		b.resolved(si, term, p, "shift")
	} else {
		row[term] = Action{ReduceAction, p}
		b.resolved(si, term, p, "reduce")
	}
}

func (b *builder) resolved(si, term, prod int, chosen string) {
	r := Resolution{si, b.t.terminals[term], b.ruleString(prod), chosen}
	b.t.resolutions = append(b.t.resolutions, r)
	b.log.WithFields(logrus.Fields{
		logfields.State:      r.State,
		logfields.Symbol:     r.Symbol,
		logfields.Rule:       r.Rule,
		logfields.Resolution: r.Chosen,
	}).Debug("conflict resolved")
}

func (b *builder) conflict(si, term int, msg string, params ...any) {
	msg = fmt.Sprintf("state %d, symbol %s: ", si, b.t.terminals[term]) + fmt.Sprintf(msg, params...)
	b.conflicts = append(b.conflicts, msg)
	b.log.WithFields(logrus.Fields{
		logfields.State:  si,
		logfields.Symbol: b.t.terminals[term],
	}).Warn(msg)
}
