// Package logfields defines common logging fields which are used across packages
package logfields

const (
	// LogSubsys is the field denoting the subsystem when logging
	LogSubsys = "subsys"

	// Grammar is the start symbol of the grammar being built or parsed
	Grammar = "grammar"

	// State is a parse table state number
	State = "state"

	// Symbol is a terminal or nonterminal name
	Symbol = "symbol"

	// Rule is a production in "LHS: RHS..." form
	Rule = "rule"

	// Resolution is the action chosen for a resolved conflict
	Resolution = "resolution"

	// Context is a scanner context name
	Context = "context"

	// Offset is a byte offset in the parsed input
	Offset = "offset"

	// States is the number of states in a parse table
	States = "states"

	// Conflicts is the number of conflicts found while building a parse table
	Conflicts = "conflicts"
)
