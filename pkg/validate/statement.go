package validate

import (
	"strings"

	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
	"github.com/leapstack-labs/sqldoclint/pkg/parser"
	"github.com/leapstack-labs/sqldoclint/pkg/token"
)

// stmtView is a statement's tokens with parenthesis matching precomputed.
type stmtView struct {
	toks  []token.Token
	match []int // index of the matching paren, or -1
}

func newStmtView(toks []token.Token) *stmtView {
	v := &stmtView{toks: toks, match: make([]int, len(toks))}
	var stack []int
	for i, t := range toks {
		v.match[i] = -1
		switch t.Type {
		case token.LPAREN:
			stack = append(stack, i)
		case token.RPAREN:
			if n := len(stack); n > 0 {
				open := stack[n-1]
				stack = stack[:n-1]
				v.match[i], v.match[open] = open, i
			}
		}
	}
	return v
}

func (v *stmtView) at(i int) token.Token {
	if i < 0 || i >= len(v.toks) {
		return token.Token{Type: token.EOF}
	}
	return v.toks[i]
}

// closing returns the index of the paren closing the group opened at i, or
// len(toks) when the group is never closed.
func (v *stmtView) closing(i int) int {
	if m := v.match[i]; m > i {
		return m
	}
	return len(v.toks)
}

// items counts the comma-separated items of the group opened at lp.
func (v *stmtView) items(lp int) int {
	end := v.closing(lp)
	if end == lp+1 {
		return 0
	}
	n := 1
	for k := lp + 1; k < end; k++ {
		switch v.toks[k].Type {
		case token.LPAREN:
			k = v.closing(k)
		case token.COMMA:
			n++
		}
	}
	return n
}

// leading returns the first word of the statement, looking through opening
// parentheses.
func (v *stmtView) leading() (token.Token, bool) {
	for _, t := range v.toks {
		if t.Type == token.LPAREN {
			continue
		}
		return t, t.Word() != ""
	}
	return token.Token{Type: token.EOF}, false
}

// incomplete lists statement keywords that cannot stand alone. SELECT and
// INSERT have dedicated checks.
var incomplete = map[string]bool{
	"UPDATE": true, "DELETE": true, "WITH": true, "VALUES": true,
	"CREATE": true, "ALTER": true, "DROP": true, "TRUNCATE": true,
	"GRANT": true, "REVOKE": true, "MERGE": true, "EXEC": true,
	"EXECUTE": true, "CALL": true, "SHOW": true, "DESCRIBE": true,
	"DESC": true, "USE": true, "COPY": true, "DECLARE": true,
	"PRINT": true, "REPLACE": true, "EXPLAIN": true, "SET": true,
	"FROM": true, "WHERE": true,
}

func (c *checker) checkStatement(stmt parser.Statement) {
	v := newStmtView(stmt.Tokens)

	c.checkBlocks(stmt)
	c.checkLeading(v, stmt)
	c.checkParens(v)
	c.checkCommas(v)
	first := stmt.First()
	if len(v.toks) == 1 && incomplete[first.Word()] {
		c.invalid("incomplete", first.Pos, "%s statement is incomplete", first.Word())
	}
	c.checkQuery(v, 0, len(v.toks))
	c.checkInserts(v)
	if first.Type == token.VALUES {
		c.checkRows(v, 1, -1)
	}
	c.detectConstructs(v)
}

func (c *checker) checkBlocks(stmt parser.Statement) {
	for _, t := range stmt.OpenBlocks {
		if t.Type == token.CASE {
			c.invalid("unclosed-block", t.Pos, "CASE without matching END")
			continue
		}
		c.invalid("unclosed-block", t.Pos, "%s block is never closed with END", strings.ToUpper(t.Literal))
	}
	for _, t := range stmt.Unmatched {
		if t.Pos == stmt.First().Pos && c.def.AcceptsStatement("END") {
			continue
		}
		c.unsupported("unmatched-end", t.Pos, "END without matching BEGIN")
	}
}

// checkLeading verifies the statement keyword is one the dialect accepts.
func (c *checker) checkLeading(v *stmtView, stmt parser.Statement) {
	first, ok := v.leading()
	if !ok {
		c.unsupported("unknown-statement", first.Pos, "unrecognised statement starting with %q", first.Literal)
		return
	}
	w := first.Word()
	if c.def.AcceptsStatement(w) {
		return
	}
	if w == "END" && len(stmt.Unmatched) > 0 {
		return // reported as unmatched
	}

	var others []string
	for _, d := range dialect.List() {
		if d.ID != c.def.ID && d.AcceptsStatement(w) {
			others = append(others, d.Title)
		}
	}
	if len(others) == 0 {
		c.unsupported("unknown-statement", first.Pos, "unrecognised statement %q", first.Literal)
		return
	}
	c.unsupported("statement", first.Pos, "%s statements are not supported by %s (supported by %s)",
		w, c.def.Title, strings.Join(others, ", "))
}

func (c *checker) checkParens(v *stmtView) {
	var unclosed, unopened *token.Token
	for i := range v.toks {
		if v.match[i] >= 0 {
			continue
		}
		switch v.toks[i].Type {
		case token.LPAREN:
			if unclosed == nil {
				unclosed = &v.toks[i]
			}
		case token.RPAREN:
			if unopened == nil {
				unopened = &v.toks[i]
			}
		}
	}
	if unopened != nil {
		c.invalid("unbalanced-paren", unopened.Pos, "unmatched ')'")
	}
	if unclosed != nil {
		c.invalid("unbalanced-paren", unclosed.Pos, "unclosed '('")
	}
}

func (c *checker) checkCommas(v *stmtView) {
	for i, t := range v.toks {
		next := v.at(i + 1)
		switch t.Type {
		case token.COMMA:
			switch {
			case next.Type == token.COMMA:
				c.invalid("comma", next.Pos, "unexpected ',' after ','")
			case next.Type == token.RPAREN:
				c.invalid("comma", t.Pos, "trailing comma before ')'")
			case next.Type == token.EOF || next.Type == token.SEMICOLON:
				c.invalid("comma", t.Pos, "trailing comma at end of statement")
			case isClauseKeyword(next.Type):
				c.invalid("comma", t.Pos, "trailing comma before %s", next.Word())
			}
		case token.LPAREN:
			if next.Type == token.COMMA {
				c.invalid("comma", next.Pos, "unexpected ',' after '('")
			}
		}
	}
}

func isClauseKeyword(t token.TokenType) bool {
	switch t {
	case token.FROM, token.WHERE, token.GROUP, token.HAVING, token.ORDER,
		token.LIMIT, token.UNION, token.INTERSECT, token.EXCEPT, token.WINDOW:
		return true
	}
	return false
}

// endsList reports whether t cannot start a select item or clause operand.
func endsList(t token.Token) bool {
	switch t.Type {
	case token.EOF, token.SEMICOLON, token.RPAREN, token.INTO, token.OFFSET, token.FETCH:
		return true
	}
	return isClauseKeyword(t.Type)
}

// =============================================================================
// SELECT clauses
// =============================================================================

// Clause ranks in the order a query block must list them.
const (
	rankSelect = iota
	rankFrom
	rankWhere
	rankGroup
	rankHaving
	rankWindow
	rankOrder
	rankLimit
)

type selectBlock struct {
	rank int
	last string
}

var selectModifiers = map[string]bool{
	"SQL_CALC_FOUND_ROWS": true, "SQL_NO_CACHE": true, "SQL_CACHE": true,
	"HIGH_PRIORITY": true, "STRAIGHT_JOIN": true, "SQL_SMALL_RESULT": true,
	"SQL_BIG_RESULT": true, "SQL_BUFFER_RESULT": true,
}

// checkQuery walks toks[from:to] at one nesting level, descending into every
// parenthesised group. Clause order is only tracked inside SELECT blocks;
// empty clause checks apply everywhere.
func (c *checker) checkQuery(v *stmtView, from, to int) {
	var (
		blk   *selectBlock
		cases int
	)
	for i := from; i < to; i++ {
		t := v.toks[i]
		switch t.Type {
		case token.LPAREN:
			end := min(v.closing(i), to)
			c.checkQuery(v, i+1, end)
			i = end
		case token.SEMICOLON, token.UNION, token.INTERSECT, token.EXCEPT,
			token.INSERT, token.UPDATE, token.DELETE, token.CREATE,
			token.ALTER, token.DROP, token.BEGIN:
			blk = nil
		case token.CASE:
			if v.at(i-1).Type != token.END {
				cases++
			}
		case token.END:
			if cases > 0 {
				cases--
			} else {
				blk = nil
			}
		case token.SELECT:
			blk = c.startSelect(v, i, to)
		case token.FROM, token.WHERE, token.GROUP, token.HAVING, token.WINDOW,
			token.ORDER, token.LIMIT, token.OFFSET, token.FETCH:
			c.clause(v, blk, i, to)
		case token.IDENT:
			switch t.Word() {
			case "MINUS":
				if n := v.at(i + 1); n.Type == token.SELECT || n.Type == token.LPAREN {
					blk = nil
				}
			case "QUALIFY":
				c.clause(v, blk, i, to)
			}
		}
	}
}

func (c *checker) startSelect(v *stmtView, i, to int) *selectBlock {
	j := i + 1
scan:
	for j < to {
		t := v.toks[j]
		switch {
		case t.Type == token.DISTINCT:
			j++
			if v.at(j).Is("ON") && v.at(j+1).Type == token.LPAREN {
				j = v.closing(j+1) + 1
			}
		case t.Type == token.ALL || selectModifiers[t.Word()]:
			j++
		case t.Is("TOP"):
			j++
			if v.at(j).Type == token.LPAREN {
				j = v.closing(j) + 1
			} else {
				j++
			}
			if v.at(j).Is("PERCENT") {
				j++
			}
			if v.at(j).Type == token.WITH && v.at(j+1).Is("TIES") {
				j += 2
			}
		default:
			break scan
		}
	}
	if j >= to || endsList(v.at(j)) {
		c.invalid("empty-select", v.toks[i].Pos, "SELECT has an empty select list")
	}
	return &selectBlock{rank: rankSelect, last: "SELECT"}
}

func (c *checker) clause(v *stmtView, blk *selectBlock, i, to int) {
	t := v.toks[i]
	name := t.Word()
	next := i + 1
	var rank int

	switch t.Type {
	case token.FROM:
		// IS [NOT] DISTINCT FROM
		if v.at(i-1).Type == token.DISTINCT && (v.at(i-2).Is("IS") || v.at(i-2).Is("NOT")) {
			return
		}
		rank = rankFrom
	case token.WHERE:
		rank = rankWhere
	case token.GROUP, token.ORDER:
		if t.Type == token.GROUP && v.at(i-1).Is("WITHIN") {
			return
		}
		if t.Type == token.ORDER && v.at(next).Is("SIBLINGS") {
			next++
		}
		if v.at(next).Type != token.BY {
			c.invalid("missing-by", t.Pos, "%s must be followed by BY", name)
			return
		}
		next++
		rank = rankGroup
		if t.Type == token.ORDER {
			rank = rankOrder
		}
		name += " BY"
	case token.HAVING:
		rank = rankHaving
	case token.WINDOW, token.IDENT:
		rank = rankWindow
	case token.LIMIT, token.OFFSET:
		rank = rankLimit
	case token.FETCH:
		if n := v.at(next); !n.Is("FIRST") && !n.Is("NEXT") {
			return
		}
		rank = rankLimit
	}

	if next >= to || endsList(v.at(next)) {
		c.invalid("empty-clause", t.Pos, "%s clause is empty", name)
		return
	}
	if blk == nil {
		return
	}
	if rank < blk.rank || (rank == blk.rank && rank != rankLimit) {
		c.invalid("clause-order", t.Pos, "%s cannot follow %s", name, blk.last)
		return
	}
	blk.rank, blk.last = rank, name
}

// =============================================================================
// INSERT
// =============================================================================

// notInsertStatement lists words before INSERT that make it a privilege or
// trigger event rather than a statement.
var notInsertStatement = map[string]bool{
	"AFTER": true, "BEFORE": true, "OR": true, "OF": true, "FOR": true,
	"INSTEAD": true, "GRANT": true, "REVOKE": true, "ON": true,
}

var insertModifiers = map[string]bool{
	"IGNORE": true, "LOW_PRIORITY": true, "DELAYED": true, "HIGH_PRIORITY": true,
}

func (c *checker) checkInserts(v *stmtView) {
	for i, t := range v.toks {
		if t.Type != token.INSERT {
			continue
		}
		prev, next := v.at(i-1), v.at(i+1)
		if notInsertStatement[prev.Word()] || prev.Type == token.COMMA ||
			next.Is("ON") || next.Is("OR") || next.Type == token.COMMA {
			continue
		}
		c.checkInsert(v, i)
	}
}

func (c *checker) checkInsert(v *stmtView, i int) {
	j := i + 1
	for insertModifiers[v.at(j).Word()] {
		j++
	}
	if n := v.at(j); n.Type == token.ALL || n.Is("FIRST") || n.Is("OVERWRITE") {
		return // multi-table and overwrite forms
	}
	if v.at(j).Type == token.INTO {
		j++
	}

	// target name: ident(.ident)* or a table variable
	if t := v.at(j); t.Type == token.IDENT || t.Type == token.VARIABLE {
		j++
		for v.at(j).Type == token.DOT && v.at(j+1).Type == token.IDENT {
			j += 2
		}
	}
	if v.at(j).Type == token.AS && v.at(j+1).Type == token.IDENT {
		j += 2
	}

	cols := -1
	if v.at(j).Type == token.LPAREN {
		if n := v.at(j + 1); n.Type == token.SELECT || n.Type == token.WITH {
			return
		}
		cols = v.items(j)
		j = v.closing(j) + 1
	}

	for ; j < len(v.toks); j++ {
		t := v.toks[j]
		switch {
		case t.Type == token.VALUES || t.Is("VALUE"):
			c.checkRows(v, j+1, cols)
			return
		case t.Type == token.SELECT, t.Type == token.WITH, t.Type == token.LPAREN,
			t.Type == token.SET, t.Is("DEFAULT"), t.Is("EXEC"), t.Is("EXECUTE"), t.Is("TABLE"):
			return
		case t.Type == token.SEMICOLON:
			j = len(v.toks)
		}
	}
	c.invalid("insert", v.toks[i].Pos, "INSERT has no VALUES or SELECT")
}

// checkRows compares the arity of VALUES rows starting at j with cols, or
// with the first row when cols is negative.
func (c *checker) checkRows(v *stmtView, j, cols int) {
	first := -1
	for row := 1; ; row++ {
		if v.at(j).Is("ROW") && v.at(j+1).Type == token.LPAREN {
			j++
		}
		if v.at(j).Type != token.LPAREN {
			return
		}
		n := v.items(j)
		switch {
		case cols > 0 && n > 0 && n != cols:
			c.invalid("insert-arity", v.toks[j].Pos, "row %d has %d values but %d columns are listed", row, n, cols)
			return
		case cols < 0 && first >= 0 && n != first:
			c.invalid("insert-arity", v.toks[j].Pos, "row %d has %d values but row 1 has %d", row, n, first)
			return
		}
		if first < 0 {
			first = n
		}
		j = v.closing(j) + 1
		if v.at(j).Type != token.COMMA {
			return
		}
		j++
	}
}
