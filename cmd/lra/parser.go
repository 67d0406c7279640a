package lra

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strings"

	"github.com/lra-engine/solver/internal/rational"
	"github.com/lra-engine/solver/pkg/lra"
)

// statement is one parsed line of the constraint script: lhs OP rhs, where
// OP is one of "<", "<=", "=", ">", ">=".
type statement struct {
	line     int
	lhs, rhs rawExpr
	op       string
}

// rawExpr is a parsed-but-unresolved linear expression: variable names have
// not yet been mapped to VarIDs, since a name's first appearance may be on
// either side of any line.
type rawExpr struct {
	terms []rawTerm
	k     rational.Rational
}

type rawTerm struct {
	coeff rational.Rational
	name  string
}

var (
	commentLine = regexp.MustCompile(`^\s*(#|c\b)`)
	relOp       = regexp.MustCompile(`<=|>=|<|>|=`)
	termPattern = regexp.MustCompile(`^([+-]?\s*\d*\.?\d*)\s*\*?\s*([a-zA-Z_][a-zA-Z0-9_]*)?$`)
)

// parseScript reads a small line-based constraint format from r, one
// relation per line, e.g. "2x + 3y <= 7" or "x = 5", using a hand-rolled
// bufio.Scanner-based line scanner rather than reaching for a
// parser-generator library, since the format here is small and bespoke.
func parseScript(r io.Reader) ([]statement, error) {
	scanner := bufio.NewScanner(r)
	var stmts []statement
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || commentLine.MatchString(line) {
			continue
		}
		stmt, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		stmt.line = lineNo
		stmts = append(stmts, stmt)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading constraint script: %w", err)
	}
	return stmts, nil
}

func parseLine(line string) (statement, error) {
	loc := relOp.FindStringIndex(line)
	if loc == nil {
		return statement{}, fmt.Errorf("no relational operator in %q", line)
	}
	op := line[loc[0]:loc[1]]
	lhs, err := parseExpr(line[:loc[0]])
	if err != nil {
		return statement{}, err
	}
	rhs, err := parseExpr(line[loc[1]:])
	if err != nil {
		return statement{}, err
	}
	return statement{lhs: lhs, rhs: rhs, op: op}, nil
}

func parseExpr(s string) (rawExpr, error) {
	s = strings.ReplaceAll(s, "-", "+-")
	s = strings.TrimPrefix(s, "+")
	expr := rawExpr{k: rational.Zero()}
	for _, piece := range strings.Split(s, "+") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		m := termPattern.FindStringSubmatch(piece)
		if m == nil || (m[1] == "" && m[2] == "") {
			return rawExpr{}, fmt.Errorf("unparseable term %q", piece)
		}
		coeffStr := strings.ReplaceAll(m[1], " ", "")
		name := m[2]
		var coeff rational.Rational
		switch coeffStr {
		case "", "+":
			coeff = rational.One()
		case "-":
			coeff = rational.One().Neg()
		default:
			c, err := decimalToRational(coeffStr)
			if err != nil {
				return rawExpr{}, fmt.Errorf("bad coefficient %q: %w", coeffStr, err)
			}
			coeff = c
		}
		if name == "" {
			expr.k = expr.k.Add(coeff)
		} else {
			expr.terms = append(expr.terms, rawTerm{coeff: coeff, name: name})
		}
	}
	return expr, nil
}

// decimalToRational converts a decimal literal like "-3.25" to the exact
// rational it denotes, by scaling the digits (sans point) over the matching
// power of ten — avoiding any float64 round-trip, since the whole point of
// this solver is exact rational arithmetic.
func decimalToRational(s string) (rational.Rational, error) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	intPart, fracPart, hasPoint := s, "", false
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart, hasPoint = s[:i], s[i+1:], true
	}
	if intPart == "" {
		intPart = "0"
	}
	digits := intPart + fracPart
	num, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return rational.Rational{}, fmt.Errorf("invalid decimal %q", s)
	}
	den := big.NewInt(1)
	if hasPoint {
		den = new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(len(fracPart))), nil)
	}
	r := rational.NewBig(num, den)
	if neg {
		r = r.Neg()
	}
	return r, nil
}

// varTable lazily maps variable names to VarIDs, creating an unbounded
// variable (lb/ub both unbounded) on first mention.
type varTable struct {
	solver *lra.Solver
	ids    map[string]lra.VarID
	order  []string
}

func newVarTable(s *lra.Solver) *varTable {
	return &varTable{solver: s, ids: make(map[string]lra.VarID)}
}

func (t *varTable) resolve(name string) lra.VarID {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := t.solver.Fresh(lra.NegInf(), lra.PosInf())
	t.ids[name] = id
	t.order = append(t.order, name)
	return id
}

func (t *varTable) build(e rawExpr) lra.Expr {
	out := lra.Const(e.k)
	for _, term := range e.terms {
		id := t.resolve(term.name)
		out = out.Add(lra.Var(id).Scale(term.coeff))
	}
	return out
}
