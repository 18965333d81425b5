package requirements

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/Knetic/govaluate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombosLeaves(t *testing.T) {
	empty, err := Parse("")
	require.NoError(t, err)
	got := Combos(empty)
	require.Len(t, got, 1)
	assert.Empty(t, got[0])

	single, err := Parse("CSC111H1")
	require.NoError(t, err)
	assert.Equal(t, []Combo{{"CSC111H1"}}, Combos(single))
}

func TestCombosAndDedupsUnions(t *testing.T) {
	n, err := Parse("(CSC108H1|CSC148H1)^(CSC108H1|CSC148H1)")
	require.NoError(t, err)

	got := Combos(n)
	want := []Combo{
		{"CSC108H1"},
		{"CSC108H1", "CSC148H1"},
		{"CSC148H1"},
	}
	assert.Equal(t, want, got)
}

func TestCombosOrKeepsDuplicates(t *testing.T) {
	n, err := Parse("CSC108H1|CSC108H1")
	require.NoError(t, err)
	assert.Equal(t, []Combo{{"CSC108H1"}, {"CSC108H1"}}, Combos(n))
}

func TestCombosMixed(t *testing.T) {
	n, err := Parse("CSC108H1^CSC148H1|CSC150H1")
	require.NoError(t, err)
	assert.Equal(t, []Combo{
		{"CSC108H1", "CSC148H1"},
		{"CSC108H1", "CSC150H1"},
	}, Combos(n))
}

func TestCombosLimit(t *testing.T) {
	n, err := Parse("(AAA100H1|AAA101H1|AAA102H1)^(BBB100H1|BBB101H1|BBB102H1)")
	require.NoError(t, err)

	_, err = CombosLimit(n, 4)
	assert.ErrorIs(t, err, ErrTooManyCombos)

	got, err := CombosLimit(n, 9)
	require.NoError(t, err)
	assert.Len(t, got, 9)
}

func TestComboSetOperations(t *testing.T) {
	a := NewCombo("MAT137Y1", "CSC108H1", "CSC108H1")
	assert.Equal(t, Combo{"CSC108H1", "MAT137Y1"}, a)
	assert.True(t, a.Contains("MAT137Y1"))
	assert.False(t, a.Contains("CSC148H1"))

	u := a.Union(NewCombo("CSC148H1", "MAT137Y1"))
	assert.Equal(t, Combo{"CSC108H1", "CSC148H1", "MAT137Y1"}, u)
	assert.True(t, a.SubsetOf(u.Set()))
	assert.False(t, u.SubsetOf(a.Set()))
	assert.Equal(t, "{CSC108H1,CSC148H1,MAT137Y1}", u.String())
}

// Every combo must satisfy the tree it came from. The check runs both the
// package evaluator and govaluate over the fully bracketed rendering.
func TestCombosAreSound(t *testing.T) {
	rng := rand.New(rand.NewSource(111))
	pool := []string{"CSC108H1", "CSC148H1", "CSC165H1", "MAT137Y1", "MAT135H1", "STA130H1", "CSC207H1"}

	for i := 0; i < 300; i++ {
		expr := randomExpr(rng, pool, 4)
		n, err := Parse(expr)
		require.NoError(t, err, expr)

		oracle, err := govaluate.NewEvaluableExpression(toBoolExpr(n))
		require.NoError(t, err, expr)

		for _, c := range Combos(n) {
			set := c.Set()
			assert.True(t, Evaluate(n, set), "%s with %s", expr, c)

			params := make(map[string]interface{}, len(pool))
			for _, code := range Leaves(n) {
				params[code] = set[code]
			}
			got, err := oracle.Evaluate(params)
			require.NoError(t, err)
			assert.Equal(t, true, got, "%s with %s", expr, c)
		}
	}
}

func randomExpr(rng *rand.Rand, pool []string, depth int) string {
	if depth == 0 || rng.Intn(3) == 0 {
		return pool[rng.Intn(len(pool))]
	}
	op := "^"
	if rng.Intn(2) == 0 {
		op = "|"
	}
	expr := randomExpr(rng, pool, depth-1) + op + randomExpr(rng, pool, depth-1)
	if rng.Intn(2) == 0 {
		expr = "(" + expr + ")"
	}
	return expr
}

func toBoolExpr(n *Node) string {
	switch n.Op {
	case OpAnd:
		return "(" + toBoolExpr(n.Left) + " && " + toBoolExpr(n.Right) + ")"
	case OpOr:
		return "(" + toBoolExpr(n.Left) + " || " + toBoolExpr(n.Right) + ")"
	default:
		if n.Text == "" {
			return "true"
		}
		return strings.TrimSpace(n.Text)
	}
}
