package courses

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-planner/internal/catalog"
	"course-planner/internal/requirements"
)

const dataset = `[
  {"course code": "CSC108H1", "course name": "Introduction to Computer Programming", "breadth": "The Physical and Mathematical Universes (5)", "prerequisites": "", "exclusions": "CSC110Y1|CSC148H1"},
  {"course code": "CSC148H1", "course name": "Introduction to Computer Science", "prerequisites": "CSC108H1"},
  {"course code": "MAT137Y1", "prerequisites": ""},
  {"course code": "CSC236H1", "prerequisites": "CSC148H1^(MAT137Y1|MAT157Y1)", "corequisites": "CSC207H1"},
  {"course code": "CSC369H1", "prerequisites": "CSC209H1^(CSC263H1"}
]`

type staticSource struct{ cat *catalog.Catalog }

func (s staticSource) Catalog(context.Context) (*catalog.Catalog, error) { return s.cat, nil }

func newService(t *testing.T) *Service {
	t.Helper()
	cat, err := catalog.Load([]byte(dataset), catalog.BuildOptions{})
	require.NoError(t, err)
	return &Service{Source: staticSource{cat: cat}}
}

func TestCourseLookup(t *testing.T) {
	svc := newService(t)

	c, err := svc.Course(context.Background(), " csc236h1")
	require.NoError(t, err)
	assert.Equal(t, "CSC236H1", c.Code)
	assert.Equal(t, 0.5, c.CreditValue)
	assert.Equal(t, 1, c.Duration)
	assert.Equal(t, []requirements.Combo{{"CSC148H1", "MAT137Y1"}, {"CSC148H1", "MAT157Y1"}}, c.Prerequisites)
	assert.Equal(t, []requirements.Combo{{"CSC207H1"}}, c.Corequisites)
	assert.Equal(t, []string{"MAT157Y1"}, c.Unresolved)
	assert.Empty(t, c.Issues)
	assert.NotEmpty(t, c.CatalogVersion)

	c, err = svc.Course(context.Background(), "MAT137Y1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.CreditValue)
	assert.Equal(t, 2, c.Duration)

	c, err = svc.Course(context.Background(), "CSC108H1")
	require.NoError(t, err)
	assert.Equal(t, "Introduction to Computer Programming", c.Name)
	assert.Equal(t, []requirements.Combo{{"CSC110Y1"}, {"CSC148H1"}}, c.Exclusions)
}

func TestCourseLookupReportsIssues(t *testing.T) {
	svc := newService(t)
	c, err := svc.Course(context.Background(), "CSC369H1")
	require.NoError(t, err)
	assert.Empty(t, c.Prerequisites)
	require.Len(t, c.Issues, 1)
	assert.Equal(t, "prerequisites", c.Issues[0].Field)
}

func TestCourseLookupErrors(t *testing.T) {
	svc := newService(t)
	_, err := svc.Course(context.Background(), "CSC1")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Course(context.Background(), "CSC999H1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInspect(t *testing.T) {
	svc := newService(t)

	in, err := svc.Inspect(context.Background(), InspectRequest{
		Requirement: "CSC148H1^^(MAT137Y1|MAT157Y1)",
		Completed:   []string{"csc148h1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "CSC148H1^(MAT137Y1|MAT157Y1)", in.Normalized)
	assert.Equal(t, "CSC148H1^(MAT137Y1|MAT157Y1)", in.Tree)
	assert.Equal(t, []string{"CSC148H1", "MAT137Y1", "MAT157Y1"}, in.Leaves)
	assert.Len(t, in.Combos, 2)
	assert.Equal(t, []string{"MAT157Y1"}, in.Unresolved)
	require.NotNil(t, in.Satisfied)
	assert.False(t, *in.Satisfied)
	assert.Equal(t, []string{"MAT137Y1"}, in.Remaining)

	in, err = svc.Inspect(context.Background(), InspectRequest{
		Requirement: "CSC148H1|MAT137Y1",
		Completed:   []string{"MAT137Y1"},
	})
	require.NoError(t, err)
	require.NotNil(t, in.Satisfied)
	assert.True(t, *in.Satisfied)
	assert.Nil(t, in.Remaining)
}

func TestInspectWithoutCatalog(t *testing.T) {
	svc := &Service{}
	in, err := svc.Inspect(context.Background(), InspectRequest{Requirement: "CSC108H1"})
	require.NoError(t, err)
	assert.Nil(t, in.Satisfied)
	assert.Nil(t, in.Unresolved)
	assert.Equal(t, []requirements.Combo{{"CSC108H1"}}, in.Combos)
}

func TestInspectErrors(t *testing.T) {
	svc := &Service{MaxCombos: 2}
	_, err := svc.Inspect(context.Background(), InspectRequest{Requirement: "CSC108H1^(CSC148H1"})
	assert.ErrorIs(t, err, requirements.ErrMalformedRequirement)

	_, err = svc.Inspect(context.Background(), InspectRequest{Requirement: "CSC108H1|CSC148H1|CSC150H1"})
	assert.ErrorIs(t, err, requirements.ErrTooManyCombos)
}
