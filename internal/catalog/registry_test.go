package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-planner/internal/requirements"
)

func TestRegisterDurationAndCredit(t *testing.T) {
	reg := NewRegistry(nil)

	half, err := reg.Register("CSC148H1")
	require.NoError(t, err)
	assert.Equal(t, 1, half.Duration)
	assert.Equal(t, 0.5, half.CreditValue)

	full, err := reg.Register("MAT137Y1")
	require.NoError(t, err)
	assert.Equal(t, 2, full.Duration)
	assert.Equal(t, 1.0, full.CreditValue)

	assert.Equal(t, []string{"CSC148H1", "MAT137Y1"}, reg.Codes())
}

func TestRegisterRejectsBadCodes(t *testing.T) {
	reg := NewRegistry(nil)
	for _, code := range []string{"CSC148X1", "CSC14", "", "csc148h1"} {
		_, err := reg.Register(code)
		assert.ErrorIs(t, err, ErrInvalidCourseCode, code)
	}
	assert.Equal(t, 0, reg.Len())
}

func TestRegisterDuplicate(t *testing.T) {
	reg := NewRegistry(nil)
	_, err := reg.Register("CSC148H1")
	require.NoError(t, err)
	_, err = reg.Register("CSC148H1")
	assert.ErrorIs(t, err, ErrDuplicateCourse)
}

func TestAttachPrereqsOnce(t *testing.T) {
	reg := NewRegistry([]string{"CSC108H1"})
	_, err := reg.Register("CSC148H1")
	require.NoError(t, err)

	combos := []requirements.Combo{requirements.NewCombo("CSC108H1")}
	require.NoError(t, reg.AttachPrereqs("CSC148H1", combos))
	assert.ErrorIs(t, reg.AttachPrereqs("CSC148H1", combos), ErrPrereqsAttached)
	assert.ErrorIs(t, reg.AttachPrereqs("CSC165H1", combos), ErrUnknownCourse)

	c, ok := reg.Lookup("CSC148H1")
	require.True(t, ok)
	assert.Equal(t, combos, c.Prerequisites)

	_, ok = reg.Lookup("CSC108H1")
	assert.False(t, ok, "completed courses are not registered implicitly")
	assert.True(t, reg.IsCompleted("CSC108H1"))
	assert.False(t, reg.IsCompleted("CSC148H1"))
	assert.Len(t, reg.Completed(), 1)
}
