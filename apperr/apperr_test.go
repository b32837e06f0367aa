package apperr_test

import (
	"testing"

	"github.com/kcmvp/repack/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	e := apperr.ForField(apperr.PrimaryKeyOptional, "User", "id", "primary key cannot be optional")
	require.Equal(t, `[E0011] (User.id) PrimaryKeyOptional: primary key cannot be optional`, e.Error())
}

func TestErrorFormattingNoContext(t *testing.T) {
	e := apperr.New(apperr.CannotReadFile, "")
	require.Equal(t, `[E0001] (-) CannotReadFile`, e.Error())
}

func TestErrorFormattingObjectOnly(t *testing.T) {
	e := apperr.ForObject(apperr.NoFields, "Empty", "")
	require.Equal(t, `[E0014] (Empty) NoFields`, e.Error())
}

func TestListSortedStable(t *testing.T) {
	list := apperr.List{
		apperr.ForField(apperr.DuplicateFieldNames, "B", "z", "").WithOrder(2),
		apperr.ForField(apperr.DuplicateFieldNames, "A", "a", "").WithOrder(1),
		apperr.ForField(apperr.DuplicateFieldNames, "A", "b", "").WithOrder(1),
	}
	sorted := list.Sorted()
	assert.Equal(t, "A", sorted[0].ObjectName)
	assert.Equal(t, "a", sorted[0].FieldName)
	assert.Equal(t, "A", sorted[1].ObjectName)
	assert.Equal(t, "b", sorted[1].FieldName)
	assert.Equal(t, "B", sorted[2].ObjectName)
}

func TestHasErrors(t *testing.T) {
	require.False(t, apperr.List(nil).HasErrors())
	require.True(t, apperr.List{apperr.New(apperr.SyntaxError, "x")}.HasErrors())
}

func TestKindString(t *testing.T) {
	require.Equal(t, "CircularDependency", apperr.CircularDependency.String())
}
