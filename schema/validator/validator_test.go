package validator_test

import (
	"testing"

	"github.com/kcmvp/repack/apperr"
	"github.com/kcmvp/repack/schema/parser"
	"github.com/kcmvp/repack/schema/resolver"
	"github.com/kcmvp/repack/schema/validator"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, src string) apperr.List {
	t.Helper()
	program, parseErrs := parser.Parse(src)
	require.False(t, parseErrs.HasErrors(), "%v", parseErrs)
	resolveErrs := resolver.Resolve(program)
	require.False(t, resolveErrs.HasErrors(), "%v", resolveErrs)
	return validator.Validate(program)
}

func hasKind(errs apperr.List, kind apperr.Kind) bool {
	for _, e := range errs {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func TestValidateValidRecord(t *testing.T) {
	errs := build(t, `record User @users {
id int64 db:primary_key
name string
}`)
	require.False(t, errs.HasErrors(), "%v", errs)
}

func TestValidateNoFields(t *testing.T) {
	errs := build(t, `record Empty @empties {
}`)
	require.True(t, hasKind(errs, apperr.NoFields))
}

func TestValidateTableNameRequired(t *testing.T) {
	program, parseErrs := parser.Parse(`record Loose {
id int64 db:primary_key
}`)
	require.False(t, parseErrs.HasErrors())
	require.False(t, resolver.Resolve(program).HasErrors())
	errs := validator.Validate(program)
	require.True(t, hasKind(errs, apperr.TableNameRequired))
}

func TestValidateTableNameNotAllowedOnStruct(t *testing.T) {
	program, parseErrs := parser.Parse(`struct Bad @nope {
field1 string
}`)
	require.False(t, parseErrs.HasErrors())
	require.False(t, resolver.Resolve(program).HasErrors())
	errs := validator.Validate(program)
	require.True(t, hasKind(errs, apperr.TableNameNotAllowed))
}

func TestValidatePrimaryKeyOptional(t *testing.T) {
	errs := build(t, `record Bad @bads {
id int64? db:primary_key
}`)
	require.True(t, hasKind(errs, apperr.PrimaryKeyOptional))
}

func TestValidateDuplicateFieldNames(t *testing.T) {
	errs := build(t, `record Dup @dups {
id int64 db:primary_key
id string
}`)
	require.True(t, hasKind(errs, apperr.DuplicateFieldNames))
}

func TestValidateCustomTypeNotDefined(t *testing.T) {
	program, parseErrs := parser.Parse(`record User @users {
id int64 db:primary_key
pet Missing
}`)
	require.False(t, parseErrs.HasErrors())
	resolveErrs := resolver.Resolve(program)
	require.True(t, hasKind(resolveErrs, apperr.TypeNotResolved))
}

func TestValidateCircularDependency(t *testing.T) {
	errs := build(t, `record A @as {
id int64 db:primary_key
b_ref ref(B.id)
}

record B @bs {
id int64 db:primary_key
a_ref ref(A.id)
}`)
	require.True(t, hasKind(errs, apperr.CircularDependency))
}

func TestValidateStructForbidsJoins(t *testing.T) {
	program, parseErrs := parser.Parse(`struct Thing {
id int64
join (rel Other) = "id = other_id"
}`)
	require.False(t, parseErrs.HasErrors())
	require.False(t, resolver.Resolve(program).HasErrors())
	errs := validator.Validate(program)
	require.True(t, hasKind(errs, apperr.UnsupportedObjectType))
}
