package resolver_test

import (
	"testing"

	"github.com/kcmvp/repack/schema/parser"
	"github.com/kcmvp/repack/schema/resolver"
	"github.com/stretchr/testify/require"
)

func TestResolveCoreAndCustomTypes(t *testing.T) {
	src := `record User @users {
id int64 db:primary_key
status Status
}

enum Status {
Active "active"
}`
	program, parseErrs := parser.Parse(src)
	require.False(t, parseErrs.HasErrors())

	errs := resolver.Resolve(program)
	require.False(t, errs.HasErrors(), "%v", errs)

	status := program.Objects[0].Fields[1]
	require.True(t, status.Resolved())
	ft, ok := status.FieldType.Get()
	require.True(t, ok)
	require.True(t, ft.IsCustom())
	require.Equal(t, "Status", ft.String())
}

func TestResolveRefFieldTypeInheritsTargetType(t *testing.T) {
	src := `record User @users {
id int64 db:primary_key
}

record Order @orders {
id int64 db:primary_key
owner ref(User.id)
}`
	program, parseErrs := parser.Parse(src)
	require.False(t, parseErrs.HasErrors())

	errs := resolver.Resolve(program)
	require.False(t, errs.HasErrors(), "%v", errs)

	owner := program.Objects[1].Fields[1]
	require.True(t, owner.Resolved())
	ft, _ := owner.FieldType.Get()
	require.True(t, ft.IsCore())
}

func TestResolveUnknownTypeReportsError(t *testing.T) {
	src := `record User @users {
id int64 db:primary_key
pet DoesNotExist
}`
	program, parseErrs := parser.Parse(src)
	require.False(t, parseErrs.HasErrors())

	errs := resolver.Resolve(program)
	require.True(t, errs.HasErrors())
}

func TestResolveSnippetExpansion(t *testing.T) {
	src := `snippet Timestamps {
created_at datetime
updated_at datetime
}

record User @users {
id int64 db:primary_key
!Timestamps
}`
	program, parseErrs := parser.Parse(src)
	require.False(t, parseErrs.HasErrors())

	errs := resolver.Resolve(program)
	require.False(t, errs.HasErrors(), "%v", errs)
	require.Len(t, program.Objects[0].Fields, 3)
	require.Equal(t, "created_at", program.Objects[0].Fields[1].Name)
}

func TestResolveReuseAllExpandsParentFields(t *testing.T) {
	src := `record Base @base {
id int64 db:primary_key
name string
}

record Derived @derived : Base {
*
extra string
}`
	program, parseErrs := parser.Parse(src)
	require.False(t, parseErrs.HasErrors())

	errs := resolver.Resolve(program)
	require.False(t, errs.HasErrors(), "%v", errs)

	derived := program.Objects[1]
	require.Len(t, derived.Fields, 3)
	require.Equal(t, "id", derived.Fields[0].Name)
	require.Equal(t, "name", derived.Fields[1].Name)
	require.Equal(t, "extra", derived.Fields[2].Name)
}
