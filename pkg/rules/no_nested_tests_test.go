package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoNestedTests(t *testing.T) {
	t.Parallel()

	const nested = "Tests should not be nested"

	cases := []ruleCase{
		{name: "should accept a single test", code: header + "test(t => {});"},
		{name: "should accept sibling tests", code: header + "test(t => {}); test(t => {}); test.cb(t => { t.end(); });"},
		{name: "should accept non-test calls inside tests", code: header + "test(t => { foo(t => { t.pass(); }); });"},
		{name: "should ignore files without AVA", code: "test(t => { test(t => {}); });"},
		{
			name: "should report a nested test",
			code: header + "test(t => {\n\ttest(t => {});\n});",
			want: []string{nested},
		},
		{
			name: "should report nested tests with modifiers",
			code: header + "test.serial(t => { test.cb.only(t => {}); });",
			want: []string{nested},
		},
		{
			name: "should report every level of deep nesting",
			code: header + "test(t => { test(t => { test(t => {}); }); });",
			want: []string{nested, nested},
		},
		{
			name: "should report nested siblings",
			code: header + "test(t => { test(t => {}); test(t => {}); }); test(t => {});",
			want: []string{nested, nested},
		},
		{
			name: "should report tests nested in callbacks",
			code: header + "test(t => { [1, 2].forEach(n => { test(`${n}`, t => {}); }); });",
			want: []string{nested},
		},
	}
	runRuleCases(t, NoNestedTests, cases)
}

func TestNoNestedTests_Location(t *testing.T) {
	t.Parallel()

	diags := lintWith(t, NoNestedTests, nil, header+"test(t => {\n\ttest(t => {});\n});")

	require.Len(t, diags, 1)
	assert.Equal(t, 3, diags[0].Location.StartLine)
	assert.Equal(t, 2, diags[0].Location.StartCol)
	assert.Equal(t, 3, diags[0].Location.EndLine)
	assert.Equal(t, 15, diags[0].Location.EndCol)
}
