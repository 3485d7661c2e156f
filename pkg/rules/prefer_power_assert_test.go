package rules

import "testing"

func TestPreferPowerAssert(t *testing.T) {
	t.Parallel()

	const message = "Only allow use of the assertions that have no power-assert alternative."

	cases := []ruleCase{
		{name: "should accept assert", code: header + "test(t => { t.assert(a === b); });"},
		{name: "should accept deepEqual", code: header + "test(t => { t.deepEqual(a, b); });"},
		{name: "should accept truthy", code: header + "test(t => { t.truthy(a); });"},
		{name: "should accept skipped throws", code: header + "test(t => { t.skip.throws(fn); });"},
		{name: "should ignore context members", code: header + "test(t => { t.context.is(a, b); });"},
		{name: "should ignore other objects", code: header + "test(t => { foo.is(a, b); });"},
		{name: "should ignore calls outside tests", code: header + "t.is(a, b);"},
		{name: "should ignore files without AVA", code: "test(t => { t.is(a, b); });"},
		{
			name: "should report disallowed assertions",
			code: header + "test(t => { t.is(a, b); t.not(a, b); t.true(a); t.false(a); t.regex(a, /x/); t.ifError(e); t.notOk(a); });",
			want: []string{message, message, message, message, message, message, message},
		},
		{
			name: "should report skipped disallowed assertions",
			code: header + "test(t => { t.skip.is(a, b); });",
			want: []string{message},
		},
		{
			name: "should report inside hooks and modified tests",
			code: header + "test.beforeEach(t => { t.true(a); }); test.cb.serial(t => { t.false(a); t.end(); });",
			want: []string{message, message},
		},
	}
	runRuleCases(t, PreferPowerAssert, cases)
}
