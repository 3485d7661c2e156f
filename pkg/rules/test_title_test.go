package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestTitle(t *testing.T) {
	t.Parallel()

	const missing = "Test should have a title."

	cases := []ruleCase{
		{name: "should accept titled tests", code: header + "test('my test name', t => { t.pass(); t.end(); });"},
		{name: "should accept template titles", code: header + "test(`my test name`, t => {});"},
		{name: "should accept a single anonymous test", code: header + "test(t => {});"},
		{name: "should accept todo with a title", code: header + "test.todo('very important');"},
		{name: "should accept a first todo without title", code: header + "test.todo();"},
		{name: "should ignore hooks", code: header + "test.before(t => {}); test.after.always(t => {}); test(t => {});"},
		{name: "should accept macros with titles", code: header + "test('a', macro, 1); test('b', macro, 2);"},
		{name: "should ignore files without AVA", code: "test(t => {}); test(t => {});", options: TitleAlways},
		{
			name: "should report the second anonymous test",
			code: header + "test(t => {}); test(t => {});",
			want: []string{missing},
		},
		{
			name: "should report anonymous tests after a titled one",
			code: header + "test('a', t => {}); test.cb(t => { t.end(); });",
			want: []string{missing},
		},
		{
			name:    "should report a single anonymous test with always",
			code:    header + "test(t => {});",
			options: TitleAlways,
			want:    []string{missing},
		},
		{
			name:    "should report todo without title with always",
			code:    header + "test.todo();",
			options: TitleAlways,
			want:    []string{missing},
		},
		{
			name:    "should accept titles with always",
			code:    header + "test('a', t => {}); test.todo('b');",
			options: TitleAlways,
		},
		{
			name:    "should accept explicit if-multiple",
			code:    header + "test(t => {});",
			options: TitleIfMultiple,
		},
	}
	runRuleCases(t, TestTitle, cases)
}

func TestTestTitle_Options(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     any
		want    any
		wantErr bool
	}{
		{name: "should default to if-multiple", want: TitleIfMultiple},
		{name: "should accept always", raw: "always", want: TitleAlways},
		{name: "should reject unknown values", raw: "sometimes", wantErr: true},
		{name: "should reject non-strings", raw: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := TestTitle.Options(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
