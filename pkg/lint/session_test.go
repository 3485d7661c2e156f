package lint

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/avalint/pkg/parser"
)

func testCalls(t *testing.T, source string) (*parser.File, []*sitter.Node) {
	t.Helper()

	file, err := parser.ParseFile(context.Background(), "test.js", []byte(source))
	require.NoError(t, err)
	t.Cleanup(file.Close)

	var calls []*sitter.Node
	parser.WalkTree(file.Root(), func(node *sitter.Node) bool {
		if node.Type() == "call_expression" {
			calls = append(calls, node)
		}
		return true
	})
	return file, calls
}

func TestSession(t *testing.T) {
	t.Parallel()

	file, calls := testCalls(t, "test('a', t => { test.serial('b', t => { t.pass(); }); });")
	require.Len(t, calls, 3)
	outer, inner, assertion := calls[0], calls[1], calls[2]

	s := NewSession(file.Source)
	assert.False(t, s.IsTestFile())
	s.MarkTestFile()
	assert.True(t, s.IsTestFile())

	require.NotNil(t, s.Enter(outer))
	require.NotNil(t, s.Enter(inner))
	assert.Nil(t, s.Enter(assertion))

	assert.Equal(t, 2, s.Depth())
	assert.True(t, s.InTestBody())
	assert.True(t, s.IsTestNode(inner))
	assert.False(t, s.IsTestNode(outer))
	assert.True(t, s.CurrentTest().HasModifier("serial"))

	s.Exit(assertion)
	assert.Equal(t, 2, s.Depth())
	s.Exit(inner)
	assert.True(t, s.IsTestNode(outer))
	s.Exit(outer)
	assert.False(t, s.InTestBody())
	assert.Nil(t, s.CurrentTest())

	s.Reset()
	assert.False(t, s.IsTestFile())
}
