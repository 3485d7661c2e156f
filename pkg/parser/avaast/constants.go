package avaast

const (
	// TestObject is the identifier tests are registered through.
	TestObject = "test"
	// ContextObject is the conventional name of the execution context parameter.
	ContextObject = "t"
	// ContextMember is the data bag on the execution context.
	ContextMember = "context"

	ModuleName = "ava"

	ModifierAfter      = "after"
	ModifierAfterEach  = "afterEach"
	ModifierAlways     = "always"
	ModifierBefore     = "before"
	ModifierBeforeEach = "beforeEach"
	ModifierCb         = "cb"
	ModifierFailing    = "failing"
	ModifierOnly       = "only"
	ModifierSerial     = "serial"
	ModifierSkip       = "skip"
	ModifierTodo       = "todo"

	MethodEnd = "end"
	MethodTry = "try"
)

// Modifiers lists every segment allowed between `test` and the call.
var Modifiers = map[string]bool{
	ModifierAfter:      true,
	ModifierAfterEach:  true,
	ModifierAlways:     true,
	ModifierBefore:     true,
	ModifierBeforeEach: true,
	ModifierCb:         true,
	ModifierFailing:    true,
	ModifierOnly:       true,
	ModifierSerial:     true,
	ModifierSkip:       true,
	ModifierTodo:       true,
}

var HookModifiers = map[string]bool{
	ModifierAfter:      true,
	ModifierAfterEach:  true,
	ModifierBefore:     true,
	ModifierBeforeEach: true,
}

// Bounds is the accepted argument count range of an assertion, message slot included.
type Bounds struct {
	Min int
	Max int
}

// HasMessageSlot reports whether the last argument position is an optional message.
func (b Bounds) HasMessageSlot() bool {
	return b.Min != b.Max
}

var ArgumentBounds = map[string]Bounds{
	"assert":         {Min: 1, Max: 2},
	"deepEqual":      {Min: 2, Max: 3},
	"fail":           {Min: 0, Max: 1},
	"false":          {Min: 1, Max: 2},
	"falsy":          {Min: 1, Max: 2},
	"ifError":        {Min: 1, Max: 2},
	"is":             {Min: 2, Max: 3},
	"like":           {Min: 2, Max: 3},
	"not":            {Min: 2, Max: 3},
	"notDeepEqual":   {Min: 2, Max: 3},
	"notThrows":      {Min: 1, Max: 2},
	"notThrowsAsync": {Min: 1, Max: 2},
	"pass":           {Min: 0, Max: 1},
	"plan":           {Min: 1, Max: 1},
	"regex":          {Min: 2, Max: 3},
	"notRegex":       {Min: 2, Max: 3},
	"snapshot":       {Min: 1, Max: 2},
	"teardown":       {Min: 1, Max: 1},
	"throws":         {Min: 1, Max: 3},
	"throwsAsync":    {Min: 1, Max: 3},
	"true":           {Min: 1, Max: 2},
	"truthy":         {Min: 1, Max: 2},
	"timeout":        {Min: 1, Max: 2},
}

// AssertionMethods is every method callable on the execution context.
var AssertionMethods = func() map[string]bool {
	methods := make(map[string]bool, len(ArgumentBounds)+2)
	for name := range ArgumentBounds {
		methods[name] = true
	}
	methods[MethodEnd] = true
	methods[MethodTry] = true
	return methods
}()

// ActualExpectedAssertions take the actual value first and the expected value second.
var ActualExpectedAssertions = map[string]bool{
	"deepEqual":    true,
	"is":           true,
	"like":         true,
	"not":          true,
	"notDeepEqual": true,
	"throws":       true,
	"throwsAsync":  true,
}

// RelationalAssertions take a single value that is often a comparison.
var RelationalAssertions = map[string]bool{
	"assert": true,
	"truthy": true,
	"falsy":  true,
	"true":   true,
	"false":  true,
}

// PowerAssertDisallowed are assertions with a power-assert alternative.
var PowerAssertDisallowed = map[string]bool{
	"notOk":   true,
	"true":    true,
	"false":   true,
	"is":      true,
	"not":     true,
	"regex":   true,
	"ifError": true,
}

var flippedOperators = map[string]string{
	">":   "<",
	">=":  "<=",
	"==":  "==",
	"===": "===",
	"!=":  "!=",
	"!==": "!==",
	"<=":  ">=",
	"<":   ">",
}

// FlipOperator returns the comparison operator that holds with swapped operands.
func FlipOperator(op string) (string, bool) {
	flipped, ok := flippedOperators[op]
	return flipped, ok
}

// IsComparisonOperator reports whether op takes part in operand swapping.
func IsComparisonOperator(op string) bool {
	_, ok := flippedOperators[op]
	return ok
}
