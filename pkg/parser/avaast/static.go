package avaast

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/parser"
)

type ValueKind int

const (
	KindUndefined ValueKind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindRegex
	KindArray
	KindObject
)

// Value is a constant-folded JavaScript value. Functions are never represented.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Number float64
	// String holds string contents, or the pattern of a regex.
	String string
	Flags  string
	Elems  []Value
	Props  []Property
}

type Property struct {
	Key   string
	Value Value
}

func undefinedValue() Value {
	return Value{Kind: KindUndefined}
}

func boolValue(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

func numberValue(f float64) Value {
	return Value{Kind: KindNumber, Number: f}
}

func stringValue(s string) Value {
	return Value{Kind: KindString, String: s}
}

func (v Value) isPrimitive() bool {
	return v.Kind != KindArray && v.Kind != KindObject && v.Kind != KindRegex
}

func (v Value) isNullish() bool {
	return v.Kind == KindUndefined || v.Kind == KindNull
}

// Truthy applies JavaScript boolean conversion.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindUndefined, KindNull:
		return false
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Number != 0 && !math.IsNaN(v.Number)
	case KindString:
		return v.String != ""
	default:
		return true
	}
}

// ToNumber applies JavaScript numeric conversion.
func (v Value) ToNumber() float64 {
	switch v.Kind {
	case KindUndefined:
		return math.NaN()
	case KindNull:
		return 0
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	case KindNumber:
		return v.Number
	case KindString:
		s := strings.TrimSpace(v.String)
		if s == "" {
			return 0
		}
		if isDigits(s) {
			f, _ := strconv.ParseFloat(s, 64)
			return f
		}
		if f, ok := parseNumberLiteral(s); ok && !strings.Contains(s, "_") {
			return f
		}
		return math.NaN()
	case KindArray:
		return stringValue(v.ToString()).ToNumber()
	default:
		return math.NaN()
	}
}

// ToString applies JavaScript string conversion.
func (v Value) ToString() string {
	switch v.Kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return formatNumber(v.Number)
	case KindString:
		return v.String
	case KindRegex:
		return "/" + v.String + "/" + v.Flags
	case KindArray:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			if !e.isNullish() {
				parts[i] = e.ToString()
			}
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

// TypeOf returns the result of the typeof operator.
func (v Value) TypeOf() string {
	switch v.Kind {
	case KindUndefined:
		return "undefined"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "object"
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseNumberLiteral(text string) (float64, bool) {
	text = strings.ReplaceAll(text, "_", "")
	text = strings.TrimSuffix(text, "n")
	if len(text) > 1 && text[0] == '0' {
		base := 0
		switch text[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(text[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(n), true
		}
		if isDigits(text) && !strings.ContainsAny(text, "89") {
			n, err := strconv.ParseUint(text[1:], 8, 64)
			if err != nil {
				return 0, false
			}
			return float64(n), true
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// TryFold constant-folds node without executing anything.
// No bindings are known, so every identifier (undefined, NaN and Infinity
// included) is dynamic. ok is also false for calls, functions and any
// property read that may yield a function.
func TryFold(node *sitter.Node, source []byte) (Value, bool) {
	f := folder{source: source}
	return f.fold(node, 0)
}

// IsStatic reports whether node folds to a constant.
func IsStatic(node *sitter.Node, source []byte) bool {
	_, ok := TryFold(node, source)
	return ok
}

type folder struct {
	source []byte
}

func (f folder) fold(node *sitter.Node, depth int) (Value, bool) {
	if node == nil || depth > parser.MaxTreeDepth {
		return Value{}, false
	}

	switch node.Type() {
	case "parenthesized_expression":
		inner := parser.NamedChildren(node)
		if len(inner) != 1 {
			return Value{}, false
		}
		return f.fold(inner[0], depth+1)
	case "number":
		n, ok := parseNumberLiteral(f.text(node))
		return numberValue(n), ok
	case "string":
		return stringValue(UnquoteString(f.text(node))), true
	case "template_string":
		return f.foldTemplate(node, depth)
	case "true":
		return boolValue(true), true
	case "false":
		return boolValue(false), true
	case "null":
		return Value{Kind: KindNull}, true
	case "member_expression", "subscript_expression":
		return f.foldMember(node, depth)
	case "regex":
		v := Value{Kind: KindRegex}
		if p := node.ChildByFieldName("pattern"); p != nil {
			v.String = f.text(p)
		}
		if fl := node.ChildByFieldName("flags"); fl != nil {
			v.Flags = f.text(fl)
		}
		return v, true
	case "unary_expression":
		return f.foldUnary(node, depth)
	case "binary_expression":
		return f.foldBinary(node, depth)
	case "ternary_expression":
		cond, ok := f.fold(node.ChildByFieldName("condition"), depth+1)
		if !ok {
			return Value{}, false
		}
		if cond.Truthy() {
			return f.fold(node.ChildByFieldName("consequence"), depth+1)
		}
		return f.fold(node.ChildByFieldName("alternative"), depth+1)
	case "sequence_expression":
		var last Value
		for _, child := range parser.NamedChildren(node) {
			v, ok := f.fold(child, depth+1)
			if !ok {
				return Value{}, false
			}
			last = v
		}
		return last, true
	case "array":
		return f.foldArray(node, depth)
	case "object":
		return f.foldObject(node, depth)
	default:
		return Value{}, false
	}
}

func (f folder) text(node *sitter.Node) string {
	return parser.GetNodeText(node, f.source)
}

func (f folder) foldTemplate(node *sitter.Node, depth int) (Value, bool) {
	var b strings.Builder
	start := int(node.StartByte()) + 1
	end := int(node.EndByte()) - 1

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "template_substitution" {
			continue
		}
		b.WriteString(CookString(string(f.source[start:int(child.StartByte())])))
		inner := parser.NamedChildren(child)
		if len(inner) != 1 {
			return Value{}, false
		}
		v, ok := f.fold(inner[0], depth+1)
		if !ok {
			return Value{}, false
		}
		b.WriteString(v.ToString())
		start = int(child.EndByte())
	}
	if start <= end {
		b.WriteString(CookString(string(f.source[start:end])))
	}

	return stringValue(b.String()), true
}

func (f folder) foldUnary(node *sitter.Node, depth int) (Value, bool) {
	op := node.ChildByFieldName("operator")
	if op == nil {
		return Value{}, false
	}
	arg, ok := f.fold(node.ChildByFieldName("argument"), depth+1)
	if !ok {
		return Value{}, false
	}

	switch f.text(op) {
	case "-":
		return numberValue(-arg.ToNumber()), true
	case "+":
		return numberValue(arg.ToNumber()), true
	case "!":
		return boolValue(!arg.Truthy()), true
	case "~":
		return numberValue(float64(^toInt32(arg.ToNumber()))), true
	case "typeof":
		return stringValue(arg.TypeOf()), true
	case "void":
		return undefinedValue(), true
	default:
		return Value{}, false
	}
}

func (f folder) foldBinary(node *sitter.Node, depth int) (Value, bool) {
	opNode := node.ChildByFieldName("operator")
	if opNode == nil {
		return Value{}, false
	}
	op := f.text(opNode)

	left, ok := f.fold(node.ChildByFieldName("left"), depth+1)
	if !ok {
		return Value{}, false
	}

	switch op {
	case "&&":
		if !left.Truthy() {
			return left, true
		}
		return f.fold(node.ChildByFieldName("right"), depth+1)
	case "||":
		if left.Truthy() {
			return left, true
		}
		return f.fold(node.ChildByFieldName("right"), depth+1)
	case "??":
		if !left.isNullish() {
			return left, true
		}
		return f.fold(node.ChildByFieldName("right"), depth+1)
	}

	right, ok := f.fold(node.ChildByFieldName("right"), depth+1)
	if !ok {
		return Value{}, false
	}

	return applyBinary(op, left, right)
}

func applyBinary(op string, left, right Value) (Value, bool) {
	switch op {
	case "+":
		if left.Kind == KindString || right.Kind == KindString || !left.isPrimitive() || !right.isPrimitive() {
			return stringValue(left.ToString() + right.ToString()), true
		}
		return numberValue(left.ToNumber() + right.ToNumber()), true
	case "-":
		return numberValue(left.ToNumber() - right.ToNumber()), true
	case "*":
		return numberValue(left.ToNumber() * right.ToNumber()), true
	case "/":
		return numberValue(left.ToNumber() / right.ToNumber()), true
	case "%":
		return numberValue(math.Mod(left.ToNumber(), right.ToNumber())), true
	case "**":
		return numberValue(math.Pow(left.ToNumber(), right.ToNumber())), true
	case "<", ">", "<=", ">=":
		return compareValues(op, left, right), true
	case "==":
		return boolValue(looseEqual(left, right)), true
	case "!=":
		return boolValue(!looseEqual(left, right)), true
	case "===":
		return boolValue(strictEqual(left, right)), true
	case "!==":
		return boolValue(!strictEqual(left, right)), true
	case "&":
		return numberValue(float64(toInt32(left.ToNumber()) & toInt32(right.ToNumber()))), true
	case "|":
		return numberValue(float64(toInt32(left.ToNumber()) | toInt32(right.ToNumber()))), true
	case "^":
		return numberValue(float64(toInt32(left.ToNumber()) ^ toInt32(right.ToNumber()))), true
	case "<<":
		return numberValue(float64(toInt32(left.ToNumber()) << (uint32(toInt32(right.ToNumber())) & 31))), true
	case ">>":
		return numberValue(float64(toInt32(left.ToNumber()) >> (uint32(toInt32(right.ToNumber())) & 31))), true
	case ">>>":
		return numberValue(float64(uint32(toInt32(left.ToNumber())) >> (uint32(toInt32(right.ToNumber())) & 31))), true
	default:
		// in, instanceof
		return Value{}, false
	}
}

func compareValues(op string, left, right Value) Value {
	if left.Kind == KindString && right.Kind == KindString {
		c := strings.Compare(left.String, right.String)
		switch op {
		case "<":
			return boolValue(c < 0)
		case ">":
			return boolValue(c > 0)
		case "<=":
			return boolValue(c <= 0)
		default:
			return boolValue(c >= 0)
		}
	}

	l, r := left.ToNumber(), right.ToNumber()
	if math.IsNaN(l) || math.IsNaN(r) {
		return boolValue(false)
	}
	switch op {
	case "<":
		return boolValue(l < r)
	case ">":
		return boolValue(l > r)
	case "<=":
		return boolValue(l <= r)
	default:
		return boolValue(l >= r)
	}
}

func strictEqual(left, right Value) bool {
	if left.Kind != right.Kind {
		return false
	}
	switch left.Kind {
	case KindUndefined, KindNull:
		return true
	case KindBool:
		return left.Bool == right.Bool
	case KindNumber:
		return left.Number == right.Number
	case KindString:
		return left.String == right.String
	default:
		// Distinct object literals are never identical.
		return false
	}
}

func looseEqual(left, right Value) bool {
	if left.isNullish() || right.isNullish() {
		return left.isNullish() && right.isNullish()
	}
	if left.Kind == right.Kind {
		return strictEqual(left, right)
	}
	if !left.isPrimitive() && !right.isPrimitive() {
		return false
	}
	if !left.isPrimitive() {
		left = stringValue(left.ToString())
	}
	if !right.isPrimitive() {
		right = stringValue(right.ToString())
	}
	if left.Kind == KindString && right.Kind == KindString {
		return left.String == right.String
	}
	return left.ToNumber() == right.ToNumber()
}

func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(uint32(int64(math.Trunc(math.Mod(f, 1<<32)))))
}

func (f folder) foldArray(node *sitter.Node, depth int) (Value, bool) {
	arr := Value{Kind: KindArray}
	for _, child := range parser.NamedChildren(node) {
		if child.Type() == "spread_element" {
			inner := parser.NamedChildren(child)
			if len(inner) != 1 {
				return Value{}, false
			}
			v, ok := f.fold(inner[0], depth+1)
			if !ok {
				return Value{}, false
			}
			switch v.Kind {
			case KindArray:
				arr.Elems = append(arr.Elems, v.Elems...)
			case KindString:
				for _, r := range v.String {
					arr.Elems = append(arr.Elems, stringValue(string(r)))
				}
			default:
				return Value{}, false
			}
			continue
		}
		v, ok := f.fold(child, depth+1)
		if !ok {
			return Value{}, false
		}
		arr.Elems = append(arr.Elems, v)
	}
	return arr, true
}

func (f folder) foldObject(node *sitter.Node, depth int) (Value, bool) {
	obj := Value{Kind: KindObject}
	for _, child := range parser.NamedChildren(node) {
		switch child.Type() {
		case "pair":
			key, ok := f.propertyKey(child.ChildByFieldName("key"), depth)
			if !ok {
				return Value{}, false
			}
			v, ok := f.fold(child.ChildByFieldName("value"), depth+1)
			if !ok {
				return Value{}, false
			}
			obj.Props = setProperty(obj.Props, key, v)
		case "spread_element":
			inner := parser.NamedChildren(child)
			if len(inner) != 1 {
				return Value{}, false
			}
			v, ok := f.fold(inner[0], depth+1)
			if !ok {
				return Value{}, false
			}
			if v.Kind == KindObject {
				for _, p := range v.Props {
					obj.Props = setProperty(obj.Props, p.Key, p.Value)
				}
			}
		default:
			// Methods, getters and shorthand identifiers.
			return Value{}, false
		}
	}
	return obj, true
}

func (f folder) propertyKey(key *sitter.Node, depth int) (string, bool) {
	if key == nil {
		return "", false
	}
	switch key.Type() {
	case "property_identifier":
		return f.text(key), true
	case "string":
		return UnquoteString(f.text(key)), true
	case "number":
		n, ok := parseNumberLiteral(f.text(key))
		return formatNumber(n), ok
	case "computed_property_name":
		inner := parser.NamedChildren(key)
		if len(inner) != 1 {
			return "", false
		}
		v, ok := f.fold(inner[0], depth+1)
		if !ok {
			return "", false
		}
		return v.ToString(), true
	default:
		return "", false
	}
}

func setProperty(props []Property, key string, v Value) []Property {
	for i := range props {
		if props[i].Key == key {
			props[i].Value = v
			return props
		}
	}
	return append(props, Property{Key: key, Value: v})
}

// objectPrototype lists members every object inherits; reading them yields functions or accessors.
var objectPrototype = map[string]bool{
	"__defineGetter__":     true,
	"__defineSetter__":     true,
	"__lookupGetter__":     true,
	"__lookupSetter__":     true,
	"__proto__":            true,
	"constructor":          true,
	"hasOwnProperty":       true,
	"isPrototypeOf":        true,
	"propertyIsEnumerable": true,
	"toLocaleString":       true,
	"toString":             true,
	"valueOf":              true,
}

var regexFlags = map[string]string{
	"dotAll":     "s",
	"global":     "g",
	"hasIndices": "d",
	"ignoreCase": "i",
	"multiline":  "m",
	"sticky":     "y",
	"unicode":    "u",
}

func (f folder) foldMember(node *sitter.Node, depth int) (Value, bool) {
	obj, ok := f.fold(node.ChildByFieldName("object"), depth+1)
	if !ok {
		return Value{}, false
	}
	if obj.isNullish() {
		if parser.FindChildByType(node, "optional_chain") != nil {
			return undefinedValue(), true
		}
		return Value{}, false
	}

	var key string
	if node.Type() == "member_expression" {
		prop := node.ChildByFieldName("property")
		if prop == nil || prop.Type() != "property_identifier" {
			return Value{}, false
		}
		key = f.text(prop)
	} else {
		idx, ok := f.fold(node.ChildByFieldName("index"), depth+1)
		if !ok {
			return Value{}, false
		}
		key = idx.ToString()
	}

	return lookupProperty(obj, key)
}

// lookupProperty reads key from a folded value. Only reads known to yield
// plain data are static.
func lookupProperty(obj Value, key string) (Value, bool) {
	switch obj.Kind {
	case KindString:
		units := utf16.Encode([]rune(obj.String))
		if key == "length" {
			return numberValue(float64(len(units))), true
		}
		if i, ok := arrayIndex(key); ok {
			if i >= len(units) {
				return undefinedValue(), true
			}
			return stringValue(string(utf16.Decode(units[i : i+1]))), true
		}
	case KindArray:
		if key == "length" {
			return numberValue(float64(len(obj.Elems))), true
		}
		if i, ok := arrayIndex(key); ok {
			if i >= len(obj.Elems) {
				return undefinedValue(), true
			}
			return obj.Elems[i], true
		}
	case KindRegex:
		switch key {
		case "source":
			return stringValue(obj.String), true
		case "flags":
			return stringValue(obj.Flags), true
		default:
			if flag, ok := regexFlags[key]; ok {
				return boolValue(strings.Contains(obj.Flags, flag)), true
			}
		}
	case KindObject:
		for _, p := range obj.Props {
			if p.Key == key {
				return p.Value, true
			}
		}
		if !objectPrototype[key] {
			return undefinedValue(), true
		}
	}
	return Value{}, false
}

func arrayIndex(key string) (int, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') || !isDigits(key) {
		return 0, false
	}
	i, err := strconv.Atoi(key)
	return i, err == nil
}
