package parser

import (
	"sort"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/domain"
)

// TokenKind classifies a token in the flat token stream.
type TokenKind int

const (
	TokenPunctuator TokenKind = iota
	TokenIdentifier
	TokenKeyword
	TokenString
	TokenTemplate
	TokenNumber
	TokenRegex
	TokenComment
)

// Token is a leaf of the syntax tree. Strings, numbers, regexes and comments are single tokens;
// template literals contribute one token per static chunk.
type Token struct {
	Kind  TokenKind
	Type  string
	Text  string
	Range domain.Range
}

// IsComment reports whether the token is a comment.
func (t Token) IsComment() bool {
	return t.Kind == TokenComment
}

// TokenStore is a sorted, position-indexed view of a file's tokens.
type TokenStore struct {
	source     []byte
	tokens     []Token
	lineStarts []int
}

var atomicTokenTypes = map[string]TokenKind{
	"comment":         TokenComment,
	"hash_bang_line":  TokenComment,
	"html_comment":    TokenComment,
	"number":          TokenNumber,
	"regex":           TokenRegex,
	"string":          TokenString,
	"jsx_text":        TokenString,
	"string_fragment": TokenString,
}

// NewTokenStore builds the token stream of the tree rooted at root.
func NewTokenStore(root *sitter.Node, source []byte) *TokenStore {
	s := &TokenStore{source: source}
	if root != nil {
		s.collect(root, 0)
	}
	sort.SliceStable(s.tokens, func(i, j int) bool {
		return s.tokens[i].Range.Start < s.tokens[j].Range.Start
	})
	s.lineStarts = lineStarts(source)
	return s
}

func (s *TokenStore) collect(node *sitter.Node, depth int) {
	if depth > MaxTreeDepth {
		return
	}

	nodeType := node.Type()
	if kind, ok := atomicTokenTypes[nodeType]; ok {
		s.add(node, kind)
		return
	}
	if nodeType == "template_string" {
		s.collectTemplate(node, depth)
		return
	}

	count := int(node.ChildCount())
	if count == 0 {
		s.add(node, leafKind(node))
		return
	}
	for i := 0; i < count; i++ {
		s.collect(node.Child(i), depth+1)
	}
}

// collectTemplate splits a template literal into static chunks around its substitutions.
func (s *TokenStore) collectTemplate(node *sitter.Node, depth int) {
	chunkStart := int(node.StartByte())
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "template_substitution" || child.ChildCount() < 2 {
			continue
		}
		open := child.Child(0)
		closing := child.Child(int(child.ChildCount()) - 1)
		s.addRange(domain.Range{Start: chunkStart, End: int(open.EndByte())}, TokenTemplate, "template_string")
		for j := 1; j < int(child.ChildCount())-1; j++ {
			s.collect(child.Child(j), depth+1)
		}
		chunkStart = int(closing.StartByte())
	}
	s.addRange(domain.Range{Start: chunkStart, End: int(node.EndByte())}, TokenTemplate, "template_string")
}

func (s *TokenStore) add(node *sitter.Node, kind TokenKind) {
	s.addRange(NodeRange(node), kind, node.Type())
}

func (s *TokenStore) addRange(r domain.Range, kind TokenKind, nodeType string) {
	// Zero-width leaves are inserted by error recovery or automatic semicolons.
	if r.Len() <= 0 || !r.Valid(len(s.source)) {
		return
	}
	s.tokens = append(s.tokens, Token{
		Kind:  kind,
		Type:  nodeType,
		Text:  string(s.source[r.Start:r.End]),
		Range: r,
	})
}

func leafKind(node *sitter.Node) TokenKind {
	if !node.IsNamed() {
		return TokenPunctuator
	}
	switch node.Type() {
	case "identifier", "property_identifier", "shorthand_property_identifier",
		"shorthand_property_identifier_pattern", "type_identifier", "private_property_identifier",
		"statement_identifier":
		return TokenIdentifier
	default:
		return TokenKeyword
	}
}

func lineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// TokenOption narrows a token lookup.
type TokenOption func(*tokenQuery)

type tokenQuery struct {
	includeComments bool
	filter          func(Token) bool
}

// IncludeComments makes comment tokens eligible for a lookup.
func IncludeComments() TokenOption {
	return func(q *tokenQuery) {
		q.includeComments = true
	}
}

// WithFilter restricts a lookup to tokens accepted by filter.
func WithFilter(filter func(Token) bool) TokenOption {
	return func(q *tokenQuery) {
		q.filter = filter
	}
}

// WithText restricts a lookup to tokens whose text is one of texts.
func WithText(texts ...string) TokenOption {
	return WithFilter(func(t Token) bool {
		for _, text := range texts {
			if t.Text == text {
				return true
			}
		}
		return false
	})
}

func newTokenQuery(opts []TokenOption) tokenQuery {
	var q tokenQuery
	for _, opt := range opts {
		opt(&q)
	}
	return q
}

func (q tokenQuery) accepts(t Token) bool {
	if t.IsComment() && !q.includeComments {
		return false
	}
	return q.filter == nil || q.filter(t)
}

// Source returns the source the store was built from.
func (s *TokenStore) Source() []byte {
	return s.source
}

// Tokens returns all tokens, comments included, in source order.
func (s *TokenStore) Tokens() []Token {
	return s.tokens
}

// Text returns the source text covered by r.
func (s *TokenStore) Text(r domain.Range) string {
	if !r.Valid(len(s.source)) {
		return ""
	}
	return string(s.source[r.Start:r.End])
}

// TokenBefore returns the last matching token ending at or before offset.
func (s *TokenStore) TokenBefore(offset int, opts ...TokenOption) (Token, bool) {
	q := newTokenQuery(opts)
	i := sort.Search(len(s.tokens), func(i int) bool {
		return s.tokens[i].Range.End > offset
	})
	for i--; i >= 0; i-- {
		if q.accepts(s.tokens[i]) {
			return s.tokens[i], true
		}
	}
	return Token{}, false
}

// TokenAfter returns the first matching token starting at or after offset.
func (s *TokenStore) TokenAfter(offset int, opts ...TokenOption) (Token, bool) {
	q := newTokenQuery(opts)
	i := sort.Search(len(s.tokens), func(i int) bool {
		return s.tokens[i].Range.Start >= offset
	})
	for ; i < len(s.tokens); i++ {
		if q.accepts(s.tokens[i]) {
			return s.tokens[i], true
		}
	}
	return Token{}, false
}

// TokenAt returns the token starting exactly at offset, comments included.
func (s *TokenStore) TokenAt(offset int) (Token, bool) {
	i := sort.Search(len(s.tokens), func(i int) bool {
		return s.tokens[i].Range.Start >= offset
	})
	if i < len(s.tokens) && s.tokens[i].Range.Start == offset {
		return s.tokens[i], true
	}
	return Token{}, false
}

// FirstTokenBetween returns the first matching token lying entirely within [start, end).
func (s *TokenStore) FirstTokenBetween(start, end int, opts ...TokenOption) (Token, bool) {
	tok, ok := s.TokenAfter(start, opts...)
	if !ok || tok.Range.End > end {
		return Token{}, false
	}
	return tok, true
}

// CommentsBefore returns the comments between offset and the preceding non-comment token.
func (s *TokenStore) CommentsBefore(offset int) []Token {
	i := sort.Search(len(s.tokens), func(i int) bool {
		return s.tokens[i].Range.End > offset
	})
	var comments []Token
	for i--; i >= 0 && s.tokens[i].IsComment(); i-- {
		comments = append([]Token{s.tokens[i]}, comments...)
	}
	return comments
}

// CommentsAfter returns the comments between offset and the following non-comment token.
func (s *TokenStore) CommentsAfter(offset int) []Token {
	i := sort.Search(len(s.tokens), func(i int) bool {
		return s.tokens[i].Range.Start >= offset
	})
	var comments []Token
	for ; i < len(s.tokens) && s.tokens[i].IsComment(); i++ {
		comments = append(comments, s.tokens[i])
	}
	return comments
}

// Position converts a byte offset into a 1-based line and 1-based column counted in runes.
func (s *TokenStore) Position(offset int) domain.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(s.source) {
		offset = len(s.source)
	}
	line := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > offset
	}) - 1
	start := s.lineStarts[line]
	return domain.Position{
		Line: line + 1,
		Col:  utf8.RuneCount(s.source[start:offset]) + 1,
	}
}

// Locate converts a byte range into a Location for file.
func (s *TokenStore) Locate(file string, r domain.Range) domain.Location {
	return domain.NewLocation(file, s.Position(r.Start), s.Position(r.End))
}
