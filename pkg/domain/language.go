// Package domain defines the core types for lint diagnostics and reports.
package domain

import (
	"path/filepath"
	"strings"
)

// Language represents a source language understood by the linter.
type Language string

// Supported languages for test file linting.
const (
	LanguageJavaScript Language = "javascript"
	LanguageTSX        Language = "tsx"
	LanguageTypeScript Language = "typescript"
)

// SupportedExtensions defines valid JavaScript/TypeScript file extensions.
var SupportedExtensions = map[string]bool{
	".cjs": true,
	".cts": true,
	".js":  true,
	".jsx": true,
	".mjs": true,
	".mts": true,
	".ts":  true,
	".tsx": true,
}

// DetectLanguage determines the language based on file extension.
// Unknown extensions default to JavaScript, which is what AVA runs natively.
func DetectLanguage(filename string) Language {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript
	case ".tsx":
		return LanguageTSX
	default:
		return LanguageJavaScript
	}
}

// IsSupportedFile reports whether filename has a lintable extension.
func IsSupportedFile(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}
