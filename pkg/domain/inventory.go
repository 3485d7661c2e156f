package domain

// FileReport is the lint outcome for a single file.
type FileReport struct {
	// Diagnostics contains every problem reported for the file, sorted by position.
	Diagnostics []Diagnostic `json:"diagnostics"`
	// Fixed is true when fixes were applied and the file content changed.
	Fixed bool `json:"fixed,omitempty"`
	// IsTestFile is true when the file imports or requires AVA.
	IsTestFile bool `json:"isTestFile"`
	// Language is the language the file was parsed as.
	Language Language `json:"language"`
	// Output holds the fixed source when fixes were applied.
	Output []byte `json:"-"`
	// Path is the file path.
	Path string `json:"path"`
}

// CountBySeverity returns the number of diagnostics with the given severity.
func (f *FileReport) CountBySeverity(s Severity) int {
	count := 0
	for _, d := range f.Diagnostics {
		if d.Severity == s {
			count++
		}
	}
	return count
}

// CountFixable returns the number of diagnostics carrying a fix.
func (f *FileReport) CountFixable() int {
	count := 0
	for _, d := range f.Diagnostics {
		if d.Fixable() {
			count++
		}
	}
	return count
}

// Report represents the lint outcome for a collection of files.
type Report struct {
	// Files contains all linted files.
	Files []FileReport `json:"files"`
	// RootPath is the root directory path of the scanned project.
	RootPath string `json:"rootPath"`
}

// CountDiagnostics returns the total number of diagnostics across all files.
func (r Report) CountDiagnostics() int {
	count := 0
	for _, f := range r.Files {
		count += len(f.Diagnostics)
	}
	return count
}

// CountBySeverity returns the number of diagnostics with the given severity across all files.
func (r Report) CountBySeverity(s Severity) int {
	count := 0
	for i := range r.Files {
		count += r.Files[i].CountBySeverity(s)
	}
	return count
}

// CountFixable returns the number of fixable diagnostics across all files.
func (r Report) CountFixable() int {
	count := 0
	for i := range r.Files {
		count += r.Files[i].CountFixable()
	}
	return count
}

// Diagnostics returns every diagnostic across all files in file order.
func (r Report) Diagnostics() []Diagnostic {
	var all []Diagnostic
	for _, f := range r.Files {
		all = append(all, f.Diagnostics...)
	}
	return all
}
