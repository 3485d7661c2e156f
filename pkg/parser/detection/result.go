// Package detection decides whether a source file is an AVA test file.
package detection

type Confidence int

const (
	ConfidenceUnknown Confidence = iota
	ConfidenceLow                // filename
	ConfidenceMedium             // content
	ConfidenceHigh               // import
)

type Source string

const (
	SourceUnknown  Source = "unknown"
	SourceFilename Source = "filename"
	SourceContent  Source = "content"
	SourceImport   Source = "import"
)

// ModuleName is the module whose import marks a file as an AVA test file.
const ModuleName = "ava"

type Result struct {
	Confidence Confidence
	Source     Source
}

func (r Result) IsUnknown() bool {
	return r.Confidence == ConfidenceUnknown
}

// IsDefinite reports whether the file imports the test module.
func (r Result) IsDefinite() bool {
	return r.Confidence == ConfidenceHigh
}

func Unknown() Result {
	return Result{
		Confidence: ConfidenceUnknown,
		Source:     SourceUnknown,
	}
}

func FromImport() Result {
	return Result{
		Confidence: ConfidenceHigh,
		Source:     SourceImport,
	}
}

func FromContent() Result {
	return Result{
		Confidence: ConfidenceMedium,
		Source:     SourceContent,
	}
}

func FromFilename() Result {
	return Result{
		Confidence: ConfidenceLow,
		Source:     SourceFilename,
	}
}
