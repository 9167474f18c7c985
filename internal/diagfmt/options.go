package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	// ShowCode appends the diagnostic code, e.g. "error[SEM3004]".
	ShowCode  bool
	ShowNotes bool
	// NoPreview prints only the header line.
	NoPreview bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Max          int // обрезка вывода, не Bag
	IncludeNotes bool
}
