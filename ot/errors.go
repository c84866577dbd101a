package ot

import "fmt"

// FontFormatError reports a malformed or unexpected structure encountered
// while navigating a layout table. Per the shaping core's error policy, a
// FontFormatError is always logged and always recovered from at the call
// site that produced it — callers of ot never need to check for it unless
// they want the diagnostic.
type FontFormatError struct {
	Table Tag
	Issue string
}

func (e *FontFormatError) Error() string {
	return fmt.Sprintf("malformed %s table: %s", e.Table, e.Issue)
}

func errFormat(table Tag, issue string) *FontFormatError {
	err := &FontFormatError{Table: table, Issue: issue}
	tracer().Errorf("%s", err.Error())
	return err
}

// errFormatShared reports a malformed Coverage or ClassDef table. Those
// structures are embedded in both GSUB and GPOS, so no single table tag
// applies; the issue string carries the context instead.
func errFormatShared(issue string) *FontFormatError {
	tracer().Errorf("malformed shared layout structure: %s", issue)
	return &FontFormatError{Issue: issue}
}
