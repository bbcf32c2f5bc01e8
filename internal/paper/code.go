// Package paper builds CAIE past-paper identifiers such as "0580_s19_qp_11".
//
// An identifier is the filename (without the .pdf extension) under which the
// remote archive stores a document. It is derived from a Selection:
//
//	{subject}_{session}{yy}_{type}                  examiner reports, grade thresholds
//	{subject}_{session}{yy}_{type}_{paper}{variant} everything else
//
// The functions in this package are pure. Input validation belongs to the
// caller collecting the selection (see ValidateYear and ValidatePaper);
// Build trusts what it is given.
package paper

import "strings"

// Board is an examination board / qualification level.
type Board string

const (
	IGCSE  Board = "igcse"
	OLevel Board = "olvls"
	ALevel Board = "alvls"
)

// Session is the examination sitting.
type Session string

const (
	FebMarch Session = "m"
	MayJune  Session = "s"
	OctNov   Session = "w"
)

// DocType is the kind of document in a session.
type DocType string

const (
	QuestionPaper  DocType = "qp"
	MarkScheme     DocType = "ms"
	Insert         DocType = "in"
	ExaminerReport DocType = "er"
	GradeThreshold DocType = "gt"
)

// Numbered reports whether documents of this type carry a paper number and
// variant in their identifier.
func (t DocType) Numbered() bool {
	return t != ExaminerReport && t != GradeThreshold
}

// FebMarchVariant is the only variant published for the Feb/Mar session.
const FebMarchVariant = "2"

// Selection is one set of user choices.
type Selection struct {
	Board   Board
	Subject string // display label, e.g. "Mathematics (0580)"
	Year    string // four digits, e.g. "2019"
	Session Session
	Type    DocType
	Paper   string // single digit; ignored unless Type.Numbered()
	Variant string // single digit; ignored unless Type.Numbered() and Session != FebMarch
}

// SubjectCode extracts the code from a subject label by taking its last six
// characters and dropping any parentheses: "Mathematics (0580)" -> "0580".
func SubjectCode(label string) string {
	tail := label
	if len(tail) > 6 {
		tail = tail[len(tail)-6:]
	}
	return strings.NewReplacer("(", "", ")", "").Replace(tail)
}

// NormalizeYear keeps the last two characters of year. Applying it to its own
// output returns the same value.
func NormalizeYear(year string) string {
	if len(year) <= 2 {
		return year
	}
	return year[len(year)-2:]
}

// VariantFor returns the variant that goes into the identifier.
func VariantFor(s Session, chosen string) string {
	if s == FebMarch {
		return FebMarchVariant
	}
	return chosen
}

// Build returns the identifier for sel.
func Build(sel Selection) string {
	var b strings.Builder
	b.WriteString(SubjectCode(sel.Subject))
	b.WriteByte('_')
	b.WriteString(string(sel.Session))
	b.WriteString(NormalizeYear(sel.Year))
	b.WriteByte('_')
	b.WriteString(string(sel.Type))
	if sel.Type.Numbered() {
		b.WriteByte('_')
		b.WriteString(sel.Paper)
		b.WriteString(VariantFor(sel.Session, sel.Variant))
	}
	return b.String()
}

// FromLiteral turns a command-line argument into an identifier. One trailing
// ".pdf" is removed; nothing else is checked.
func FromLiteral(arg string) string {
	return strings.TrimSuffix(arg, ".pdf")
}
