package paper

import (
	"errors"
	"strconv"
)

// Option is one entry of a choice list: what the user sees and what goes
// into the Selection.
type Option struct {
	Name  string
	Value string
}

// Boards lists the supported boards in menu order.
func Boards() []Option {
	return []Option{
		{Name: "Cambridge IGCSE", Value: string(IGCSE)},
		{Name: "Cambridge O levels", Value: string(OLevel)},
		{Name: "Cambridge Int'l AS & A Levels", Value: string(ALevel)},
	}
}

// SessionsFor lists the sessions offered for a board. O levels have no
// Feb/Mar sitting.
func SessionsFor(b Board) []Option {
	sessions := []Option{
		{Name: "May/Jun", Value: string(MayJune)},
		{Name: "Oct/Nov", Value: string(OctNov)},
	}
	if b != OLevel {
		sessions = append([]Option{{Name: "Feb/Mar", Value: string(FebMarch)}}, sessions...)
	}
	return sessions
}

// DocTypes lists the document types in menu order.
func DocTypes() []Option {
	return []Option{
		{Name: "Question paper", Value: string(QuestionPaper)},
		{Name: "Mark scheme", Value: string(MarkScheme)},
		{Name: "Insert", Value: string(Insert)},
		{Name: "Examiner report", Value: string(ExaminerReport)},
		{Name: "Grade threshold", Value: string(GradeThreshold)},
	}
}

// Variants lists the selectable paper variants.
func Variants() []Option {
	return []Option{
		{Name: "1", Value: "1"},
		{Name: "2", Value: "2"},
		{Name: "3", Value: "3"},
	}
}

// ValidateYear accepts a four digit year after 2000. The returned error
// message is meant to be shown to the user as is.
func ValidateYear(year string) error {
	n, err := strconv.Atoi(year)
	if err != nil || len(year) != 4 {
		return errors.New("Please enter a valid year")
	}
	if n <= 2000 {
		return errors.New("Please enter a year greater than 2000")
	}
	return nil
}

// ValidatePaper accepts a single digit.
func ValidatePaper(paper string) error {
	if _, err := strconv.Atoi(paper); err != nil {
		return errors.New("Please enter a valid number")
	}
	if len(paper) != 1 {
		return errors.New("Please enter a single-digit number")
	}
	return nil
}
