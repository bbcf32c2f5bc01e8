package paper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionsFor(t *testing.T) {
	values := func(opts []Option) []string {
		out := make([]string, 0, len(opts))
		for _, o := range opts {
			out = append(out, o.Value)
		}
		return out
	}

	assert.Equal(t, []string{"m", "s", "w"}, values(SessionsFor(IGCSE)))
	assert.Equal(t, []string{"m", "s", "w"}, values(SessionsFor(ALevel)))
	assert.Equal(t, []string{"s", "w"}, values(SessionsFor(OLevel)))
}

func TestBoardsAndTypes(t *testing.T) {
	assert.Len(t, Boards(), 3)
	assert.Equal(t, "igcse", Boards()[0].Value)
	assert.Len(t, DocTypes(), 5)
	assert.Len(t, Variants(), 3)
}

func TestValidateYear(t *testing.T) {
	tests := []struct {
		in      string
		wantErr string
	}{
		{"2019", ""},
		{"2001", ""},
		{"2000", "Please enter a year greater than 2000"},
		{"1999", "Please enter a year greater than 2000"},
		{"19", "Please enter a valid year"},
		{"20190", "Please enter a valid year"},
		{"abcd", "Please enter a valid year"},
		{"", "Please enter a valid year"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := ValidateYear(tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestValidatePaper(t *testing.T) {
	assert.NoError(t, ValidatePaper("1"))
	assert.NoError(t, ValidatePaper("0"))
	assert.EqualError(t, ValidatePaper("12"), "Please enter a single-digit number")
	assert.EqualError(t, ValidatePaper("x"), "Please enter a valid number")
	assert.EqualError(t, ValidatePaper(""), "Please enter a valid number")
}
