package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanNotDev/search-past-papers/internal/paper"
)

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyCtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
)

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds msgs to m in order and returns the final model and the command
// returned by the last update.
func send(m tea.Model, msgs ...tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		m, cmd = m.Update(msg)
	}
	return m, cmd
}

func assertQuit(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

var testSubjects = []string{
	"Mathematics (0580)",
	"Physics (0625)",
	"Chemistry (0620)",
	"Physical Education (0413)",
}

func TestSelectModel(t *testing.T) {
	t.Run("enter picks the highlighted option", func(t *testing.T) {
		final, cmd := send(newSelectModel("Select a board", paper.Boards()), keyDown, keyEnter)
		m := final.(selectModel)

		assertQuit(t, cmd)
		assert.True(t, m.done)
		assert.Equal(t, "olvls", m.choice.Value)
		assert.Contains(t, m.View(), "Cambridge O levels")
	})

	t.Run("first option by default", func(t *testing.T) {
		final, _ := send(newSelectModel("Select a session", paper.SessionsFor(paper.IGCSE)), keyEnter)
		assert.Equal(t, "m", final.(selectModel).choice.Value)
	})

	t.Run("cursor stays on the list", func(t *testing.T) {
		final, _ := send(newSelectModel("Select a variant", paper.Variants()), keyUp, keyDown, keyDown, keyDown, keyDown, keyEnter)
		assert.Equal(t, "3", final.(selectModel).choice.Value)
	})

	for name, key := range map[string]tea.KeyMsg{"esc": keyEsc, "ctrl+c": keyCtrlC} {
		t.Run(name+" cancels", func(t *testing.T) {
			final, cmd := send(newSelectModel("Select a board", paper.Boards()), key)
			assertQuit(t, cmd)
			assert.True(t, final.(selectModel).cancelled)
			assert.Empty(t, final.View())
		})
	}
}

func TestSearchModel(t *testing.T) {
	t.Run("typing narrows the list", func(t *testing.T) {
		final, _ := send(newSearchModel("Enter subject name/code", testSubjects), typed("phys"))
		m := final.(searchModel)

		assert.Equal(t, []string{"Physics (0625)", "Physical Education (0413)"}, m.matches)
		assert.Contains(t, m.View(), "Physics (0625)")
		assert.NotContains(t, m.View(), "Chemistry")
	})

	t.Run("search by code", func(t *testing.T) {
		final, cmd := send(newSearchModel("Enter subject name/code", testSubjects), typed("0620"), keyEnter)
		assertQuit(t, cmd)
		assert.Equal(t, "Chemistry (0620)", final.(searchModel).choice)
	})

	t.Run("arrows move within matches", func(t *testing.T) {
		final, _ := send(newSearchModel("Enter subject name/code", testSubjects), typed("phys"), keyDown, keyDown, keyEnter)
		assert.Equal(t, "Physical Education (0413)", final.(searchModel).choice)
	})

	t.Run("editing the query resets the cursor", func(t *testing.T) {
		final, _ := send(newSearchModel("Enter subject name/code", testSubjects), keyDown, keyDown, typed("m"))
		m := final.(searchModel)
		assert.Equal(t, 0, m.cursor)
		assert.Equal(t, []string{"Mathematics (0580)", "Chemistry (0620)"}, m.matches)
	})

	t.Run("enter without matches keeps asking", func(t *testing.T) {
		final, cmd := send(newSearchModel("Enter subject name/code", testSubjects), typed("latin"), keyEnter)
		m := final.(searchModel)
		assert.Nil(t, cmd)
		assert.False(t, m.done)
		assert.Contains(t, m.View(), "no matching subject")
	})

	t.Run("esc cancels", func(t *testing.T) {
		final, cmd := send(newSearchModel("Enter subject name/code", testSubjects), keyEsc)
		assertQuit(t, cmd)
		assert.True(t, final.(searchModel).cancelled)
	})
}

func TestInputModel(t *testing.T) {
	t.Run("invalid value is reported and kept editable", func(t *testing.T) {
		final, cmd := send(newInputModel("Enter year", paper.ValidateYear), typed("1999"), keyEnter)
		m := final.(inputModel)

		assert.Nil(t, cmd)
		assert.False(t, m.done)
		assert.EqualError(t, m.err, "Please enter a year greater than 2000")
		assert.Contains(t, m.View(), "Please enter a year greater than 2000")

		final, cmd = send(m, keyBack, keyBack, keyBack, keyBack, typed("2019"), keyEnter)
		m = final.(inputModel)
		assertQuit(t, cmd)
		assert.True(t, m.done)
		assert.Equal(t, "2019", m.value)
	})

	t.Run("paper number", func(t *testing.T) {
		final, _ := send(newInputModel("Enter paper number", paper.ValidatePaper), typed("12"), keyEnter)
		assert.EqualError(t, final.(inputModel).err, "Please enter a single-digit number")

		final, _ = send(newInputModel("Enter paper number", paper.ValidatePaper), typed("4"), keyEnter)
		assert.Equal(t, "4", final.(inputModel).value)
	})

	t.Run("ctrl+c cancels", func(t *testing.T) {
		final, cmd := send(newInputModel("Enter year", paper.ValidateYear), typed("20"), keyCtrlC)
		assertQuit(t, cmd)
		assert.True(t, final.(inputModel).cancelled)
	})
}

func TestFilter(t *testing.T) {
	assert.Equal(t, testSubjects, Filter(testSubjects, ""))
	assert.Equal(t, testSubjects, Filter(testSubjects, "   "))
	assert.Equal(t, []string{"Mathematics (0580)"}, Filter(testSubjects, "MATH"))
	assert.Equal(t, []string{"Physical Education (0413)"}, Filter(testSubjects, "phys edu"))
	assert.Empty(t, Filter(testSubjects, "0580 physics"))
}
