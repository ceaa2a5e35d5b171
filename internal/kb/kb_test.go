package kb

import (
	"testing"

	"github.com/dekarrin/wislex/internal/profile"
	"github.com/stretchr/testify/assert"
)

func testEngine() Engine {
	return Build(profile.Default().Rules)
}

func Test_Answer_exactMatch(t *testing.T) {
	e := testEngine()

	reply, ok := e.Answer("good morning")
	assert.True(t, ok)
	assert.Equal(t, "good morning to you too.", reply)
}

func Test_Answer_unknownLine_noMatch(t *testing.T) {
	e := testEngine()

	_, ok := e.Answer("what time is it")
	assert.False(t, ok)
}

func Test_Complete_suggestsNextWord(t *testing.T) {
	e := testEngine()

	suggestions := e.Complete("good")
	assert.ElementsMatch(t, []string{"morning", "night"}, suggestions)
}

func Test_Complete_emptyLine_suggestsAllFirstWords(t *testing.T) {
	e := testEngine()

	suggestions := e.Complete("")
	assert.ElementsMatch(t, []string{"hello", "good", "bye"}, suggestions)
}

func Test_Engine_Build_assignsDistinctSessionIDs(t *testing.T) {
	a := testEngine()
	b := testEngine()

	assert.NotEqual(t, a.SessionID, b.SessionID)
}

func Test_Engine_Trace_firesDuringAnswer(t *testing.T) {
	e := testEngine()
	var events []string
	e.Trace = func(event string) { events = append(events, event) }

	_, ok := e.Answer("good morning")

	assert.True(t, ok)
	assert.NotEmpty(t, events)
}
