package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScript(t *testing.T, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, newSession(in, &out, 1).Run())
	return out.String()
}

func TestAVLSession(t *testing.T) {
	out := runScript(t,
		"a",
		"a 10 ten",
		"a 20",
		"a 5",
		"a 10",
		"b 10",
		"b 11",
		"c 10",
		"c 20",
		"d 5",
		"d 5",
		"g",
		"i",
	)
	assert.Contains(t, out, "I have created an empty AVL tree for you.")
	assert.Contains(t, out, "Element 10 inserted successfully!")
	assert.Contains(t, out, "Element 10 already exists!")
	assert.Contains(t, out, "We find the element! value: ten")
	assert.Contains(t, out, "The element does not exist!")
	assert.Contains(t, out, "The closest key after the element is 20")
	assert.Contains(t, out, "The closest key after the element does not exist!")
	assert.Contains(t, out, "Element 5 remove successfully!")
	assert.Contains(t, out, "Element do not exist!")
	assert.Contains(t, out, "(i) Exit")
	assert.Contains(t, out, "10 20\n")
}

func TestSkipListSessionPrompts(t *testing.T) {
	out := runScript(t,
		"b",
		"a",
		"7 \"seven days\"",
		"b 7",
		"e",
		"f",
	)
	assert.Contains(t, out, "I have created an empty skip list for you.")
	assert.Contains(t, out, "InsertElement operation: please input the key:")
	assert.Contains(t, out, "We find the element! value: seven days")
	assert.Contains(t, out, "start-7-end")
	assert.Contains(t, out, "(f) Exit")
	assert.NotContains(t, out, "Preorder")
}

func TestBasicSessionPrint(t *testing.T) {
	out := runScript(t, "c", "e", "a 3", "a 1", "e", "f")
	assert.Contains(t, out, "I have created an empty basic skip list for you.")
	assert.Contains(t, out, "The skip list is empty.")
	assert.Contains(t, out, "Level 1: start-1-3-end")
}

func TestInvalidInput(t *testing.T) {
	out := runScript(t, "z")
	assert.Contains(t, out, "Invalid input!")

	out = runScript(t, "a", "q", "a abc", "b")
	assert.Contains(t, out, "Invalid input!")
	assert.Contains(t, out, `Invalid key "abc"!`)
	assert.Contains(t, out, "FindElement operation: please input the key:")
}

func TestReservedKey(t *testing.T) {
	out := runScript(t, "b", "a -9223372036854775808", "f")
	assert.Contains(t, out, "Key -9223372036854775808 is reserved!")
}
