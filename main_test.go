package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LIAMBB/knights-travails/components"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	require.NoError(t, a.close())
	return stdout.String(), stderr.String(), err
}

func TestPathCommand_Text(t *testing.T) {
	out, _, err := runCLI(t, "path", "0,0", "1,2")
	require.NoError(t, err)

	want := "The shortest path was 1 moves!\nThe moves were:\n0, 0\n1, 2\n"
	assert.Equal(t, want, out)
}

func TestPathCommand_BracketInput(t *testing.T) {
	out, _, err := runCLI(t, "path", "[3, 3]", "[7, 6]")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "The shortest path was 3 moves!\n"), out)
}

func TestPathCommand_JSON(t *testing.T) {
	out, _, err := runCLI(t, "path", "0,0", "7,7", "--json")
	require.NoError(t, err)

	var got pathJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 6, got.Moves)
	assert.Equal(t, components.Coordinates{X: 0, Y: 0}, got.Start)
	assert.Equal(t, components.Coordinates{X: 7, Y: 7}, got.Finish)
	require.Len(t, got.Path, 7)
	assert.Equal(t, got.Start, got.Path[0])
	assert.Equal(t, got.Finish, got.Path[6])
}

func TestPathCommand_InvalidSquare(t *testing.T) {
	_, _, err := runCLI(t, "path", "0,8", "1,2")
	require.Error(t, err)
	assert.ErrorIs(t, err, components.ErrInvalidCoordinate)
}

func TestPathCommand_WrongArgCount(t *testing.T) {
	_, _, err := runCLI(t, "path", "0,0")
	assert.Error(t, err)
}

func TestPathCommand_Metrics(t *testing.T) {
	_, stderr, err := runCLI(t, "path", "0,0", "1,2", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, stderr, "knights_searches_total")
}

func TestDemoCommand(t *testing.T) {
	out, _, err := runCLI(t, "demo")
	require.NoError(t, err)

	assert.Contains(t, out, "The shortest path was 1 moves!")
	assert.Contains(t, out, "The shortest path was 3 moves!")
	assert.Contains(t, out, "The shortest path was 6 moves!")
	assert.Equal(t, 3, strings.Count(out, "The moves were:"))
}

func TestTableCommand(t *testing.T) {
	out, _, err := runCLI(t, "table", "0,0")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, components.BoardSize+1)
	assert.Equal(t, "0-| 0 3 2 3 2 3 4 5", lines[1])
	assert.Equal(t, "7-| 5 4 5 4 5 4 5 6", lines[8])
}

func TestHistoryCommand_RequiresStore(t *testing.T) {
	_, _, err := runCLI(t, "history")
	assert.ErrorIs(t, err, errStoreDisabled)
}

func TestStoreRoundTrip(t *testing.T) {
	db := filepath.Join(t.TempDir(), "knights.db")

	first, _, err := runCLI(t, "--db", db, "path", "3,3", "7,6")
	require.NoError(t, err)

	second, _, err := runCLI(t, "--db", db, "path", "3,3", "7,6")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	out, _, err := runCLI(t, "--db", db, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "(3, 3) -> (7, 6)  3 moves")
	assert.Contains(t, out, "Database size: ")
	assert.Equal(t, 2, strings.Count(out, "\n"), "second query answered from store")
}

func TestStoreClosedAfterFailedCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "knights.db")
	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--db", db, "path", "0,0", "9,9"})

	err := cmd.Execute()
	require.ErrorIs(t, err, components.ErrInvalidCoordinate)

	// RunE failed, so nothing inside cobra released the store.
	require.NotNil(t, a.store)
	require.NoError(t, a.close())
	assert.Nil(t, a.store)
	assert.NoError(t, a.close(), "closing twice is harmless")

	// The database is usable by the next process.
	out, _, err := runCLI(t, "--db", db, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No stored searches.")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "knights.yaml")
	dbPath := filepath.Join(dir, "from-config.db")
	content := "log:\n  level: debug\nstore:\n  enabled: true\n  path: " + dbPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	_, stderr, err := runCLI(t, "--config", cfgPath, "path", "0,0", "1,2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "search complete")

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestLogLevelFlagRejectsUnknown(t *testing.T) {
	_, _, err := runCLI(t, "--log-level", "loud", "path", "0,0", "1,2")
	assert.Error(t, err)
}

func TestWriteHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeHistory(&buf, nil, 8192))
	assert.Equal(t, "No stored searches.\nDatabase size: 8.00 KB\n", buf.String())
}
