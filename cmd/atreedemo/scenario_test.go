package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixtureScenario = `{
  "attributes": [
    {"name": "private", "type": "bool"},
    {"name": "exchange_id", "type": "i64"},
    {"name": "tags", "type": "set<string>"}
  ],
  "subscriptions": [
    {"id": 42, "expr": "exchange_id = 1 and private"},
    {"id": 5, "expr": "tags in [\"sale\"]"}
  ],
  "events": [
    {"name": "matches_both", "values": {"private": true, "exchange_id": 1, "tags": ["sale", "new"]}},
    {"name": "matches_neither", "values": {"private": false, "exchange_id": 1, "tags": ["new"]}}
  ]
}`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.json")
	require.NoError(t, os.WriteFile(path, []byte(fixtureScenario), 0o644))
	return path
}

// TestScenarioRoundTrip_ProducesExpectedMatchSet is the CLI smoke test: a
// scenario JSON fixture round-tripped through loadScenario/buildTree/
// buildEvent/Search must reproduce the match sets the fixture's
// expressions imply, with no network access and a temp-file-backed
// fixture.
func TestScenarioRoundTrip_ProducesExpectedMatchSet(t *testing.T) {
	path := writeFixture(t)

	sc, err := loadScenario(path)
	require.NoError(t, err)
	require.Len(t, sc.Attributes, 3)
	require.Len(t, sc.Subscriptions, 2)
	require.Len(t, sc.Events, 2)

	tree, err := buildTree(sc)
	require.NoError(t, err)
	require.Equal(t, 2, tree.Len())

	eb, err := buildEvent(tree, sc, sc.Events[0])
	require.NoError(t, err)
	matches, err := tree.Search(eb)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint64{42, 5}, matches)

	eb, err = buildEvent(tree, sc, sc.Events[1])
	require.NoError(t, err)
	matches, err = tree.Search(eb)
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestScenarioRoundTrip_UndeclaredEventAttributeFails(t *testing.T) {
	path := writeFixture(t)
	sc, err := loadScenario(path)
	require.NoError(t, err)

	tree, err := buildTree(sc)
	require.NoError(t, err)

	_, err = buildEvent(tree, sc, eventSpec{Name: "bad", Values: map[string]any{"missing": true}})
	require.Error(t, err)
}
