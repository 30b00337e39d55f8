package cli

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/hardref/pkg/blueprint"
	"github.com/matzehuels/hardref/pkg/registry/mongo"
	"github.com/matzehuels/hardref/pkg/snapshot"
)

const testSnapshot = "../../pkg/pipeline/testdata/registry.toml"

func loadTestSnapshot(t *testing.T) *snapshot.Snapshot {
	t.Helper()
	snap, err := snapshot.Load(testSnapshot)
	require.NoError(t, err)
	return snap
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"scan", "graph", "blueprints", "serve", "registry", "cache", "completion"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("verbose"))
}

func TestScanFlagDefaults(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)

	scan := c.scanCommand()
	f := scan.Flags().Lookup("format")
	require.NotNil(t, f)
	assert.Equal(t, "text", f.DefValue)
	assert.Equal(t, "true", scan.Flags().Lookup("sites").DefValue)

	graph := c.graphCommand()
	assert.NotNil(t, graph.Flags().Lookup("dot"))
}

func TestSelectBlueprint(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	snap := loadTestSnapshot(t)

	bp, err := c.selectBlueprint(snap, "BP_Hero", false)
	require.NoError(t, err)
	assert.Equal(t, "/Game/BP_Hero.BP_Hero_C", string(bp.Path))

	_, err = c.selectBlueprint(snap, "", false)
	assert.Error(t, err, "two blueprints and no name must not guess")

	_, err = c.selectBlueprint(snap, "BP_Nobody", false)
	assert.Error(t, err)
}

func TestBlueprintTable(t *testing.T) {
	out := blueprintTable(loadTestSnapshot(t))
	assert.Contains(t, out, "/Game/BP_Hero.BP_Hero_C")
	assert.Contains(t, out, "/Game/BP_Villain.BP_Villain_C")
	assert.Contains(t, out, "Package")
}

func TestDocumentsFromSnapshot(t *testing.T) {
	docs := documentsFromSnapshot(loadTestSnapshot(t))
	require.Len(t, docs, 4)
	assert.Equal(t, mongo.Document{
		ID:               "/Game/BP_Hero",
		Size:             10,
		Type:             "Blueprint",
		HardDependencies: []string{"/Game/Weapons/Rifle", "/Game/UI/Crosshair"},
	}, docs[0])
	assert.Empty(t, docs[2].HardDependencies)
}

func testBlueprints() []*blueprint.Blueprint {
	return []*blueprint.Blueprint{
		{Path: "/Game/BP_Hero.BP_Hero_C"},
		{Path: "/Game/BP_Villain.BP_Villain_C"},
		{Path: "/Game/BP_Vehicle.BP_Vehicle_C"},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m BlueprintListModel, msgs ...tea.Msg) (BlueprintListModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(BlueprintListModel)
	}
	return m, cmd
}

func TestBlueprintPickerNavigation(t *testing.T) {
	m := NewBlueprintListModel(testBlueprints())
	assert.Len(t, m.visible, 3)

	m, _ = update(t, m, key("down"), key("down"), key("down"))
	assert.Equal(t, 2, m.Cursor, "cursor stops at the last entry")

	m, _ = update(t, m, key("up"))
	assert.Equal(t, 1, m.Cursor)

	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, m.Selected)
	assert.Equal(t, "/Game/BP_Villain.BP_Villain_C", string(m.Selected.Path))
	assert.NotNil(t, cmd)
}

func TestBlueprintPickerFilter(t *testing.T) {
	m := NewBlueprintListModel(testBlueprints())
	m, _ = update(t, m, key("down"), key("v"), key("eh"))

	require.Len(t, m.visible, 1)
	assert.Equal(t, 0, m.Cursor, "filtering resets the cursor")
	assert.Contains(t, m.View(), "BP_Vehicle")

	m, _ = update(t, m, key("zzz"))
	assert.Empty(t, m.visible)
	assert.Contains(t, m.View(), "no matching blueprints")

	m, _ = update(t, m, key("enter"))
	assert.Nil(t, m.Selected, "enter on an empty list selects nothing")
}

func TestBlueprintPickerQuit(t *testing.T) {
	m := NewBlueprintListModel(testBlueprints())
	m, cmd := update(t, m, key("esc"))
	assert.Nil(t, m.Selected)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBlueprintPickerWindowSize(t *testing.T) {
	m := NewBlueprintListModel(testBlueprints())
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 10})
	assert.Equal(t, 5, m.Height)
	assert.True(t, strings.Contains(m.View(), "[1/3]"))
}
