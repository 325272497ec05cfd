package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ideagraph/ideagraph/pkg/engine"
	"github.com/ideagraph/ideagraph/pkg/engine/minimap"
	"github.com/ideagraph/ideagraph/pkg/geom"
	"github.com/ideagraph/ideagraph/pkg/scene"
	"github.com/ideagraph/ideagraph/pkg/view"
)

// Terminal cells are roughly twice as tall as wide; mapping one cell to
// 8x16 engine pixels keeps circles round on screen.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

// newEditCmd creates the edit command: an interactive terminal canvas over
// a snapshot, driven by the same engine the graphical host uses.
func newEditCmd() *cobra.Command {
	var configPath, outPath string

	cmd := &cobra.Command{
		Use:   "edit [snapshot]",
		Short: "Edit a snapshot in an interactive terminal canvas",
		Long: `Edit opens a snapshot in a terminal canvas. Mouse input maps directly to
the interaction engine: click to select, ctrl-click to multi-select,
shift+alt-click two nodes to connect them, drag to move (collisions are
resolved on drop), drag empty canvas to pan, wheel to zoom. Press "n" then
click to place a note, "c" to create a node at a free position, "s" to
save, "q" to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			scn, err := view.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = args[0]
			}
			m := newEditModel(scn, cfg, outPath)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML configuration file")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "save path (defaults to the input file)")

	return cmd
}

// editModel is the bubbletea model for the terminal canvas. It owns the
// engine and also plays the external collaborator: intents emitted by the
// engine mutate the scene right here.
type editModel struct {
	eng     *engine.Engine
	scn     *scene.Scene
	mini    *minimap.Map
	cols    int
	rows    int
	status  string
	outPath string
	dirty   bool
}

func newEditModel(scn *scene.Scene, cfg Config, outPath string) *editModel {
	m := &editModel{scn: scn, outPath: outPath, status: "ready"}

	ecfg := cfg.engineConfig()
	m.eng = engine.New(scn, ecfg, engine.Intents{
		RequestCreateEntity:     m.createNode,
		RequestEditEntity:       func(id string) { m.status = "edit " + id },
		RequestCreateConnection: m.createConnection,
		NodeMoved: func(id string, p geom.Vec) {
			m.status = fmt.Sprintf("moved %s to (%.0f, %.0f)", id, p.X, p.Y)
			m.dirty = true
		},
		RequestCreateNote: func(p geom.Vec) {
			m.status = fmt.Sprintf("note at (%.0f, %.0f)", p.X, p.Y)
		},
	})
	m.mini = minimap.New(scn, m.eng.Camera())
	m.eng.Camera().FitTo(scn.Bounds(), scene.DefaultNodeRadius)
	return m
}

// createNode services the create-entity intent by adding a node at the
// clicked position, pushed to a free spot if needed.
func (m *editModel) createNode(p geom.Vec) {
	id := view.MintID()
	pos := m.eng.Index().NearestFree(p, scene.DefaultNodeRadius, "")
	if err := m.scn.AddNode(scene.Node{ID: id, Pos: pos, Radius: scene.DefaultNodeRadius}); err != nil {
		m.status = "create failed: " + err.Error()
		return
	}
	m.eng.Resync()
	m.status = "created node"
	m.dirty = true
}

func (m *editModel) createConnection(from, to string) {
	c := scene.Connection{ID: view.MintID(), From: from, To: to, Kind: "influenced"}
	if err := m.scn.AddConnection(c); err != nil {
		m.status = "connect failed: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("connected %s %s %s", from, iconArrow, to)
	m.dirty = true
}

func (m *editModel) Init() tea.Cmd {
	return nil
}

func (m *editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = msg.Height
		m.eng.Camera().Resize(geom.Vec{
			X: float64(msg.Width) * cellWidth,
			Y: float64(msg.Height-2) * cellHeight,
		})

	case tea.MouseMsg:
		pos := geom.Vec{X: (float64(msg.X) + 0.5) * cellWidth, Y: (float64(msg.Y) + 0.5) * cellHeight}
		mods := engine.Modifiers{Shift: msg.Shift, Alt: msg.Alt, Ctrl: msg.Ctrl}
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			m.eng.Wheel(pos, -120)
		case msg.Button == tea.MouseButtonWheelDown:
			m.eng.Wheel(pos, 120)
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m.eng.PointerDown(pos, mods)
		case msg.Action == tea.MouseActionMotion:
			m.eng.PointerMove(pos, mods)
		case msg.Action == tea.MouseActionRelease:
			m.eng.PointerUp(pos, mods)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			if err := view.ExportJSON(m.scn, m.outPath); err != nil {
				m.status = "save failed: " + err.Error()
			} else {
				m.status = "saved " + m.outPath
				m.dirty = false
			}
		case "c":
			m.createNode(m.eng.PlaceNew(scene.DefaultNodeRadius))
		case "f":
			m.mini.Fit()
		case "0":
			m.eng.Camera().Reset()
		case "+", "=":
			m.eng.Camera().SetZoom(m.eng.Camera().Zoom() * engine.DefaultWheelZoomStep)
		case "-":
			m.eng.Camera().SetZoom(m.eng.Camera().Zoom() / engine.DefaultWheelZoomStep)
		case "left":
			m.eng.Camera().PanBy(geom.Vec{X: 4 * cellWidth})
		case "right":
			m.eng.Camera().PanBy(geom.Vec{X: -4 * cellWidth})
		case "up":
			m.eng.Camera().PanBy(geom.Vec{Y: 2 * cellHeight})
		case "down":
			m.eng.Camera().PanBy(geom.Vec{Y: -2 * cellHeight})
		default:
			m.eng.KeyDown(msg.String())
			m.eng.KeyUp(msg.String())
		}
	}

	m.eng.FrameDone()
	return m, nil
}

func (m *editModel) View() string {
	if m.cols == 0 || m.rows < 3 {
		return "terminal too small"
	}
	rows := m.rows - 2

	grid := make([][]rune, rows)
	for y := range grid {
		grid[y] = make([]rune, m.cols)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	cam := m.eng.Camera()
	put := func(x, y int, r rune) {
		if x >= 0 && x < m.cols && y >= 0 && y < rows {
			grid[y][x] = r
		}
	}

	// Connections as midpoint markers between endpoint cells.
	for _, c := range m.scn.Connections() {
		from, to := m.scn.Node(c.From), m.scn.Node(c.To)
		if from == nil || to == nil {
			continue
		}
		a := cam.WorldToScreen(from.Pos)
		b := cam.WorldToScreen(to.Pos)
		steps := 16
		for i := 1; i < steps; i++ {
			t := float64(i) / float64(steps)
			p := a.Add(b.Sub(a).Scale(t))
			put(int(p.X/cellWidth), int(p.Y/cellHeight), '·')
		}
	}

	selected := make(map[string]bool)
	for _, id := range m.eng.SelectedIDs() {
		selected[id] = true
	}
	for _, n := range m.scn.Nodes() {
		p := cam.WorldToScreen(n.Pos)
		x, y := int(p.X/cellWidth), int(p.Y/cellHeight)
		glyph := '○'
		if selected[n.ID] {
			glyph = '●'
		}
		put(x, y, glyph)
		if name, ok := n.Meta["name"].(string); ok && name != "" {
			for i, r := range name {
				put(x+2+i, y, r)
			}
		}
	}

	var b strings.Builder
	for y := range grid {
		b.WriteString(string(grid[y]))
		b.WriteByte('\n')
	}

	dirty := ""
	if m.dirty {
		dirty = StyleWarning.Render(" [unsaved]")
	}
	b.WriteString(styleSelected.Render(fmt.Sprintf(" %s ", m.eng.Mode())))
	b.WriteString(StyleDim.Render(fmt.Sprintf(" zoom %.2f  nodes %d  selected %d",
		cam.Zoom(), m.scn.Len(), len(m.eng.SelectedIDs()))))
	b.WriteString(dirty)
	b.WriteByte('\n')
	b.WriteString(StyleDim.Render(" " + m.status))
	return b.String()
}
