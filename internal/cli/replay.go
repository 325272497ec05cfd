package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ideagraph/ideagraph/pkg/engine"
	"github.com/ideagraph/ideagraph/pkg/errors"
	"github.com/ideagraph/ideagraph/pkg/geom"
	"github.com/ideagraph/ideagraph/pkg/view"
)

// traceFile is a recorded input sequence. Events run in order against a
// deterministic clock, so a trace replays identically on every run.
//
//	{
//	  "events": [
//	    {"kind": "down", "x": 100, "y": 100},
//	    {"kind": "move", "x": 150, "y": 100},
//	    {"kind": "up",   "x": 150, "y": 100},
//	    {"kind": "wheel", "x": 400, "y": 300, "delta": -120},
//	    {"kind": "key",  "key": "escape"},
//	    {"kind": "wait", "ms": 600}
//	  ]
//	}
type traceFile struct {
	Events []traceEvent `json:"events"`
}

type traceEvent struct {
	Kind  string    `json:"kind"` // down, move, up, wheel, key, wait
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	Delta float64   `json:"delta,omitempty"`
	Key   string    `json:"key,omitempty"`
	Ms    int       `json:"ms,omitempty"`
	Mods  traceMods `json:"mods,omitempty"`
}

type traceMods struct {
	Shift bool `json:"shift,omitempty"`
	Alt   bool `json:"alt,omitempty"`
	Ctrl  bool `json:"ctrl,omitempty"`
	Meta  bool `json:"meta,omitempty"`
}

// newReplayCmd creates the replay command. It loads a snapshot and a trace,
// drives the interaction engine through the trace, and prints every emitted
// intent plus the final engine state.
func newReplayCmd() *cobra.Command {
	var configPath, outPath string

	cmd := &cobra.Command{
		Use:   "replay [snapshot] [trace]",
		Short: "Replay a recorded pointer trace against a snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), args[0], args[1], configPath, outPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML configuration file")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the resulting snapshot to this file")

	return cmd
}

func runReplay(ctx context.Context, snapshotPath, tracePath, configPath, outPath string) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	scn, err := view.ImportJSON(snapshotPath)
	if err != nil {
		return err
	}
	trace, err := loadTrace(tracePath)
	if err != nil {
		return err
	}

	// A synthetic clock driven by the trace's wait events keeps click and
	// double-click classification reproducible.
	now := time.Unix(0, 0)
	ecfg := cfg.engineConfig()
	ecfg.Now = func() time.Time { return now }

	intents := 0
	eng := engine.New(scn, ecfg, engine.Intents{
		RequestCreateEntity: func(p geom.Vec) {
			intents++
			printInfo("create-entity at (%.1f, %.1f)", p.X, p.Y)
		},
		RequestEditEntity: func(id string) {
			intents++
			printInfo("edit-entity %s", id)
		},
		RequestCreateConnection: func(from, to string) {
			intents++
			printInfo("create-connection %s %s %s", from, iconArrow, to)
		},
		NodeMoved: func(id string, p geom.Vec) {
			intents++
			printInfo("node-moved %s to (%.1f, %.1f)", id, p.X, p.Y)
		},
		RequestCreateNote: func(p geom.Vec) {
			intents++
			printInfo("create-note at (%.1f, %.1f)", p.X, p.Y)
		},
		SelectionChanged: func(ids []string) {
			logger.Debug("selection changed", "ids", ids)
		},
	})

	for i, ev := range trace.Events {
		pos := geom.Vec{X: ev.X, Y: ev.Y}
		mods := engine.Modifiers{Shift: ev.Mods.Shift, Alt: ev.Mods.Alt, Ctrl: ev.Mods.Ctrl, Meta: ev.Mods.Meta}
		switch ev.Kind {
		case "down":
			eng.PointerDown(pos, mods)
		case "move":
			eng.PointerMove(pos, mods)
		case "up":
			eng.PointerUp(pos, mods)
		case "wheel":
			eng.Wheel(pos, ev.Delta)
		case "key":
			eng.KeyDown(ev.Key)
			eng.KeyUp(ev.Key)
		case "wait":
			now = now.Add(time.Duration(ev.Ms) * time.Millisecond)
		default:
			return errors.New(errors.ErrCodeInvalidTrace, "event %d: unknown kind %q", i, ev.Kind)
		}
	}

	if err := scn.Validate(); err != nil {
		printWarning("final scene is inconsistent: %v", errors.UserMessage(err))
	}

	fmt.Println()
	printDetail("mode: %s", eng.Mode())
	printDetail("selection: %v", eng.SelectedIDs())
	printDetail("zoom: %.2f", eng.Camera().Zoom())
	printSuccess("Replayed %d events, %d intents", len(trace.Events), intents)

	if outPath != "" {
		if err := view.ExportJSON(scn, outPath); err != nil {
			return err
		}
		printFile(outPath, false)
	}
	return nil
}

func loadTrace(path string) (*traceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	var trace traceFile
	if err := json.Unmarshal(data, &trace); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTrace, err, "parse trace %s", path)
	}
	return &trace, nil
}
