// This file is part of Chessboard.
//
// Chessboard is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Chessboard is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Chessboard.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/chessboard/chessboard/buttons"
	"github.com/chessboard/chessboard/clock"
	"github.com/chessboard/chessboard/engine"
	"github.com/chessboard/chessboard/engine/uci"
	"github.com/chessboard/chessboard/environment"
	"github.com/chessboard/chessboard/events"
	"github.com/chessboard/chessboard/game"
	"github.com/chessboard/chessboard/logger"
	"github.com/chessboard/chessboard/modalflag"
	"github.com/chessboard/chessboard/paths"
	"github.com/chessboard/chessboard/prefs"
	"github.com/chessboard/chessboard/sensors"
	"github.com/chessboard/chessboard/server"
	"github.com/chessboard/chessboard/statsview"
	"github.com/chessboard/chessboard/store"
	"github.com/chessboard/chessboard/version"
)

// exit values
const (
	exitHelp  = 0
	exitArgs  = 10
	exitError = 20
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// the first interrupt ends the program gracefully. the second ends it
	// immediately
	intChan := make(chan os.Signal, 2)
	signal.Notify(intChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan int)
	go func() {
		done <- launch(ctx, os.Args[1:], os.Stdout)
	}()

	exitVal := 0
	interrupted := false
	for running := true; running; {
		select {
		case <-intChan:
			fmt.Print("\r")
			if interrupted {
				os.Exit(exitError)
			}
			interrupted = true
			cancel()

		case exitVal = <-done:
			running = false
		}
	}

	os.Exit(exitVal)
}

// launch parses the arguments and runs the selected mode. Returns the value
// to be used with os.Exit().
func launch(ctx context.Context, args []string, output io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitArgs
	}

	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.AddSubModes("RUN", "HISTORY", "CALIBRATE", "WEIGHTS", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.Help:
		return exitHelp
	case modalflag.Error:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitArgs
	}

	switch md.Mode() {
	case "RUN":
		err = run(ctx, md, &cfg, output)
	case "HISTORY":
		err = history(ctx, md, &cfg, output)
	case "CALIBRATE":
		err = calibrate(md, &cfg, output)
	case "WEIGHTS":
		err = weights(md, &cfg, output)
	case "VERSION":
		fmt.Fprintln(output, version.Get())
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md, err)
		return exitError
	}

	return 0
}

func run(ctx context.Context, md *modalflag.Modes, cfg *Config, output io.Writer) error {
	md.NewMode()
	cfg.bind(md, "listen", "serial", "db", "engine", "prefs", "log")
	keypad := md.AddBool("buttons", false, "read the time buttons from the terminal")

	var stats *bool
	if statsview.Available() {
		stats = md.AddBool("statsview", false, "run the runtime statistics server")
	}

	p, err := md.Parse()
	if err != nil || p != modalflag.Continue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	if cfg.Log {
		logger.SetEcho(output, false)
	} else {
		logger.SetEcho(nil, false)
	}

	if cfg.Prefs != "" {
		prefs.PushCommandLineStack(cfg.Prefs)
	}

	prefsFile, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return err
	}

	gamePrefs, err := game.NewPreferences(prefsFile)
	if err != nil {
		return err
	}
	enginePrefs, err := engine.NewPreferences(prefsFile)
	if err != nil {
		return err
	}
	sensorPrefs, err := sensors.NewPreferences(prefsFile)
	if err != nil {
		return err
	}

	if cfg.Prefs != "" {
		if unused := prefs.PopCommandLineStack(); unused != "" {
			logger.Logf(logger.Allow, "chessboard", "unused preferences: %s", unused)
		}
	}

	if cfg.Engine != "" {
		if err := enginePrefs.Path.Set(cfg.Engine); err != nil {
			return err
		}
	}
	weightsDir, err := resolve(enginePrefs.WeightsDir.String())
	if err != nil {
		return err
	}
	if err := enginePrefs.WeightsDir.Set(weightsDir); err != nil {
		return err
	}

	dbPath, err := cfg.databasePath()
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	env := environment.NewEnvironment(environment.MainLabel, nil)
	defer env.Close()

	clk := clock.NewClock(env.Bus)
	defer clk.Close()

	worker := engine.NewWorker(env.Bus, uci.Factory(enginePrefs), env.Random, enginePrefs)
	defer worker.Stop()

	ctrl, err := game.NewController(env.Bus, clk, worker, gamePrefs, st)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	st.Attach(env.Bus)

	rec, ok, err := st.Load(ctx)
	if err != nil {
		return err
	}
	if ok {
		if err := ctrl.Restore(rec); err != nil {
			logger.Logf(logger.Allow, "chessboard", "discarding saved game: %v", err)
		}
	}

	if stats != nil && *stats {
		statsview.Launch(ctx, output)
	}

	// open the devices before starting anything so that a missing device
	// doesn't leave the server running
	var link *sensors.Link
	if cfg.Serial != "" {
		link, err = sensors.Open(cfg.Serial, env.Bus, sensorPrefs)
		if err != nil {
			return err
		}
		defer link.Close()
	}

	var kp *buttons.Keypad
	if *keypad {
		kp, err = buttons.NewKeypad(os.Stdin)
		if err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	srv := server.NewServer(env.Bus, ctrl, st)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, cfg.Listen)
	})

	if link != nil {
		g.Go(func() error {
			return link.Run(gctx)
		})
	}

	if kp != nil {
		g.Go(func() error {
			return kp.Run(gctx, env.Bus)
		})
	}

	logger.Logf(logger.Allow, "chessboard", "%s", version.Get())
	fmt.Fprintf(output, "chessboard running at %s\n", cfg.Listen)

	err = g.Wait()

	// the bus is stopped by the deferred env.Close() after everything that
	// publishes to it has finished
	env.Bus.Publish(events.Shutdown{})

	return err
}

func history(ctx context.Context, md *modalflag.Modes, cfg *Config, output io.Writer) error {
	md.NewMode()
	cfg.bind(md, "db")
	export := md.AddBool("pgn", false, "export every game to a PGN file")
	dir := md.AddString("dir", "", "directory for the PGN file (defaults to the resource directory)")

	p, err := md.Parse()
	if err != nil || p != modalflag.Continue {
		return err
	}

	dbPath, err := cfg.databasePath()
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if *export {
		fn, err := st.ExportPGN(ctx, *dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(output, "games exported to %s\n", fn)
		return nil
	}

	return st.List(ctx, output)
}

func calibrate(md *modalflag.Modes, cfg *Config, output io.Writer) error {
	md.NewMode()
	cfg.bind(md, "serial")
	md.AdditionalHelp("Remove every piece from the board before calibrating.")

	p, err := md.Parse()
	if err != nil || p != modalflag.Continue {
		return err
	}

	if cfg.Serial == "" {
		return fmt.Errorf("serial device required for %s mode", md)
	}

	prefsFile, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return err
	}
	sensorPrefs, err := sensors.NewPreferences(prefsFile)
	if err != nil {
		return err
	}

	link, err := sensors.Open(cfg.Serial, nil, sensorPrefs)
	if err != nil {
		return err
	}
	defer link.Close()

	if err := link.Calibrate(); err != nil {
		return err
	}

	fmt.Fprintln(output, "calibration complete")
	return nil
}

func weights(md *modalflag.Modes, cfg *Config, output io.Writer) error {
	md.NewMode()
	md.AdditionalHelp("With no arguments the installed weights are listed. With one argument\nthe named weight file is moved into the weights directory.")

	p, err := md.Parse()
	if err != nil || p != modalflag.Continue {
		return err
	}

	prefsFile, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return err
	}
	enginePrefs, err := engine.NewPreferences(prefsFile)
	if err != nil {
		return err
	}
	dir, err := resolve(enginePrefs.WeightsDir.String())
	if err != nil {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		w, err := uci.AvailableWeights(dir)
		if err != nil {
			return err
		}
		if len(w) == 0 {
			fmt.Fprintf(output, "no weights in %s\n", dir)
		}
		for _, n := range w {
			fmt.Fprintln(output, n)
		}
	case 1:
		n, err := uci.InstallWeight(md.GetArg(0), dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(output, "installed %s\n", n)
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	return nil
}
