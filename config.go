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
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/chessboard/chessboard/modalflag"
	"github.com/chessboard/chessboard/paths"
)

// Config is the deployment configuration. Values are taken from the
// environment and can be overridden on the command line.
type Config struct {
	// address of the HTTP server
	Listen string `env:"CHESSBOARD_LISTEN" envDefault:"localhost:8080"`

	// serial device of the sensor controller. no sensors if empty
	Serial string `env:"CHESSBOARD_SERIAL"`

	// path to the database. defaults to a file in the resource directory
	Database string `env:"CHESSBOARD_DB"`

	// path to the engine executable. overrides the engine.path preference
	Engine string `env:"CHESSBOARD_ENGINE"`

	// preferences for this run only, in the form "key::value; key::value"
	Prefs string `env:"CHESSBOARD_PREFS"`

	// echo the log to stdout
	Log bool `env:"CHESSBOARD_LOG"`
}

// loadConfig from the environment.
func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// bind the configuration fields to flags for the next call to Parse()
func (cfg *Config) bind(md *modalflag.Modes, fields ...string) {
	for _, f := range fields {
		switch f {
		case "listen":
			md.BindString(&cfg.Listen, "listen", "address of the HTTP server")
		case "serial":
			md.BindString(&cfg.Serial, "serial", "serial device of the sensor controller")
		case "db":
			md.BindString(&cfg.Database, "db", "path to the game database")
		case "engine":
			md.BindString(&cfg.Engine, "engine", "path to the engine executable")
		case "prefs":
			md.BindString(&cfg.Prefs, "prefs", "preferences for this run only")
		case "log":
			md.BindBool(&cfg.Log, "log", "echo the log to stdout")
		}
	}
}

// databasePath returns the configured database path or the default.
func (cfg *Config) databasePath() (string, error) {
	if cfg.Database != "" {
		return cfg.Database, nil
	}
	return paths.ResourcePath("", "chessboard.db")
}

// resolve a path from the preferences file. relative paths are relative to
// the resource directory
func resolve(pth string) (string, error) {
	if filepath.IsAbs(pth) {
		return pth, nil
	}
	return paths.ResourcePath("", pth)
}
