// Server configuration: TOML file plus flag overrides
//
// Copyright (c) 2024 go-checkers authors
//
// This file is part of go-checkers.
//
// go-checkers is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-checkers is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-checkers. If not, see
// <http://www.gnu.org/licenses/>

// Package config loads the server's TOML configuration file and
// layers command-line flags on top of it: any flag explicitly passed
// on the command line overrides the corresponding file value, flags
// left at their default never touch a value the file set.
package config

import (
	"flag"
	"os"

	"github.com/BurntSushi/toml"
)

// Conf is the full set of server-tunable values.
type Conf struct {
	Bind        string `toml:"bind"`
	Port        uint   `toml:"port"`
	WSPort      uint   `toml:"ws_port"`
	LogLevel    string `toml:"log_level"`
	IdleSeconds uint   `toml:"idle_seconds"`
	GameSlots   uint   `toml:"game_slots"`
	BoardSize   uint   `toml:"board_size"`
}

// Default mirrors the teacher's own defaultConfig convention: a
// package-level value used as the fallback for every setting and as
// the default value of each flag.
var Default = Conf{
	Bind:        "0.0.0.0",
	Port:        5000,
	WSPort:      8080,
	LogLevel:    "info",
	IdleSeconds: 300,
	GameSlots:   0,
	BoardSize:   8,
}

// Load registers the server's flags on fs (main passes a fresh
// FlagSet), parses args, reads -conf if given, and returns the merged configuration: file
// values first, then any flag explicitly present on the command line.
func Load(fs *flag.FlagSet, args []string) (*Conf, error) {
	conf := Default

	confPath := fs.String("conf", "", "path to a TOML configuration file")
	bind := fs.String("bind", conf.Bind, "interface to bind the TCP listener to")
	port := fs.Uint("port", conf.Port, "TCP port for the line protocol")
	wsPort := fs.Uint("ws-port", conf.WSPort, "port for the websocket bridge (0 disables it)")
	logLevel := fs.String("log-level", conf.LogLevel, "debug or info")
	idleSeconds := fs.Uint("idle-seconds", conf.IdleSeconds, "inactivity threshold before a game is reaped")
	gameSlots := fs.Uint("game-slots", conf.GameSlots, "maximum concurrent games (0 = unbounded)")
	boardSize := fs.Uint("board-size", conf.BoardSize, "board side length")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *confPath != "" {
		file, err := os.Open(*confPath)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		if _, err := toml.NewDecoder(file).Decode(&conf); err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bind":
			conf.Bind = *bind
		case "port":
			conf.Port = *port
		case "ws-port":
			conf.WSPort = *wsPort
		case "log-level":
			conf.LogLevel = *logLevel
		case "idle-seconds":
			conf.IdleSeconds = *idleSeconds
		case "game-slots":
			conf.GameSlots = *gameSlots
		case "board-size":
			conf.BoardSize = *boardSize
		}
	})

	return &conf, nil
}
