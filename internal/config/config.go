// Package config defines the root CLI structure parsed by kong. Values are
// layered: config file defaults, then environment variables, then flags.
package config

import (
	"github.com/alecthomas/kong"

	"github.com/Alia5/PADLINK/internal/cmd"
)

// Log holds the logging flags shared by every command.
type Log struct {
	Level   string `help:"Log level (trace, debug, info, warn, error)" enum:"trace,debug,info,warn,error" default:"info" env:"PADLINK_LOG_LEVEL"`
	File    string `help:"Duplicate log output into this file" env:"PADLINK_LOG_FILE"`
	RawFile string `help:"Write raw input reports to this file; the replay command reads it back" env:"PADLINK_LOG_RAW_FILE"`
}

// CLI is the root command tree.
type CLI struct {
	Log Log `embed:"" prefix:"log."`

	ConfigPath string           `name:"config" help:"Path to an explicit configuration file" env:"PADLINK_CONFIG"`
	Version    kong.VersionFlag `help:"Print version and exit"`

	Serve  cmd.Serve         `cmd:"" help:"Run the padlink server: decode the gamepad and expose the TCP API"`
	Watch  cmd.Watch         `cmd:"" help:"Print change events from a local gamepad or a report capture"`
	Replay cmd.Replay        `cmd:"" help:"Decode a captured report log and print the resulting events"`
	Config cmd.ConfigCommand `cmd:"" help:"Configuration file utilities"`
}
