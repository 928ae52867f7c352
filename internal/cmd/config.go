package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/Alia5/PADLINK/internal/configpaths"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Generate a configuration template"`
}

// ConfigInit scaffolds a configuration file for a specific command, with
// every option present at its default value.
type ConfigInit struct {
	Command string `arg:"" name:"command" help:"Command to generate config for" enum:"serve,watch,replay"`
	Format  string `help:"Output format" enum:"json,yaml,toml" default:"json"`
	Output  string `help:"Destination file path (defaults to current directory)" xor:"dest"`
	Global  bool   `help:"Write into the user configuration directory instead" xor:"dest"`
	Force   bool   `help:"Overwrite if the file already exists"`
}

// Run builds the template by reflecting over the command struct and its
// kong tags, so new flags show up here without extra bookkeeping.
func (c *ConfigInit) Run() error {
	var root map[string]any
	switch c.Command {
	case "serve":
		root = templateFor(reflect.TypeOf(Serve{}))
	case "watch":
		root = templateFor(reflect.TypeOf(Watch{}))
	case "replay":
		root = templateFor(reflect.TypeOf(Replay{}))
	default:
		return fmt.Errorf("unknown command: %s", c.Command)
	}

	format := strings.ToLower(c.Format)
	if format == "yml" {
		format = "yaml"
	}

	dest := c.Output
	if c.Global {
		var err error
		if dest, err = configpaths.DefaultNamedConfigPath(c.Command, format); err != nil {
			return err
		}
	} else if dest == "" {
		dest = c.Command + "." + format
	}
	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}

	var data []byte
	var err error
	switch format {
	case "json":
		data, err = json.MarshalIndent(root, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(root)
	case "toml":
		data, err = toml.Marshal(root)
	default:
		return fmt.Errorf("unsupported format: %s", c.Format)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

// templateFor maps a command struct to nested config keys. Embedded fields
// with a prefix become a nested section; positional args are skipped since
// they cannot come from a config file.
func templateFor(t reflect.Type) map[string]any {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := map[string]any{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("kong") == "-" {
			continue
		}
		if _, ok := f.Tag.Lookup("arg"); ok {
			continue
		}

		if _, ok := f.Tag.Lookup("embed"); ok {
			section := strings.TrimSuffix(f.Tag.Get("prefix"), ".")
			sub := templateFor(f.Type)
			if section == "" {
				for k, v := range sub {
					out[k] = v
				}
			} else {
				out[section] = sub
			}
			continue
		}

		if val := fieldDefault(f.Type, f.Tag.Get("default")); val != nil {
			out[configKey(f.Name)] = val
		}
	}
	return out
}

// configKey lowercases the first rune of a field name, matching how kong
// derives config keys.
func configKey(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] += 'a' - 'A'
	}
	return string(r)
}

func fieldDefault(t reflect.Type, def string) any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "time" && t.Name() == "Duration" {
		if def == "" {
			return "0s"
		}
		return def
	}
	switch t.Kind() {
	case reflect.String:
		return def
	case reflect.Bool:
		b, _ := strconv.ParseBool(def)
		return b
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, _ := strconv.ParseInt(def, 10, 64)
		return n
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, _ := strconv.ParseUint(def, 10, 64)
		return n
	case reflect.Float32, reflect.Float64:
		f, _ := strconv.ParseFloat(def, 64)
		return f
	case reflect.Struct:
		return templateFor(t)
	default:
		return nil
	}
}
