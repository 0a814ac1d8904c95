package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig is the complete on-disk configuration.
type ServerConfig struct {
	Server *ServerSettings `hcl:"server,block"`
	Room   *RoomSettings   `hcl:"room,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// RoomSettings contains the defaults applied to every created room.
type RoomSettings struct {
	SmallBlind int `hcl:"small_blind,optional"`
	BigBlind   int `hcl:"big_blind,optional"`
	Seats      int `hcl:"seats,optional"`
}

// DefaultServerConfig returns the built-in configuration.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: &ServerSettings{
			Address:  "localhost:8080",
			LogLevel: "info",
		},
		Room: &RoomSettings{
			SmallBlind: 100,
			BigBlind:   200,
			Seats:      10,
		},
	}
}

// LoadServerConfig loads configuration from an HCL file, falling back
// to defaults when the file does not exist or omits values.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultServerConfig()
	if config.Server == nil {
		config.Server = defaults.Server
	}
	if config.Room == nil {
		config.Room = defaults.Room
	}
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Room.SmallBlind == 0 {
		config.Room.SmallBlind = defaults.Room.SmallBlind
	}
	if config.Room.BigBlind == 0 {
		config.Room.BigBlind = defaults.Room.BigBlind
	}
	if config.Room.Seats == 0 {
		config.Room.Seats = defaults.Room.Seats
	}
	return &config, nil
}

// Defaults converts the room settings into the registry's RoomDefaults.
func (c *ServerConfig) Defaults() RoomDefaults {
	return RoomDefaults{
		SmallBlind: c.Room.SmallBlind,
		BigBlind:   c.Room.BigBlind,
		Seats:      c.Room.Seats,
	}
}
