package api

// ServerConfig represents the serve subcommand's API configuration.
type ServerConfig struct {
	Addr         string `help:"API server listen address" default:":3421" env:"PADLINK_API_ADDR"`
	Password     string `help:"Pre-shared API password; empty generates one on first start" env:"PADLINK_API_PASSWORD"`
	StreamBuffer int    `help:"Event frames buffered per stream subscriber" default:"256" env:"PADLINK_API_STREAM_BUFFER"`
}
