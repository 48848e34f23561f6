package infra

import (
	"fmt"
)

// ANSI Color Codes
const (
	ColorReset  = "\033[0m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// PrintBanner displays the startup banner with the session target.
func PrintBanner(cfg *Config) {
	transport := "PLAINTEXT (ws/http)"
	color := ColorYellow
	if cfg.Session.Secure {
		transport = "ENCRYPTED (wss/https)"
		color = ColorGreen
	}

	fmt.Println()
	fmt.Printf("%s###########################################################%s\n", color, ColorReset)
	fmt.Printf("%s#                                                         #%s\n", color, ColorReset)
	fmt.Printf("%s#              Market-Making Client                       #%s\n", color, ColorReset)
	fmt.Printf("%s#                                                         #%s\n", color, ColorReset)
	fmt.Printf("%s#   TEAM:      %-40s  #%s\n", color, cfg.Session.Team, ColorReset)
	fmt.Printf("%s#   SCENARIO:  %-40s  #%s\n", color, cfg.Session.Scenario, ColorReset)
	fmt.Printf("%s#   HOST:      %-40s  #%s\n", color, cfg.Session.Host, ColorReset)
	fmt.Printf("%s#   TRANSPORT: %-40s  #%s\n", color, transport, ColorReset)
	fmt.Printf("%s#                                                         #%s\n", color, ColorReset)
	fmt.Printf("%s###########################################################%s\n", color, ColorReset)
	fmt.Println()
}
