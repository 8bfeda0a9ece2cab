// Package config loads diagnostics settings and scheduled checks from an optional YAML file.
// Every field has a default, so running without a file gives the stock catalog.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"regexp"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// check kinds allowed in the checks section
const (
	KindPing         = "ping"
	KindTraceroute   = "traceroute"
	KindNetInfo      = "netinfo"
	KindReachability = "reachability"
	KindTSStatus     = "ts-status"
	KindDebug        = "debug"
	KindSysInfo      = "sysinfo"
)

// CheckKinds lists kinds usable by scheduled checks. bugreport is excluded, it uploads data to tailscale.
var CheckKinds = []string{KindPing, KindTraceroute, KindNetInfo, KindReachability, KindTSStatus, KindDebug, KindSysInfo}

const (
	minTimeout = time.Second
	maxTimeout = 5 * time.Minute
)

var reCheckName = regexp.MustCompile(`^[\w .:-]{1,64}$`)

// Config is the top level of the YAML file
type Config struct {
	Binaries Binaries `yaml:"binaries" json:"binaries,omitempty" jsonschema:"description=paths to external binaries"`
	Timeouts Timeouts `yaml:"timeouts" json:"timeouts,omitempty" jsonschema:"description=per-diagnostic command timeouts"`
	Debug    Debug    `yaml:"debug" json:"debug,omitempty" jsonschema:"description=six-step debug report settings"`
	Presets  Presets  `yaml:"presets" json:"presets,omitempty" jsonschema:"description=values prefilled in the form"`
	Checks   []Check  `yaml:"checks" json:"checks,omitempty" jsonschema:"description=scheduled background checks"`
}

// Binaries holds names or paths of the external commands
type Binaries struct {
	Ping       string `yaml:"ping" json:"ping,omitempty"`
	Traceroute string `yaml:"traceroute" json:"traceroute,omitempty"`
	IP         string `yaml:"ip" json:"ip,omitempty"`
	SS         string `yaml:"ss" json:"ss,omitempty"`
	Curl       string `yaml:"curl" json:"curl,omitempty"`
	Tailscale  string `yaml:"tailscale" json:"tailscale,omitempty"`
}

// Timeouts for each diagnostic. DebugStep applies to every command of the debug report.
type Timeouts struct {
	Ping         time.Duration `yaml:"ping" json:"ping,omitempty"`
	Traceroute   time.Duration `yaml:"traceroute" json:"traceroute,omitempty"`
	NetInfo      time.Duration `yaml:"netinfo" json:"netinfo,omitempty"`
	Reachability time.Duration `yaml:"reachability" json:"reachability,omitempty"`
	TSStatus     time.Duration `yaml:"ts_status" json:"ts_status,omitempty"`
	BugReport    time.Duration `yaml:"bugreport" json:"bugreport,omitempty"`
	DebugStep    time.Duration `yaml:"debug_step" json:"debug_step,omitempty"`
}

// Debug configures the egress ip comparison
type Debug struct {
	IPEchoURL   string `yaml:"ip_echo_url" json:"ip_echo_url,omitempty" jsonschema:"description=URL returning caller public IP as plain text"`
	SOCKS5Proxy string `yaml:"socks5_proxy" json:"socks5_proxy,omitempty" jsonschema:"description=host:port of tailscale SOCKS5 proxy"`
}

// Presets are default form values
type Presets struct {
	Target    string `yaml:"target" json:"target,omitempty"`
	ReachHost string `yaml:"reach_host" json:"reach_host,omitempty"`
	ReachPort int    `yaml:"reach_port" json:"reach_port,omitempty"`
}

// Check is a scheduled diagnostic
type Check struct {
	Name   string `yaml:"name" json:"name" jsonschema:"required"`
	Spec   string `yaml:"spec" json:"spec" jsonschema:"required,description=cron spec with 5 fields or @descriptor"`
	Kind   string `yaml:"kind" json:"kind" jsonschema:"required,enum=ping,enum=traceroute,enum=netinfo,enum=reachability,enum=ts-status,enum=debug,enum=sysinfo"`
	Target string `yaml:"target,omitempty" json:"target,omitempty" jsonschema:"description=host for ping and traceroute"`
	Host   string `yaml:"host,omitempty" json:"host,omitempty" jsonschema:"description=host for reachability"`
	Port   int    `yaml:"port,omitempty" json:"port,omitempty" jsonschema:"description=port for reachability"`
	Proxy  bool   `yaml:"proxy,omitempty" json:"proxy,omitempty" jsonschema:"description=connect through the SOCKS5 proxy"`
}

// Default returns the stock configuration
func Default() Config {
	return Config{
		Binaries: Binaries{
			Ping:       "ping",
			Traceroute: "traceroute",
			IP:         "ip",
			SS:         "ss",
			Curl:       "curl",
			Tailscale:  "/app/tailscale",
		},
		Timeouts: Timeouts{
			Ping:         10 * time.Second,
			Traceroute:   60 * time.Second,
			NetInfo:      5 * time.Second,
			Reachability: 5 * time.Second,
			TSStatus:     10 * time.Second,
			BugReport:    30 * time.Second,
			DebugStep:    15 * time.Second,
		},
		Debug: Debug{
			IPEchoURL:   "https://ifconfig.me",
			SOCKS5Proxy: "localhost:1055",
		},
		Presets: Presets{
			Target:    "8.8.8.8",
			ReachHost: "100.100.100.100",
			ReachPort: 53,
		},
	}
}

// Load reads YAML file on top of defaults and validates the result. Empty path returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 - path comes from trusted cli option
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks binaries, timeouts and scheduled checks
func (c Config) Validate() error {
	bins := map[string]string{"ping": c.Binaries.Ping, "traceroute": c.Binaries.Traceroute, "ip": c.Binaries.IP,
		"ss": c.Binaries.SS, "curl": c.Binaries.Curl, "tailscale": c.Binaries.Tailscale}
	for name, v := range bins {
		if v == "" {
			return fmt.Errorf("binaries.%s is empty", name)
		}
	}

	timeouts := map[string]time.Duration{"ping": c.Timeouts.Ping, "traceroute": c.Timeouts.Traceroute,
		"netinfo": c.Timeouts.NetInfo, "reachability": c.Timeouts.Reachability, "ts_status": c.Timeouts.TSStatus,
		"bugreport": c.Timeouts.BugReport, "debug_step": c.Timeouts.DebugStep}
	for name, v := range timeouts {
		if v < minTimeout || v > maxTimeout {
			return fmt.Errorf("timeouts.%s must be between %v and %v, got %v", name, minTimeout, maxTimeout, v)
		}
	}

	if c.Debug.IPEchoURL == "" {
		return errors.New("debug.ip_echo_url is empty")
	}
	if c.Debug.SOCKS5Proxy == "" {
		return errors.New("debug.socks5_proxy is empty")
	}

	names := make(map[string]bool, len(c.Checks))
	for i, chk := range c.Checks {
		if err := validateCheck(chk); err != nil {
			return fmt.Errorf("check %d: %w", i+1, err)
		}
		if names[chk.Name] {
			return fmt.Errorf("check %d: duplicate name %q", i+1, chk.Name)
		}
		names[chk.Name] = true
	}
	return nil
}

// MaxTimeout returns the largest configured timeout, used to size server write timeout
func (c Config) MaxTimeout() time.Duration {
	res := c.Timeouts.Ping
	for _, v := range []time.Duration{c.Timeouts.Traceroute, c.Timeouts.NetInfo * 2, c.Timeouts.Reachability,
		c.Timeouts.TSStatus, c.Timeouts.BugReport, c.Timeouts.DebugStep} {
		res = max(res, v)
	}
	return res
}

func validateCheck(chk Check) error {
	if !reCheckName.MatchString(chk.Name) {
		return fmt.Errorf("invalid name %q", chk.Name)
	}
	if _, err := cron.ParseStandard(chk.Spec); err != nil {
		return fmt.Errorf("invalid spec %q: %w", chk.Spec, err)
	}

	switch chk.Kind {
	case KindPing, KindTraceroute:
		if chk.Target == "" {
			return fmt.Errorf("target is required for %s", chk.Kind)
		}
	case KindReachability:
		if chk.Host == "" {
			return errors.New("host is required for reachability")
		}
		if chk.Port < 1 || chk.Port > 65535 {
			return fmt.Errorf("port %d out of range", chk.Port)
		}
	case KindNetInfo, KindTSStatus, KindDebug, KindSysInfo:
	default:
		return fmt.Errorf("unknown kind %q", chk.Kind)
	}
	return nil
}

// durationPattern matches strings accepted by time.ParseDuration, e.g. 90s or 1m30s
const durationPattern = `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`

// GenerateSchema generates a JSON schema for the Config struct.
// Durations are described as strings, the way they are written in YAML.
func GenerateSchema() *jsonschema.Schema {
	r := jsonschema.Reflector{Mapper: func(t reflect.Type) *jsonschema.Schema {
		if t == reflect.TypeFor[time.Duration]() {
			return &jsonschema.Schema{Type: "string", Pattern: durationPattern, Description: "duration, e.g. 10s or 1m30s"}
		}
		return nil
	}}
	schema := r.Reflect(&Config{})
	schema.Title = "netdiag configuration"
	schema.Description = "Schema for netdiag YAML configuration file"
	return schema
}
