package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	ntf "github.com/go-pkgz/notify"
	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/umputun/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/netdiag/app/config"
	"github.com/umputun/netdiag/app/diag"
	"github.com/umputun/netdiag/app/notify"
	"github.com/umputun/netdiag/app/recorder"
	"github.com/umputun/netdiag/app/runner"
	"github.com/umputun/netdiag/app/scheduler"
	"github.com/umputun/netdiag/app/web"
	"github.com/umputun/netdiag/app/web/persistence"
)

var opts struct {
	Listen   string `long:"listen" env:"LISTEN" default:"0.0.0.0" description:"listen host"`
	Port     int    `short:"p" long:"port" env:"PORT" default:"8080" description:"listen port"`
	Config   string `short:"c" long:"config" env:"NETDIAG_CONFIG" description:"yaml config with binaries, timeouts and checks"`
	Schema   bool   `long:"schema" description:"print config json schema and exit"`
	MaxLines int    `long:"max-lines" env:"NETDIAG_MAX_LINES" default:"10000" description:"max output lines kept per stream"`
	Dbg      bool   `long:"dbg" env:"NETDIAG_DEBUG" description:"debug mode"`

	Web struct {
		BaseURL      string        `long:"base-url" env:"BASE_URL" description:"base URL path for reverse proxy (e.g., /netdiag)"`
		PasswordHash string        `long:"password-hash" env:"PASSWORD_HASH" description:"bcrypt hash for web password (empty to disable auth)"`
		LoginTTL     time.Duration `long:"login-ttl" env:"LOGIN_TTL" default:"24h" description:"auth cookie lifetime"`
		LoginLimit   float64       `long:"login-limit" env:"LOGIN_LIMIT" default:"1" description:"login attempts per second per ip"`
		Metrics      bool          `long:"metrics" env:"METRICS" description:"expose prometheus metrics on /metrics"`
	} `group:"web" namespace:"web" env-namespace:"NETDIAG_WEB"`

	History struct {
		Enabled   bool   `long:"enabled" env:"ENABLED" description:"keep history of runs"`
		DBPath    string `long:"db" env:"DB" default:"netdiag.db" description:"sqlite database path"`
		Retention int    `long:"retention" env:"RETENTION" default:"200" description:"number of runs to keep"`
	} `group:"history" namespace:"history" env-namespace:"NETDIAG_HISTORY"`

	Log struct {
		Enabled         bool   `long:"enabled" env:"ENABLED" description:"write logs to file"`
		Filename        string `long:"filename" env:"FILENAME" default:"/var/log/netdiag.log" description:"file to write logs to"`
		MaxSize         int    `long:"max-size" env:"MAX_SIZE" default:"100" description:"maximum size in megabytes of the log file before it gets rotated"`
		MaxAge          int    `long:"max-age" env:"MAX_AGE" default:"0" description:"maximum number of days to retain old log files"`
		MaxBackups      int    `long:"max-backups" env:"MAX_BACKUPS" default:"7" description:"maximum number of old log files to retain"`
		EnabledCompress bool   `long:"enabled-compress" env:"ENABLED_COMPRESS" description:"determines if the rotated log files should be compressed using gzip"`
	} `group:"log" namespace:"log" env-namespace:"NETDIAG_LOG"`

	Notify struct {
		EnabledError      bool          `long:"enabled-error" env:"ENABLED_ERROR" description:"notify on failed diagnostics"`
		EnabledCompletion bool          `long:"enabled-complete" env:"ENABLED_COMPLETE" description:"notify on successful diagnostics"`
		Timeout           time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"delivery timeout including retries"`
		HostName          string        `long:"host" env:"HOSTNAME" description:"host name shown in notifications and ui"`

		SMTPHost     string        `long:"smtp-host" env:"SMTP_HOST" description:"SMTP host"`
		SMTPPort     int           `long:"smtp-port" env:"SMTP_PORT" default:"25" description:"SMTP port"`
		SMTPUsername string        `long:"smtp-username" env:"SMTP_USERNAME" description:"SMTP user name"`
		SMTPPassword string        `long:"smtp-password" env:"SMTP_PASSWORD" description:"SMTP password"`
		SMTPTLS      bool          `long:"smtp-tls" env:"SMTP_TLS" description:"enable SMTP TLS"`
		SMTPStartTLS bool          `long:"smtp-starttls" env:"SMTP_STARTTLS" description:"enable SMTP StartTLS"`
		SMTPTimeOut  time.Duration `long:"smtp-timeout" env:"SMTP_TIMEOUT" default:"10s" description:"SMTP TCP connection timeout"`
		FromEmail    string        `long:"from" env:"FROM" description:"SMTP from email"`
		ToEmails     []string      `long:"to" env:"TO" description:"SMTP to email(s)" env-delim:","`

		SlackToken     string   `long:"slack-token" env:"SLACK_TOKEN" description:"slack bot token"`
		SlackChannels  []string `long:"slack-channel" env:"SLACK_CHANNELS" description:"slack channel(s)" env-delim:","`
		WebhookURLs    []string `long:"webhook" env:"WEBHOOKS" description:"webhook URL(s)" env-delim:","`
		WebhookHeaders []string `long:"webhook-header" env:"WEBHOOK_HEADERS" description:"webhook header(s), key:value" env-delim:","`

		Repeater struct {
			Attempts int           `long:"attempts" env:"ATTEMPTS" default:"3" description:"delivery attempts"`
			Duration time.Duration `long:"duration" env:"DURATION" default:"1s" description:"initial delay between attempts"`
			Factor   float64       `long:"factor" env:"FACTOR" default:"2" description:"backoff factor"`
			Jitter   bool          `long:"jitter" env:"JITTER" description:"jitter"`
		} `group:"repeater" namespace:"repeater" env-namespace:"REPEATER"`
	} `group:"notify" namespace:"notify" env-namespace:"NETDIAG_NOTIFY"`
}

var revision = "unknown"

func main() {
	fmt.Printf("netdiag %s\n", revision)

	// .env is optional, real environment takes precedence
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Printf("failed to load .env: %v\n", err)
	}

	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if opts.Schema {
		if err := writeSchema(os.Stdout); err != nil {
			fmt.Printf("failed to generate schema: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logOut := setupLogs()

	defer func() {
		if x := recover(); x != nil {
			log.Printf("[WARN] run time panic:\n%v", x)
			panic(x)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	signals(cancel)

	if err := run(ctx, logOut); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

// run wires all parts together and blocks until ctx is canceled. logOut is where lgr writes.
func run(ctx context.Context, logOut io.Writer) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	hostname := makeHostName()

	svc := diag.New(&runner.Exec{MaxLines: opts.MaxLines, LogWriter: execLogWriter(logOut)}, cfg)
	metrics := recorder.NewMetrics()
	rec := &recorder.Recorder{Metrics: metrics}
	webCfg := web.Config{
		Diagnostics:  svc,
		Recorder:     rec,
		Presets:      cfg.Presets,
		Checks:       cfg.Checks,
		ProxyAddr:    cfg.Debug.SOCKS5Proxy,
		BaseURL:      validateBaseURL(opts.Web.BaseURL),
		Hostname:     hostname,
		Version:      revision,
		PasswordHash: opts.Web.PasswordHash,
		LoginTTL:     opts.Web.LoginTTL,
		LoginLimit:   opts.Web.LoginLimit,
		WriteTimeout: cfg.MaxTimeout() + 30*time.Second,
		StartedAt:    time.Now(),
	}
	if opts.Web.Metrics {
		webCfg.MetricsHandler = metrics.Handler()
	}

	if opts.History.Enabled {
		store, err := persistence.NewSQLiteStore(opts.History.DBPath, opts.History.Retention)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("[WARN] failed to close history: %v", err)
			}
		}()
		rec.Store, webCfg.History = store, store
	}

	// assigned only when not nil, a typed nil would pass the recorder's nil check
	if n := makeNotifier(hostname); n != nil {
		rec.Notifier = n
	}

	srv, err := web.New(webCfg)
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if len(cfg.Checks) > 0 {
		sched := &scheduler.Scheduler{Cron: cron.New(), Diagnostics: svc, Recorder: rec, Checks: cfg.Checks}
		errCh := make(chan error, 1)
		go func() { errCh <- sched.Do(ctx) }()
		defer func() {
			cancel()
			if err := <-errCh; err != nil {
				log.Printf("[WARN] scheduler failed, %v", err)
			}
		}()
	}

	return srv.Run(ctx, net.JoinHostPort(opts.Listen, strconv.Itoa(opts.Port)))
}

func makeNotifier(hostname string) *notify.Service {
	if !opts.Notify.EnabledError && !opts.Notify.EnabledCompletion {
		return nil
	}

	if opts.Notify.FromEmail == "" {
		opts.Notify.FromEmail = "netdiag@" + hostname
	}

	rptr := repeater.New(&strategy.Backoff{Repeats: opts.Notify.Repeater.Attempts, Duration: opts.Notify.Repeater.Duration,
		Factor: opts.Notify.Repeater.Factor, Jitter: opts.Notify.Repeater.Jitter})

	return notify.NewService(
		notify.Params{
			EnabledError:      opts.Notify.EnabledError,
			EnabledCompletion: opts.Notify.EnabledCompletion,
			Timeout:           opts.Notify.Timeout,
			Hostname:          hostname,
			Repeater:          rptr,
		},
		notify.SendersParams{
			SMTPParams: ntf.SMTPParams{
				Host:     opts.Notify.SMTPHost,
				Port:     opts.Notify.SMTPPort,
				TLS:      opts.Notify.SMTPTLS,
				StartTLS: opts.Notify.SMTPStartTLS,
				Username: opts.Notify.SMTPUsername,
				Password: opts.Notify.SMTPPassword,
				TimeOut:  opts.Notify.SMTPTimeOut,
			},
			FromEmail:      opts.Notify.FromEmail,
			ToEmails:       opts.Notify.ToEmails,
			SlackToken:     opts.Notify.SlackToken,
			SlackChannels:  opts.Notify.SlackChannels,
			WebhookURLs:    opts.Notify.WebhookURLs,
			WebhookHeaders: opts.Notify.WebhookHeaders,
		},
	)
}

func makeHostName() string {
	if opts.Notify.HostName != "" {
		return opts.Notify.HostName
	}
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return host
}

// validateBaseURL normalizes base URL, "/" and "" mean root
func validateBaseURL(baseURL string) string {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL != "" && !strings.HasPrefix(baseURL, "/") {
		baseURL = "/" + baseURL
	}
	return baseURL
}

func writeSchema(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(config.GenerateSchema())
}

// execLogWriter echoes commands output to the log destination in debug mode only
func execLogWriter(logOut io.Writer) io.Writer {
	if !opts.Dbg {
		return nil
	}
	return logOut
}

// setupLogs configures lgr, returns the writer logs go to
func setupLogs() io.Writer {
	var out io.Writer = os.Stdout
	if opts.Log.Enabled {
		out = &lumberjack.Logger{
			Filename:   opts.Log.Filename,
			MaxSize:    opts.Log.MaxSize,
			MaxAge:     opts.Log.MaxAge,
			MaxBackups: opts.Log.MaxBackups,
			Compress:   opts.Log.EnabledCompress,
		}
	}

	logOpts := []log.Option{log.Out(out), log.Err(out), log.Msec, log.LevelBraces}
	if opts.Dbg {
		logOpts = append(logOpts, log.Debug, log.CallerFunc, log.CallerPkg, log.CallerFile)
	}
	log.Setup(logOpts...)
	return out
}

func signals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		stacktrace := make([]byte, 8192)
		for sig := range sigChan {
			if sig == syscall.SIGQUIT {
				// print stack traces on SIGQUIT, keep running
				length := runtime.Stack(stacktrace, true)
				fmt.Println(string(stacktrace[:length]))
				continue
			}
			log.Printf("[INFO] %v received, shutting down", sig)
			cancel()
		}
	}()
}
