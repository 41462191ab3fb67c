package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"config-cli/api"
	"config-cli/format"
	"config-cli/internal/httpx"
	"config-cli/service"
)

// URLEnv overrides the default REST API address.
const URLEnv = "CONFIG_CLI_URL"

// Defaults shared by every command.
const (
	DefaultTimeout    = 10 * time.Second
	defaultRetryDelay = 200 * time.Millisecond
	maxRetryDelay     = 2 * time.Second
)

// RemoteConfig holds the flags of commands that talk to the REST API.
type RemoteConfig struct {
	URL     string
	Timeout time.Duration
	Retries int
	Verbose bool

	urlSet bool
}

// CreateConfig is the parsed form of `proposal create`.
type CreateConfig struct {
	RemoteConfig
	KeyPath  string
	Output   string
	Nonce    string
	Settings []service.SettingArg
}

// ListConfig is the parsed form of `proposal list` and `settings list`.
type ListConfig struct {
	RemoteConfig
	PublicKey string
	Filter    string
	Format    string
}

func defaultURL() string {
	if u := strings.TrimSpace(os.Getenv(URLEnv)); u != "" {
		return u
	}
	return api.DefaultURL
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func (c *RemoteConfig) register(fs *flag.FlagSet) {
	fs.StringVar(&c.URL, "url", defaultURL(), "URL of the REST API (env "+URLEnv+")")
	fs.DurationVar(&c.Timeout, "timeout", DefaultTimeout, "Timeout for each call to the REST API")
	fs.IntVar(&c.Retries, "retries", 0, "Retries for transient REST API failures")
	fs.BoolVar(&c.Verbose, "v", false, "Log progress to stderr")
	fs.BoolVar(&c.Verbose, "verbose", false, "Log progress to stderr")
}

// markSet records which flags were given explicitly.
func (c *RemoteConfig) markSet(fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "url" {
			c.urlSet = true
		}
	})
}

func (c *RemoteConfig) validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: --timeout must be positive", service.ErrValidation)
	}
	if c.Retries < 0 {
		return fmt.Errorf("%w: --retries must not be negative", service.ErrValidation)
	}
	return nil
}

func (c *RemoteConfig) newClient() (*api.Client, error) {
	opts := []httpx.Option{httpx.WithTimeout(c.Timeout)}
	if c.Retries > 0 {
		opts = append(opts, httpx.WithRetryPolicy(httpx.RetryPolicy{
			MaxRetries: c.Retries,
			BaseDelay:  defaultRetryDelay,
			MaxDelay:   maxRetryDelay,
			Jitter:     0.2,
		}))
	}
	client, err := api.New(c.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrValidation, err)
	}
	return client, nil
}

func parseCreate(args []string, stderr io.Writer) (*CreateConfig, error) {
	cfg := &CreateConfig{}
	fs := newFlagSet("proposal create", stderr)
	cfg.register(fs)
	fs.StringVar(&cfg.KeyPath, "k", "", "Signing key file (default ~/.sawtooth/keys/<user>.wif)")
	fs.StringVar(&cfg.KeyPath, "key", "", "Signing key file (default ~/.sawtooth/keys/<user>.wif)")
	fs.StringVar(&cfg.Output, "o", "", "Write the batch to this file instead of submitting it")
	fs.StringVar(&cfg.Output, "output", "", "Write the batch to this file instead of submitting it")
	fs.StringVar(&cfg.Nonce, "nonce", service.NonceClock, "Transaction nonce source: clock or uuid")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: config-cli proposal create [flags] <key>=<value>...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, parseError(err)
	}
	cfg.markSet(fs)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Output != "" && cfg.urlSet {
		return nil, fmt.Errorf("%w: --output and --url are mutually exclusive", service.ErrValidation)
	}
	if _, err := service.NonceSourceByName(cfg.Nonce); err != nil {
		return nil, err
	}

	settings, err := service.ParseSettingArgs(fs.Args())
	if err != nil {
		return nil, err
	}
	cfg.Settings = settings
	return cfg, nil
}

func parseList(name string, withPublicKey bool, args []string, stderr io.Writer) (*ListConfig, error) {
	cfg := &ListConfig{}
	fs := newFlagSet(name, stderr)
	cfg.register(fs)
	if withPublicKey {
		fs.StringVar(&cfg.PublicKey, "public-key", "", "Only show proposals made by this public key")
	}
	fs.StringVar(&cfg.Filter, "filter", "", "Only show keys that begin with this value")
	fs.StringVar(&cfg.Format, "format", format.Default, "Output format: "+strings.Join(format.Names, ", "))
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: config-cli %s [flags]\n", name)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, parseError(err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %q", service.ErrValidation, fs.Args())
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := format.Validate(cfg.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", service.ErrValidation, err)
}
