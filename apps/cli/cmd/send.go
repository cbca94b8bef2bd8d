package cmd

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BBGONE/courier/packages/clientpool"
	"github.com/BBGONE/courier/packages/core/config"
	"github.com/BBGONE/courier/packages/extract"
	"github.com/BBGONE/courier/packages/history"
	"github.com/BBGONE/courier/packages/output"
	"github.com/BBGONE/courier/packages/repeat"
	"github.com/BBGONE/courier/packages/requestfile"
	"github.com/BBGONE/courier/packages/transport"
)

var sendCmd = &cobra.Command{
	Use:   "send [file]",
	Short: "Send an HTTP request and print the captured exchange",
	Long: `Send a single HTTP request described by flags or a YAML request file.

Examples:
  courier send -X GET --url https://api.example.com/users
  courier send request.yaml
  courier send request.yaml --extract user.id --extract user.name
  courier send request.yaml --watch
  courier send -X GET --url http://localhost:8080/health --repeat 100 --rate 20
  courier send --url https://internal/ --profile staging --record`,
	Args: cobra.MaximumNArgs(1),
	RunE: sendCommand,
}

// WatchDebounceDelay is the debounce delay for file watch events
const WatchDebounceDelay = 300 * time.Millisecond

var (
	methodFlag   string
	urlFlag      string
	baseURLFlag  string
	dataFlag     string
	dataFileFlag string
	headerFlags  []string
	cookieFlags  []string
	timeoutFlag  time.Duration
	profileFlag  string
	insecureFlag bool
	certFlag     string
	keyFlag      string
	charsetFlag  string
	extractFlags []string
	watchFlag    bool
	repeatFlag   int
	rateFlag     float64
	recordFlag   bool
	configFlag   string
	verboseFlag  bool
	noColorFlag  bool
)

func init() {
	sendCmd.Flags().StringVarP(&methodFlag, "method", "X", "GET", "HTTP method")
	sendCmd.Flags().StringVar(&urlFlag, "url", "", "Target URL (absolute, or relative with --base-url)")
	sendCmd.Flags().StringVar(&baseURLFlag, "base-url", getEnvString("COURIER_BASE_URL", ""), "Base address for relative URLs (env: COURIER_BASE_URL)")
	sendCmd.Flags().StringVarP(&dataFlag, "data", "d", "", "Request body text")
	sendCmd.Flags().StringVar(&dataFileFlag, "data-file", "", "Stream the request body from a file")
	sendCmd.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, `Request header ("Name: Value", repeatable)`)
	sendCmd.Flags().StringArrayVar(&cookieFlags, "cookie", nil, `Request cookie ("name=value", repeatable)`)
	sendCmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "Request timeout (uses a fresh client, default 60s)")
	sendCmd.Flags().StringVar(&profileFlag, "profile", getEnvString("COURIER_PROFILE", ""), "Named client profile from the config file (env: COURIER_PROFILE)")
	sendCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("COURIER_INSECURE", false), "Accept any server certificate (env: COURIER_INSECURE)")
	sendCmd.Flags().StringVar(&certFlag, "cert", "", "Client certificate PEM file")
	sendCmd.Flags().StringVar(&keyFlag, "key", "", "Client certificate key PEM file")
	sendCmd.Flags().StringVar(&charsetFlag, "charset", "", "Charset for text bodies (default utf-8)")
	sendCmd.Flags().StringArrayVar(&extractFlags, "extract", nil, "Extract a value from the JSON response body (gjson path, repeatable)")
	sendCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-send when the request file changes")
	sendCmd.Flags().IntVar(&repeatFlag, "repeat", 0, "Send the request N times and report latency percentiles")
	sendCmd.Flags().Float64VarP(&rateFlag, "rate", "r", 0, "Target requests per second in repeat mode")
	sendCmd.Flags().BoolVar(&recordFlag, "record", false, "Record the execution in the local history database")
	sendCmd.Flags().StringVar(&configFlag, "config", getEnvString("COURIER_CONFIG", ""), "Path to config file (env: COURIER_CONFIG)")
	sendCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Print the full request and response logs")
	sendCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("COURIER_NO_COLOR", false), "Disable colored output (env: COURIER_NO_COLOR)")
}

// sendSpec is the merged request description from config file, request file
// and flags. bodyFunc is re-evaluated per send so streamed bodies work in
// watch mode.
type sendSpec struct {
	method   string
	url      string
	baseURL  string
	profile  string
	charset  string
	headers  []transport.Header
	cookies  []*http.Cookie
	bodyFunc func() (any, error)
	timeout  time.Duration
	extracts []string
	direct   bool
	insecure bool
	cert     *tls.Certificate
}

func sendCommand(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return exitWith(ExitConfigError, err)
	}

	console := output.NewConsole(
		output.WithVerbose(verboseFlag),
		output.WithNoColor(noColorFlag || cfg.GetNoColor()),
	)

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	if watchFlag && path == "" {
		return exitWith(ExitUsageError, fmt.Errorf("--watch requires a request file"))
	}
	if watchFlag && repeatFlag > 0 {
		return exitWith(ExitUsageError, fmt.Errorf("--watch and --repeat are mutually exclusive"))
	}

	spec, err := buildSpec(cmd, path, cfg)
	if err != nil {
		console.Error(err)
		return exitWith(exitCodeForSpecError(path), err)
	}

	logger := zap.NewNop()
	if verboseFlag || cfg.GetVerbose() {
		if dev, err := zap.NewDevelopment(); err == nil {
			logger = dev
		}
	}

	registry := clientpool.NewRegistry()
	cfg.RegisterProfiles(registry)

	var store *history.Store
	if recordFlag {
		store, err = history.Open(cfg.HistoryDB)
		if err != nil {
			return exitWith(ExitConfigError, err)
		}
		defer store.Close()
	}

	runOnce := func() (*transport.Result, bool, error) {
		tr, err := newTransport(spec, registry, logger)
		if err != nil {
			return nil, false, err
		}
		ok := tr.Execute(cmd.Context())
		res := tr.Result()
		console.Exchange(res)
		if len(spec.extracts) > 0 && res.OK() {
			console.Extractions(extract.All(res, spec.extracts))
		}
		if store != nil {
			if err := store.Record(res); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to record execution: %v\n", err)
			}
		}
		return res, ok, nil
	}

	if repeatFlag > 0 {
		tr, err := newTransport(spec, registry, logger)
		if err != nil {
			return exitWith(ExitConfigError, err)
		}
		summary, err := repeat.Run(cmd.Context(), tr, repeat.Options{Count: repeatFlag, Rate: rateFlag})
		if err != nil {
			return exitWith(ExitConfigError, err)
		}
		console.Summary(summary)
		if summary.Failed > 0 {
			os.Exit(ExitRequestFailure)
		}
		return nil
	}

	res, _, err := runOnce()
	if err != nil {
		console.Error(err)
		return exitWith(ExitConfigError, err)
	}

	if !watchFlag {
		if code := exitCodeForResult(res); code != ExitSuccess {
			os.Exit(code)
		}
		return nil
	}

	return watchAndResend(cmd, console, cfg, path, registry, logger, store)
}

// watchAndResend blocks re-sending the request whenever its file changes.
func watchAndResend(cmd *cobra.Command, console *output.Console, cfg *config.Config,
	path string, registry *clientpool.Registry, logger *zap.Logger, store *history.Store) error {

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return exitWith(ExitConfigError, fmt.Errorf("failed to create file watcher: %w", err))
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return exitWith(ExitConfigError, fmt.Errorf("failed to watch %s: %w", path, err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes... (press Ctrl+C to stop)\n\n", path)

	abs, _ := filepath.Abs(path)
	var debounceTimer *time.Timer
	resend := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			eventAbs, _ := filepath.Abs(event.Name)
			if !event.Has(fsnotify.Write) || eventAbs != abs {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				select {
				case resend <- struct{}{}:
				default:
				}
			})

		case <-resend:
			spec, err := buildSpec(cmd, path, cfg)
			if err != nil {
				console.Error(err)
				continue
			}
			tr, err := newTransport(spec, registry, logger)
			if err != nil {
				console.Error(err)
				continue
			}
			tr.Execute(cmd.Context())
			res := tr.Result()
			console.Exchange(res)
			if len(spec.extracts) > 0 && res.OK() {
				console.Extractions(extract.All(res, spec.extracts))
			}
			if store != nil {
				_ = store.Record(res)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			console.Error(err)

		case <-cmd.Context().Done():
			return nil
		}
	}
}

// buildSpec merges the request file (when given) with flags; flags win.
func buildSpec(cmd *cobra.Command, path string, cfg *config.Config) (*sendSpec, error) {
	spec := &sendSpec{
		method:  methodFlag,
		url:     urlFlag,
		baseURL: baseURLFlag,
		profile: cfg.Profile,
		charset: cfg.Charset,
	}

	var doc *requestfile.Document
	if path != "" {
		var err error
		doc, err = requestfile.Load(path)
		if err != nil {
			return nil, err
		}

		if doc.Method != "" && !cmd.Flags().Changed("method") {
			spec.method = doc.Method
		}
		if doc.URL != "" && spec.url == "" {
			spec.url = doc.URL
		}
		if doc.BaseURL != "" && !cmd.Flags().Changed("base-url") {
			spec.baseURL = doc.BaseURL
		}
		if doc.Profile != "" {
			spec.profile = doc.Profile
		}
		if doc.Charset != "" {
			spec.charset = doc.Charset
		}
		spec.headers = doc.TransportHeaders()
		spec.cookies = doc.TransportCookies()
		spec.extracts = doc.Extract

		timeout, err := doc.TimeoutDuration()
		if err != nil {
			return nil, err
		}
		spec.timeout = timeout
	}

	for _, h := range headerFlags {
		name, value, found := strings.Cut(h, ":")
		if !found {
			return nil, fmt.Errorf("invalid header %q, want \"Name: Value\"", h)
		}
		spec.headers = append(spec.headers, transport.Header{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}
	for _, c := range cookieFlags {
		name, value, found := strings.Cut(c, "=")
		if !found {
			return nil, fmt.Errorf("invalid cookie %q, want \"name=value\"", c)
		}
		spec.cookies = append(spec.cookies, &http.Cookie{Name: name, Value: value})
	}
	if charsetFlag != "" {
		spec.charset = charsetFlag
	}
	if profileFlag != "" {
		spec.profile = profileFlag
	}
	spec.extracts = append(spec.extracts, extractFlags...)
	if timeoutFlag > 0 {
		spec.timeout = timeoutFlag
	}

	spec.bodyFunc = func() (any, error) {
		switch {
		case dataFlag != "":
			return dataFlag, nil
		case dataFileFlag != "":
			f, err := os.Open(dataFileFlag)
			if err != nil {
				return nil, fmt.Errorf("opening body file: %w", err)
			}
			return f, nil
		case doc != nil:
			return doc.RequestBody()
		default:
			return nil, nil
		}
	}

	spec.insecure = insecureFlag
	if certFlag != "" || keyFlag != "" {
		if certFlag == "" || keyFlag == "" {
			return nil, fmt.Errorf("--cert and --key must be given together")
		}
		cert, err := tls.LoadX509KeyPair(certFlag, keyFlag)
		if err != nil {
			return nil, fmt.Errorf("loading client certificate: %w", err)
		}
		spec.cert = &cert
	}

	// A fresh per-call client is needed for certificates, relaxed TLS and
	// per-request timeouts; everything else goes through the pooled
	// profile client.
	spec.direct = spec.cert != nil || spec.insecure || spec.timeout > 0
	if spec.direct {
		if cmd.Flags().Changed("profile") || (doc != nil && doc.Profile != "") {
			return nil, fmt.Errorf("--profile cannot be combined with --cert, --insecure or --timeout")
		}
		if spec.baseURL != "" {
			spec.url = joinBase(spec.baseURL, spec.url)
		}
	}

	return spec, nil
}

// newTransport constructs the right transport variant for the merged
// request description.
func newTransport(spec *sendSpec, registry *clientpool.Registry, logger *zap.Logger) (transport.Transport, error) {
	body, err := spec.bodyFunc()
	if err != nil {
		return nil, err
	}

	if !spec.direct {
		return transport.NewPooled(registry, transport.Options{
			Method:      spec.method,
			URL:         spec.url,
			BaseAddress: spec.baseURL,
			Headers:     spec.headers,
			Cookies:     spec.cookies,
			Body:        body,
			Charset:     spec.charset,
			Profile:     spec.profile,
			Logger:      logger,
		}), nil
	}

	text, ok := body.(string)
	if body != nil && !ok {
		return nil, fmt.Errorf("--cert, --insecure and --timeout only support text bodies")
	}

	opts := []transport.DirectOption{
		transport.WithHeaders(spec.headers),
		transport.WithCookies(spec.cookies...),
		transport.WithLogger(logger),
	}
	if text != "" {
		opts = append(opts, transport.WithBody(text))
	}
	if spec.charset != "" {
		opts = append(opts, transport.WithCharset(spec.charset))
	}
	if spec.timeout > 0 {
		opts = append(opts, transport.WithTimeout(spec.timeout))
	}
	if spec.cert != nil {
		opts = append(opts, transport.WithClientCertificate(*spec.cert))
	}
	if spec.insecure {
		opts = append(opts, transport.WithCertVerifier(
			func(rawCerts [][]byte, chains [][]*x509.Certificate) error {
				return nil
			}))
	}
	return transport.NewDirect(spec.method, spec.url, opts...), nil
}

func joinBase(base, ref string) string {
	if ref == "" {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(ref, "/")
}

func exitCodeForResult(res *transport.Result) int {
	if res == nil || res.Failure == nil {
		return ExitSuccess
	}
	switch res.Failure.Kind {
	case transport.KindStatus:
		return ExitRequestFailure
	case transport.KindTransport:
		return ExitNetworkError
	default:
		return ExitConfigError
	}
}

func exitCodeForSpecError(path string) int {
	if path != "" {
		return ExitValidationError
	}
	return ExitUsageError
}

// exitWith prints nothing itself; it maps an error onto a process exit code
// while keeping RunE's error reporting.
func exitWith(code int, err error) error {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(code)
	return err
}
