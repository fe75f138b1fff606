package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-f local storage directory
//	-d database DSN
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-admin-key admin API key
//	-free-trials trials granted on registration
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-proofs-dir local directory for payment proofs
//	-webhook-url notification webhook
//	-reconcile-interval reconciliation period
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var filesDir string
	var databaseDSN string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var adminKey string
	var freeTrials int64
	var requestTimeout time.Duration
	var proofsDir string
	var webhookURL string
	var reconcileInterval time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&filesDir, "f", "", "Local storage directory")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	flag.StringVar(&adminKey, "admin-key", "", "Admin API key")
	flag.Int64Var(&freeTrials, "free-trials", 0, "Free trials granted on registration")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&proofsDir, "proofs-dir", "", "Local directory for payment proofs")
	flag.StringVar(&webhookURL, "webhook-url", "", "Notification webhook URL")
	flag.DurationVar(&reconcileInterval, "reconcile-interval", 0, "Reconciliation interval")

	flag.Parse()

	// only an explicitly passed -free-trials may override other sources
	var initialFreeTrials *int64
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "free-trials" {
			initialFreeTrials = &freeTrials
		}
	})

	return &StructuredConfig{
		App: App{
			TokenSignKey:      tokenSignKey,
			TokenIssuer:       tokenIssuer,
			TokenDuration:     tokenDuration,
			AdminKey:          adminKey,
			InitialFreeTrials: initialFreeTrials,
		},
		Storage: Storage{
			DB:     DB{DSN: databaseDSN},
			Files:  Files{Dir: filesDir},
			Proofs: Proofs{LocalDir: proofsDir},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Notifier:     Notifier{WebhookURL: webhookURL},
		Workers:      Workers{ReconcileInterval: reconcileInterval},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// It returns an empty string when neither Host nor Port is set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
