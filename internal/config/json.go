package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/MKhiriev/go-quest-ledger/models"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON field names and
// string durations.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey      string   `json:"token_sign_key"`
		TokenIssuer       string   `json:"token_issuer"`
		TokenDuration     Duration `json:"token_duration"`
		AdminKey          string   `json:"admin_key"`
		InitialFreeTrials *int64   `json:"initial_free_trials"`
		Version           string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Files struct {
			Dir string `json:"dir"`
		} `json:"files,omitempty"`

		Proofs struct {
			Endpoint  string `json:"endpoint"`
			AccessKey string `json:"access_key"`
			SecretKey string `json:"secret_key"`
			Bucket    string `json:"bucket"`
			UseSSL    bool   `json:"use_ssl"`
			LocalDir  string `json:"local_dir"`
		} `json:"proofs,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Notifier struct {
		WebhookURL string   `json:"webhook_url"`
		Timeout    Duration `json:"timeout"`
		SigningKey string   `json:"signing_key"`
	} `json:"notifier,omitempty"`

	Workers struct {
		ReconcileInterval Duration `json:"reconcile_interval"`
		ReconcileGrace    Duration `json:"reconcile_grace"`
	} `json:"workers,omitempty"`

	Catalog models.Catalog `json:"catalog,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:      jsonCfg.App.TokenSignKey,
			TokenIssuer:       jsonCfg.App.TokenIssuer,
			TokenDuration:     time.Duration(jsonCfg.App.TokenDuration),
			AdminKey:          jsonCfg.App.AdminKey,
			InitialFreeTrials: jsonCfg.App.InitialFreeTrials,
			Version:           jsonCfg.App.Version,
		},
		Storage: Storage{
			DB:    DB{DSN: jsonCfg.Storage.DB.DSN},
			Files: Files{Dir: jsonCfg.Storage.Files.Dir},
			Proofs: Proofs{
				Endpoint:  jsonCfg.Storage.Proofs.Endpoint,
				AccessKey: jsonCfg.Storage.Proofs.AccessKey,
				SecretKey: jsonCfg.Storage.Proofs.SecretKey,
				Bucket:    jsonCfg.Storage.Proofs.Bucket,
				UseSSL:    jsonCfg.Storage.Proofs.UseSSL,
				LocalDir:  jsonCfg.Storage.Proofs.LocalDir,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Notifier: Notifier{
			WebhookURL: jsonCfg.Notifier.WebhookURL,
			Timeout:    time.Duration(jsonCfg.Notifier.Timeout),
			SigningKey: jsonCfg.Notifier.SigningKey,
		},
		Workers: Workers{
			ReconcileInterval: time.Duration(jsonCfg.Workers.ReconcileInterval),
			ReconcileGrace:    time.Duration(jsonCfg.Workers.ReconcileGrace),
		},
		Catalog: jsonCfg.Catalog,
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
