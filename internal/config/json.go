// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] in the JSON file layout.
type StructuredJSONConfig struct {
	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Crypto struct {
		KDFIterations    int  `json:"kdf_iterations"`
		AllowKDFFallback bool `json:"allow_kdf_fallback"`
	} `json:"crypto,omitempty"`

	Workers struct {
		PoolSize        int      `json:"pool_size"`
		QueueSize       int      `json:"queue_size"`
		AutoLockTimeout Duration `json:"auto_lock_timeout"`
	} `json:"workers,omitempty"`

	Log struct {
		FilePath string `json:"file"`
	} `json:"log,omitempty"`
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
		Storage: Storage{
			DB: DB{DSN: jsonCfg.Storage.DB.DSN},
		},
		Crypto: Crypto{
			KDFIterations:    jsonCfg.Crypto.KDFIterations,
			AllowKDFFallback: jsonCfg.Crypto.AllowKDFFallback,
		},
		Workers: Workers{
			PoolSize:        jsonCfg.Workers.PoolSize,
			QueueSize:       jsonCfg.Workers.QueueSize,
			AutoLockTimeout: time.Duration(jsonCfg.Workers.AutoLockTimeout),
		},
		Log: Log{FilePath: jsonCfg.Log.FilePath},
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
