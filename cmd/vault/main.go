// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-key-vault/internal/app"
	"github.com/MKhiriev/go-key-vault/internal/client"
	"github.com/MKhiriev/go-key-vault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	vault := client.NewApp(info)

	if err := vault.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", app.ReasonFor(err))
		stop()
		os.Exit(1)
	}
}
