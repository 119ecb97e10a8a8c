// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"

	"github.com/capgate/capgate/cluster/api"
	"github.com/capgate/capgate/cluster/core"
	"github.com/capgate/capgate/cluster/logging"

	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"
)

type options struct {
	LogLevel      string   `long:"log-level" default:"info" description:"log level"`
	Host          string   `long:"host" default:"0.0.0.0" description:"cluster API bind address"`
	Port          int      `long:"port" default:"9321" description:"cluster API port, 0 for dynamic"`
	ExpectedNodes uint16   `long:"expected-nodes" default:"0" description:"number of nodes expected during cluster formation, 0 to skip awaiting formation"`
	Capabilities  []string `long:"capability" description:"extra capability name to track in addition to the defaults, repeatable"`
}

func main() {
	opts := getCLIArgs()
	logging.SetLogLevel(opts.LogLevel)

	bootstrapFlow := core.NewBootstrapFlowSynchronization()
	names := append(core.DefaultCapabilities(), opts.Capabilities...)
	capabilityService := core.NewCapabilityService(bootstrapFlow, names)

	server := api.NewServer(opts.Host, opts.Port, capabilityService)
	if err := server.Listen(); err != nil {
		log.WithError(err).Fatal("Failed to listen")
	}

	if opts.ExpectedNodes > 0 {
		if err := bootstrapFlow.SetExpectedNodeCount(opts.ExpectedNodes); err != nil {
			log.WithError(err).Fatal("Failed to set expected node count")
		}
		go awaitClusterFormed(bootstrapFlow, opts.ExpectedNodes)
	}

	log.Infof("Cluster API listening on %s:%d, tracking %d capabilities", server.Host(), server.Port(), len(names))
	if err := server.Serve(context.Background()); err != nil {
		log.WithError(err).Error("Cluster API Server exited")
	}
}

func getCLIArgs() options {
	var opts options
	parser := flags.NewParser(&opts, flags.IgnoreUnknown)
	if _, err := parser.ParseArgs(os.Args); err != nil {
		log.WithError(err).Fatal("Failed to parse command line arguments:", os.Args)
	}

	return opts
}

func awaitClusterFormed(bootstrapFlow core.BootstrapFlowSynchronization, expected uint16) {
	if err := bootstrapFlow.AwaitClusterFormed(); err != nil {
		log.WithError(err).Warn("Cluster formation abandoned")
		return
	}
	log.Infof("Cluster formed: all %d expected nodes announced", expected)
}
