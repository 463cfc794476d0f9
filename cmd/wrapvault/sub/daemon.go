// Copyright 2021 The wrapvault Authors
// This file is part of the wrapvault library.
//
// The wrapvault library is free software: you can redistribute it and/or modify
// it under the terms of the MIT Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The wrapvault library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// MIT Lesser General Public License for more details.
//
// You should have received a copy of the MIT Lesser General Public License
// along with the wrapvault library. If not, see <https://mit-license.org/>.

package sub

import (
	"os"
	"os/signal"
	"syscall"

	"wrapvault/backend"
	"wrapvault/log"
	"wrapvault/node"
	"wrapvault/storage/badger"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"github.com/spf13/cobra"
)

var (
	rpcaddr     string
	datadir     string
	genesisfile string
	testnet     bool
	debug       bool
	netid       int
	daemonCmd   = &cobra.Command{
		Use:                   "daemon [options]",
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
		Short:                 "Start a wrapvault daemon process",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon()
		},
	}
)

func safeclose(fn func() error) {
	if err := fn(); err != nil {
		panic(err)
	}
}

func resetConfig(config *daemonConfig) {
	if datadir != "" {
		setupDataDir(&config.storageParams, datadir)
	}
	if rpcaddr != "" {
		config.nodeConfig.RPCConfig.ListenAddr = rpcaddr
	}
	if netid != 0 {
		config.backendParams.NetworkID = uint32(netid)
	}
	if testnet {
		config.backendParams.NetworkID = defaultTestNetworkId
	}
	if genesisfile != "" {
		config.backendParams.GenesisFile = genesisfile
	}
}

func runDaemon() error {
	var (
		err   error            = nil
		stack *node.Node       = nil
		back  *backend.Backend = nil
	)

	config, err := parseDaemonConfig(cfgFile) // default config
	if err != nil {
		return err
	}
	resetConfig(&config) // input config
	loglevel, err := logrus.ParseLevel(config.loggerParams.level)
	if err != nil {
		return err
	}

	logrus.SetFormatter(&log.Formatter{})
	logrus.SetLevel(loglevel)
	nodeConf := &config.nodeConfig
	nodeConf.RPCConfig.Logger = logrus.StandardLogger()
	if stack, err = node.New(nodeConf); err != nil {
		return err
	}
	stateDB, err := badger.New(config.storageParams.stateDir)
	if err != nil {
		return err
	}
	keysDb, err := badger.New(config.storageParams.keysDir)
	if err != nil {
		return err
	}
	recordsDb, err := badger.New(config.storageParams.recordsDir)
	if err != nil {
		return err
	}
	defer func() {
		safeclose(stateDB.Close)
		safeclose(keysDb.Close)
		safeclose(recordsDb.Close)
	}()
	backparams := &config.backendParams
	backparams.Debug = debug
	if backparams.Debug {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.Debugf("Set debug mode")
		logrus.Debugf("Loaded daemon config: %s", spew.Sdump(config))
	}
	if back, err = backend.NewBackend(stack, &backend.Config{
		Params:    backparams,
		StateDB:   stateDB,
		KeysDB:    keysDb,
		RecordsDB: recordsDb,
	}); err != nil {
		return err
	}
	if err = backend.StartNodeAndBackend(stack, back); err != nil {
		return err
	}
	c := make(chan os.Signal)
	signal.Notify(c, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
out:
	select {
	case s := <-c:
		switch s {
		case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
			break out
		}
	}
	back.Stop()
	return nil
}

func init() {
	mFlags := daemonCmd.PersistentFlags()
	mFlags.StringVarP(&rpcaddr, "rpcaddr", "r", "", "Set JSON-RPC Service listen address")
	mFlags.StringVarP(&datadir, "datadir", "d", "", "Set Data directory")
	mFlags.StringVarP(&genesisfile, "genesisfile", "g", "", "Set custom genesis state file")
	mFlags.BoolVarP(&testnet, "testnet", "t", false, "Enable test network")
	mFlags.BoolVarP(&debug, "debug", "", false, "Enable debug")
	mFlags.IntVarP(&netid, "netid", "n", 0, "Explicitly set network id")
	rootCmd.AddCommand(daemonCmd)
}
