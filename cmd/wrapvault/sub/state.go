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
	"fmt"

	"wrapvault"
	"wrapvault/common"

	"github.com/spf13/cobra"
)

var (
	roothash        string
	getStateCommand = &cobra.Command{
		Use:                   "state <command> [options]",
		DisableFlagsInUseLine: true,
		Short:                 "get state info",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	getAccountCommand = &cobra.Command{
		Use:                   "getaccount [options] <address>",
		DisableFlagsInUseLine: true,
		Short:                 "Get the account object under a state tree root",
		RunE:                  GetAccount,
	}
	getNonceCommand = &cobra.Command{
		Use:                   "getnonce [options] <address>",
		DisableFlagsInUseLine: true,
		Short:                 "Get the account nonce under a state tree root",
		RunE:                  GetNonce,
	}
	getValueCommand = &cobra.Command{
		Use:                   "getvalue [options] <address> <key>",
		DisableFlagsInUseLine: true,
		Short:                 "Get a raw storage value of an account",
		RunE:                  GetStateValue,
	}
	getRootCommand = &cobra.Command{
		Use:                   "root [options]",
		DisableFlagsInUseLine: true,
		Short:                 "Get the committed state tree root hash",
		RunE: func(cmd *cobra.Command, args []string) error {
			return GetRoot()
		},
	}
)

func GetAccount(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return cmd.Help()
	}
	address := args[0]
	rootHash := roothash

	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}

	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	result := make(map[string]interface{}, 1)
	req := &getAccountArgs{
		RootHash: rootHash,
		Address:  address,
	}
	err = cli.CallMethod(1, "State.GetAccount", &req, &result)
	if err != nil {
		fmt.Println(err)
		return err
	}
	bs, err := common.MarshalIndent(result)
	if err != nil {
		return err
	}
	fmt.Println(string(bs))
	return nil

}

func GetNonce(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return cmd.Help()
	}
	address := args[0]
	rootHash := roothash

	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}

	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	var result uint64
	req := &getAccountArgs{
		RootHash: rootHash,
		Address:  address,
	}
	err = cli.CallMethod(1, "State.GetNonce", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Println(result)
	return nil
}

func GetStateValue(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}

	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	var result string
	req := &getStateValueArgs{
		RootHash: roothash,
		Address:  args[0],
		Key:      args[1],
	}
	err = cli.CallMethod(1, "State.GetStateValue", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Println(result)
	return nil
}

func GetRoot() error {
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	var result string
	err = cli.CallMethod(1, "State.GetRoot", nil, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Println(result)
	return nil
}

func init() {
	rootCmd.AddCommand(getStateCommand)
	getAccountCommandFlags := getAccountCommand.PersistentFlags()
	getAccountCommandFlags.StringVarP(&roothash, "root", "r", "", "Set state tree root hash")
	getStateCommand.AddCommand(getAccountCommand)
	getNonceCommandFlags := getNonceCommand.PersistentFlags()
	getNonceCommandFlags.StringVarP(&roothash, "root", "r", "", "Set state tree root hash")
	getStateCommand.AddCommand(getNonceCommand)
	getValueCommandFlags := getValueCommand.PersistentFlags()
	getValueCommandFlags.StringVarP(&roothash, "root", "r", "", "Set state tree root hash")
	getStateCommand.AddCommand(getValueCommand)
	getStateCommand.AddCommand(getRootCommand)
}
