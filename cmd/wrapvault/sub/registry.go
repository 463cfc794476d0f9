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
	registryFromAddr string
	registryCommand  = &cobra.Command{
		Use:                   "registry <command> [options]",
		DisableFlagsInUseLine: true,
		Short:                 "registry operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	registryOwnerCommand = &cobra.Command{
		Use:                   "owner [options]",
		DisableFlagsInUseLine: true,
		Short:                 "Get the registry owner address",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegistryOwner()
		},
	}
	registryCountCommand = &cobra.Command{
		Use:                   "count [options]",
		DisableFlagsInUseLine: true,
		Short:                 "Get the number of registered vaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegistryCount()
		},
	}
	registryFeeCommand = &cobra.Command{
		Use:                   "fee [options]",
		DisableFlagsInUseLine: true,
		Short:                 "Get the registry fee rate in basis points",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegistryFee()
		},
	}
	registrySetFeeCommand = &cobra.Command{
		Use:                   "setfee [options] <ratebps>",
		DisableFlagsInUseLine: true,
		Short:                 "Set the registry fee rate, owner only",
		RunE:                  runRegistrySetFee,
	}
	registryRecipientCommand = &cobra.Command{
		Use:                   "recipient [options]",
		DisableFlagsInUseLine: true,
		Short:                 "Get the fee recipient address",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegistryRecipient()
		},
	}
	registrySetRecipientCommand = &cobra.Command{
		Use:                   "setrecipient [options] [<address>]",
		DisableFlagsInUseLine: true,
		Short:                 "Set the fee recipient, omit the address to clear it",
		RunE:                  runRegistrySetRecipient,
	}
	registryGetVaultCommand = &cobra.Command{
		Use:                   "get [options] <underlying>",
		DisableFlagsInUseLine: true,
		Short:                 "Look up the vault wrapping an underlying token",
		RunE:                  runRegistryGetVault,
	}
	registryCreationCommand = &cobra.Command{
		Use:                   "creation [options] <wrapper>",
		DisableFlagsInUseLine: true,
		Short:                 "Get the creation record of a vault",
		RunE:                  runRegistryCreation,
	}
)

func runRegistryOwner() error {
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	var result string
	err = cli.CallMethod(1, "Registry.GetOwner", nil, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Println(result)
	return nil
}

func runRegistryCount() error {
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	var result string
	err = cli.CallMethod(1, "Registry.GetVaultCount", nil, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Println(result)
	return nil
}

func runRegistryFee() error {
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	var result uint16
	err = cli.CallMethod(1, "Registry.GetFeeRate", nil, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Printf("%d bps\n", result)
	return nil
}

func runRegistrySetFee(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	req := &setFeeRateArgs{
		RateBps: args[0],
	}
	if registryFromAddr != "" {
		req.From = registryFromAddr
	}
	var result string
	err = cli.CallMethod(1, "Registry.SetFeeRate", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Println("ok")
	return nil
}

func runRegistryRecipient() error {
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	var result string
	err = cli.CallMethod(1, "Registry.GetFeeRecipient", nil, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	if result == "" {
		fmt.Println("none, vaults retain fees")
		return nil
	}
	fmt.Println(result)
	return nil
}

func runRegistrySetRecipient(cmd *cobra.Command, args []string) error {
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	req := &setFeeRecipientArgs{}
	if len(args) > 0 {
		req.Recipient = args[0]
	}
	if registryFromAddr != "" {
		req.From = registryFromAddr
	}
	var result string
	err = cli.CallMethod(1, "Registry.SetFeeRecipient", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Println("ok")
	return nil
}

func runRegistryGetVault(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	req := &getVaultByUnderlyingArgs{
		Underlying: args[0],
	}
	var wrapper string
	err = cli.CallMethod(1, "Registry.GetVaultByUnderlying", &req, &wrapper)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	result, err := vaultInfoOf(cli, wrapper)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	bs, err := common.MarshalIndent(result)
	if err != nil {
		return err
	}
	fmt.Println(string(bs))
	return nil
}

func runRegistryCreation(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	req := &getCreationArgs{
		Wrapper: args[0],
	}
	result := make(map[string]interface{}, 1)
	err = cli.CallMethod(1, "Registry.GetCreation", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	bs, err := common.MarshalIndent(result)
	if err != nil {
		return err
	}
	fmt.Println(string(bs))
	return nil
}

func init() {
	registryCommand.AddCommand(registryOwnerCommand)
	registryCommand.AddCommand(registryCountCommand)
	registryCommand.AddCommand(registryFeeCommand)
	registryCommand.AddCommand(registrySetFeeCommand)
	mSetFeeFlags := registrySetFeeCommand.PersistentFlags()
	mSetFeeFlags.StringVarP(&registryFromAddr, "address", "a", "", "Set from address")
	registryCommand.AddCommand(registryRecipientCommand)
	registryCommand.AddCommand(registrySetRecipientCommand)
	mSetRecipientFlags := registrySetRecipientCommand.PersistentFlags()
	mSetRecipientFlags.StringVarP(&registryFromAddr, "address", "a", "", "Set from address")
	registryCommand.AddCommand(registryGetVaultCommand)
	registryCommand.AddCommand(registryCreationCommand)
	rootCmd.AddCommand(registryCommand)
}
