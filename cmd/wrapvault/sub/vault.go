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
	"math/big"
	"time"

	"wrapvault"
	"wrapvault/common"

	"github.com/spf13/cobra"
)

var (
	fromAddr     string
	authHolder   string
	authDeadline string
	authNonce    string
	vaultCommand = &cobra.Command{
		Use:                   "vault <command> [options]",
		DisableFlagsInUseLine: true,
		Short:                 "vault operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	vaultCreateCommand = &cobra.Command{
		Use:                   "create [options] <underlying> <name> <symbol>",
		DisableFlagsInUseLine: true,
		Short:                 "Create a vault wrapping the <underlying> token",
		RunE:                  runVaultCreate,
	}
	vaultListCommand = &cobra.Command{
		Use:                   "list [options]",
		DisableFlagsInUseLine: true,
		Short:                 "List every vault with its reserves and receipt supply",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVaultList()
		},
	}
	vaultInfoCommand = &cobra.Command{
		Use:                   "info [options] <wrapper>",
		DisableFlagsInUseLine: true,
		Short:                 "Get vault info",
		RunE:                  runVaultInfo,
	}
	vaultDepositCommand = &cobra.Command{
		Use:                   "deposit [options] <wrapper> <amount>",
		DisableFlagsInUseLine: true,
		Short:                 "Deposit underlying tokens and mint receipts",
		RunE:                  runVaultDeposit,
	}
	vaultDepositAuthCommand = &cobra.Command{
		Use:                   "depositauth [options] <wrapper> <amount>",
		DisableFlagsInUseLine: true,
		Short:                 "Deposit via a signed authorization instead of an allowance",
		RunE:                  runVaultDepositAuth,
	}
	vaultWithdrawCommand = &cobra.Command{
		Use:                   "withdraw [options] <wrapper> <amount>",
		DisableFlagsInUseLine: true,
		Short:                 "Burn receipts and redeem underlying tokens at par",
		RunE:                  runVaultWithdraw,
	}
	vaultPreviewDepositCommand = &cobra.Command{
		Use:                   "previewdeposit [options] <wrapper> <amount>",
		DisableFlagsInUseLine: true,
		Short:                 "Quote the fee and receipts of a deposit without executing it",
		RunE:                  runVaultPreviewDeposit,
	}
	vaultPreviewWithdrawCommand = &cobra.Command{
		Use:                   "previewwithdraw [options] <wrapper> <amount>",
		DisableFlagsInUseLine: true,
		Short:                 "Quote the underlying returned by a withdrawal",
		RunE:                  runVaultPreviewWithdraw,
	}
	vaultDepositsCommand = &cobra.Command{
		Use:                   "deposits [options] <wrapper>",
		DisableFlagsInUseLine: true,
		Short:                 "List executed deposits of a vault",
		RunE:                  runVaultDeposits,
	}
	vaultWithdrawsCommand = &cobra.Command{
		Use:                   "withdraws [options] <wrapper>",
		DisableFlagsInUseLine: true,
		Short:                 "List executed withdrawals of a vault",
		RunE:                  runVaultWithdraws,
	}
	vaultCheckCommand = &cobra.Command{
		Use:                   "check [options] <wrapper>",
		DisableFlagsInUseLine: true,
		Short:                 "Re-verify that reserves cover the receipt supply",
		RunE:                  runVaultCheck,
	}
)

// vaultInfoOf fetches a vault description. The CLI needs it before any
// amount conversion because the receipt decimals live there.
func vaultInfoOf(cli *wrapvault.Client, wrapper string) (map[string]interface{}, error) {
	result := make(map[string]interface{}, 1)
	req := &vaultGetArgs{
		Wrapper: wrapper,
	}
	if err := cli.CallMethod(1, "Vault.GetInfo", &req, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func displayAmount(s string, decimals uint8) string {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return s
	}
	return common.FormatAmount(n, decimals)
}

func runVaultCreate(cmd *cobra.Command, args []string) error {
	if len(args) < 3 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	req := &createVaultArgs{
		Underlying: args[0],
		Name:       args[1],
		Symbol:     args[2],
	}
	if fromAddr != "" {
		req.From = fromAddr
	}
	var result string
	err = cli.CallMethod(1, "Registry.CreateVault", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Println(result)
	return nil
}

func runVaultList() error {
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	result := make([]map[string]interface{}, 0)
	err = cli.CallMethod(1, "Registry.GetVaults", nil, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Print("Wrapper                            Symbol    FeeRate  Reserves            Supply")
	fmt.Println()
	for _, v := range result {
		decimals := uint8(v["decimals"].(float64))
		fmt.Printf("%-35v", v["wrapper"])
		fmt.Printf("%-10v", v["symbol"])
		fmt.Printf("%-9v", fmt.Sprintf("%v bps", v["fee_rate_bps"]))
		fmt.Printf("%-20v", displayAmount(v["reserves"].(string), decimals))
		fmt.Printf("%v", displayAmount(v["receipt_supply"].(string), decimals))
		fmt.Println()
	}
	return nil
}

func runVaultInfo(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	result, err := vaultInfoOf(cli, args[0])
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

func runVaultDeposit(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	info, err := vaultInfoOf(cli, args[0])
	if err != nil {
		fmt.Println(err)
		return nil
	}
	decimals := uint8(info["decimals"].(float64))
	amount, err := common.ParseAmount(args[1], decimals)
	if err != nil {
		return err
	}
	req := &depositArgs{
		Wrapper: args[0],
		Amount:  amount.Text(10),
	}
	if fromAddr != "" {
		req.From = fromAddr
	}
	result := make(map[string]interface{}, 1)
	err = cli.CallMethod(1, "Vault.Deposit", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Printf("Received: %s\n", displayAmount(result["received"].(string), decimals))
	fmt.Printf("Fee: %s\n", displayAmount(result["fee"].(string), decimals))
	fmt.Printf("Minted: %s %s\n", displayAmount(result["minted"].(string), decimals), info["symbol"])
	return nil
}

func runVaultDepositAuth(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	info, err := vaultInfoOf(cli, args[0])
	if err != nil {
		fmt.Println(err)
		return nil
	}
	decimals := uint8(info["decimals"].(float64))
	amount, err := common.ParseAmount(args[1], decimals)
	if err != nil {
		return err
	}
	signReq := &signAuthorizationArgs{
		Token:   info["underlying"].(string),
		Spender: args[0],
		Amount:  amount.Text(10),
	}
	if authHolder != "" {
		signReq.Holder = authHolder
	}
	if authDeadline != "" {
		signReq.Deadline = authDeadline
	}
	if authNonce != "" {
		signReq.Nonce = authNonce
	}
	var signed *depositAuthorizationArgs = nil
	err = cli.CallMethod(1, "Wallet.SignAuthorization", &signReq, &signed)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	result := make(map[string]interface{}, 1)
	err = cli.CallMethod(1, "Vault.DepositWithAuthorization", signed, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Printf("Received: %s\n", displayAmount(result["received"].(string), decimals))
	fmt.Printf("Fee: %s\n", displayAmount(result["fee"].(string), decimals))
	fmt.Printf("Minted: %s %s\n", displayAmount(result["minted"].(string), decimals), info["symbol"])
	return nil
}

func runVaultWithdraw(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	info, err := vaultInfoOf(cli, args[0])
	if err != nil {
		fmt.Println(err)
		return nil
	}
	decimals := uint8(info["decimals"].(float64))
	amount, err := common.ParseAmount(args[1], decimals)
	if err != nil {
		return err
	}
	req := &withdrawArgs{
		Wrapper: args[0],
		Amount:  amount.Text(10),
	}
	if fromAddr != "" {
		req.From = fromAddr
	}
	result := make(map[string]interface{}, 1)
	err = cli.CallMethod(1, "Vault.Withdraw", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Printf("Returned: %s\n", displayAmount(result["amount"].(string), decimals))
	return nil
}

func runVaultPreviewDeposit(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	info, err := vaultInfoOf(cli, args[0])
	if err != nil {
		fmt.Println(err)
		return nil
	}
	decimals := uint8(info["decimals"].(float64))
	amount, err := common.ParseAmount(args[1], decimals)
	if err != nil {
		return err
	}
	req := &previewArgs{
		Wrapper: args[0],
		Amount:  amount.Text(10),
	}
	result := make(map[string]interface{}, 1)
	err = cli.CallMethod(1, "Vault.PreviewDeposit", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Printf("Fee: %s\n", displayAmount(result["fee"].(string), decimals))
	fmt.Printf("Minted: %s %s\n", displayAmount(result["minted"].(string), decimals), info["symbol"])
	return nil
}

func runVaultPreviewWithdraw(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	info, err := vaultInfoOf(cli, args[0])
	if err != nil {
		fmt.Println(err)
		return nil
	}
	decimals := uint8(info["decimals"].(float64))
	amount, err := common.ParseAmount(args[1], decimals)
	if err != nil {
		return err
	}
	req := &previewArgs{
		Wrapper: args[0],
		Amount:  amount.Text(10),
	}
	var result string
	err = cli.CallMethod(1, "Vault.PreviewWithdraw", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Printf("Returned: %s\n", displayAmount(result, decimals))
	return nil
}

func runVaultDeposits(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	info, err := vaultInfoOf(cli, args[0])
	if err != nil {
		fmt.Println(err)
		return nil
	}
	decimals := uint8(info["decimals"].(float64))
	req := &vaultGetArgs{
		Wrapper: args[0],
	}
	result := make([]map[string]interface{}, 0)
	err = cli.CallMethod(1, "Vault.GetDeposits", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Print("Time                      From                               Amount              Fee                 Minted")
	fmt.Println()
	for _, rec := range result {
		ts := time.Unix(int64(rec["time"].(float64)), 0)
		fmt.Printf("%-26v", ts.Format(time.RFC3339))
		fmt.Printf("%-35v", rec["from"])
		fmt.Printf("%-20v", displayAmount(rec["amount"].(string), decimals))
		fmt.Printf("%-20v", displayAmount(rec["fee"].(string), decimals))
		fmt.Printf("%v", displayAmount(rec["minted"].(string), decimals))
		fmt.Println()
	}
	return nil
}

func runVaultWithdraws(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	info, err := vaultInfoOf(cli, args[0])
	if err != nil {
		fmt.Println(err)
		return nil
	}
	decimals := uint8(info["decimals"].(float64))
	req := &vaultGetArgs{
		Wrapper: args[0],
	}
	result := make([]map[string]interface{}, 0)
	err = cli.CallMethod(1, "Vault.GetWithdraws", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Print("Time                      From                               Amount")
	fmt.Println()
	for _, rec := range result {
		ts := time.Unix(int64(rec["time"].(float64)), 0)
		fmt.Printf("%-26v", ts.Format(time.RFC3339))
		fmt.Printf("%-35v", rec["from"])
		fmt.Printf("%v", displayAmount(rec["amount"].(string), decimals))
		fmt.Println()
	}
	return nil
}

func runVaultCheck(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	req := &vaultGetArgs{
		Wrapper: args[0],
	}
	result := make(map[string]interface{}, 1)
	err = cli.CallMethod(1, "Vault.CheckInvariant", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	var healthyStr string
	if result["healthy"].(bool) {
		healthyStr = "Healthy"
	} else {
		healthyStr = "BROKEN"
	}
	fmt.Printf("Status: %v\n", healthyStr)
	fmt.Printf("Reserves: %s\n", result["reserves"])
	fmt.Printf("Supply: %s\n", result["supply"])
	return nil
}

func init() {
	vaultCommand.AddCommand(vaultCreateCommand)
	mCreateFlags := vaultCreateCommand.PersistentFlags()
	mCreateFlags.StringVarP(&fromAddr, "address", "a", "", "Set from address")
	vaultCommand.AddCommand(vaultListCommand)
	vaultCommand.AddCommand(vaultInfoCommand)
	vaultCommand.AddCommand(vaultDepositCommand)
	mDepositFlags := vaultDepositCommand.PersistentFlags()
	mDepositFlags.StringVarP(&fromAddr, "address", "a", "", "Set from address")
	vaultCommand.AddCommand(vaultDepositAuthCommand)
	mDepositAuthFlags := vaultDepositAuthCommand.PersistentFlags()
	mDepositAuthFlags.StringVarP(&authHolder, "holder", "", "", "Set token holder address")
	mDepositAuthFlags.StringVarP(&authDeadline, "deadline", "", "", "Set authorization deadline, unix seconds")
	mDepositAuthFlags.StringVarP(&authNonce, "nonce", "", "", "Set authorization nonce")
	vaultCommand.AddCommand(vaultWithdrawCommand)
	mWithdrawFlags := vaultWithdrawCommand.PersistentFlags()
	mWithdrawFlags.StringVarP(&fromAddr, "address", "a", "", "Set from address")
	vaultCommand.AddCommand(vaultPreviewDepositCommand)
	vaultCommand.AddCommand(vaultPreviewWithdrawCommand)
	vaultCommand.AddCommand(vaultDepositsCommand)
	vaultCommand.AddCommand(vaultWithdrawsCommand)
	vaultCommand.AddCommand(vaultCheckCommand)
	rootCmd.AddCommand(vaultCommand)
}
