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
	auditorCommand = &cobra.Command{
		Use:                   "auditor <command> [options]",
		DisableFlagsInUseLine: true,
		Short:                 "auditor serve info",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	auditorStartCommand = &cobra.Command{
		Use:                   "start [options]",
		DisableFlagsInUseLine: true,
		Short:                 "Start the invariant audit service",
		RunE:                  runAuditorStart,
	}
	auditorStopCommand = &cobra.Command{
		Use:                   "stop [options]",
		DisableFlagsInUseLine: true,
		Short:                 "Stop the invariant audit service",
		RunE:                  runAuditorStop,
	}
	auditorStatusCommand = &cobra.Command{
		Use:                   "status [options]",
		DisableFlagsInUseLine: true,
		Short:                 "Get current auditor status",
		RunE:                  runAuditorStatus,
	}
	auditorReportCommand = &cobra.Command{
		Use:                   "report [options] <wrapper>",
		DisableFlagsInUseLine: true,
		Short:                 "Get the last audit report of a vault",
		RunE:                  runAuditorReport,
	}
)

func runAuditorStart(_ *cobra.Command, args []string) error {
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	var res *string = nil
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	if err = cli.CallMethod(1, "Auditor.Start", nil, &res); err != nil {
		return err
	}
	fmt.Printf("Auditor started successfully\n")
	return nil
}

func runAuditorStop(_ *cobra.Command, _ []string) error {
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	var res *string = nil
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	err = cli.CallMethod(1, "Auditor.Stop", nil, &res)
	if err != nil {
		return err
	}
	fmt.Println("Auditor stopped...")
	return nil
}

func runAuditorStatus(_ *cobra.Command, _ []string) error {
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	res := make(map[string]interface{})
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	err = cli.CallMethod(1, "Auditor.Status", nil, &res)
	if err != nil {
		return nil
	}
	var statusStr string
	if res["status"].(bool) {
		statusStr = "Running"
	} else {
		statusStr = "Stop"
	}
	fmt.Printf("Status: %v\n", statusStr)
	fmt.Printf("LastStarTime: %s\n", res["last_start_time"])
	fmt.Printf("SweepInterval: %vs\n", res["sweep_interval"])
	reports, ok := res["reports"].([]interface{})
	if !ok || len(reports) == 0 {
		fmt.Printf("Reports: none\n")
		return nil
	}
	fmt.Printf("Reports:\n")
	for _, item := range reports {
		rep := item.(map[string]interface{})
		var healthyStr string
		if rep["healthy"].(bool) {
			healthyStr = "Healthy"
		} else {
			healthyStr = "BROKEN"
		}
		fmt.Printf("  %v: %v, reserves=%v, supply=%v\n",
			rep["wrapper"], healthyStr, rep["reserves"], rep["supply"])
	}
	return nil
}

func runAuditorReport(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	req := &auditorReportArgs{
		Wrapper: args[0],
	}
	result := make(map[string]interface{}, 1)
	err = cli.CallMethod(1, "Auditor.GetReport", &req, &result)
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
	auditorCommand.AddCommand(auditorStartCommand)
	auditorCommand.AddCommand(auditorStopCommand)
	auditorCommand.AddCommand(auditorStatusCommand)
	auditorCommand.AddCommand(auditorReportCommand)
	rootCmd.AddCommand(auditorCommand)
}
