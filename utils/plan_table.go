package utils

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/netopslab/vmx-deploy/model"
)

// DrawPlanTable renders what a deployment would create, without touching AWS
// or the Meraki dashboard
func DrawPlanTable(cfg *model.DeployConfig) {
	fmt.Printf("\n%s\n", text.FgHiWhite.Sprint(" 📋  DRY RUN PLAN"))
	fmt.Printf(" Region: %s\n", text.FgBlue.Sprint(cfg.AWSRegion))

	network := cfg.NetworkID
	if network == "" {
		network = fmt.Sprintf("new network %q", cfg.VMXName)
	}

	tw := table.Table{}
	tw.AppendHeader(table.Row{"Resource", "Planned Value"})
	tw.AppendRows([]table.Row{
		{"Meraki Network", network},
		{"VPC CIDR", cfg.VPCCidr},
		{"Public Subnet CIDR", cfg.PublicSubnetCidr},
		{"Private Subnet CIDR", cfg.PrivateSubnetCidr},
		{"Availability Zone", cfg.AvailabilityZone},
		{"vMX Name", cfg.VMXName},
		{"Instance Type", cfg.InstanceType},
	})
	if cfg.Function.Name != "" {
		tw.AppendRows([]table.Row{
			{"Lambda Function", cfg.Function.Name},
			{"Lambda Runtime", cfg.Function.Runtime},
			{"Lambda Memory", fmt.Sprintf("%d MB", cfg.Function.MemorySize)},
			{"Lambda Subnets", strings.Join(cfg.Function.SubnetIDs, ", ")},
		})
	}
	tw.SetStyle(table.StyleRounded)
	fmt.Println(tw.Render())
	fmt.Printf(" %s\n", text.FgHiYellow.Sprint("Dry run: no resources were created"))
}
