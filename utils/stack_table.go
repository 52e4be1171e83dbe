package utils

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/netopslab/vmx-deploy/model"
)

// DrawStackTable renders the provisioned network stack, highlighting the
// values a CI pipeline needs to copy into its configuration
func DrawStackTable(accountId string, stack *model.NetworkStack) {
	fmt.Printf("\n%s\n", text.FgHiWhite.Sprint(" 🌐  NETWORK STACK"))
	fmt.Printf(" Account ID: %s\n", text.FgBlue.Sprint(accountId))

	tw := table.Table{}
	tw.AppendHeader(table.Row{"Resource", "ID / Value"})
	tw.AppendRows([]table.Row{
		{text.FgHiGreen.Sprint("VPC"), stack.VpcID},
		{"Public Subnet", stack.PublicSubnetID},
		{text.FgHiGreen.Sprint("Private Subnet"), stack.PrivateSubnetID},
		{"Internet Gateway", stack.InternetGatewayID},
		{"NAT Gateway", stack.NatGatewayID},
		{text.FgHiGreen.Sprint("Static Egress IP"), text.FgHiYellow.Sprint(stack.EgressIP)},
		{"Public Route Table", stack.PublicRouteTableID},
		{"Private Route Table", stack.PrivateRouteTable},
		{text.FgHiGreen.Sprint("Security Group"), stack.SecurityGroupID},
	})
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, VAlignHeader: text.VAlignMiddle},
		{Number: 2, Align: text.AlignLeft},
	})
	fmt.Println(tw.Render())
	fmt.Printf(" Allowlist %s on the Meraki dashboard and third party firewalls\n", text.FgHiYellow.Sprint(stack.EgressIP))
}
