package utils

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/netopslab/vmx-deploy/model"
)

var summaryStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("#F4D060")).
	Padding(0, 1)

// DrawDeploySummary renders the result of a full vMX deployment
func DrawDeploySummary(accountId string, cfg *model.DeployConfig, networkId, tokenParameter string, stack *model.NetworkStack, instance *model.VMXInstance) {
	fmt.Printf("\n%s\n", text.FgHiWhite.Sprint(" 🛰️  vMX DEPLOYMENT"))
	fmt.Printf(" Account ID: %s\n", text.FgBlue.Sprint(accountId))

	tw := table.Table{}
	tw.AppendHeader(table.Row{"Item", "Value"})
	tw.AppendRows([]table.Row{
		{"Meraki Network", networkId},
		{"Auth Token Parameter", tokenParameter},
		{"VPC", stack.VpcID},
		{"Public Subnet", stack.PublicSubnetID},
		{"Static Egress IP", text.FgHiYellow.Sprint(stack.EgressIP)},
		{text.FgHiGreen.Sprint("Instance"), instance.InstanceID},
		{"AMI", instance.ImageID},
		{"Instance Type", cfg.InstanceType},
		{"Public IP", instance.PublicIP},
		{"Private IP", instance.PrivateIP},
	})
	tw.SetStyle(table.StyleRounded)
	fmt.Println(tw.Render())

	note := fmt.Sprintf("The vMX appliance registers with network %s within a few minutes.\nCheck the Meraki dashboard for its status.", networkId)
	fmt.Println(summaryStyle.Render(note))
}

// DrawFunctionTable renders the result of a Lambda deployment
func DrawFunctionTable(environment string, result *model.FunctionResult, logGroup string) {
	fmt.Printf("\n%s\n", text.FgHiWhite.Sprint(" λ  FUNCTION DEPLOYMENT"))
	fmt.Printf(" Environment: %s\n", text.FgBlue.Sprint(environment))

	action := "Updated"
	if result.Created {
		action = "Created"
	}

	tw := table.Table{}
	tw.AppendHeader(table.Row{"Item", "Value"})
	tw.AppendRows([]table.Row{
		{"Action", text.FgHiGreen.Sprint(action)},
		{"Function ARN", result.FunctionARN},
		{"Published Version", result.Version},
		{"Layer ARN", result.LayerARN},
		{"Log Group", logGroup},
	})
	tw.SetStyle(table.StyleRounded)
	fmt.Println(tw.Render())
}
