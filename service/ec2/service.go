package awsec2

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/netopslab/vmx-deploy/model"
)

// Cisco Meraki AWS marketplace account
const vmxImageOwner = "679593333241"

const (
	vpcWaitTimeout      = 2 * time.Minute
	natWaitTimeout      = 5 * time.Minute
	instanceWaitTimeout = 5 * time.Minute
)

func NewService(awsconfig aws.Config) *service {
	client := ec2.NewFromConfig(awsconfig)
	return &service{
		client: client,
	}
}

type ingressRule struct {
	protocol    string
	fromPort    int32
	toPort      int32
	hasPorts    bool
	description string
}

// Ports and protocols the vMX appliance needs: SSH, HTTPS, IKE, NAT-T,
// ICMP, ESP and AH.
var vmxIngressRules = []ingressRule{
	{protocol: "tcp", fromPort: 22, toPort: 22, hasPorts: true, description: "SSH access"},
	{protocol: "tcp", fromPort: 443, toPort: 443, hasPorts: true, description: "HTTPS management"},
	{protocol: "udp", fromPort: 500, toPort: 500, hasPorts: true, description: "IKE"},
	{protocol: "udp", fromPort: 4500, toPort: 4500, hasPorts: true, description: "IPsec NAT-T"},
	{protocol: "icmp", fromPort: -1, toPort: -1, hasPorts: true, description: "ICMP"},
	{protocol: "50", description: "IPsec ESP"},
	{protocol: "51", description: "IPsec AH"},
}

// ProvisionNetworkStack creates the VPC, subnets, internet gateway, NAT
// gateway with its Elastic IP, route tables and security group. The NAT
// gateway must be available before the private default route is created,
// so the call blocks on the NAT gateway waiter in between.
func (s *service) ProvisionNetworkStack(ctx context.Context, cfg *model.DeployConfig) (*model.NetworkStack, error) {
	stack := &model.NetworkStack{}

	vpcID, err := s.createVPC(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating vpc: %w", err)
	}
	stack.VpcID = vpcID

	stack.PublicSubnetID, err = s.createSubnet(ctx, vpcID, cfg.PublicSubnetCidr, cfg.AvailabilityZone, fmt.Sprintf("subnet-%s-public", cfg.VMXName), cfg.Tags)
	if err != nil {
		return nil, fmt.Errorf("creating public subnet: %w", err)
	}

	stack.PrivateSubnetID, err = s.createSubnet(ctx, vpcID, cfg.PrivateSubnetCidr, cfg.AvailabilityZone, fmt.Sprintf("subnet-%s-private", cfg.VMXName), cfg.Tags)
	if err != nil {
		return nil, fmt.Errorf("creating private subnet: %w", err)
	}

	stack.InternetGatewayID, err = s.createInternetGateway(ctx, vpcID, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating internet gateway: %w", err)
	}

	stack.AllocationID, stack.EgressIP, err = s.allocateElasticIP(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("allocating elastic ip: %w", err)
	}

	stack.NatGatewayID, err = s.createNatGateway(ctx, stack.PublicSubnetID, stack.AllocationID, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating nat gateway: %w", err)
	}

	stack.PublicRouteTableID, err = s.createRouteTable(ctx, vpcID, stack.PublicSubnetID, fmt.Sprintf("rt-%s-public", cfg.VMXName), cfg.Tags, &ec2.CreateRouteInput{
		DestinationCidrBlock: aws.String("0.0.0.0/0"),
		GatewayId:            aws.String(stack.InternetGatewayID),
	})
	if err != nil {
		return nil, fmt.Errorf("creating public route table: %w", err)
	}

	stack.PrivateRouteTable, err = s.createRouteTable(ctx, vpcID, stack.PrivateSubnetID, fmt.Sprintf("rt-%s-private", cfg.VMXName), cfg.Tags, &ec2.CreateRouteInput{
		DestinationCidrBlock: aws.String("0.0.0.0/0"),
		NatGatewayId:         aws.String(stack.NatGatewayID),
	})
	if err != nil {
		return nil, fmt.Errorf("creating private route table: %w", err)
	}

	stack.SecurityGroupID, err = s.createSecurityGroup(ctx, vpcID, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating security group: %w", err)
	}

	return stack, nil
}

func (s *service) createVPC(ctx context.Context, cfg *model.DeployConfig) (string, error) {
	output, err := s.client.CreateVpc(ctx, &ec2.CreateVpcInput{
		CidrBlock:         aws.String(cfg.VPCCidr),
		TagSpecifications: tagSpec(types.ResourceTypeVpc, fmt.Sprintf("vpc-%s", cfg.VMXName), cfg.Tags),
	})
	if err != nil {
		return "", err
	}
	vpcID := aws.ToString(output.Vpc.VpcId)

	waiter := ec2.NewVpcAvailableWaiter(s.client)
	if err := waiter.Wait(ctx, &ec2.DescribeVpcsInput{VpcIds: []string{vpcID}}, vpcWaitTimeout); err != nil {
		return "", err
	}

	for _, attr := range []*ec2.ModifyVpcAttributeInput{
		{VpcId: aws.String(vpcID), EnableDnsSupport: &types.AttributeBooleanValue{Value: aws.Bool(true)}},
		{VpcId: aws.String(vpcID), EnableDnsHostnames: &types.AttributeBooleanValue{Value: aws.Bool(true)}},
	} {
		if _, err := s.client.ModifyVpcAttribute(ctx, attr); err != nil {
			return "", err
		}
	}

	return vpcID, nil
}

func (s *service) createSubnet(ctx context.Context, vpcID, cidr, az, name string, tags map[string]string) (string, error) {
	output, err := s.client.CreateSubnet(ctx, &ec2.CreateSubnetInput{
		VpcId:             aws.String(vpcID),
		CidrBlock:         aws.String(cidr),
		AvailabilityZone:  aws.String(az),
		TagSpecifications: tagSpec(types.ResourceTypeSubnet, name, tags),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(output.Subnet.SubnetId), nil
}

func (s *service) createInternetGateway(ctx context.Context, vpcID string, cfg *model.DeployConfig) (string, error) {
	output, err := s.client.CreateInternetGateway(ctx, &ec2.CreateInternetGatewayInput{
		TagSpecifications: tagSpec(types.ResourceTypeInternetGateway, fmt.Sprintf("igw-%s", cfg.VMXName), cfg.Tags),
	})
	if err != nil {
		return "", err
	}
	igwID := aws.ToString(output.InternetGateway.InternetGatewayId)

	_, err = s.client.AttachInternetGateway(ctx, &ec2.AttachInternetGatewayInput{
		InternetGatewayId: aws.String(igwID),
		VpcId:             aws.String(vpcID),
	})
	if err != nil {
		return "", err
	}
	return igwID, nil
}

func (s *service) allocateElasticIP(ctx context.Context, cfg *model.DeployConfig) (string, string, error) {
	output, err := s.client.AllocateAddress(ctx, &ec2.AllocateAddressInput{
		Domain:            types.DomainTypeVpc,
		TagSpecifications: tagSpec(types.ResourceTypeElasticIp, fmt.Sprintf("eip-%s-egress", cfg.VMXName), cfg.Tags),
	})
	if err != nil {
		return "", "", err
	}
	return aws.ToString(output.AllocationId), aws.ToString(output.PublicIp), nil
}

func (s *service) createNatGateway(ctx context.Context, subnetID, allocationID string, cfg *model.DeployConfig) (string, error) {
	output, err := s.client.CreateNatGateway(ctx, &ec2.CreateNatGatewayInput{
		SubnetId:          aws.String(subnetID),
		AllocationId:      aws.String(allocationID),
		TagSpecifications: tagSpec(types.ResourceTypeNatgateway, fmt.Sprintf("nat-%s", cfg.VMXName), cfg.Tags),
	})
	if err != nil {
		return "", err
	}
	natID := aws.ToString(output.NatGateway.NatGatewayId)

	waiter := ec2.NewNatGatewayAvailableWaiter(s.client)
	if err := waiter.Wait(ctx, &ec2.DescribeNatGatewaysInput{NatGatewayIds: []string{natID}}, natWaitTimeout); err != nil {
		return "", err
	}
	return natID, nil
}

func (s *service) createRouteTable(ctx context.Context, vpcID, subnetID, name string, tags map[string]string, route *ec2.CreateRouteInput) (string, error) {
	output, err := s.client.CreateRouteTable(ctx, &ec2.CreateRouteTableInput{
		VpcId:             aws.String(vpcID),
		TagSpecifications: tagSpec(types.ResourceTypeRouteTable, name, tags),
	})
	if err != nil {
		return "", err
	}
	rtID := aws.ToString(output.RouteTable.RouteTableId)

	route.RouteTableId = aws.String(rtID)
	if _, err := s.client.CreateRoute(ctx, route); err != nil {
		return "", err
	}

	_, err = s.client.AssociateRouteTable(ctx, &ec2.AssociateRouteTableInput{
		RouteTableId: aws.String(rtID),
		SubnetId:     aws.String(subnetID),
	})
	if err != nil {
		return "", err
	}
	return rtID, nil
}

func (s *service) createSecurityGroup(ctx context.Context, vpcID string, cfg *model.DeployConfig) (string, error) {
	name := fmt.Sprintf("sg-%s-vmx", cfg.VMXName)
	output, err := s.client.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		GroupName:         aws.String(name),
		Description:       aws.String("Security group for Meraki vMX appliance"),
		VpcId:             aws.String(vpcID),
		TagSpecifications: tagSpec(types.ResourceTypeSecurityGroup, name, cfg.Tags),
	})
	if err != nil {
		return "", err
	}
	sgID := aws.ToString(output.GroupId)

	for _, rule := range vmxIngressRules {
		perm := types.IpPermission{
			IpProtocol: aws.String(rule.protocol),
			IpRanges: []types.IpRange{
				{CidrIp: aws.String("0.0.0.0/0"), Description: aws.String(rule.description)},
			},
		}
		if rule.hasPorts {
			perm.FromPort = aws.Int32(rule.fromPort)
			perm.ToPort = aws.Int32(rule.toPort)
		}

		_, err := s.client.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
			GroupId:       aws.String(sgID),
			IpPermissions: []types.IpPermission{perm},
		})
		if err != nil && !isDuplicateRuleError(err) {
			return "", err
		}
	}

	return sgID, nil
}

// LatestVMXImage returns the newest available Meraki vMX AMI
func (s *service) LatestVMXImage(ctx context.Context) (string, error) {
	output, err := s.client.DescribeImages(ctx, &ec2.DescribeImagesInput{
		Filters: []types.Filter{
			{Name: aws.String("name"), Values: []string{"meraki-vmx*"}},
			{Name: aws.String("state"), Values: []string{"available"}},
			{Name: aws.String("architecture"), Values: []string{"x86_64"}},
		},
		Owners: []string{vmxImageOwner},
	})
	if err != nil {
		return "", err
	}

	if len(output.Images) == 0 {
		return "", errors.New("no Meraki vMX AMI found, check AWS Marketplace subscription")
	}

	images := output.Images
	sort.Slice(images, func(i, j int) bool {
		return aws.ToString(images[i].CreationDate) > aws.ToString(images[j].CreationDate)
	})

	return aws.ToString(images[0].ImageId), nil
}

// RunVMXInstance launches the vMX appliance into the public subnet and waits
// until it is running
func (s *service) RunVMXInstance(ctx context.Context, cfg *model.DeployConfig, stack *model.NetworkStack, profileARN, userData string) (*model.VMXInstance, error) {
	imageID, err := s.LatestVMXImage(ctx)
	if err != nil {
		return nil, err
	}

	input := &ec2.RunInstancesInput{
		ImageId:          aws.String(imageID),
		MinCount:         aws.Int32(1),
		MaxCount:         aws.Int32(1),
		InstanceType:     types.InstanceType(cfg.InstanceType),
		SecurityGroupIds: []string{stack.SecurityGroupID},
		SubnetId:         aws.String(stack.PublicSubnetID),
		UserData:         aws.String(base64.StdEncoding.EncodeToString([]byte(userData))),
		TagSpecifications: tagSpec(types.ResourceTypeInstance, cfg.VMXName, mergeTags(cfg.Tags, map[string]string{
			"Type":           "Meraki vMX",
			"DeploymentDate": time.Now().Format("2006-01-02"),
		})),
		MetadataOptions: &types.InstanceMetadataOptionsRequest{
			HttpTokens:              types.HttpTokensStateRequired,
			HttpPutResponseHopLimit: aws.Int32(2),
			HttpEndpoint:            types.InstanceMetadataEndpointStateEnabled,
		},
	}
	if cfg.KeyPairName != "" {
		input.KeyName = aws.String(cfg.KeyPairName)
	}
	if profileARN != "" {
		input.IamInstanceProfile = &types.IamInstanceProfileSpecification{Arn: aws.String(profileARN)}
	}

	runOutput, err := s.client.RunInstances(ctx, input)
	if err != nil {
		return nil, err
	}
	instanceID := aws.ToString(runOutput.Instances[0].InstanceId)

	waiter := ec2.NewInstanceRunningWaiter(s.client)
	describeInput := &ec2.DescribeInstancesInput{InstanceIds: []string{instanceID}}
	if err := waiter.Wait(ctx, describeInput, instanceWaitTimeout); err != nil {
		return nil, err
	}

	describeOutput, err := s.client.DescribeInstances(ctx, describeInput)
	if err != nil {
		return nil, err
	}
	instance := describeOutput.Reservations[0].Instances[0]

	return &model.VMXInstance{
		InstanceID: instanceID,
		ImageID:    imageID,
		PublicIP:   aws.ToString(instance.PublicIpAddress),
		PrivateIP:  aws.ToString(instance.PrivateIpAddress),
	}, nil
}

// TerminateInstance is used to clean up a partially deployed appliance
func (s *service) TerminateInstance(ctx context.Context, instanceID string) error {
	_, err := s.client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{instanceID},
	})
	return err
}

func tagSpec(resourceType types.ResourceType, name string, extra map[string]string) []types.TagSpecification {
	tags := []types.Tag{
		{Key: aws.String("Name"), Value: aws.String(name)},
		{Key: aws.String("Purpose"), Value: aws.String("Meraki vMX")},
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		tags = append(tags, types.Tag{Key: aws.String(k), Value: aws.String(extra[k])})
	}

	return []types.TagSpecification{
		{ResourceType: resourceType, Tags: tags},
	}
}

func mergeTags(base, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func isDuplicateRuleError(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "InvalidPermission.Duplicate"
	}
	return false
}
