package gcloud

import (
	"strconv"
	"strings"
)

// NodeTaint mirrors the GKE API taint shape. Effect uses the provider enum
// form, e.g. NO_SCHEDULE.
type NodeTaint struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Effect string `json:"effect"`
}

// NodeConfig is the per-node configuration block of a node pool.
type NodeConfig struct {
	MachineType    string            `json:"machineType"`
	DiskSizeGb     int64             `json:"diskSizeGb"`
	DiskType       string            `json:"diskType"`
	ImageType      string            `json:"imageType"`
	Labels         map[string]string `json:"labels"`
	Taints         []NodeTaint       `json:"taints"`
	OauthScopes    []string          `json:"oauthScopes"`
	ServiceAccount string            `json:"serviceAccount"`
	Tags           []string          `json:"tags"`
	Spot           bool              `json:"spot"`
	Preemptible    bool              `json:"preemptible"`
}

// Autoscaling is the node pool autoscaling block.
type Autoscaling struct {
	Enabled      bool  `json:"enabled"`
	MinNodeCount int64 `json:"minNodeCount"`
	MaxNodeCount int64 `json:"maxNodeCount"`
}

// NodePool is the snapshot returned by gcloud container node-pools describe.
type NodePool struct {
	Name             string      `json:"name"`
	Version          string      `json:"version"`
	Config           NodeConfig  `json:"config"`
	Autoscaling      Autoscaling `json:"autoscaling"`
	InitialNodeCount int64       `json:"initialNodeCount"`
	Locations        []string    `json:"locations"`
}

// Cluster is the subset of gcloud container clusters describe this tool
// reads.
type Cluster struct {
	Name                 string `json:"name"`
	CurrentMasterVersion string `json:"currentMasterVersion"`
	Location             string `json:"location"`
}

// Instance is the subset of gcloud compute instances describe this tool
// reads. MachineType is a full resource URL in the API response.
type Instance struct {
	Name        string `json:"name"`
	MachineType string `json:"machineType"`
	Status      string `json:"status"`
}

// MachineTypeName strips the resource URL down to the bare type name.
func (i Instance) MachineTypeName() string {
	if idx := strings.LastIndex(i.MachineType, "/"); idx >= 0 {
		return i.MachineType[idx+1:]
	}
	return i.MachineType
}

// Disk is the subset of gcloud compute disks describe this tool reads.
// SizeGb arrives as a string in the compute API JSON; Users lists the
// resource URLs of attached instances.
type Disk struct {
	Name   string   `json:"name"`
	SizeGb string   `json:"sizeGb"`
	Type   string   `json:"type"`
	Users  []string `json:"users"`
}

// SizeGiB parses the disk size. Returns 0 when unset.
func (d Disk) SizeGiB() int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(d.SizeGb), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// AttachedInstances returns the bare instance names from the Users URLs.
func (d Disk) AttachedInstances() []string {
	out := make([]string, 0, len(d.Users))
	for _, u := range d.Users {
		if idx := strings.LastIndex(u, "/"); idx >= 0 {
			u = u[idx+1:]
		}
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

// IAMBinding is one role-to-members binding of a project IAM policy.
type IAMBinding struct {
	Role    string   `json:"role"`
	Members []string `json:"members"`
}

// HasMember reports whether the principal is part of the binding.
func (b IAMBinding) HasMember(member string) bool {
	for _, m := range b.Members {
		if m == member {
			return true
		}
	}
	return false
}

// IAMPolicy is the subset of a project IAM policy this tool reads.
type IAMPolicy struct {
	Bindings []IAMBinding `json:"bindings"`
}

// RolesFor returns the roles granted to the given member, in policy order.
func (p IAMPolicy) RolesFor(member string) []string {
	var roles []string
	for _, b := range p.Bindings {
		if b.HasMember(member) {
			roles = append(roles, b.Role)
		}
	}
	return roles
}

// HasBinding reports whether the member already holds the role.
func (p IAMPolicy) HasBinding(member, role string) bool {
	for _, b := range p.Bindings {
		if b.Role == role && b.HasMember(member) {
			return true
		}
	}
	return false
}

// ServiceAccount is the subset of gcloud iam service-accounts describe this
// tool reads.
type ServiceAccount struct {
	Email    string `json:"email"`
	Disabled bool   `json:"disabled"`
}
