// Package locator parses cloud console URLs and comma-delimited identity
// strings into structured resource identities. It performs no network calls.
package locator

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	gcperrors "github.com/gcpctl/gcpctl/pkg/errors"
)

// Kind names the resource type an identity refers to.
type Kind string

const (
	KindNodePool Kind = "nodepool"
	KindInstance Kind = "instance"
	KindDisk     Kind = "disk"
)

// ResourceIdentity is the parsed identity of a single cloud resource.
// Immutable once parsed.
type ResourceIdentity struct {
	Kind     Kind
	Project  string
	Location string
	// Parent is the enclosing resource: the cluster for a node pool, the
	// attached instance (when known) for a disk. Instances have no parent.
	Parent string
	Name   string
}

// Zonal reports whether Location looks like a zone rather than a region.
// Zones carry a trailing letter suffix, e.g. us-central1-a.
var zonePattern = regexp.MustCompile(`^[a-z]+-[a-z]+[0-9]+-[a-z]$`)

func (id ResourceIdentity) Zonal() bool {
	return zonePattern.MatchString(id.Location)
}

// LocationFlag returns the gcloud flag selecting the identity's location,
// --zone for zonal resources and --region otherwise.
func (id ResourceIdentity) LocationFlag() string {
	if id.Zonal() {
		return fmt.Sprintf("--zone=%s", id.Location)
	}
	return fmt.Sprintf("--region=%s", id.Location)
}

// Validate ensures all fields needed before a state fetch are present.
func (id ResourceIdentity) Validate() error {
	missing := ""
	switch {
	case id.Project == "":
		missing = "project"
	case id.Location == "":
		missing = "location"
	case id.Name == "":
		missing = "name"
	case id.Kind == KindNodePool && id.Parent == "":
		missing = "cluster"
	}
	if missing != "" {
		return gcperrors.NewParseError("", missing, "identity field is empty", nil)
	}
	return nil
}

var (
	nodePoolURLPattern = regexp.MustCompile(`/kubernetes/nodepool/([^/]+)/([^/]+)/([^/?#]+)`)
	instanceURLPattern = regexp.MustCompile(`/compute/instancesDetail/zones/([^/]+)/instances/([^/?#]+)`)
	diskURLPattern     = regexp.MustCompile(`/compute/disksDetail/zones/([^/]+)/disks/([^/?#]+)`)
)

// ParseNodePool resolves a node pool identity from a console URL or a
// comma-delimited "project,location,cluster,pool" string.
func ParseNodePool(input string) (ResourceIdentity, error) {
	input = strings.TrimSpace(input)
	if isConsoleURL(input) {
		return parseNodePoolURL(input)
	}

	parts := splitIdentity(input)
	if len(parts) != 4 {
		return ResourceIdentity{}, gcperrors.NewParseError(input, "",
			"expected console URL or project,location,cluster,pool", nil)
	}
	id := ResourceIdentity{Kind: KindNodePool, Project: parts[0], Location: parts[1], Parent: parts[2], Name: parts[3]}
	return id, id.Validate()
}

// ParseInstance resolves a VM identity from a console URL or a
// comma-delimited "project,zone,instance" string.
func ParseInstance(input string) (ResourceIdentity, error) {
	input = strings.TrimSpace(input)
	if isConsoleURL(input) {
		return parseZonalURL(input, KindInstance, instanceURLPattern, "instance")
	}

	parts := splitIdentity(input)
	if len(parts) != 3 {
		return ResourceIdentity{}, gcperrors.NewParseError(input, "",
			"expected console URL or project,zone,instance", nil)
	}
	id := ResourceIdentity{Kind: KindInstance, Project: parts[0], Location: parts[1], Name: parts[2]}
	return id, id.Validate()
}

// ParseDisk resolves a persistent disk identity from a console URL or a
// comma-delimited "project,zone,disk" string.
func ParseDisk(input string) (ResourceIdentity, error) {
	input = strings.TrimSpace(input)
	if isConsoleURL(input) {
		return parseZonalURL(input, KindDisk, diskURLPattern, "disk")
	}

	parts := splitIdentity(input)
	if len(parts) != 3 {
		return ResourceIdentity{}, gcperrors.NewParseError(input, "",
			"expected console URL or project,zone,disk", nil)
	}
	id := ResourceIdentity{Kind: KindDisk, Project: parts[0], Location: parts[1], Name: parts[2]}
	return id, id.Validate()
}

func parseNodePoolURL(input string) (ResourceIdentity, error) {
	u, err := url.Parse(input)
	if err != nil {
		return ResourceIdentity{}, gcperrors.NewParseError(input, "", "invalid URL", err)
	}
	m := nodePoolURLPattern.FindStringSubmatch(u.Path)
	if m == nil {
		return ResourceIdentity{}, gcperrors.NewParseError(input, "", "not a node pool console URL", nil)
	}
	id := ResourceIdentity{
		Kind:     KindNodePool,
		Project:  u.Query().Get("project"),
		Location: m[1],
		Parent:   m[2],
		Name:     m[3],
	}
	return id, id.Validate()
}

func parseZonalURL(input string, kind Kind, pattern *regexp.Regexp, what string) (ResourceIdentity, error) {
	u, err := url.Parse(input)
	if err != nil {
		return ResourceIdentity{}, gcperrors.NewParseError(input, "", "invalid URL", err)
	}
	m := pattern.FindStringSubmatch(u.Path)
	if m == nil {
		return ResourceIdentity{}, gcperrors.NewParseError(input, "", fmt.Sprintf("not a %s console URL", what), nil)
	}
	id := ResourceIdentity{
		Kind:     kind,
		Project:  u.Query().Get("project"),
		Location: m[1],
		Name:     m[2],
	}
	return id, id.Validate()
}

func isConsoleURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

func splitIdentity(input string) []string {
	raw := strings.Split(input, ",")
	out := make([]string, 0, len(raw))
	for _, part := range raw {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}
