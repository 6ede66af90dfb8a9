package planner

import (
	"fmt"

	"github.com/gcpctl/gcpctl/internal/plan"
)

// KSAAnnotation is the annotation GKE reads to map a Kubernetes service
// account onto a Google service account.
const KSAAnnotation = "iam.gke.io/gcp-service-account"

// WorkloadIdentityRole is the role letting a KSA impersonate a GSA.
const WorkloadIdentityRole = "roles/iam.workloadIdentityUser"

// WorkloadBindingInput describes the desired workload identity binding plus
// the observed state of its three legs.
type WorkloadBindingInput struct {
	Project   string
	GSAName   string
	Namespace string
	KSAName   string

	GSAExists         bool
	BindingExists     bool
	CurrentAnnotation string
}

// GSAEmail returns the full service account email for the input.
func (in WorkloadBindingInput) GSAEmail() string {
	return fmt.Sprintf("%s@%s.iam.gserviceaccount.com", in.GSAName, in.Project)
}

// KSAMember returns the workload identity member string for the KSA.
func (in WorkloadBindingInput) KSAMember() string {
	return fmt.Sprintf("serviceAccount:%s.svc.id.goog[%s/%s]", in.Project, in.Namespace, in.KSAName)
}

// BuildWorkloadBindingPlan produces the three tiered actions of a workload
// identity binding: create the GSA, bind the impersonation role, annotate
// the KSA. Each leg is required only when its current state is missing; all
// three are always part of the full plan.
func BuildWorkloadBindingPlan(in WorkloadBindingInput) (*plan.Plan, error) {
	if in.Project == "" || in.GSAName == "" || in.Namespace == "" || in.KSAName == "" {
		return nil, fmt.Errorf("workload binding requires project, service account, namespace and ksa")
	}

	p := plan.New(in.GSAName)

	create := plan.Action{
		Description: fmt.Sprintf("create service account %s", in.GSAEmail()),
		Field:       "service-account",
		Command: []string{
			"gcloud", "iam", "service-accounts", "create", in.GSAName,
			"--project=" + in.Project,
			"--display-name=" + in.GSAName,
		},
		Class:       classify(!in.GSAExists),
		Repeat:      plan.Stateful,
		Tier:        plan.TierCreate,
		GuardExists: true,
	}
	if err := p.Add(create); err != nil {
		return nil, err
	}

	bind := plan.Action{
		Description: fmt.Sprintf("bind %s on %s for %s", WorkloadIdentityRole, in.GSAEmail(), in.KSAMember()),
		Field:       "iam-binding",
		Command: []string{
			"gcloud", "iam", "service-accounts", "add-iam-policy-binding", in.GSAEmail(),
			"--project=" + in.Project,
			"--role=" + WorkloadIdentityRole,
			"--member=" + in.KSAMember(),
		},
		Class:  classify(!in.BindingExists),
		Repeat: plan.SafeRepeat,
		Tier:   plan.TierBind,
	}
	if err := p.Add(bind); err != nil {
		return nil, err
	}

	annotate := plan.Action{
		Description: fmt.Sprintf("annotate ksa %s/%s with %s", in.Namespace, in.KSAName, in.GSAEmail()),
		Field:       "annotation",
		Command: []string{
			"kubectl", "annotate", "serviceaccount", in.KSAName,
			"--namespace=" + in.Namespace,
			fmt.Sprintf("%s=%s", KSAAnnotation, in.GSAEmail()),
			"--overwrite",
		},
		Class:  classify(in.CurrentAnnotation != in.GSAEmail()),
		Repeat: plan.SafeRepeat,
		Tier:   plan.TierAnnotate,
	}
	if err := p.Add(annotate); err != nil {
		return nil, err
	}

	return p, nil
}

func classify(required bool) plan.Classification {
	if required {
		return plan.ClassRequired
	}
	return plan.ClassDeclarative
}
