package checks

import (
	"regexp"
	"strings"

	"github.com/iacgate/iacgate/internal/classify"
)

var (
	reK8sKind        = regexp.MustCompile(`(?m)^\s*kind:\s*["']?([A-Za-z]+)["']?\s*$`)
	reK8sPrivileged  = regexp.MustCompile(`privileged:\s*true`)
	reK8sHostNetwork = regexp.MustCompile(`hostNetwork:\s*true`)
	reK8sHostPID     = regexp.MustCompile(`hostPID:\s*true`)
	reK8sRunAsRoot   = regexp.MustCompile(`runAsNonRoot:\s*false`)
	reK8sLatestImage = regexp.MustCompile(`(?m)image:\s*["']?[^\s"']+:latest["']?\s*$`)
	reK8sOneReplica  = regexp.MustCompile(`(?m)^\s*replicas:\s*1\s*$`)
	reK8sRoleBinding = regexp.MustCompile(`(?m)^\s*kind:\s*(Cluster)?RoleBinding\s*$`)
)

// manifestHasKind reports whether the document declares one of the given
// resource kinds.
func manifestHasKind(content string, kinds ...string) bool {
	for _, m := range reK8sKind.FindAllStringSubmatch(content, -1) {
		for _, k := range kinds {
			if m[1] == k {
				return true
			}
		}
	}
	return false
}

var kubernetesChecks = []Check{
	{
		ID:       "K8S_PLAIN_SECRET",
		Category: classify.Kubernetes,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return manifestHasKind(t.Content, "Secret")
		},
		Message: "Secret manifest: base64 is encoding, not encryption; consider an external secret store",
	},
	{
		ID:       "K8S_PRIVILEGED",
		Category: classify.Kubernetes,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reK8sPrivileged.MatchString(t.Content)
		},
		Message: "container runs privileged; drop privileged: true unless strictly required",
	},
	{
		ID:       "K8S_HOST_NETWORK",
		Category: classify.Kubernetes,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reK8sHostNetwork.MatchString(t.Content)
		},
		Message: "pod uses hostNetwork: true, sharing the node network namespace",
	},
	{
		ID:       "K8S_HOST_PID",
		Category: classify.Kubernetes,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reK8sHostPID.MatchString(t.Content)
		},
		Message: "pod uses hostPID: true, sharing the node process namespace",
	},
	{
		ID:       "K8S_RUN_AS_ROOT",
		Category: classify.Kubernetes,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return reK8sRunAsRoot.MatchString(t.Content)
		},
		Message: "securityContext sets runAsNonRoot: false; containers should not run as root",
	},
	{
		ID:       "K8S_NO_RESOURCE_LIMITS",
		Category: classify.Kubernetes,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return manifestHasKind(t.Content, "Deployment", "StatefulSet", "DaemonSet") &&
				!strings.Contains(t.Content, "resources:")
		},
		Message: "workload without a resources: block; set requests and limits",
	},
	{
		ID:       "K8S_NO_PROBES",
		Category: classify.Kubernetes,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return manifestHasKind(t.Content, "Deployment", "StatefulSet") &&
				!strings.Contains(t.Content, "readinessProbe:") &&
				!strings.Contains(t.Content, "livenessProbe:")
		},
		Message: "workload without readiness or liveness probes",
	},
	{
		ID:       "K8S_LATEST_TAG",
		Category: classify.Kubernetes,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return reK8sLatestImage.MatchString(t.Content)
		},
		Message: "image uses the :latest tag; pin a version for reproducible rollouts",
	},
	{
		ID:       "K8S_SINGLE_REPLICA",
		Category: classify.Kubernetes,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return manifestHasKind(t.Content, "Deployment") && reK8sOneReplica.MatchString(t.Content)
		},
		Message: "Deployment with replicas: 1 has no availability during rollout or node failure",
	},
	{
		ID:       "K8S_CLUSTER_ADMIN",
		Category: classify.Kubernetes,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reK8sRoleBinding.MatchString(t.Content) && strings.Contains(t.Content, "cluster-admin")
		},
		Message: "RBAC binding grants cluster-admin; scope to a narrower role",
	},
}
