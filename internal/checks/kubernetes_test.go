package checks

import "testing"

const riskyDeployment = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: myapp
spec:
  replicas: 1
  template:
    spec:
      containers:
        - name: myapp
          image: myapp:latest
`

func k8sDetect(t *testing.T, id, content string) bool {
	t.Helper()
	c, ok := ByID(id)
	if !ok {
		t.Fatalf("check %s not registered", id)
	}
	return c.Detect(Target{Path: "k8s/app.yaml", Content: content})
}

// A Deployment with one replica, no resources, no probes and a :latest
// image raises four independent findings, each from a distinct check.
func TestK8sRiskyDeploymentScenario(t *testing.T) {
	for _, id := range []string{
		"K8S_NO_RESOURCE_LIMITS",
		"K8S_NO_PROBES",
		"K8S_LATEST_TAG",
		"K8S_SINGLE_REPLICA",
	} {
		if !k8sDetect(t, id, riskyDeployment) {
			t.Errorf("%s should fire on the risky deployment", id)
		}
	}

	for _, id := range []string{
		"K8S_PRIVILEGED",
		"K8S_HOST_NETWORK",
		"K8S_HOST_PID",
		"K8S_CLUSTER_ADMIN",
	} {
		if k8sDetect(t, id, riskyDeployment) {
			t.Errorf("%s should not fire on the risky deployment", id)
		}
	}
}

func TestK8sChecks(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		content string
		matched bool
	}{
		{"secret manifest", "K8S_PLAIN_SECRET", "apiVersion: v1\nkind: Secret\ndata: {}\n", true},
		{"configmap is fine", "K8S_PLAIN_SECRET", "apiVersion: v1\nkind: ConfigMap\n", false},
		{"privileged container", "K8S_PRIVILEGED", "securityContext:\n  privileged: true\n", true},
		{"unprivileged", "K8S_PRIVILEGED", "securityContext:\n  privileged: false\n", false},
		{"host network", "K8S_HOST_NETWORK", "spec:\n  hostNetwork: true\n", true},
		{"host pid", "K8S_HOST_PID", "spec:\n  hostPID: true\n", true},
		{"run as root allowed", "K8S_RUN_AS_ROOT", "securityContext:\n  runAsNonRoot: false\n", true},
		{"run as non root", "K8S_RUN_AS_ROOT", "securityContext:\n  runAsNonRoot: true\n", false},
		{
			"daemonset without resources", "K8S_NO_RESOURCE_LIMITS",
			"kind: DaemonSet\nspec: {}\n", true,
		},
		{
			"deployment with resources", "K8S_NO_RESOURCE_LIMITS",
			"kind: Deployment\nspec:\n  resources:\n    limits:\n      memory: 128Mi\n", false,
		},
		{
			"service needs no resources", "K8S_NO_RESOURCE_LIMITS",
			"kind: Service\nspec: {}\n", false,
		},
		{
			"statefulset with readiness probe only", "K8S_NO_PROBES",
			"kind: StatefulSet\nspec:\n  readinessProbe:\n    httpGet: {}\n", false,
		},
		{
			"daemonset probes not required", "K8S_NO_PROBES",
			"kind: DaemonSet\nspec: {}\n", false,
		},
		{"pinned image", "K8S_LATEST_TAG", "image: myapp:1.4.2\n", false},
		{"latest image quoted", "K8S_LATEST_TAG", "image: \"nginx:latest\"\n", true},
		{
			"three replicas", "K8S_SINGLE_REPLICA",
			"kind: Deployment\nspec:\n  replicas: 3\n", false,
		},
		{
			"single replica non deployment", "K8S_SINGLE_REPLICA",
			"kind: StatefulSet\nspec:\n  replicas: 1\n", false,
		},
		{
			"cluster admin binding", "K8S_CLUSTER_ADMIN",
			"kind: ClusterRoleBinding\nroleRef:\n  name: cluster-admin\n", true,
		},
		{
			"scoped binding", "K8S_CLUSTER_ADMIN",
			"kind: RoleBinding\nroleRef:\n  name: app-reader\n", false,
		},
		{
			"cluster-admin outside a binding", "K8S_CLUSTER_ADMIN",
			"kind: ConfigMap\ndata:\n  note: cluster-admin\n", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := k8sDetect(t, tt.id, tt.content); got != tt.matched {
				t.Errorf("%s = %v, want %v", tt.id, got, tt.matched)
			}
		})
	}
}
