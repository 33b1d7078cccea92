package classify

import (
	"reflect"
	"testing"
)

func TestFile(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		content  string
		expected []Category
	}{
		// Extension rules
		{"terraform", "infra/main.tf", "", []Category{Terraform}},
		{"tfvars", "infra/prod.tfvars", "", []Category{TerraformVars}},

		// Dockerfile basenames
		{"dockerfile", "Dockerfile", "", []Category{Dockerfile}},
		{"dockerfile variant", "build/Dockerfile.prod", "", []Category{Dockerfile}},
		{"dockerfile case insensitive", "docker/DOCKERFILE", "", []Category{Dockerfile}},

		// Compose
		{"docker-compose", "docker-compose.yml", "", []Category{DockerCompose}},
		{"compose", "compose.yaml", "", []Category{DockerCompose}},
		{"compose override", "docker-compose.override.yml", "", []Category{DockerCompose}},
		{"composer.json is not compose", "composer.json", "", []Category{Generic}},

		// CI paths and basenames
		{"github workflow", ".github/workflows/ci.yml", "", []Category{CIPipeline}},
		{"circleci", ".circleci/config.yml", "", []Category{CIPipeline}},
		{"buildkite", ".buildkite/pipeline.yml", "", []Category{CIPipeline}},
		{"jenkinsfile", "Jenkinsfile", "", []Category{CIPipeline}},
		{"gitlab ci", ".gitlab-ci.yml", "", []Category{CIPipeline}},
		{"travis", ".travis.yml", "", []Category{CIPipeline}},
		{"azure pipelines", "azure-pipelines.yml", "", []Category{CIPipeline}},
		{"bitbucket", "bitbucket-pipelines.yml", "", []Category{CIPipeline}},
		{"drone", ".drone.yml", "", []Category{CIPipeline}},

		// Ansible path segments
		{"playbooks", "ansible/playbooks/site.yml", "", []Category{Ansible}},
		{"group_vars", "inventory/group_vars/all.yml", "", []Category{Ansible}},
		{"roles", "roles/web/tasks/main.yml", "", []Category{Ansible}},

		// Env files
		{"dotenv", ".env", "", []Category{EnvFile}},
		{"dotenv local", ".env.local", "", []Category{EnvFile}},
		{"env production", "config/app.env.production", "", []Category{EnvFile}},

		// Kubernetes by path
		{"k8s dir", "k8s/deployment.yaml", "", []Category{Kubernetes}},
		{"manifests dir", "manifests/svc.yml", "", []Category{Kubernetes}},
		{"helm charts", "charts/app/templates/deploy.yaml", "", []Category{Kubernetes}},

		// Kubernetes by content sniffing
		{"kind deployment", "app.yaml", "apiVersion: apps/v1\nkind: Deployment\n", []Category{Kubernetes}},
		{"kind service quoted", "svc.yml", `kind: "Service"` + "\n", []Category{Kubernetes}},
		{"unrecognized kind", "app.yaml", "kind: Kustomization\n", []Category{Generic}},
		{"yaml without kind", "values.yaml", "replicaCount: 2\n", []Category{Generic}},

		// Shell scripts
		{"sh extension", "scripts/deploy.sh", "", []Category{ShellScript}},
		{"bash extension", "teardown.bash", "", []Category{ShellScript}},
		{"shebang", "run", "#!/usr/bin/env bash\necho hi\n", []Category{ShellScript}},

		// Generic fallback
		{"go source", "main.go", "package main\n", []Category{Generic}},
		{"plain text", "notes.txt", "", []Category{Generic}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := File(tt.path, tt.content)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("File(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestFileDeterministic(t *testing.T) {
	path := "deploy/app.yaml"
	content := "apiVersion: apps/v1\nkind: Deployment\n"

	first := File(path, content)
	for i := 0; i < 10; i++ {
		if got := File(path, content); !reflect.DeepEqual(got, first) {
			t.Fatalf("classification not deterministic: %v vs %v", got, first)
		}
	}
}

func TestIsGitHubWorkflow(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{".github/workflows/ci.yml", true},
		{"repo/.github/workflows/release.yaml", true},
		{".github/dependabot.yml", false},
		{".gitlab-ci.yml", false},
		{"workflows/ci.yml", false},
	}

	for _, tt := range tests {
		if got := IsGitHubWorkflow(tt.path); got != tt.expected {
			t.Errorf("IsGitHubWorkflow(%q) = %v, want %v", tt.path, got, tt.expected)
		}
	}
}

func TestLabelCoversAllCategories(t *testing.T) {
	cats := []Category{
		Terraform, TerraformVars, Kubernetes, Dockerfile, DockerCompose,
		CIPipeline, Ansible, EnvFile, ShellScript, Generic, Any,
	}
	seen := map[string]bool{}
	for _, c := range cats {
		label := c.Label()
		if label == "" {
			t.Errorf("empty label for %q", c)
		}
		if seen[label] {
			t.Errorf("duplicate label %q", label)
		}
		seen[label] = true
	}
}
