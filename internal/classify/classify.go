// Package classify assigns infrastructure artifact categories to file paths.
//
// Classification is a pure function of the path and (for ambiguous YAML
// files) the content. It never touches the filesystem and never fails: an
// unrecognized file is simply Generic.
package classify

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Category is an inferred infrastructure-file type. It selects which checks
// apply to a file.
type Category string

const (
	Terraform     Category = "terraform"
	TerraformVars Category = "tfvars"
	Kubernetes    Category = "kubernetes"
	Dockerfile    Category = "dockerfile"
	DockerCompose Category = "compose"
	CIPipeline    Category = "ci"
	Ansible       Category = "ansible"
	EnvFile       Category = "env"
	ShellScript   Category = "shell"
	Generic       Category = "generic"

	// Any is a pseudo-category used only by checks: a check registered
	// under Any runs regardless of how the file was classified.
	Any Category = "any"
)

// Label returns the uppercase tag used when rendering findings.
func (c Category) Label() string {
	switch c {
	case Terraform:
		return "TERRAFORM"
	case TerraformVars:
		return "TFVARS"
	case Kubernetes:
		return "KUBERNETES"
	case Dockerfile:
		return "DOCKERFILE"
	case DockerCompose:
		return "COMPOSE"
	case CIPipeline:
		return "CI"
	case Ansible:
		return "ANSIBLE"
	case EnvFile:
		return "ENV"
	case ShellScript:
		return "SHELL"
	case Any:
		return "SECRETS"
	}
	return "GENERIC"
}

// CI pipeline path segments and basenames.
var (
	ciSegments  = []string{".circleci", ".buildkite"}
	ciBasenames = map[string]bool{
		"jenkinsfile":             true,
		".gitlab-ci.yml":          true,
		".travis.yml":             true,
		"azure-pipelines.yml":     true,
		"bitbucket-pipelines.yml": true,
		".drone.yml":              true,
	}
	ansibleSegments = map[string]bool{
		"playbooks":  true,
		"roles":      true,
		"inventory":  true,
		"group_vars": true,
		"host_vars":  true,
	}
	k8sSegments = map[string]bool{
		"k8s":        true,
		"kubernetes": true,
		"manifests":  true,
		"charts":     true,
		"helm":       true,
		"deploy":     true,
	}
	k8sKinds = map[string]bool{
		"Deployment": true, "Service": true, "Pod": true,
		"StatefulSet": true, "DaemonSet": true, "Job": true,
		"CronJob": true, "Ingress": true, "ConfigMap": true,
		"Secret": true, "Namespace": true, "NetworkPolicy": true,
		"Role": true, "RoleBinding": true, "ClusterRole": true,
		"ClusterRoleBinding": true,
	}

	envBasename = regexp.MustCompile(`^\.env`)
	kindLine    = regexp.MustCompile(`^\s*kind:\s*["']?([A-Za-z]+)["']?\s*$`)
	shebangLine = regexp.MustCompile(`^#!\s*\S*/(env\s+)?(sh|bash|zsh|dash)\b`)
)

// File classifies a path with optional content. Content may be empty (e.g.
// a pre-write invocation where the file does not exist yet); in that case
// only path-based rules apply. Returns [Generic] when nothing matches.
func File(path, content string) []Category {
	var cats []Category
	base := strings.ToLower(filepath.Base(path))
	ext := filepath.Ext(base)
	segs := pathSegments(path)

	switch ext {
	case ".tf":
		cats = append(cats, Terraform)
	case ".tfvars":
		cats = append(cats, TerraformVars)
	}

	if base == "dockerfile" || strings.HasPrefix(base, "dockerfile.") {
		cats = append(cats, Dockerfile)
	}

	isYAML := ext == ".yml" || ext == ".yaml"
	if isYAML && (strings.HasPrefix(base, "docker-compose") || strings.HasPrefix(base, "compose")) {
		cats = append(cats, DockerCompose)
	}

	if isCIPath(segs, base) {
		cats = append(cats, CIPipeline)
	}

	if hasSegment(segs, ansibleSegments) && !contains(cats, CIPipeline) {
		cats = append(cats, Ansible)
	}

	if envBasename.MatchString(base) ||
		strings.Contains(base, "env.local") ||
		strings.Contains(base, "env.production") ||
		strings.Contains(base, "env.staging") {
		cats = append(cats, EnvFile)
	}

	// YAML not already claimed by a more specific rule: decide Kubernetes
	// from the path or from a kind: field in the content.
	if isYAML && len(cats) == 0 {
		if hasSegment(segs, k8sSegments) || hasKubernetesKind(content) {
			cats = append(cats, Kubernetes)
		}
	}

	if ext == ".sh" || ext == ".bash" || hasShellShebang(content) {
		if len(cats) == 0 {
			cats = append(cats, ShellScript)
		}
	}

	if len(cats) == 0 {
		cats = append(cats, Generic)
	}
	return cats
}

func pathSegments(path string) []string {
	clean := filepath.ToSlash(path)
	return strings.Split(clean, "/")
}

func hasSegment(segs []string, set map[string]bool) bool {
	for _, s := range segs {
		if set[strings.ToLower(s)] {
			return true
		}
	}
	return false
}

func isCIPath(segs []string, base string) bool {
	if ciBasenames[base] {
		return true
	}
	for i, s := range segs {
		if s == ".github" && i+1 < len(segs) && segs[i+1] == "workflows" {
			return true
		}
		for _, ci := range ciSegments {
			if s == ci {
				return true
			}
		}
	}
	return false
}

// IsGitHubWorkflow reports whether the path is under .github/workflows.
// Some CI checks (top-level permissions, timeout-minutes) only make sense
// for GitHub Actions workflow files.
func IsGitHubWorkflow(path string) bool {
	segs := pathSegments(path)
	for i, s := range segs {
		if s == ".github" && i+1 < len(segs) && segs[i+1] == "workflows" {
			return true
		}
	}
	return false
}

// hasKubernetesKind scans the leading lines of a YAML document for a kind:
// field naming a recognized Kubernetes resource.
func hasKubernetesKind(content string) bool {
	if content == "" {
		return false
	}
	lines := strings.Split(content, "\n")
	scanned := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if m := kindLine.FindStringSubmatch(line); m != nil && k8sKinds[m[1]] {
			return true
		}
		scanned++
		if scanned >= 50 {
			break
		}
	}
	return false
}

func hasShellShebang(content string) bool {
	if content == "" {
		return false
	}
	first, _, _ := strings.Cut(content, "\n")
	return shebangLine.MatchString(first)
}

func contains(cats []Category, c Category) bool {
	for _, have := range cats {
		if have == c {
			return true
		}
	}
	return false
}

// Contains reports whether the category set includes c.
func Contains(cats []Category, c Category) bool {
	return contains(cats, c)
}
