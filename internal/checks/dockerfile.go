package checks

import (
	"regexp"
	"strings"

	"github.com/iacgate/iacgate/internal/classify"
)

var (
	reDockerUser        = regexp.MustCompile(`(?mi)^\s*USER\s+\S`)
	reDockerFrom        = regexp.MustCompile(`(?mi)^\s*FROM\s+(\S+)(\s+AS\s+(\S+))?`)
	reDockerSensitive   = regexp.MustCompile(`(?mi)^\s*(COPY|ADD)\s+[^\n]*\.(env|pem|key|cert|p12|pfx|jks)\b`)
	reDockerAddRemote   = regexp.MustCompile(`(?mi)^\s*ADD\s+https?://`)
	reDockerHealthcheck = regexp.MustCompile(`(?mi)^\s*HEALTHCHECK\b`)
	reDockerSecretArg   = regexp.MustCompile(`(?mi)^\s*ARG\s+\w*(password|secret|token|key|credential)\w*`)
)

// dockerfileUnpinnedBase reports whether any FROM line pulls :latest or an
// untagged image. Build-stage aliases and scratch are not registry pulls
// and are ignored; digest pins (image@sha256:...) always pass.
func dockerfileUnpinnedBase(content string) bool {
	aliases := map[string]bool{}
	for _, m := range reDockerFrom.FindAllStringSubmatch(content, -1) {
		image := m[1]
		if m[3] != "" {
			aliases[strings.ToLower(m[3])] = true
		}
		if aliases[strings.ToLower(image)] || strings.EqualFold(image, "scratch") {
			continue
		}
		if strings.Contains(image, "@") {
			continue
		}
		if strings.HasSuffix(image, ":latest") || !strings.Contains(image, ":") {
			return true
		}
	}
	return false
}

var dockerfileChecks = []Check{
	{
		ID:       "DOCKER_NO_USER",
		Category: classify.Dockerfile,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return t.Content != "" && !reDockerUser.MatchString(t.Content)
		},
		Message: "no USER instruction; the container runs as root",
	},
	{
		ID:       "DOCKER_UNPINNED_IMAGE",
		Category: classify.Dockerfile,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return dockerfileUnpinnedBase(t.Content)
		},
		Message: "base image unpinned (:latest or no tag); pin a version or digest",
	},
	{
		ID:       "DOCKER_SENSITIVE_COPY",
		Category: classify.Dockerfile,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reDockerSensitive.MatchString(t.Content)
		},
		Message: "COPY/ADD of a sensitive file (.env, key or certificate) bakes it into the image",
	},
	{
		ID:       "DOCKER_ADD_REMOTE",
		Category: classify.Dockerfile,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return reDockerAddRemote.MatchString(t.Content)
		},
		Message: "ADD from a URL is unverified; prefer RUN curl with checksum verification",
	},
	{
		ID:       "DOCKER_NO_HEALTHCHECK",
		Category: classify.Dockerfile,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return t.Content != "" && !reDockerHealthcheck.MatchString(t.Content)
		},
		Message: "no HEALTHCHECK instruction; orchestrators cannot detect a wedged container",
	},
	{
		ID:       "DOCKER_NPM_INSTALL",
		Category: classify.Dockerfile,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return strings.Contains(t.Content, "npm install") && !strings.Contains(t.Content, "npm ci")
		},
		Message: "npm install in an image build; npm ci gives reproducible installs from the lockfile",
	},
	{
		ID:       "DOCKER_NO_DOCKERIGNORE",
		Category: classify.Dockerfile,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return t.Repo != nil && !t.Repo.HasSibling(".dockerignore")
		},
		Message: "no .dockerignore next to the Dockerfile; the build context may leak secrets and bloat the image",
	},
	{
		ID:       "DOCKER_SECRET_ARG",
		Category: classify.Dockerfile,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reDockerSecretArg.MatchString(t.Content)
		},
		Message: "build ARG named like a secret; build args are recorded in image history",
	},
}
