package checks

import (
	"regexp"
	"strings"

	"github.com/iacgate/iacgate/internal/classify"
)

var (
	// Literal (non-interpolated) value on a well-known database password
	// variable. ${VAR} references pass.
	reComposeDBPassword = regexp.MustCompile(`(?m)(MYSQL_ROOT_PASSWORD|MYSQL_PASSWORD|POSTGRES_PASSWORD|MONGO_INITDB_ROOT_PASSWORD|REDIS_PASSWORD|RABBITMQ_DEFAULT_PASS)\s*[:=]\s*["']?[^$\s"']+`)

	// Host-side port in a ports: mapping hitting a well-known database port.
	reComposeDBPort = regexp.MustCompile(`(?m)^\s*-\s*["']?(\d{1,3}(\.\d{1,3}){3}:)?(3306|5432|27017|6379|9200):\d+`)

	reComposeLatest = regexp.MustCompile(`(?m)image:\s*["']?[^\s"']+:latest["']?\s*$`)
)

var composeChecks = []Check{
	{
		ID:       "COMPOSE_NO_RESOURCE_LIMITS",
		Category: classify.DockerCompose,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return strings.Contains(t.Content, "services:") &&
				!strings.Contains(t.Content, "mem_limit") &&
				!strings.Contains(t.Content, "deploy:")
		},
		Message: "no mem_limit or deploy resource limits; a runaway container can starve the host",
	},
	{
		ID:       "COMPOSE_DB_PASSWORD",
		Category: classify.DockerCompose,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reComposeDBPassword.MatchString(t.Content)
		},
		Message: "database password set to a literal value; use an env reference or secrets",
	},
	{
		ID:       "COMPOSE_EXPOSED_DB_PORT",
		Category: classify.DockerCompose,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return reComposeDBPort.MatchString(t.Content)
		},
		Message: "database port published to the host; keep databases on the internal network",
	},
	{
		ID:       "COMPOSE_LATEST_TAG",
		Category: classify.DockerCompose,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return reComposeLatest.MatchString(t.Content)
		},
		Message: "image uses the :latest tag; pin a version",
	},
}
