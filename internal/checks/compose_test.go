package checks

import "testing"

func composeDetect(t *testing.T, id, content string) bool {
	t.Helper()
	c, ok := ByID(id)
	if !ok {
		t.Fatalf("check %s not registered", id)
	}
	return c.Detect(Target{Path: "docker-compose.yml", Content: content})
}

func TestComposeChecks(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		content string
		matched bool
	}{
		{
			"no limits", "COMPOSE_NO_RESOURCE_LIMITS",
			"services:\n  app:\n    image: app:1.0\n", true,
		},
		{
			"mem_limit set", "COMPOSE_NO_RESOURCE_LIMITS",
			"services:\n  app:\n    image: app:1.0\n    mem_limit: 512m\n", false,
		},
		{
			"deploy block", "COMPOSE_NO_RESOURCE_LIMITS",
			"services:\n  app:\n    deploy:\n      resources:\n        limits:\n          memory: 512M\n", false,
		},
		{
			"literal postgres password", "COMPOSE_DB_PASSWORD",
			"environment:\n  POSTGRES_PASSWORD: hunter2\n", true,
		},
		{
			"env reference password", "COMPOSE_DB_PASSWORD",
			"environment:\n  POSTGRES_PASSWORD: ${DB_PASSWORD}\n", false,
		},
		{
			"literal mysql root password equals form", "COMPOSE_DB_PASSWORD",
			"environment:\n  - MYSQL_ROOT_PASSWORD=changeme\n", true,
		},
		{
			"postgres port published", "COMPOSE_EXPOSED_DB_PORT",
			"ports:\n  - \"5432:5432\"\n", true,
		},
		{
			"redis port published unquoted", "COMPOSE_EXPOSED_DB_PORT",
			"ports:\n  - 6379:6379\n", true,
		},
		{
			"app port published", "COMPOSE_EXPOSED_DB_PORT",
			"ports:\n  - \"8080:8080\"\n", false,
		},
		{
			"latest image", "COMPOSE_LATEST_TAG",
			"services:\n  cache:\n    image: redis:latest\n", true,
		},
		{
			"pinned image", "COMPOSE_LATEST_TAG",
			"services:\n  cache:\n    image: redis:7.4\n", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := composeDetect(t, tt.id, tt.content); got != tt.matched {
				t.Errorf("%s = %v, want %v", tt.id, got, tt.matched)
			}
		})
	}
}
