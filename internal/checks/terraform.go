package checks

import (
	"regexp"
	"strings"

	"github.com/iacgate/iacgate/internal/classify"
)

var (
	// Literal (non-interpolated, length > 4) value assigned to a
	// secret-looking key. Interpolation and variable references fail the
	// quoted-literal requirement, so password = var.db_password passes.
	reTFSecretAssign = regexp.MustCompile(`(?im)^\s*[\w-]*(password|secret|token|api_key)[\w-]*\s*=\s*"[^"$]{5,}"`)

	reTFOpenCIDR     = regexp.MustCompile(`cidr_blocks\s*=\s*\[\s*"0\.0\.0\.0/0"`)
	reTFIngressBlock = regexp.MustCompile(`(?i)\b(ingress|inbound)\b`)
	reTFAzureOpen    = regexp.MustCompile(`source_address_prefix\s*=\s*"\*"`)
	reTFGCPOpen      = regexp.MustCompile(`source_ranges\s*=\s*\[\s*"0\.0\.0\.0/0"`)

	reTFS3Bucket     = regexp.MustCompile(`resource\s+"aws_s3_bucket"`)
	reTFS3Encryption = regexp.MustCompile(`server_side_encryption`)
	reTFRDSResource  = regexp.MustCompile(`resource\s+"(aws_db_instance|aws_rds_cluster)"`)
	reTFEBSVolume    = regexp.MustCompile(`resource\s+"aws_ebs_volume"`)
	reTFEncryptedSet = regexp.MustCompile(`(?m)^\s*encrypted\s*=`)

	reTFIAMWildcard = regexp.MustCompile(`"(Action|Resource)"\s*:\s*"\*"|\b(actions|resources)\s*=\s*\[\s*"\*"`)
	reTFPublic      = regexp.MustCompile(`publicly_accessible\s*=\s*true`)

	reTFEC2Resource = regexp.MustCompile(`resource\s+"(aws_instance|aws_launch_template)"`)
	reTFAWSResource = regexp.MustCompile(`resource\s+"aws_`)
	reTFTags        = regexp.MustCompile(`(?m)^\s*tags\s*=`)

	reTFRequiredProviders = regexp.MustCompile(`required_providers`)
	reTFLoosePin          = regexp.MustCompile(`version\s*=\s*"\s*>=`)

	reTFResourceBlock = regexp.MustCompile(`(?m)^\s*resource\s+"`)
	reTFBackendBlock  = regexp.MustCompile(`(?m)^\s*backend\s+"`)
)

var terraformChecks = []Check{
	{
		ID:       "TF_HARDCODED_SECRET",
		Category: classify.Terraform,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reTFSecretAssign.MatchString(t.Content)
		},
		Message: "hardcoded secret value; reference a variable or secret manager instead of a string literal",
	},
	{
		ID:       "TF_OPEN_INGRESS",
		Category: classify.Terraform,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reTFOpenCIDR.MatchString(t.Content) && reTFIngressBlock.MatchString(t.Content)
		},
		Message: "security group ingress open to 0.0.0.0/0; restrict the source CIDR",
	},
	{
		ID:       "TF_AZURE_OPEN_SOURCE",
		Category: classify.Terraform,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reTFAzureOpen.MatchString(t.Content)
		},
		Message: `network security rule allows any source (source_address_prefix = "*")`,
	},
	{
		ID:       "TF_GCP_OPEN_SOURCE",
		Category: classify.Terraform,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reTFGCPOpen.MatchString(t.Content)
		},
		Message: "firewall rule allows source_ranges 0.0.0.0/0; restrict the source ranges",
	},
	{
		ID:       "TF_S3_NO_ENCRYPTION",
		Category: classify.Terraform,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return reTFS3Bucket.MatchString(t.Content) && !reTFS3Encryption.MatchString(t.Content)
		},
		Message: "aws_s3_bucket without server-side encryption configuration",
	},
	{
		ID:       "TF_RDS_NO_ENCRYPTION",
		Category: classify.Terraform,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return reTFRDSResource.MatchString(t.Content) && !strings.Contains(t.Content, "storage_encrypted")
		},
		Message: "database instance without storage_encrypted",
	},
	{
		ID:       "TF_EBS_NO_ENCRYPTION",
		Category: classify.Terraform,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return reTFEBSVolume.MatchString(t.Content) && !reTFEncryptedSet.MatchString(t.Content)
		},
		Message: "aws_ebs_volume without encrypted = true",
	},
	{
		ID:       "TF_IAM_WILDCARD",
		Category: classify.Terraform,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reTFIAMWildcard.MatchString(t.Content)
		},
		Message: `IAM policy grants wildcard "*" actions or resources; scope the policy down`,
	},
	{
		ID:       "TF_PUBLICLY_ACCESSIBLE",
		Category: classify.Terraform,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reTFPublic.MatchString(t.Content)
		},
		Message: "resource is publicly accessible (publicly_accessible = true)",
	},
	{
		ID:       "TF_NO_IMDSV2",
		Category: classify.Terraform,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return reTFEC2Resource.MatchString(t.Content) && !strings.Contains(t.Content, "http_tokens")
		},
		Message: "EC2 instance without http_tokens (IMDSv2 not enforced)",
	},
	{
		ID:       "TF_NO_TAGS",
		Category: classify.Terraform,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return reTFAWSResource.MatchString(t.Content) && !reTFTags.MatchString(t.Content)
		},
		Message: "AWS resources without tags; add owner/environment tags for cost attribution",
	},
	{
		ID:       "TF_LOOSE_PROVIDER_PIN",
		Category: classify.Terraform,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return reTFRequiredProviders.MatchString(t.Content) && reTFLoosePin.MatchString(t.Content)
		},
		Message: `provider version pinned with ">="; use an exact or "~>" constraint`,
	},
	{
		// Directory-level: if any .tf file here declares a resource, some
		// file here must declare a backend. The finding is about the
		// directory, not this file alone, so the target's own (possibly
		// unwritten) content counts alongside its siblings.
		ID:       "TF_NO_BACKEND",
		Category: classify.Terraform,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			if t.Repo == nil {
				return false
			}
			contents := append(t.Repo.TerraformFiles(), t.Content)
			hasResource, hasBackend := false, false
			for _, c := range contents {
				if reTFResourceBlock.MatchString(c) {
					hasResource = true
				}
				if reTFBackendBlock.MatchString(c) {
					hasBackend = true
				}
			}
			return hasResource && !hasBackend
		},
		Message: "no backend configuration in this Terraform directory; state will be local only",
	},
	{
		ID:       "GITIGNORE_NO_TFSTATE",
		Category: classify.Terraform,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			if t.Repo == nil || !t.Repo.HasGitignore {
				return false
			}
			return !t.Repo.GitignoreCovers("tfstate")
		},
		Message: ".gitignore does not exclude *.tfstate*; state files can contain secrets",
	},
}

var reTFVarsAssignment = regexp.MustCompile(`(?m)^\s*\w+\s*=\s*\S`)

var tfvarsChecks = []Check{
	{
		// .tfvars files are secret-risk by default: any concrete value in
		// them is worth an advisory.
		ID:       "TFVARS_PLAINTEXT_VALUE",
		Category: classify.TerraformVars,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return reTFVarsAssignment.MatchString(t.Content)
		},
		Message: ".tfvars holds plaintext values; prefer a secret-manager reference and keep the file out of version control",
	},
}
