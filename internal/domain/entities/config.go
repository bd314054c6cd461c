package entities

// Config names the remote locations a release spans: the S3 bucket family,
// the GitHub repositories carrying release tags, and the ECR image
// repositories with their supported architectures.
type Config struct {
	PublicReleasesBucket  string `yaml:"public_releases_bucket"`
	PrivateReleasesBucket string `yaml:"private_releases_bucket"`

	// GitHub repositories in "owner/name" form.
	PrimaryRepo   string `yaml:"primary_repo"`
	SecondaryRepo string `yaml:"secondary_repo"`

	NodeImageRepo           string   `yaml:"node_image_repo"`
	NodeImageArches         []string `yaml:"node_image_arches"`
	FunctionalTestImageRepo string   `yaml:"functional_test_image_repo"`
	FunctionalTestArches    []string `yaml:"functional_test_arches"`
}

// DefaultConfig returns the production release locations. A config file may
// override individual fields, see the yaml external adapter.
func DefaultConfig() Config {
	return Config{
		PublicReleasesBucket:    "nillion-releases",
		PrivateReleasesBucket:   "nillion-private-releases",
		PrimaryRepo:             "NillionNetwork/nillion",
		SecondaryRepo:           "NillionNetwork/devops",
		NodeImageRepo:           "nillion-node",
		NodeImageArches:         []string{"amd64", "arm64"},
		FunctionalTestImageRepo: "nillion-functional-tests",
		FunctionalTestArches:    []string{"amd64"},
	}
}
