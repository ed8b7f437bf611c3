package rosdoc

import "context"

// Distribution is a named ROS distribution as published in a distribution index.
type Distribution struct {
	Name string

	// ReleasePackages maps released package names to their repository name.
	ReleasePackages map[string]string

	// Repositories maps repository names to repository records.
	Repositories map[string]Repository
}

// Repository is a repository record of a distribution.
type Repository struct {
	Name string
	// SourceURL is the source repository URL. Empty if none is declared.
	SourceURL string
}

// SourceRepositoryURL resolves the source repository URL of a released package.
// Returns ENOTFOUND if the package, its repository, or the source URL is missing.
func (d *Distribution) SourceRepositoryURL(packageName string) (string, error) {
	repoName, ok := d.ReleasePackages[packageName]
	if !ok {
		return "", Errorf(ENOTFOUND, "package %q not released in %s", packageName, d.Name)
	}
	repo, ok := d.Repositories[repoName]
	if !ok {
		return "", Errorf(ENOTFOUND, "repository %q not found in %s", repoName, d.Name)
	}
	if repo.SourceURL == "" {
		return "", Errorf(ENOTFOUND, "repository %q has no source url", repoName)
	}
	return repo.SourceURL, nil
}

// DistributionService looks up distributions in a distribution index.
type DistributionService interface {
	// FindDistribution fetches the distribution file for name.
	// Returns ENOTFOUND if the index does not list the distribution.
	FindDistribution(ctx context.Context, name string) (*Distribution, error)
}
