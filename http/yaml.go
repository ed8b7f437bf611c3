package http

import "github.com/fwojciec/rosdoc"

// indexFile is the rosdistro index (format 4).
type indexFile struct {
	Type          string                `yaml:"type"`
	Version       int                   `yaml:"version"`
	Distributions map[string]indexEntry `yaml:"distributions"`
}

type indexEntry struct {
	// Distribution lists distribution files relative to the index.
	Distribution      []string `yaml:"distribution"`
	DistributionType  string   `yaml:"distribution_type"`
	DistributionState string   `yaml:"distribution_status"`
}

// distributionFile is a rosdistro distribution file (format 2).
type distributionFile struct {
	Type         string                    `yaml:"type"`
	Version      int                       `yaml:"version"`
	Repositories map[string]repositoryFile `yaml:"repositories"`
}

type repositoryFile struct {
	Source  *repositorySpec `yaml:"source"`
	Doc     *repositorySpec `yaml:"doc"`
	Release *releaseSpec    `yaml:"release"`
	Status  string          `yaml:"status"`
}

type repositorySpec struct {
	Type    string `yaml:"type"`
	URL     string `yaml:"url"`
	Version string `yaml:"version"`
}

type releaseSpec struct {
	// Packages defaults to the repository name when empty.
	Packages []string `yaml:"packages"`
	URL      string   `yaml:"url"`
	Version  string   `yaml:"version"`
}

// mergeInto adds the repositories and release packages of f to dist.
// Later files override earlier ones.
func (f *distributionFile) mergeInto(dist *rosdoc.Distribution) {
	for name, repo := range f.Repositories {
		record := rosdoc.Repository{Name: name}
		if repo.Source != nil {
			record.SourceURL = repo.Source.URL
		}
		dist.Repositories[name] = record

		if repo.Release == nil {
			continue
		}
		packages := repo.Release.Packages
		if len(packages) == 0 {
			packages = []string{name}
		}
		for _, pkg := range packages {
			dist.ReleasePackages[pkg] = name
		}
	}
}
