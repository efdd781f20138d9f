package config

const (
	defaultConfigPath             = "~/.config/relnotes/config.toml"
	defaultTemplateDir            = "templates"
	defaultMetadataDir            = "release-notes"
	defaultOutputDir              = "out"
	defaultLogDir                 = "~/.local/share/relnotes/logs"
	defaultCachePath              = "~/.cache/relnotes/lookups.db"
	defaultGitHubBaseURL          = "https://api.github.com"
	defaultGitHubRepository       = "dotnet/announcements"
	defaultGitHubUserAgent        = "Mozilla/5.0 (compatible; dotnet-cve-search/1.0)"
	defaultGitHubMaxAttempts      = 5
	defaultGitHubInitialBackoff   = 2
	defaultGitHubRequestTimeout   = 30
	defaultCacheTTLHours          = 168
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultLogRetentionDays       = 30
	defaultGitHubTokenEnvVar      = "GITHUB_TOKEN"
	defaultGitHubTokenPlaceholder = "your_github_token"
)

// Page kinds understood by the generator.
const (
	PageCVE      = "cve"
	PageReleases = "releases"
	PageReadme   = "readme"
	PageRNReadme = "rn-readme"
	PageScaffold = "scaffold"
)

// KnownPages lists every page kind in generation order.
var KnownPages = []string{PageReleases, PageReadme, PageRNReadme, PageCVE, PageScaffold}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TemplateDir: defaultTemplateDir,
			MetadataDir: defaultMetadataDir,
			OutputDir:   defaultOutputDir,
			LogDir:      defaultLogDir,
			CachePath:   defaultCachePath,
		},
		GitHub: GitHub{
			BaseURL:               defaultGitHubBaseURL,
			Repository:            defaultGitHubRepository,
			UserAgent:             defaultGitHubUserAgent,
			MaxAttempts:           defaultGitHubMaxAttempts,
			InitialBackoffSeconds: defaultGitHubInitialBackoff,
			RequestTimeoutSeconds: defaultGitHubRequestTimeout,
		},
		Generate: Generate{
			ChannelVersions: []string{"1.0", "1.1", "2.0", "2.1", "2.2", "3.0", "3.1", "5.0", "6.0", "7.0", "8.0", "9.0"},
			CVEVersions:     []string{"8.0", "9.0"},
			Pages:           []string{PageReleases, PageReadme, PageRNReadme, PageCVE},
		},
		Cache: Cache{
			TTLHours: defaultCacheTTLHours,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
