package commands

import (
	"standings/internal/fetcher"
	"standings/internal/standings"
	"strings"

	"github.com/spf13/cobra"
)

// bindFlags registers every option as a persistent flag of cmd. Flag names
// double as the keys of the "defaults" object in configuration files.
func bindFlags(cmd *cobra.Command, o *standings.Options, t *fetcher.HttpOptions) {
	flags := cmd.PersistentFlags()

	flags.BoolVar(&o.Global, "global", o.Global, "Include the world standings.")
	flags.StringSliceVar(&o.Regions, "region", o.Regions, "Include a state or province, like TX or CA-ON.")
	flags.StringSliceVar(
		&o.Districts, "district", o.Districts,
		"Include a district: "+strings.Join(standings.DistrictKeys(), ", ")+".",
	)

	flags.StringSliceVar(&o.Codes, "code", o.Codes, "Only fetch these division codes.")
	flags.StringSliceVar(
		&o.Competitions, "competition", o.Competitions,
		"Only keep divisions of these competitions: "+strings.Join(standings.Competitions, ", ")+".",
	)
	flags.StringVarP(&o.Search, "search", "s", o.Search, "Only keep participants whose name or location contains this.")
	flags.StringSliceVar(&o.KeepIf, "keep-if", o.KeepIf, "Only keep divisions where someone's name or location contains one of these.")
	flags.IntVar(&o.MaxPlace, "max-place", o.MaxPlace, "Drop participants placed below this.")

	flags.StringSliceVar(
		&o.Omit, "omit", o.Omit,
		"Leave fields out of the output: "+strings.Join(standings.OmittableFields, ", ")+".",
	)
	flags.BoolVar(&o.Minimize, "minimize", o.Minimize, "Shorten division titles to their competition.")
	flags.BoolVar(&o.ByPerson, "by-person", o.ByPerson, "List participants instead of divisions.")
	flags.BoolVar(&o.ByPersonWithDivisions, "by-person-with-divisions", o.ByPersonWithDivisions, "List participants with every division they placed in.")
	flags.BoolVar(&o.ListCodes, "list-codes", o.ListCodes, "List the division codes of each scope instead of standings.")
	flags.BoolVar(&o.Similar, "similar", o.Similar, "With --by-person, point out names that look like the same person.")
	flags.BoolVar(&o.Pseudonymize, "pseudonymize", o.Pseudonymize, "Replace participant names with random aliases.")

	flags.StringVar(&o.CacheDir, "cache-dir", o.CacheDir, "Directory of cached pages, defaults to the user cache directory.")
	flags.BoolVar(&o.IgnoreExisting, "ignore-existing", o.IgnoreExisting, "Refetch every page, still updating the cache.")
	flags.BoolVar(&o.IgnoreStaleness, "ignore-staleness", o.IgnoreStaleness, "Use cached pages no matter how old.")
	flags.BoolVar(&o.DoNotWrite, "do-not-write", o.DoNotWrite, "Never write to the cache.")
	flags.BoolVar(&o.CleanCacheOnly, "clean-cache-only", o.CleanCacheOnly, "Remove every cached page and exit.")
	flags.BoolVar(&o.RequireCache, "require-cache", o.RequireCache, "Fail when the cache cannot be read or written.")

	flags.StringVar(&o.BaseUrl, "base-url", o.BaseUrl, "Site the standings are fetched from.")
	flags.IntVar(&o.Concurrency, "concurrency", o.Concurrency, "Pages fetched at the same time.")
	flags.BoolVarP(&o.Verbose, "verbose", "v", o.Verbose, "Enable verbose logging.")

	flags.Float64Var(&t.RequestsPerSecond, "requests-per-second", t.RequestsPerSecond, "Request rate limit, 4 when unset.")
	flags.DurationVar(&t.Timeout, "timeout", t.Timeout, "Timeout of a single request, 30s when unset.")
	flags.BoolVar(&t.CloudflareBypass, "cloudflare-bypass", t.CloudflareBypass, "Send browser-like headers that get past Cloudflare's bot check.")
}
