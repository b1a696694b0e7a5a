package standings

import (
	"fmt"
	"strings"
)

// ValidationError reports an option value outside of its allowed choices.
type ValidationError struct {
	Option  string
	Value   string
	Allowed []string
}

func (e *ValidationError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid value %q for --%s", e.Value, e.Option)
	}
	return fmt.Sprintf(
		"invalid value %q for --%s, allowed values are: %s",
		e.Value, e.Option, strings.Join(e.Allowed, ", "),
	)
}

// Options is every setting that shapes a standings query, resolved from
// flags and configuration defaults before anything is fetched.
type Options struct {
	Global    bool
	Regions   []string
	Districts []string

	Codes        []string
	Competitions []string
	Search       string
	KeepIf       []string
	MaxPlace     int

	Omit                  []string
	Minimize              bool
	ByPerson              bool
	ByPersonWithDivisions bool
	ListCodes             bool
	Similar               bool
	Pseudonymize          bool

	CacheDir        string
	IgnoreExisting  bool
	IgnoreStaleness bool
	DoNotWrite      bool
	CleanCacheOnly  bool
	RequireCache    bool

	BaseUrl     string
	Concurrency int
	Verbose     bool
}

const (
	DefaultBaseUrl     = "https://www.atamartialarts.com"
	DefaultConcurrency = 4
)

// DefaultOptions returns the built-in defaults, configuration files and
// flags are layered on top of them.
func DefaultOptions() Options {
	return Options{
		MaxPlace:    DefaultMaxPlace,
		BaseUrl:     DefaultBaseUrl,
		Concurrency: DefaultConcurrency,
	}
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// Validate checks every option with a fixed set of choices, and normalizes
// competition names in place.
func (o *Options) Validate() error {
	for _, r := range o.Regions {
		if _, ok := LookupRegion(r); !ok {
			return &ValidationError{Option: "region", Value: r, Allowed: RegionCodes()}
		}
	}
	for _, d := range o.Districts {
		if _, ok := LookupDistrict(d); !ok {
			return &ValidationError{Option: "district", Value: d, Allowed: DistrictKeys()}
		}
	}
	for i, c := range o.Competitions {
		normalized := NormalizeCompetition(c)
		if !contains(Competitions, normalized) {
			return &ValidationError{Option: "competition", Value: c, Allowed: Competitions}
		}
		o.Competitions[i] = normalized
	}
	for _, field := range o.Omit {
		if !contains(OmittableFields, strings.ToLower(strings.TrimSpace(field))) {
			return &ValidationError{Option: "omit", Value: field, Allowed: OmittableFields}
		}
	}
	if o.MaxPlace < 1 {
		return &ValidationError{Option: "max-place", Value: fmt.Sprint(o.MaxPlace)}
	}
	if o.Concurrency < 1 {
		return &ValidationError{Option: "concurrency", Value: fmt.Sprint(o.Concurrency)}
	}
	return nil
}

// Scopes resolves the requested scopes in the order global, districts,
// regions. Options must have been validated.
func (o Options) Scopes() []Scope {
	var scopes []Scope
	if o.Global {
		scopes = append(scopes, GlobalScope())
	}
	for _, name := range o.Districts {
		d, _ := LookupDistrict(name)
		scopes = append(scopes, DistrictScope(d))
	}
	for _, code := range o.Regions {
		r, _ := LookupRegion(code)
		scopes = append(scopes, RegionScope(r))
	}
	return scopes
}

func (o Options) Criteria() Criteria {
	return Criteria{
		Competitions: o.Competitions,
		KeepIf:       o.KeepIf,
		MaxPlace:     o.MaxPlace,
		Search:       o.Search,
	}
}

func (o Options) ViewOptions() ViewOptions {
	return NewViewOptions(o.Omit, o.Minimize, o.ByPersonWithDivisions)
}
