package config

import "runtime"

const (
	DefaultPerPage        = 10
	DefaultDataDir        = "data"
	DefaultOutputDir      = "public"
	DefaultHighlightStyle = "github"
	DefaultPreviewPort    = 4000
	DefaultMetricsPath    = "/metrics"
	DefaultHistoryPath    = ".fluxpress/history.db"
	DefaultReportDir      = ".fluxpress/reports"
	DefaultNotifySubject  = "fluxpress.builds"
)

// DefaultTitles are the head titles of the classic theme.
var DefaultTitles = Titles{
	Home:       "首页",
	HomePaged:  "首页 - {page}",
	Archives:   "归档",
	Categories: "分类",
	Category:   "分类 - {title}",
	Tags:       "标签",
	Tag:        "标签 - {title}",
	About:      "关于",
	NotFound:   "404 Not Found",
}

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

type siteDefaults struct{}

func (siteDefaults) Domain() string { return "site" }

func (siteDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Site.Lang == "" {
		cfg.Site.Lang = "zh"
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = "FluxPress"
	}
	// per_page is only defaulted when omitted; explicit non-positive values fail validation.
	if cfg.PerPage == 0 {
		cfg.PerPage = DefaultPerPage
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	return nil
}

type buildDefaults struct{}

func (buildDefaults) Domain() string { return "build" }

func (buildDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
	}
	if cfg.Output.ReportDir == "" {
		cfg.Output.ReportDir = DefaultReportDir
	}
	if cfg.Build.Concurrency <= 0 {
		cfg.Build.Concurrency = runtime.NumCPU()
	}
	if cfg.Build.HighlightStyle == "" {
		cfg.Build.HighlightStyle = DefaultHighlightStyle
	}
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	t := &cfg.Titles
	fill(&t.Home, DefaultTitles.Home)
	fill(&t.HomePaged, DefaultTitles.HomePaged)
	fill(&t.Archives, DefaultTitles.Archives)
	fill(&t.Categories, DefaultTitles.Categories)
	fill(&t.Category, DefaultTitles.Category)
	fill(&t.Tags, DefaultTitles.Tags)
	fill(&t.Tag, DefaultTitles.Tag)
	fill(&t.About, DefaultTitles.About)
	fill(&t.NotFound, DefaultTitles.NotFound)
	return nil
}

type serviceDefaults struct{}

func (serviceDefaults) Domain() string { return "services" }

func (serviceDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Preview.Port == 0 {
		cfg.Preview.Port = DefaultPreviewPort
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubject
	}
	return nil
}

var appliers = []DefaultApplier{siteDefaults{}, buildDefaults{}, serviceDefaults{}}

// ApplyDefaults fills every unset field.
func ApplyDefaults(cfg *Config) error {
	for _, a := range appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
