package config

import (
	"os"
	"time"

	"golang.org/x/text/language"

	"github.com/fluxpress/theme-classic/internal/foundation/errors"
)

// Validate rejects configurations no build can run with. On success the
// display time zone is resolved.
func (c *Config) Validate() error {
	v := configurationValidator{config: c}
	return v.validate()
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validate() error {
	for _, step := range []func() error{
		cv.validatePagination,
		cv.validateSite,
		cv.validateTimezone,
		cv.validatePaths,
		cv.validatePreview,
	} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (cv *configurationValidator) validatePagination() error {
	if cv.config.PerPage <= 0 {
		return errors.ConfigError("per_page must be a positive integer").
			WithContext("per_page", cv.config.PerPage).Build()
	}
	return nil
}

func (cv *configurationValidator) validateSite() error {
	if _, err := language.Parse(cv.config.Site.Lang); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "site.lang is not a BCP 47 language tag").
			Fatal().UserAction().WithContext("lang", cv.config.Site.Lang).Build()
	}
	return nil
}

func (cv *configurationValidator) validateTimezone() error {
	if cv.config.Timezone == "" {
		cv.config.location = time.Local
		return nil
	}
	loc, err := time.LoadLocation(cv.config.Timezone)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "unknown timezone").
			Fatal().UserAction().WithContext("timezone", cv.config.Timezone).Build()
	}
	cv.config.location = loc
	return nil
}

func (cv *configurationValidator) validatePaths() error {
	if dir := cv.config.ThemeDir; dir != "" {
		fi, err := os.Stat(dir)
		if err != nil || !fi.IsDir() {
			return errors.ConfigError("theme_dir does not exist").WithContext("theme_dir", dir).Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validatePreview() error {
	p := cv.config.Preview
	if p.Port < 0 || p.Port > 65535 {
		return errors.ConfigError("preview.port out of range").WithContext("port", p.Port).Build()
	}
	if p.RebuildInterval != "" {
		d, err := time.ParseDuration(p.RebuildInterval)
		if err != nil || d <= 0 {
			return errors.ConfigError("preview.rebuild_interval must be a positive duration").
				WithContext("rebuild_interval", p.RebuildInterval).Build()
		}
	}
	return nil
}
