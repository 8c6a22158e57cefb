/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads polycodec settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/polycodec"
	"github.com/suparena/polycodec/conventions"
	"github.com/suparena/polycodec/errors"
)

// Environment variables that override file settings.
const (
	EnvRegion       = "AWS_REGION"
	EnvAccessKey    = "AWS_ACCESS_KEY"
	EnvSecretKey    = "AWS_SECRET_KEY"
	EnvTable        = "AWS_DDB_TABLE"
	EnvEndpoint     = "AWS_DDB_ENDPOINT"
	EnvMemberName   = "POLYCODEC_DISCRIMINATOR_MEMBER"
	EnvPolicy       = "POLYCODEC_DISCRIMINATOR_POLICY"
	defaultDotEnv   = ".env"
	defaultRegion   = "us-east-1"
	defaultPolicyID = "auto"
)

// Discriminator configures the default convention.
type Discriminator struct {
	MemberName string `yaml:"member_name" validate:"required,max=64"`
	Policy     string `yaml:"policy" validate:"oneof=auto always never"`
}

// DynamoDB configures the attribute-value datastore.
type DynamoDB struct {
	Region    string `yaml:"region" validate:"required"`
	Table     string `yaml:"table" validate:"omitempty,min=3,max=255"`
	Endpoint  string `yaml:"endpoint,omitempty" validate:"omitempty,url"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty" validate:"required_with=AccessKey"`
}

// Config is the full set of settings.
type Config struct {
	Discriminator Discriminator `yaml:"discriminator"`
	DynamoDB      DynamoDB      `yaml:"dynamodb"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Discriminator: Discriminator{
			MemberName: conventions.DefaultMemberName,
			Policy:     defaultPolicyID,
		},
		DynamoDB: DynamoDB{
			Region: defaultRegion,
		},
	}
}

// Load reads path (optional) over the defaults, then applies environment
// overrides. A .env file in the working directory is loaded first when
// present; variables already set in the process win.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewConfigurationError("config.Load", fmt.Sprintf("invalid YAML in %s: %v", path, err))
		}
	}

	if _, err := os.Stat(defaultDotEnv); err == nil {
		if err := godotenv.Load(defaultDotEnv); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", defaultDotEnv, err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	override(&c.DynamoDB.Region, EnvRegion)
	override(&c.DynamoDB.AccessKey, EnvAccessKey)
	override(&c.DynamoDB.SecretKey, EnvSecretKey)
	override(&c.DynamoDB.Table, EnvTable)
	override(&c.DynamoDB.Endpoint, EnvEndpoint)
	override(&c.Discriminator.MemberName, EnvMemberName)
	override(&c.Discriminator.Policy, EnvPolicy)
	c.Discriminator.Policy = strings.ToLower(strings.TrimSpace(c.Discriminator.Policy))
}

// Validate checks the struct tags and reports the first problem per field.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.NewConfigurationError("config.Validate", err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return errors.NewConfigurationError("config.Validate", strings.Join(msgs, "; "))
}

// Options maps the settings onto polycodec options.
func (c *Config) Options() ([]polycodec.Option, error) {
	policy, err := conventions.ParsePolicy(c.Discriminator.Policy)
	if err != nil {
		return nil, err
	}
	return []polycodec.Option{
		polycodec.WithMemberName(c.Discriminator.MemberName),
		polycodec.WithPolicy(policy),
	}, nil
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	if out.DynamoDB.AccessKey != "" {
		out.DynamoDB.AccessKey = "****"
	}
	if out.DynamoDB.SecretKey != "" {
		out.DynamoDB.SecretKey = "****"
	}
	return &out
}

// YAML renders the configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
