// Copyright 2015 Zalando SE
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"flag"
	"fmt"
	"io/ioutil"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const (
	defaultOutput   = "text"
	defaultLogLevel = "info"

	configFileUsage = "path to a YAML config file, overridden by any flag also given on the command line"
	expectedUsage   = "path to the expected contract-file JSON document"
	actualUsage     = "path to the actual observed contract-file JSON document"
	outputUsage     = "output format: text or json"
	logLevelUsage   = "application log level"
)

// Config is matchcli's flag/YAML configuration, following the teacher's
// flags-then-YAML-overlay pattern: flags are registered against their
// defaults, parsed once, then a config file (if given) is unmarshalled
// over the same struct, then flags are parsed again so that explicit
// command-line flags win over the file.
type Config struct {
	ConfigFile string

	Expected string `yaml:"expected"`
	Actual   string `yaml:"actual"`
	Output   string `yaml:"output"`
	LogLevel string `yaml:"log-level"`
}

func NewConfig() *Config {
	cfg := new(Config)

	flag.StringVar(&cfg.ConfigFile, "config-file", "", configFileUsage)
	flag.StringVar(&cfg.Expected, "expected", "", expectedUsage)
	flag.StringVar(&cfg.Actual, "actual", "", actualUsage)
	flag.StringVar(&cfg.Output, "output", defaultOutput, outputUsage)
	flag.StringVar(&cfg.LogLevel, "log-level", defaultLogLevel, logLevelUsage)

	return cfg
}

func (c *Config) Parse() error {
	flag.Parse()

	if len(flag.Args()) != 0 {
		return fmt.Errorf("invalid arguments: %s", flag.Args())
	}

	if c.ConfigFile != "" {
		yamlFile, err := ioutil.ReadFile(c.ConfigFile)
		if err != nil {
			return fmt.Errorf("invalid config file: %v", err)
		}

		if err := yaml.Unmarshal(yamlFile, c); err != nil {
			return fmt.Errorf("unmarshalling config file error: %v", err)
		}

		flag.Parse()
	}

	if c.Expected == "" || c.Actual == "" {
		return fmt.Errorf("both -expected and -actual are required")
	}

	if c.Output != "text" && c.Output != "json" {
		return fmt.Errorf("invalid -output %q: must be text or json", c.Output)
	}

	return nil
}

func (c *Config) ApplicationLogLevel() (log.Level, error) {
	return log.ParseLevel(c.LogLevel)
}
