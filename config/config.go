// Copyright 2026 courserec Project Authors
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

package config

import (
	"strings"
	"time"

	"github.com/courserec/courserec/model"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

const (
	ModelTwoTower = "two_tower"
	ModelPopular  = "popular"

	envPrefix = "COURSEREC"
)

// Config is the configuration for the recommender.
type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	Sampler SamplerConfig `mapstructure:"sampler"`
	Model   ModelConfig   `mapstructure:"model"`
	Popular PopularConfig `mapstructure:"popular"`
	Server  ServerConfig  `mapstructure:"server"`
	CLI     CLIConfig     `mapstructure:"cli"`
}

// DataConfig is the configuration of the course catalog.
type DataConfig struct {
	CoursesFile string `mapstructure:"courses_file" validate:"required"`
}

// SamplerConfig is the configuration of synthetic interactions.
type SamplerConfig struct {
	NumUsers          int     `mapstructure:"num_users" validate:"gt=0"`
	MaxSubjects       int     `mapstructure:"max_subjects" validate:"gt=0"`
	CoursesPerSubject int     `mapstructure:"courses_per_subject" validate:"gt=0"`
	MinRating         float64 `mapstructure:"min_rating"`
	MaxRating         float64 `mapstructure:"max_rating" validate:"gtefield=MinRating"`
	RandomState       int64   `mapstructure:"random_state"`
}

// ModelConfig is the configuration of the embedding model.
type ModelConfig struct {
	Name        string  `mapstructure:"name" validate:"oneof=two_tower popular"`
	NEpochs     int     `mapstructure:"n_epochs" validate:"gt=0"`
	BatchSize   int     `mapstructure:"batch_size" validate:"gt=0"`
	Lr          float64 `mapstructure:"lr" validate:"gt=0"`
	NHidden     int     `mapstructure:"n_hidden" validate:"gt=0"`
	InitRange   float64 `mapstructure:"init_range" validate:"gt=0"`
	RandomState int64   `mapstructure:"random_state"`
}

// PopularConfig is the configuration of the popularity ranking. Score and Filter are
// expressions over `course`.
type PopularConfig struct {
	Score  string `mapstructure:"score" validate:"required"`
	Filter string `mapstructure:"filter"`
}

// ServerConfig is the configuration of the web API.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"gte=0,lte=65535"`
	DefaultUser     string        `mapstructure:"default_user" validate:"required"`
	DefaultN        int           `mapstructure:"default_n" validate:"gt=0"`
	SimilarN        int           `mapstructure:"similar_n" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
	CacheSize       uint64        `mapstructure:"cache_size"`
}

// CLIConfig is the configuration of the terminal browser.
type CLIConfig struct {
	PageSize    int    `mapstructure:"page_size" validate:"gt=0"`
	DefaultUser string `mapstructure:"default_user" validate:"required"`
	SimilarN    int    `mapstructure:"similar_n" validate:"gt=0"`
	RecommendN  int    `mapstructure:"recommend_n" validate:"gt=0"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			CoursesFile: "courses.csv",
		},
		Sampler: SamplerConfig{
			NumUsers:          1000,
			MaxSubjects:       2,
			CoursesPerSubject: 3,
			MinRating:         3,
			MaxRating:         5,
			RandomState:       42,
		},
		Model: ModelConfig{
			Name:        ModelTwoTower,
			NEpochs:     5,
			BatchSize:   256,
			Lr:          0.001,
			NHidden:     8,
			InitRange:   0.05,
			RandomState: 42,
		},
		Popular: PopularConfig{
			Score: "course.NumSubscribers",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			DefaultUser:     "user_0",
			DefaultN:        10,
			SimilarN:        5,
			ShutdownTimeout: 10 * time.Second,
			CacheTTL:        10 * time.Minute,
			CacheSize:       4096,
		},
		CLI: CLIConfig{
			PageSize:    10,
			DefaultUser: "user_0",
			SimilarN:    5,
			RecommendN:  10,
		},
	}
}

// GetParams converts the model section into hyper-parameters.
func (c *ModelConfig) GetParams() model.Params {
	return model.Params{
		model.NEpochs:     c.NEpochs,
		model.BatchSize:   c.BatchSize,
		model.Lr:          c.Lr,
		model.NHidden:     c.NHidden,
		model.InitRange:   c.InitRange,
		model.RandomState: c.RandomState,
	}
}

func setDefault(v *viper.Viper) {
	defaultConfig := GetDefaultConfig()
	// [data]
	v.SetDefault("data.courses_file", defaultConfig.Data.CoursesFile)
	// [sampler]
	v.SetDefault("sampler.num_users", defaultConfig.Sampler.NumUsers)
	v.SetDefault("sampler.max_subjects", defaultConfig.Sampler.MaxSubjects)
	v.SetDefault("sampler.courses_per_subject", defaultConfig.Sampler.CoursesPerSubject)
	v.SetDefault("sampler.min_rating", defaultConfig.Sampler.MinRating)
	v.SetDefault("sampler.max_rating", defaultConfig.Sampler.MaxRating)
	v.SetDefault("sampler.random_state", defaultConfig.Sampler.RandomState)
	// [model]
	v.SetDefault("model.name", defaultConfig.Model.Name)
	v.SetDefault("model.n_epochs", defaultConfig.Model.NEpochs)
	v.SetDefault("model.batch_size", defaultConfig.Model.BatchSize)
	v.SetDefault("model.lr", defaultConfig.Model.Lr)
	v.SetDefault("model.n_hidden", defaultConfig.Model.NHidden)
	v.SetDefault("model.init_range", defaultConfig.Model.InitRange)
	v.SetDefault("model.random_state", defaultConfig.Model.RandomState)
	// [popular]
	v.SetDefault("popular.score", defaultConfig.Popular.Score)
	v.SetDefault("popular.filter", defaultConfig.Popular.Filter)
	// [server]
	v.SetDefault("server.host", defaultConfig.Server.Host)
	v.SetDefault("server.port", defaultConfig.Server.Port)
	v.SetDefault("server.default_user", defaultConfig.Server.DefaultUser)
	v.SetDefault("server.default_n", defaultConfig.Server.DefaultN)
	v.SetDefault("server.similar_n", defaultConfig.Server.SimilarN)
	v.SetDefault("server.shutdown_timeout", defaultConfig.Server.ShutdownTimeout)
	v.SetDefault("server.cache_ttl", defaultConfig.Server.CacheTTL)
	v.SetDefault("server.cache_size", defaultConfig.Server.CacheSize)
	// [cli]
	v.SetDefault("cli.page_size", defaultConfig.CLI.PageSize)
	v.SetDefault("cli.default_user", defaultConfig.CLI.DefaultUser)
	v.SetDefault("cli.similar_n", defaultConfig.CLI.SimilarN)
	v.SetDefault("cli.recommend_n", defaultConfig.CLI.RecommendN)
}

// LoadConfig loads configuration from a TOML file. An empty path loads the defaults.
// Every key can be overridden by an environment variable such as COURSEREC_SERVER_PORT.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefault(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Annotatef(err, "read config %s", path)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

// Validate checks the value ranges of the configuration.
func (config *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.NewNotValid(err, "invalid config")
	}
	return nil
}
