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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/courserec/courserec/base/log"
	"github.com/courserec/courserec/cli"
	"github.com/courserec/courserec/cmd/version"
	"github.com/courserec/courserec/config"
	"github.com/courserec/courserec/dataset"
	"github.com/courserec/courserec/model/tower"
	"github.com/courserec/courserec/recommend"
	"github.com/fatih/color"
	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cliCommand = &cobra.Command{
	Use:   "courserec-cli",
	Short: "Browse courses and recommendations in the terminal.",
	Run: func(cmd *cobra.Command, args []string) {
		// show version
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println(version.BuildInfo())
			return
		}

		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(os.Stderr, cmd.PersistentFlags(), debug)

		// load config
		configPath, _ := cmd.PersistentFlags().GetString("config")
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.Error(err))
		}
		if cmd.PersistentFlags().Changed("courses") {
			conf.Data.CoursesFile, _ = cmd.PersistentFlags().GetString("courses")
		}
		if cmd.PersistentFlags().Changed("model") {
			conf.Model.Name, _ = cmd.PersistentFlags().GetString("model")
		}
		if err = conf.Validate(); err != nil {
			log.Logger().Fatal("invalid config", zap.Error(err))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		service, err := buildService(ctx, conf)
		if err != nil {
			log.Logger().Fatal("failed to build recommender", zap.Error(err))
		}
		browser := cli.NewBrowser(service, conf.CLI, os.Stdin, os.Stdout)
		if err = browser.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Logger().Fatal("failed to run browser", zap.Error(err))
		}
	},
}

func buildService(ctx context.Context, conf *config.Config) (*recommend.Service, error) {
	_, _ = color.New(color.FgCyan).Printf("Loading course data from %s...\n", conf.Data.CoursesFile)
	catalog, err := dataset.LoadCatalog(conf.Data.CoursesFile)
	if err != nil {
		return nil, errors.Trace(err)
	}
	_, _ = color.New(color.FgGreen).Printf("✓ Loaded %d courses\n", catalog.Len())

	fitConfig := tower.NewFitConfig()
	var bar *progressbar.ProgressBar
	if conf.Model.Name == config.ModelTwoTower {
		bar = progressbar.NewOptions(conf.Model.NEpochs,
			progressbar.OptionSetDescription("Training two-tower model"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish())
		fitConfig.SetVerbose(0).SetOnEpoch(func(_ int, loss float32) {
			bar.Describe(fmt.Sprintf("Training two-tower model (loss %.4f)", loss))
			_ = bar.Add(1)
		})
	}
	service, err := recommend.NewService(ctx, conf, catalog, fitConfig)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	_, _ = color.New(color.FgGreen).Printf("✓ Generated %d user-course interactions for %d users\n",
		service.Interactions.Len(), service.Interactions.CountUsers())
	_, _ = color.New(color.FgGreen).Println("✓ Recommendation system initialized and ready!")
	return service, nil
}

func init() {
	log.AddFlags(cliCommand.PersistentFlags())
	cliCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	cliCommand.PersistentFlags().BoolP("version", "v", false, "courserec version")
	cliCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	cliCommand.PersistentFlags().String("courses", "courses.csv", "path of the course catalog")
	cliCommand.PersistentFlags().String("model", config.ModelTwoTower, "recommendation model (two_tower or popular)")
}

func main() {
	if err := cliCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
