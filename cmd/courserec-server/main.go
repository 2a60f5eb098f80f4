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
	"github.com/courserec/courserec/cmd/version"
	"github.com/courserec/courserec/config"
	"github.com/courserec/courserec/dataset"
	"github.com/courserec/courserec/model/tower"
	"github.com/courserec/courserec/recommend"
	"github.com/courserec/courserec/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serverCommand = &cobra.Command{
	Use:   "courserec-server",
	Short: "The web API of the course recommender.",
	Run: func(cmd *cobra.Command, args []string) {
		// show version
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println(version.BuildInfo())
			return
		}

		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(os.Stdout, cmd.PersistentFlags(), debug)

		// load config
		configPath, _ := cmd.PersistentFlags().GetString("config")
		log.Logger().Info("load config", zap.String("config", configPath))
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
		if cmd.PersistentFlags().Changed("port") {
			conf.Server.Port, _ = cmd.PersistentFlags().GetInt("port")
		}
		if err = conf.Validate(); err != nil {
			log.Logger().Fatal("invalid config", zap.Error(err))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// build recommender
		catalog, err := dataset.LoadCatalog(conf.Data.CoursesFile)
		if err != nil {
			log.Logger().Fatal("failed to load courses", zap.Error(err))
		}
		service, err := recommend.NewService(ctx, conf, catalog, tower.NewFitConfig())
		if err != nil {
			log.Logger().Fatal("failed to build recommender", zap.Error(err))
		}

		// start server
		s := server.NewServer(service, conf.Server)
		if err = s.ListenAndServe(ctx); err != nil {
			log.Logger().Fatal("failed to serve", zap.Error(err))
		}
		log.Logger().Info("stop courserec-server successfully")
	},
}

func init() {
	log.AddFlags(serverCommand.PersistentFlags())
	serverCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	serverCommand.PersistentFlags().BoolP("version", "v", false, "courserec version")
	serverCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	serverCommand.PersistentFlags().String("courses", "courses.csv", "path of the course catalog")
	serverCommand.PersistentFlags().String("model", config.ModelTwoTower, "recommendation model (two_tower or popular)")
	serverCommand.PersistentFlags().Int("port", 5000, "port of RESTful API")
}

func main() {
	if err := serverCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
