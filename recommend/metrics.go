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

package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InteractionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "courserec",
		Subsystem: "pipeline",
		Name:      "interactions_total",
		Help:      "Number of synthetic interactions.",
	})
	UsersTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "courserec",
		Subsystem: "pipeline",
		Name:      "users_total",
		Help:      "Number of synthetic users.",
	})
	EmbeddedCoursesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "courserec",
		Subsystem: "pipeline",
		Name:      "embedded_courses_total",
		Help:      "Number of courses with an embedding.",
	})
	FitSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "courserec",
		Subsystem: "pipeline",
		Name:      "fit_seconds",
		Help:      "Time spent training the model.",
	})
	FitLoss = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "courserec",
		Subsystem: "pipeline",
		Name:      "fit_loss",
		Help:      "Training loss of the last epoch.",
	})
)
