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

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/courserec/courserec/dataset"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

const ruleWidth = 80

var (
	titleColor   = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	okColor      = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	optionColor  = color.New(color.FgYellow)
	controlColor = color.New(color.FgBlue)
)

func formatPrice(price float64) string {
	return "$" + strconv.FormatFloat(price, 'f', -1, 64)
}

func printHeader(w io.Writer, text string) {
	rule := strings.Repeat("=", ruleWidth)
	padding := max(0, (ruleWidth-len(text))/2)
	_, _ = fmt.Fprintf(w, "\n%s\n", rule)
	_, _ = titleColor.Fprintln(w, strings.Repeat(" ", padding)+text)
	_, _ = fmt.Fprintf(w, "%s\n\n", rule)
}

func printRule(w io.Writer) {
	_, _ = fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
}

func printError(w io.Writer, message string) {
	_, _ = errorColor.Fprintln(w, message)
}

// renderPage prints courses[start:end] as a table numbered from start+1.
func renderPage(w io.Writer, courses []dataset.Course, start, end int) error {
	_, _ = infoColor.Fprintf(w, "Showing courses %d-%d of %d\n", start+1, end, len(courses))
	table := tablewriter.NewWriter(w)
	table.Header("#", "Title", "Subject", "Level", "Price", "ID")
	for i := start; i < end; i++ {
		course := courses[i]
		if err := table.Append([]string{
			strconv.Itoa(i + 1),
			course.CourseTitle,
			course.Subject,
			course.Level,
			formatPrice(course.Price),
			course.CourseId,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// renderDetails prints a course followed by its numbered similar courses.
func renderDetails(w io.Writer, course dataset.Course, similar []dataset.Course) {
	printHeader(w, "Course Details: "+course.CourseTitle)
	field := func(name, value string) {
		_, _ = infoColor.Fprintf(w, "%s:", name)
		_, _ = fmt.Fprintf(w, " %s\n", value)
	}
	field("Subject", course.Subject)
	field("Level", course.Level)
	field("Price", formatPrice(course.Price))
	field("Subscribers", strconv.Itoa(course.NumSubscribers))
	if course.Description != "" {
		_, _ = infoColor.Fprintln(w, "\nDescription:")
		_, _ = fmt.Fprintln(w, course.Description)
	}

	_, _ = optionColor.Fprintln(w, "\nSimilar Courses:")
	if len(similar) == 0 {
		_, _ = fmt.Fprintln(w, "No similar courses found.")
	}
	for i, s := range similar {
		_, _ = fmt.Fprintf(w, "\n%d. ", i+1)
		_, _ = okColor.Fprintln(w, s.CourseTitle)
		_, _ = fmt.Fprintf(w, "   Subject: %s | Level: %s | Price: %s\n", s.Subject, s.Level, formatPrice(s.Price))
	}
	_, _ = fmt.Fprintln(w)
	printRule(w)
	_, _ = controlColor.Fprintln(w, "[V] View a similar course | [B] Back to previous menu")
	printRule(w)
}
