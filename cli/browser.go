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
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/courserec/courserec/base/log"
	"github.com/courserec/courserec/config"
	"github.com/courserec/courserec/dataset"
	"github.com/courserec/courserec/recommend"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// State is a screen of the browser.
type State int

const (
	MainMenu State = iota
	BrowseAll
	BrowseBySubject
	Recommendations
	CourseList
	ViewDetails
	ChangeUser
	Exit
)

var stateNames = []string{
	"MainMenu",
	"BrowseAll",
	"BrowseBySubject",
	"Recommendations",
	"CourseList",
	"ViewDetails",
	"ChangeUser",
	"Exit",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
	return stateNames[s]
}

// Browser is a line-oriented course browser driven by a finite-state machine.
// Every state handler renders its screen, reads at most one answer and returns
// the next state. End of input moves to Exit.
type Browser struct {
	service *recommend.Service
	config  config.CLIConfig
	scanner *bufio.Scanner
	lines   chan string // answers read by the input goroutine, closed at end of input
	done    <-chan struct{}
	out     io.Writer
	rng     *rand.Rand

	state State
	user  string

	// course list shared by BrowseAll, BrowseBySubject and Recommendations
	title  string
	list   []dataset.Course
	offset int

	// course ids of the details screens, innermost last
	details []string
}

// NewBrowser creates a browser reading answers from in and writing screens to out.
func NewBrowser(service *recommend.Service, cfg config.CLIConfig, in io.Reader, out io.Writer) *Browser {
	return &Browser{
		service: service,
		config:  cfg,
		scanner: bufio.NewScanner(in),
		out:     out,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		state:   MainMenu,
		user:    cfg.DefaultUser,
	}
}

// SetRandom replaces the generator used to pick random users.
func (b *Browser) SetRandom(rng *rand.Rand) *Browser {
	b.rng = rng
	return b
}

// State returns the current state.
func (b *Browser) State() State {
	return b.state
}

// User returns the current user.
func (b *Browser) User() string {
	return b.user
}

// Run steps the machine until Exit or until ctx is done.
func (b *Browser) Run(ctx context.Context) error {
	b.done = ctx.Done()
	defer func() { b.done = nil }()
	for b.state != Exit {
		if err := ctx.Err(); err != nil {
			return errors.Trace(err)
		}
		b.Step()
	}
	if err := ctx.Err(); err != nil {
		return errors.Trace(err)
	}
	printHeader(b.out, "Thank you for using the Course Recommender!")
	return nil
}

// Step runs the handler of the current state and moves to the state it returns.
func (b *Browser) Step() State {
	var next State
	switch b.state {
	case MainMenu:
		next = b.mainMenu()
	case BrowseAll:
		next = b.browseAll()
	case BrowseBySubject:
		next = b.browseBySubject()
	case Recommendations:
		next = b.recommendations()
	case CourseList:
		next = b.courseList()
	case ViewDetails:
		next = b.viewDetails()
	case ChangeUser:
		next = b.changeUser()
	default:
		next = Exit
	}
	if next != b.state {
		log.Logger().Debug("browser transition",
			zap.Stringer("from", b.state), zap.Stringer("to", next))
	}
	b.state = next
	return next
}

// prompt waits for the next answer. It gives up at end of input or when the
// context passed to Run is done.
func (b *Browser) prompt(text string) (string, bool) {
	_, _ = fmt.Fprint(b.out, text)
	select {
	case line, ok := <-b.input():
		if !ok {
			_, _ = fmt.Fprintln(b.out)
			return "", false
		}
		return strings.TrimSpace(line), true
	case <-b.done:
		_, _ = fmt.Fprintln(b.out)
		return "", false
	}
}

// input starts the goroutine reading answers on first use.
func (b *Browser) input() <-chan string {
	if b.lines == nil {
		lines := make(chan string)
		b.lines = lines
		go func() {
			defer close(lines)
			for b.scanner.Scan() {
				lines <- b.scanner.Text()
			}
		}()
	}
	return b.lines
}

func (b *Browser) invalid() {
	printError(b.out, "Invalid choice. Please try again.")
}

// choose parses a 1-based number within [1, n].
func choose(answer string, n int) (int, bool) {
	i, err := strconv.Atoi(answer)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}

func (b *Browser) mainMenu() State {
	printHeader(b.out, "Main Menu")
	_, _ = infoColor.Fprintf(b.out, "Current User: %s\n\n", b.user)
	for _, option := range []string{
		"[1] Browse All Courses",
		"[2] Browse by Subject",
		"[3] Course Recommendations for You",
		"[4] Change User",
		"[5] Exit",
	} {
		_, _ = optionColor.Fprintln(b.out, option)
	}
	answer, ok := b.prompt("\nEnter your choice (1-5): ")
	if !ok {
		return Exit
	}
	switch answer {
	case "1":
		return BrowseAll
	case "2":
		return BrowseBySubject
	case "3":
		return Recommendations
	case "4":
		return ChangeUser
	case "5":
		return Exit
	}
	b.invalid()
	return MainMenu
}

func (b *Browser) setList(title string, courses []dataset.Course) State {
	b.title = title
	b.list = courses
	b.offset = 0
	b.details = b.details[:0]
	return CourseList
}

func (b *Browser) browseAll() State {
	return b.setList("Browse All Courses", b.service.Catalog.Popular())
}

func (b *Browser) browseBySubject() State {
	subjects := b.service.Catalog.SortedSubjects()
	printHeader(b.out, "Browse by Subject")
	for i, subject := range subjects {
		_, _ = optionColor.Fprintf(b.out, "[%d] %s\n", i+1, subject)
	}
	_, _ = optionColor.Fprintln(b.out, "\n[B] Back to main menu")
	answer, ok := b.prompt("\nEnter a subject number or B to go back: ")
	if !ok {
		return Exit
	}
	if strings.EqualFold(answer, "B") {
		return MainMenu
	}
	i, ok := choose(answer, len(subjects))
	if !ok {
		b.invalid()
		return BrowseBySubject
	}
	courses := b.service.Catalog.BySubject(subjects[i])
	dataset.SortByPopularity(courses)
	return b.setList(subjects[i], courses)
}

func (b *Browser) recommendations() State {
	recommended := b.service.Recommender.Recommend(b.user, b.config.RecommendN)
	return b.setList("Recommended Courses for You", recommended)
}

func (b *Browser) pageEnd() int {
	return min(b.offset+b.config.PageSize, len(b.list))
}

func (b *Browser) courseList() State {
	printHeader(b.out, b.title)
	end := b.pageEnd()
	if len(b.list) == 0 {
		printError(b.out, "No courses found.")
	} else if err := renderPage(b.out, b.list, b.offset, end); err != nil {
		log.Logger().Error("failed to render courses", zap.Error(err))
	}

	_, _ = fmt.Fprintln(b.out)
	printRule(b.out)
	var controls []string
	if b.offset > 0 {
		controls = append(controls, "[P] Previous page")
	}
	if end < len(b.list) {
		controls = append(controls, "[N] Next page")
	}
	controls = append(controls, "[B] Back to main menu")
	_, _ = controlColor.Fprintln(b.out, strings.Join(controls, " | "))
	printRule(b.out)

	answer, ok := b.prompt("\nEnter a course number to view details, P/N for pagination, or B to go back: ")
	if !ok {
		return Exit
	}
	switch strings.ToUpper(answer) {
	case "B":
		return MainMenu
	case "P":
		if b.offset > 0 {
			b.offset = max(0, b.offset-b.config.PageSize)
			return CourseList
		}
	case "N":
		if end < len(b.list) {
			b.offset = end
			return CourseList
		}
	default:
		if i, ok := choose(answer, len(b.list)); ok {
			b.details = append(b.details, b.list[i].CourseId)
			return ViewDetails
		}
	}
	b.invalid()
	return CourseList
}

func (b *Browser) viewDetails() State {
	if len(b.details) == 0 {
		return CourseList
	}
	courseId := b.details[len(b.details)-1]
	course, _ := b.service.Catalog.Get(courseId)
	similar := b.service.Recommender.Similar(courseId, b.config.SimilarN)
	renderDetails(b.out, course, similar)

	answer, ok := b.prompt("\nEnter your choice: ")
	if !ok {
		return Exit
	}
	switch strings.ToUpper(answer) {
	case "B":
		b.details = b.details[:len(b.details)-1]
		if len(b.details) == 0 {
			return CourseList
		}
		return ViewDetails
	case "V":
		answer, ok = b.prompt("Enter the number of the similar course to view: ")
		if !ok {
			return Exit
		}
		if i, ok := choose(answer, len(similar)); ok {
			b.details = append(b.details, similar[i].CourseId)
			return ViewDetails
		}
	}
	printError(b.out, "Invalid choice.")
	return ViewDetails
}

func (b *Browser) changeUser() State {
	printHeader(b.out, "Change User")
	users := b.service.Users()
	_, _ = fmt.Fprintln(b.out, "Enter a user ID or leave blank to use a random user.")
	if len(users) > 0 {
		_, _ = fmt.Fprintf(b.out, "Format: user_X where X is a number between 0 and %d\n", len(users)-1)
	}
	answer, ok := b.prompt("\nUser ID: ")
	if !ok {
		return Exit
	}
	switch {
	case answer == "":
		if user, ok := b.service.RandomUser(b.rng); ok {
			b.user = user
			_, _ = okColor.Fprintf(b.out, "Selected random user: %s\n", user)
			return MainMenu
		}
		b.user = b.config.DefaultUser
		printError(b.out, fmt.Sprintf("No users. Using default %s.", b.user))
	case b.service.IsUser(answer):
		b.user = answer
		_, _ = okColor.Fprintf(b.out, "User changed to: %s\n", answer)
	default:
		b.user = b.config.DefaultUser
		printError(b.out, fmt.Sprintf("Invalid user ID. Using default %s.", b.user))
	}
	return MainMenu
}
