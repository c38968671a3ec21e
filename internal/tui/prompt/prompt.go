// Package prompt holds the interactive huh forms of the CLI.
package prompt

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	huh "github.com/charmbracelet/huh"
	"github.com/jakoblorz/polycore/internal/models"
	"github.com/jakoblorz/polycore/internal/scaffold"
	"github.com/jakoblorz/polycore/internal/stack"
	"github.com/jakoblorz/polycore/internal/tui"
)

// ErrAborted is returned when the user cancels a form.
var ErrAborted = errors.New("aborted")

// Preset holds answers already given on the command line. Zero values and
// nil pointers are asked for.
type Preset struct {
	Database scaffold.DatabaseType
	ORM      scaffold.ORM
	Git      *bool
	Install  *bool
}

// Complete reports whether nothing is left to ask.
func (p Preset) Complete() bool {
	if p.Database == "" || p.Git == nil || p.Install == nil {
		return false
	}
	return !p.Database.NeedsORM() || p.ORM != ""
}

// Fill returns the preset with every missing answer set to its default.
func (p Preset) Fill() scaffold.Answers {
	a := scaffold.DefaultAnswers()
	if p.Database != "" {
		a.Database = p.Database
	}
	if p.ORM != "" {
		a.ORM = p.ORM
	}
	if p.Git != nil {
		a.Git = *p.Git
	}
	if p.Install != nil {
		a.Install = *p.Install
	}
	if !a.Database.NeedsORM() {
		a.ORM = ""
	}
	return a
}

// InitFlow asks for the answers init needs.
type InitFlow struct {
	theme *huh.Theme
}

// NewInitFlow constructs an InitFlow with the CLI huh theme.
func NewInitFlow() *InitFlow {
	return &InitFlow{theme: tui.NewHuhTheme()}
}

// Run asks every question the preset leaves open. It returns ErrAborted when
// the user cancels.
func (f *InitFlow) Run(ctx context.Context, projectName string, preset Preset) (scaffold.Answers, error) {
	answers := preset.Fill()
	if preset.Complete() {
		return answers, nil
	}

	database := string(answers.Database)
	orm := string(answers.ORM)
	if orm == "" {
		orm = string(scaffold.ORMPrisma)
	}

	keyMap := huh.NewDefaultKeyMap()
	keyMap.Select.Filter.SetEnabled(false)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose database type").
				Options(
					huh.NewOption("SQL", string(scaffold.DatabaseSQL)),
					huh.NewOption("NoSQL (MongoDB)", string(scaffold.DatabaseNoSQL)),
					huh.NewOption("Hybrid (SQL + MongoDB)", string(scaffold.DatabaseHybrid)),
				).
				Value(&database),
		).
			Description(fmt.Sprintf("Creating %s", projectName)).
			WithHideFunc(func() bool { return preset.Database != "" }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose SQL ORM").
				Options(
					huh.NewOption("Prisma", string(scaffold.ORMPrisma)),
					huh.NewOption("Sequelize", string(scaffold.ORMSequelize)),
				).
				Value(&orm),
		).
			WithHideFunc(func() bool {
				return preset.ORM != "" || !scaffold.DatabaseType(database).NeedsORM()
			}),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Initialize Git repository?").
				Value(&answers.Git),
		).
			WithHideFunc(func() bool { return preset.Git != nil }),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Install dependencies now?").
				Value(&answers.Install),
		).
			WithHideFunc(func() bool { return preset.Install != nil }),
	).
		WithTheme(f.theme).
		WithShowHelp(true).
		WithProgramOptions(tea.WithAltScreen()).
		WithKeyMap(keyMap)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return scaffold.Answers{}, ErrAborted
		}
		return scaffold.Answers{}, err
	}

	parsedDB, err := scaffold.ParseDatabaseType(database)
	if err != nil {
		return scaffold.Answers{}, err
	}
	answers.Database = parsedDB
	answers.ORM = ""
	if parsedDB.NeedsORM() {
		parsedORM, err := scaffold.ParseORM(orm)
		if err != nil {
			return scaffold.Answers{}, err
		}
		answers.ORM = parsedORM
	}

	return answers, nil
}

// DatabaseChooser asks which side of a hybrid project a module targets.
type DatabaseChooser struct {
	theme *huh.Theme
}

// NewDatabaseChooser constructs a DatabaseChooser with the CLI huh theme.
func NewDatabaseChooser() *DatabaseChooser {
	return &DatabaseChooser{theme: tui.NewHuhTheme()}
}

// UseRelational asks "SQL" or "NoSQL". It returns ErrAborted when the user cancels.
func (c *DatabaseChooser) UseRelational(ctx context.Context, s models.Stack) (bool, error) {
	choice := "SQL"

	relational, _ := s.RelationalVariant()
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which database should this module use?").
				Description(s.Label()).
				Options(
					huh.NewOption(fmt.Sprintf("SQL (%s)", relational), "SQL"),
					huh.NewOption("NoSQL (mongoose)", "NoSQL"),
				).
				Value(&choice),
		),
	).
		WithTheme(c.theme).
		WithShowHelp(true)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrAborted
		}
		return false, err
	}

	return stack.ParseDatabaseAnswer(choice)
}
