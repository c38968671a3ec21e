package scaffold

import (
	"fmt"
	"strings"

	"github.com/jakoblorz/polycore/internal/models"
)

// DatabaseType is the database family a new project is created for.
type DatabaseType string

const (
	DatabaseSQL    DatabaseType = "sql"
	DatabaseNoSQL  DatabaseType = "nosql"
	DatabaseHybrid DatabaseType = "hybrid"
)

// NeedsORM reports whether the family has a relational side.
func (d DatabaseType) NeedsORM() bool {
	return d == DatabaseSQL || d == DatabaseHybrid
}

// ParseDatabaseType parses sql, nosql or hybrid, case insensitive
func ParseDatabaseType(s string) (DatabaseType, error) {
	d := DatabaseType(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DatabaseSQL, DatabaseNoSQL, DatabaseHybrid:
		return d, nil
	}
	return "", fmt.Errorf("invalid database type: %s (must be sql, nosql or hybrid)", s)
}

// ORM is the SQL ORM of a relational or hybrid project.
type ORM string

const (
	ORMPrisma    ORM = "prisma"
	ORMSequelize ORM = "sequelize"
)

// ParseORM parses prisma or sequelize, case insensitive
func ParseORM(s string) (ORM, error) {
	o := ORM(strings.ToLower(strings.TrimSpace(s)))
	switch o {
	case ORMPrisma, ORMSequelize:
		return o, nil
	}
	return "", fmt.Errorf("invalid ORM: %s (must be prisma or sequelize)", s)
}

// Answers are the choices that shape a new project.
type Answers struct {
	Database DatabaseType
	ORM      ORM
	Git      bool
	Install  bool
}

// DefaultAnswers mirror the defaults of the interactive prompts.
func DefaultAnswers() Answers {
	return Answers{
		Database: DatabaseSQL,
		ORM:      ORMPrisma,
		Git:      true,
		Install:  false,
	}
}

// TemplateName is the database type, suffixed with the ORM when the type
// has a relational side: sql-prisma, nosql, hybrid-sequelize and so on.
func (a Answers) TemplateName() string {
	name := string(a.Database)
	if a.Database.NeedsORM() && a.ORM != "" {
		name += "-" + string(a.ORM)
	}
	return name
}

// Stack returns the stack a project created from these answers is detected as.
func (a Answers) Stack() (models.Stack, bool) {
	return StackForTemplate(a.TemplateName())
}

// StackForTemplate maps a template name back to its stack.
func StackForTemplate(name string) (models.Stack, bool) {
	for _, s := range []models.Stack{
		models.StackPrisma,
		models.StackSequelize,
		models.StackMongoose,
		models.StackHybridPrisma,
		models.StackHybridSequelize,
	} {
		if s.TemplateDir() == name {
			return s, true
		}
	}
	return "", false
}
