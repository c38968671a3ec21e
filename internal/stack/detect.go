package stack

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jakoblorz/polycore/internal/models"
)

// Dependency names that identify a persistence technology in package.json.
const (
	DepPrisma    = "@prisma/client"
	DepSequelize = "sequelize"
	DepMongoose  = "mongoose"
)

// DetectionError is returned when none of the known persistence
// dependencies are declared.
type DetectionError struct {
	// Declared holds the dependency names that were inspected
	Declared []string
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("could not classify project: none of %s, %s or %s found in dependencies",
		DepPrisma, DepSequelize, DepMongoose)
}

// rule pairs a stack with the dependencies that must all be present.
type rule struct {
	stack    models.Stack
	requires []string
}

// rules are evaluated in order and the first match wins. Hybrid stacks come
// first because their dependency sets also satisfy the single-stack rules.
var rules = []rule{
	{stack: models.StackHybridPrisma, requires: []string{DepPrisma, DepMongoose}},
	{stack: models.StackHybridSequelize, requires: []string{DepSequelize, DepMongoose}},
	{stack: models.StackPrisma, requires: []string{DepPrisma}},
	{stack: models.StackSequelize, requires: []string{DepSequelize}},
	{stack: models.StackMongoose, requires: []string{DepMongoose}},
}

// Detect classifies a project from its declared runtime dependencies
// (dependency name to version).
func Detect(deps map[string]string) (models.Stack, error) {
	for _, r := range rules {
		if hasAll(deps, r.requires) {
			return r.stack, nil
		}
	}

	declared := make([]string, 0, len(deps))
	for name := range deps {
		declared = append(declared, name)
	}
	sort.Strings(declared)

	return "", &DetectionError{Declared: declared}
}

// ResolveVariant picks the backend generated code targets. useRelational is
// only consulted for hybrid stacks.
func ResolveVariant(s models.Stack, useRelational bool) models.Variant {
	relational, ok := s.RelationalVariant()
	if !ok {
		return models.VariantMongoose
	}
	if s.IsHybrid() && !useRelational {
		return models.VariantMongoose
	}
	return relational
}

// ParseDatabaseAnswer maps the hybrid prompt answer ("SQL" / "NoSQL", case
// insensitive) to useRelational.
func ParseDatabaseAnswer(answer string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "sql":
		return true, nil
	case "nosql":
		return false, nil
	default:
		return false, fmt.Errorf("invalid database choice: %s (must be sql or nosql)", answer)
	}
}

func hasAll(deps map[string]string, names []string) bool {
	for _, name := range names {
		if _, ok := deps[name]; !ok {
			return false
		}
	}
	return true
}
