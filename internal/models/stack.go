package models

import "fmt"

// Stack is the persistence stack a generated project was created with.
type Stack string

const (
	StackPrisma          Stack = "prisma"
	StackSequelize       Stack = "sequelize"
	StackMongoose        Stack = "mongoose"
	StackHybridPrisma    Stack = "hybrid-prisma"
	StackHybridSequelize Stack = "hybrid-sequelize"
)

// IsValid checks if the stack is one of the known stacks
func (s Stack) IsValid() bool {
	switch s {
	case StackPrisma, StackSequelize, StackMongoose, StackHybridPrisma, StackHybridSequelize:
		return true
	default:
		return false
	}
}

// IsHybrid reports whether the stack combines a SQL ORM with MongoDB.
func (s Stack) IsHybrid() bool {
	return s == StackHybridPrisma || s == StackHybridSequelize
}

// RelationalVariant returns the SQL ORM a stack uses, or false for the
// document-only stack.
func (s Stack) RelationalVariant() (Variant, bool) {
	switch s {
	case StackPrisma, StackHybridPrisma:
		return VariantPrisma, true
	case StackSequelize, StackHybridSequelize:
		return VariantSequelize, true
	default:
		return "", false
	}
}

// TemplateDir returns the name of the project template `init` copies for this stack.
func (s Stack) TemplateDir() string {
	switch s {
	case StackPrisma:
		return "sql-prisma"
	case StackSequelize:
		return "sql-sequelize"
	case StackMongoose:
		return "nosql"
	case StackHybridPrisma:
		return "hybrid-prisma"
	case StackHybridSequelize:
		return "hybrid-sequelize"
	default:
		return ""
	}
}

// Label returns a human readable description of the stack
func (s Stack) Label() string {
	switch s {
	case StackPrisma:
		return "SQL (Prisma)"
	case StackSequelize:
		return "SQL (Sequelize)"
	case StackMongoose:
		return "NoSQL (MongoDB)"
	case StackHybridPrisma:
		return "Hybrid (Prisma + MongoDB)"
	case StackHybridSequelize:
		return "Hybrid (Sequelize + MongoDB)"
	default:
		return string(s)
	}
}

// String returns the string representation of Stack
func (s Stack) String() string {
	return string(s)
}

// Variant is the concrete backend generated code is written against.
type Variant string

const (
	VariantPrisma    Variant = "prisma"
	VariantSequelize Variant = "sequelize"
	VariantMongoose  Variant = "mongoose"
)

// Variants lists every variant in a stable order.
var Variants = []Variant{VariantPrisma, VariantSequelize, VariantMongoose}

// IsValid checks if the variant is valid
func (v Variant) IsValid() bool {
	switch v {
	case VariantPrisma, VariantSequelize, VariantMongoose:
		return true
	default:
		return false
	}
}

// HasModel reports whether modules for this variant carry their own model
// file. Prisma keeps its schema in prisma/schema.prisma instead.
func (v Variant) HasModel() bool {
	return v == VariantSequelize || v == VariantMongoose
}

// String returns the string representation of Variant
func (v Variant) String() string {
	return string(v)
}

// ParseVariant parses a string into a Variant
func ParseVariant(s string) (Variant, error) {
	v := Variant(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid variant: %s (must be prisma, sequelize, or mongoose)", s)
	}
	return v, nil
}
