package schema

import "strings"

// GeneratedOption how the database generates a column value
type GeneratedOption int

const (
	// GeneratedNone the value is always supplied by the caller
	GeneratedNone GeneratedOption = iota
	// GeneratedIdentity the value is generated on insert
	GeneratedIdentity
	// GeneratedComputed the value is generated on insert and update
	GeneratedComputed
)

func (o GeneratedOption) String() string {
	switch o {
	case GeneratedIdentity:
		return "identity"
	case GeneratedComputed:
		return "computed"
	default:
		return "none"
	}
}

// ColumnUsage how a column takes part in statements, every column is selectable
type ColumnUsage struct {
	IsPrimaryKey              bool
	IncludeInInsertStatements bool
	IncludeInUpdateStatements bool
}

var (
	// NotGeneratedPrimaryKey primary key supplied on insert and never updated
	NotGeneratedPrimaryKey = ColumnUsage{IsPrimaryKey: true, IncludeInInsertStatements: true}
	// ComputedPrimaryKey primary key generated by the database
	ComputedPrimaryKey = ColumnUsage{IsPrimaryKey: true}
	// OrdinaryColumn column written by inserts and updates
	OrdinaryColumn = ColumnUsage{IncludeInInsertStatements: true, IncludeInUpdateStatements: true}
	// GeneratedColumn column generated on insert but updatable afterwards
	GeneratedColumn = ColumnUsage{IncludeInUpdateStatements: true}
	// ComputedColumn column never written by statements
	ComputedColumn = ColumnUsage{}
)

// IsPrimaryKey reports whether the property is part of the key of its type.
// explicitKeyExists must say whether any property of the type carries a key marker.
func IsPrimaryKey(explicitKeyExists bool, p PropertyMetadata) bool {
	if explicitKeyExists {
		return p.IsExplicitKey()
	}
	return strings.EqualFold(p.Name, "Id")
}

// ClassifyColumn computes the usage of a property
func ClassifyColumn(explicitKeyExists bool, p PropertyMetadata) ColumnUsage {
	option, hasOption := p.Generated()

	if IsPrimaryKey(explicitKeyExists, p) {
		switch {
		case !p.Writable:
			return ComputedPrimaryKey
		case !hasOption, option == GeneratedNone:
			return NotGeneratedPrimaryKey
		default:
			return ComputedPrimaryKey
		}
	}

	switch {
	case !p.Writable:
		return ComputedColumn
	case !hasOption, option == GeneratedNone:
		return OrdinaryColumn
	case option == GeneratedIdentity:
		return GeneratedColumn
	default:
		return ComputedColumn
	}
}

// HasExplicitKey reports whether any property carries a primary key marker
func HasExplicitKey(props []PropertyMetadata) bool {
	for _, p := range props {
		if !p.IsNotMapped() && p.IsExplicitKey() {
			return true
		}
	}
	return false
}
