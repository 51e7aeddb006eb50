package users

// Field names a column of the users table that callers may reference in
// FindOne criteria or Update field sets. The closed enum replaces the
// arbitrary keyword filtering of the system this service descends from.
type Field string

const (
	FieldID             Field = "id"
	FieldEmail          Field = "email"
	FieldHashedPassword Field = "hashed_password"
	FieldSessionID      Field = "session_id"
	FieldResetToken     Field = "reset_token"
)

// fieldOrder fixes the order in which criteria and update clauses are
// rendered, keeping generated SQL deterministic.
var fieldOrder = []Field{FieldID, FieldEmail, FieldHashedPassword, FieldSessionID, FieldResetToken}

var criteriaFields = map[Field]struct{}{
	FieldID:         {},
	FieldEmail:      {},
	FieldSessionID:  {},
	FieldResetToken: {},
}

var updateFields = map[Field]struct{}{
	FieldEmail:          {},
	FieldHashedPassword: {},
	FieldSessionID:      {},
	FieldResetToken:     {},
}
