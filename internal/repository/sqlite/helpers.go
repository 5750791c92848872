package sqlite

import "github.com/Masterminds/squirrel"

// SQLite uses ? placeholders. Every write here is a single statement;
// cross-table cleanup rides on the schema's ON DELETE CASCADE.
var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
