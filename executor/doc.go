// Package executor turns command lines into directory operations.
//
// Each command is a name followed by flags, for example
//
//	add -name "Alice" -phone +1-5551234567 -email alice@x.com
//	delete -name Alice -yes
//	restore
//
// Results come back as display text. Malformed command lines return a
// *UsageError; everything else is the directory's own error.
//
// Delete and restore ask through Confirm unless -yes is given. An executor
// without a Confirm function refuses them with database.ErrNotConfirmed.
package executor
