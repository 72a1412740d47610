// Package proc enumerates running processes and narrows them down to the
// ones that look like Python interpreters.
//
// Listing is done by shelling out to the platform's process table utility
// ([Strategy]): `ps` on unix, `wmic` or `tasklist` on Windows. Each prints a
// different tabular format, but every strategy reduces to [Row] values of
// pid and full command line. A [Filter] then turns rows into [Candidate]
// values: foreign-owned processes are dropped where ownership is readable,
// only interpreter command lines survive, and an optional expr-lang
// expression ([Where]) narrows the list further. [Search] ranks candidates
// against a fuzzy pattern for the interactive picker.
package proc
