// Package schematext renders catalog metadata as text and parses it back.
//
// Two grammars are supported. The verbose form is indented and line
// oriented:
//
//	Schema: demo
//	  Table: users
//	     Column:  id | Type: integer
//	     Column:  name | Type: text
//
// The compact form has one line per table and is meant to be embedded in
// prompts verbatim:
//
//	demo.users (id integer, name text)
//
// Parse reads the verbose form, from any source, and never fails: lines it
// cannot use are skipped. Compact(Parse(Verbose(r))) equals Compact(r) for
// any result whose names and types are non-empty, have no line breaks, no
// leading or trailing blanks and no " | Type: ". A column with an empty name
// or type loses the blank around the separator when its line is trimmed, so
// Parse skips it.
package schematext
