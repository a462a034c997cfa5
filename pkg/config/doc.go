// Package config loads and validates window rule configuration files.
//
// A configuration file is a JSON (or YAML) document whose top-level value is
// an array of rule objects:
//
//	[
//	  {"_matches": [["class", "^Firefox$"]], "mark": "browser"},
//	  {"_matches": [["title", ".*Terminal"]], "on_new": ["floating enable"]}
//	]
//
// Loading is all-or-nothing: the first violation aborts the load with a
// [*ValidationError] that names the offending rule and criterion.
package config
