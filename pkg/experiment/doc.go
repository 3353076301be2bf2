// Package experiment compares search strategies and heuristics over a batch
// of shuffled boards.
//
// A [Plan], usually loaded from a TOML file, names the board size, the
// number of shuffle moves, how many instances to generate and which
// strategy × heuristic combinations to run. Instance i is shuffled with
// seed Seed+i, so every combination sees the same boards and rows can be
// paired per instance by package stats.
//
//	size       = 3
//	shuffle    = 40
//	instances  = 100
//	seed       = 7
//	strategies = ["greedy", "astar"]
//	heuristics = ["misplaced", "manhattan", "linear-conflict"]
//	workers    = 8
//
//	[output]
//	csv    = "results.csv"
//	sqlite = "results.db"
//
// Results are written as [Row] values to one or more [Sink]s (CSV, SQLite,
// MongoDB) and aggregated into a [Summary] per combination.
package experiment
