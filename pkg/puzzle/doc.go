// Package puzzle implements the N-puzzle (8-puzzle, 15-puzzle, ...) as a
// state space for package search.
//
// # Boards
//
// A [Board] is an immutable, comparable value: it can be used directly as a
// map key and as the state type of [search.Problem]. Tiles are numbered
// 1..N²-1 and the blank is 0. The goal configuration lists the tiles in
// order with the blank last:
//
//	1 2 3
//	4 5 6
//	7 8 ·
//
// Boards are created with [New], [Parse] or [Goal], and randomized with
// [Shuffle], which walks away from the goal and therefore always yields a
// solvable board.
//
// # Heuristics
//
// Three admissible heuristics are provided and registered by name in
// [Heuristics]:
//
//   - "misplaced": number of tiles not on their goal square
//   - "manhattan": sum of tile distances to their goal squares
//   - "linear-conflict": manhattan plus two moves per pair of tiles that sit
//     in their goal row (or column) in reversed order
//
// # Searching
//
// [NewProblem] adapts a start board, the goal and a heuristic to
// [search.Problem]. Every move costs 1.
package puzzle
