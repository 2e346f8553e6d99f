// Package io provides CSV export and JSON import/export for edge tables.
//
// # CSV
//
// [WriteCSV] and [ExportCSV] write one successor,predecessor row per edge in
// table order, optionally preceded by the iteration label and a header row.
// This is the flat format downstream analysis scripts consume:
//
//	1,1
//	1,5
//	1,21
//
// # JSON
//
// The JSON format carries everything needed to restore a table:
//
//	{
//	  "kind": "predecessor",
//	  "k": 3,
//	  "stats": {"found": 5, "leaves": 0, ...},
//	  "edges": [
//	    {"iteration": 1, "successor": "1", "predecessor": "5"}
//	  ]
//	}
//
// Node values are decimal strings, never JSON numbers, so arbitrarily large
// integers round-trip exactly. The pipeline cache stores tables in this
// format.
//
// # Concurrency
//
// All functions are safe to call concurrently with other readers of the same
// table. Tables returned by [ReadJSON] and [ImportJSON] are independent of
// their input.
package io
