// Package domain models crowd-sourced disaster-damage reports and the
// per-neighborhood reliability output derived from them.
//
// # Data Source
//
// Reports come from a citizen damage-reporting app. Each row is one report
// submitted for one neighborhood of St. Himark at one point in time. The
// Record Loader hands rows over as [RawRecord] values with every column still
// a string; [ParseRecord] validates a row once and produces a [Report].
//
// # Report Conventions
//
// Location:
//
//	A small integer neighborhood code ("1" through "19"). The code is kept as
//	a string; the human-readable name is a rendering concern.
//	A blank location is preserved and grouped under [UnknownNeighborhood].
//
// Time:
//
//	ISO-like timestamps, e.g. "2020-04-06 00:35:00". Layouts without a zone
//	are read as UTC. A value that matches no accepted layout leaves
//	Report.Time zero; it is never coerced to the epoch.
//
// Damage scores:
//
//	Five columns (sewer_and_water, power, roads_and_bridges, medical,
//	buildings), each a severity on a 0–10 scale. Blank cells are missing.
//	Unparseable or non-finite cells are missing and reported as
//	[CodeMalformedScore]. Finite values outside 0–10 are kept: they count as
//	detail but not as completeness.
//
// # Output
//
// The engine emits one [NeighborhoodProfile] per neighborhood: eight
// [MetricResult] values in [Axes] order. The pipeline wraps a run into a
// [Snapshot] alongside the uncertainty summary, hourly damage series and the
// diagnostics stream.
package domain
